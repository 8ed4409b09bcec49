package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/srcmapaudit/lib/fsext"
)

// ErrInvalidArtifact is wrapped by every error caused by malformed input.
var ErrInvalidArtifact = errors.New("invalid artifact")

// DefaultSourceMapsPath is where the source map entries live in a full
// artifacts dump.
const DefaultSourceMapsPath = SourceMapsArtifact

// Format of an artifacts file.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromFilename guesses the format from the file extension, defaulting
// to JSON.
func FormatFromFilename(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

//nolint:gochecknoglobals
var finalURLPaths = []string{"URL.finalDisplayedUrl", "URL.finalUrl", "URL.mainDocumentUrl"}

// Decode reads artifacts from data. The document is either a bare list of
// source map entries or an object holding them at path, which is a gjson
// path. An empty path means DefaultSourceMapsPath.
func Decode(data []byte, format Format, path string) (*Artifacts, error) {
	if format == FormatYAML {
		var err error
		if data, err = yamlToJSON(data); err != nil {
			return nil, err
		}
	}
	if path == "" {
		path = DefaultSourceMapsPath
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not a valid JSON document", ErrInvalidArtifact)
	}

	arts := &Artifacts{}
	doc := gjson.ParseBytes(data)
	list := doc
	switch {
	case doc.IsArray():
	case doc.IsObject():
		list = doc.Get(path)
		if !list.Exists() {
			return nil, fmt.Errorf("%w: no %q found in the artifacts", ErrInvalidArtifact, path)
		}
		if !list.IsArray() {
			return nil, fmt.Errorf("%w: %q is a %s, expected a list", ErrInvalidArtifact, path, list.Type)
		}
		for _, p := range finalURLPaths {
			if u := doc.Get(p); u.Type == gjson.String {
				arts.FinalURL = null.StringFrom(u.String())
				break
			}
		}
	default:
		return nil, fmt.Errorf("%w: expected a list or an object, got %s", ErrInvalidArtifact, doc.Type)
	}

	entries := make([]SourceMapEntry, 0, len(list.Array()))
	if err := json.Unmarshal([]byte(list.Raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidArtifact, i, err)
		}
	}
	arts.SourceMaps = entries
	return arts, nil
}

func validateEntry(e SourceMapEntry) error {
	if e.ScriptURL == "" {
		return errors.New("scriptUrl is required")
	}
	switch {
	case e.Map != nil && e.ErrorMessage.Valid:
		return fmt.Errorf("%s has both a map and an errorMessage", e.ScriptURL)
	case e.Map == nil && !e.ErrorMessage.Valid:
		return fmt.Errorf("%s has neither a map nor an errorMessage", e.ScriptURL)
	}
	return nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return out, nil
}

// Load reads and decodes the artifacts file at filename from fs.
func Load(fs fsext.Fs, filename, path string) (*Artifacts, error) {
	isDir, err := fsext.IsDir(fs, filename)
	if err == nil && isDir {
		return nil, fmt.Errorf("%s is a directory, expected an artifacts file", filename)
	}
	data, err := fsext.ReadFile(fs, filename)
	if err != nil {
		return nil, fmt.Errorf("couldn't read artifacts: %w", err)
	}
	return Decode(data, FormatFromFilename(filename), path)
}
