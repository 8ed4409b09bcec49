// Package report renders audit results for humans (text) and machines (JSON,
// YAML).
package report

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/srcmapaudit/internal/audit"
)

// Document is everything a renderer writes out.
type Document struct {
	FinalURL null.String
	Locale   string
	Results  []audit.Result
	Summary  audit.Summary
}

// NewDocument builds a document from results, computing the summary.
func NewDocument(finalURL null.String, locale string, results []audit.Result) Document {
	return Document{
		FinalURL: finalURL,
		Locale:   locale,
		Results:  results,
		Summary:  audit.Summarize(results),
	}
}

// Renderer writes a document to w.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// Options tune the text renderer.
type Options struct {
	NoColor bool
	// Width is the terminal width URL cells are truncated to fit in. Zero
	// disables truncation.
	Width int
}

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// New returns the renderer for format.
func New(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return newTextRenderer(opts), nil
	case FormatJSON:
		return jsonRenderer{}, nil
	case FormatYAML, "yml":
		return yamlRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q, supported formats are %v", format, Formats())
	}
}
