// Package artifacts holds the facts collected about an audited page before any
// audit runs, and knows how to read them back from an artifacts dump.
package artifacts

import (
	"gopkg.in/guregu/null.v3"
)

// SourceMap is an already parsed source map. Only the fields audits look at
// are kept; mappings are carried along verbatim and never interpreted here.
type SourceMap struct {
	Version        int           `json:"version"`
	File           string        `json:"file,omitempty"`
	SourceRoot     string        `json:"sourceRoot,omitempty"`
	Sources        []string      `json:"sources"`
	SourcesContent []null.String `json:"sourcesContent,omitempty"`
	Names          []string      `json:"names,omitempty"`
	Mappings       string        `json:"mappings"`
}

// MissingSourcesContent returns how many of the map's sources have no
// original text attached. An absent sourcesContent counts every source.
func (sm *SourceMap) MissingSourcesContent() int {
	missing := 0
	for i := range sm.Sources {
		if i >= len(sm.SourcesContent) {
			missing++
			continue
		}
		if c := sm.SourcesContent[i]; !c.Valid || c.String == "" {
			missing++
		}
	}
	return missing
}

// SourceMapEntry is the lookup result of the source map of a single script.
// Exactly one of Map and ErrorMessage is set.
type SourceMapEntry struct {
	ScriptURL    string      `json:"scriptUrl"`
	SourceMapURL null.String `json:"sourceMapUrl"`
	Map          *SourceMap  `json:"map,omitempty"`
	ErrorMessage null.String `json:"errorMessage"`
}

// Loaded reports whether the source map of the script was loaded and parsed.
func (e SourceMapEntry) Loaded() bool {
	return e.Map != nil
}

// Artifacts is everything gathered about one audited page.
type Artifacts struct {
	// FinalURL is the page URL, when the dump recorded one.
	FinalURL   null.String
	SourceMaps []SourceMapEntry
}

// Has reports whether the named artifact is present.
func (a *Artifacts) Has(name string) bool {
	if a == nil {
		return false
	}
	switch name {
	case SourceMapsArtifact:
		return a.SourceMaps != nil
	case URLArtifact:
		return a.FinalURL.Valid
	default:
		return false
	}
}

// Names of the artifacts audits can require.
const (
	SourceMapsArtifact = "SourceMaps"
	URLArtifact        = "URL"
)
