// Package validsourcemaps implements the audit reporting scripts whose source
// maps failed to load or lack the original sources text.
package validsourcemaps

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/srcmapaudit/internal/audit"
	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
	"github.com/liuxd6825/srcmapaudit/lib/artifacts"
)

// ID identifies the audit.
const ID = "valid-source-maps"

const (
	titleID        = "validsourcemaps.title"
	failureTitleID = "validsourcemaps.failureTitle"
	descriptionID  = "validsourcemaps.description"
	columnMapURLID = "validsourcemaps.columnMapURL"
)

func init() {
	i18n.Register(i18n.DefaultLocale, i18n.Messages{
		titleID:        "Page has valid source maps",
		failureTitleID: "Page has missing or incomplete source maps",
		descriptionID: "Source maps translate minified code to the original source code. " +
			"This helps developers debug in production. In addition, auditing tools are able to " +
			"provide further insights. Consider deploying source maps to take advantage of these benefits. " +
			"[Learn more](https://developer.chrome.com/docs/devtools/javascript/source-maps).",
		columnMapURLID: "Map URL",
	})
	i18n.Register("de", i18n.Messages{
		titleID:        "Seite hat gültige Source Maps",
		failureTitleID: "Seite hat fehlende oder unvollständige Source Maps",
		columnMapURLID: "Map-URL",
	})
}

// Table column keys.
const (
	KeyScriptURL    = "scriptUrl"
	KeySourceMapURL = "sourceMapUrl"
	KeyError        = "error"
)

//nolint:gochecknoglobals
var headings = []audit.Heading{
	{Key: KeyScriptURL, ValueType: audit.ValueTypeURL, Label: i18n.ColumnURL},
	{Key: KeySourceMapURL, ValueType: audit.ValueTypeURL, Label: columnMapURLID},
	{Key: KeyError, ValueType: audit.ValueTypeCode, Label: i18n.ColumnError},
}

// Row is a single finding about the source map of one script.
type Row struct {
	ScriptURL    string
	SourceMapURL null.String
	Error        string
}

func (r Row) item() audit.Item {
	item := audit.Item{
		KeyScriptURL:    r.ScriptURL,
		KeySourceMapURL: nil,
		KeyError:        r.Error,
	}
	if r.SourceMapURL.Valid {
		item[KeySourceMapURL] = r.SourceMapURL.String
	}
	return item
}

// Rows returns the findings for entries: one per map that failed to load,
// followed by one per loaded map with missing sourcesContent, then sorted by
// script URL in descending order.
func Rows(entries []artifacts.SourceMapEntry) []Row {
	var rows []Row
	for _, e := range entries {
		if !e.Loaded() {
			rows = append(rows, Row{ScriptURL: e.ScriptURL, SourceMapURL: e.SourceMapURL, Error: e.ErrorMessage.String})
		}
	}
	for _, e := range entries {
		if !e.Loaded() {
			continue
		}
		if missing := e.Map.MissingSourcesContent(); missing > 0 {
			rows = append(rows, Row{
				ScriptURL:    e.ScriptURL,
				SourceMapURL: e.SourceMapURL,
				Error:        fmt.Sprintf("missing %d items in .sourcesContent", missing),
			})
		}
	}

	col := collate.New(language.English)
	sort.SliceStable(rows, func(i, j int) bool {
		return col.CompareString(rows[j].ScriptURL, rows[i].ScriptURL) < 0
	})
	return rows
}

// Evaluate scores entries. It passes as not applicable when there is nothing
// to report and fails as soon as a single row exists.
func Evaluate(entries []artifacts.SourceMapEntry) audit.Product {
	rows := Rows(entries)
	if len(rows) == 0 {
		return audit.Product{Score: 1, NotApplicable: true}
	}

	items := make([]audit.Item, len(rows))
	for i, r := range rows {
		items[i] = r.item()
	}
	return audit.Product{Score: 0, Details: audit.NewTable(headings, items)}
}

// Audit is the valid-source-maps audit.
type Audit struct{}

var _ audit.Audit = (*Audit)(nil)

// New returns the audit.
func New() *Audit {
	return &Audit{}
}

// Meta describes the audit.
func (*Audit) Meta() audit.Meta {
	return audit.Meta{
		ID:                ID,
		Title:             titleID,
		FailureTitle:      failureTitleID,
		Description:       descriptionID,
		RequiredArtifacts: []string{artifacts.SourceMapsArtifact},
	}
}

// Audit evaluates the source maps of arts.
func (*Audit) Audit(arts *artifacts.Artifacts) (audit.Product, error) {
	return Evaluate(arts.SourceMaps), nil
}
