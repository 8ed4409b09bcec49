package validsourcemaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/srcmapaudit/internal/audit"
	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
	"github.com/liuxd6825/srcmapaudit/lib/artifacts"
)

func contents(values ...string) []null.String {
	out := make([]null.String, len(values))
	for i, v := range values {
		out[i] = null.StringFrom(v)
	}
	return out
}

func loadError(scriptURL, mapURL, msg string) artifacts.SourceMapEntry {
	e := artifacts.SourceMapEntry{ScriptURL: scriptURL, ErrorMessage: null.StringFrom(msg)}
	if mapURL != "" {
		e.SourceMapURL = null.StringFrom(mapURL)
	}
	return e
}

func loaded(scriptURL string, sources []string, content []null.String) artifacts.SourceMapEntry {
	return artifacts.SourceMapEntry{
		ScriptURL: scriptURL,
		Map:       &artifacts.SourceMap{Version: 3, Sources: sources, SourcesContent: content},
	}
}

func TestEvaluateNoEntries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, audit.Product{Score: 1, NotApplicable: true}, Evaluate(nil))
	assert.Equal(t, audit.Product{Score: 1, NotApplicable: true}, Evaluate([]artifacts.SourceMapEntry{}))
}

func TestEvaluateExamples(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		entries []artifacts.SourceMapEntry
		want    audit.Product
	}{
		{
			name:    "load error",
			entries: []artifacts.SourceMapEntry{loadError("s1.js", "s1.js.map", "404")},
			want: audit.Product{
				Score: 0,
				Details: audit.NewTable(headings, []audit.Item{
					{KeyScriptURL: "s1.js", KeySourceMapURL: "s1.js.map", KeyError: "404"},
				}),
			},
		},
		{
			name:    "missing content",
			entries: []artifacts.SourceMapEntry{loaded("s2.js", []string{"a.ts", "b.ts"}, contents("contentA", ""))},
			want: audit.Product{
				Score: 0,
				Details: audit.NewTable(headings, []audit.Item{
					{KeyScriptURL: "s2.js", KeySourceMapURL: nil, KeyError: "missing 1 items in .sourcesContent"},
				}),
			},
		},
		{
			name:    "complete map",
			entries: []artifacts.SourceMapEntry{loaded("s3.js", []string{"a.ts"}, contents("contentA"))},
			want:    audit.Product{Score: 1, NotApplicable: true},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Evaluate(tc.entries))
		})
	}
}

func TestRowsMissingCount(t *testing.T) {
	t.Parallel()

	sources := []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts"}
	testCases := []struct {
		name    string
		content []null.String
		want    string
	}{
		{name: "two empty", content: contents("a", "", "c", "", "e"), want: "missing 2 items in .sourcesContent"},
		{name: "too short", content: contents("a", "b", "c"), want: "missing 2 items in .sourcesContent"},
		{
			name:    "null entries",
			content: []null.String{null.StringFrom("a"), {}, null.StringFrom("c"), {}, null.StringFrom("e")},
			want:    "missing 2 items in .sourcesContent",
		},
		{name: "absent", content: nil, want: "missing 5 items in .sourcesContent"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rows := Rows([]artifacts.SourceMapEntry{loaded("bundle.js", sources, tc.content)})
			require.Len(t, rows, 1)
			assert.Equal(t, tc.want, rows[0].Error)
		})
	}
}

func TestRowsOneRowPerLoadError(t *testing.T) {
	t.Parallel()

	entries := []artifacts.SourceMapEntry{
		loadError("https://example.com/1.js", "", "Failed fetching source map (404)"),
		loaded("https://example.com/2.js", []string{"a.ts"}, contents("ok")),
		loadError("https://example.com/3.js", "https://example.com/3.js.map", "Unexpected token < in JSON"),
	}

	rows := Rows(entries)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		ScriptURL:    "https://example.com/3.js",
		SourceMapURL: null.StringFrom("https://example.com/3.js.map"),
		Error:        "Unexpected token < in JSON",
	}, rows[0])
	assert.Equal(t, Row{
		ScriptURL: "https://example.com/1.js",
		Error:     "Failed fetching source map (404)",
	}, rows[1])

	product := Evaluate(entries)
	assert.Equal(t, 0.0, product.Score)
	assert.False(t, product.NotApplicable)
}

func TestRowsDescendingOrder(t *testing.T) {
	t.Parallel()

	entries := []artifacts.SourceMapEntry{
		loadError("https://a.com/x.js", "", "404"),
		loaded("https://c.com/z.js", []string{"z.ts"}, nil),
		loadError("https://b.com/y.js", "", "404"),
	}

	rows := Rows(entries)
	require.Len(t, rows, 3)
	assert.Equal(t, "https://c.com/z.js", rows[0].ScriptURL)
	assert.Equal(t, "https://b.com/y.js", rows[1].ScriptURL)
	assert.Equal(t, "https://a.com/x.js", rows[2].ScriptURL)
}

func TestRowsSameScriptKeepsOrder(t *testing.T) {
	t.Parallel()

	// load errors come before content findings for equal URLs
	entries := []artifacts.SourceMapEntry{
		loaded("same.js", []string{"a.ts"}, nil),
		loadError("same.js", "", "404"),
	}

	rows := Rows(entries)
	require.Len(t, rows, 2)
	assert.Equal(t, "404", rows[0].Error)
	assert.Equal(t, "missing 1 items in .sourcesContent", rows[1].Error)
}

func TestEvaluateIdempotent(t *testing.T) {
	t.Parallel()

	entries := []artifacts.SourceMapEntry{
		loadError("https://a.com/x.js", "https://a.com/x.js.map", "404"),
		loaded("https://b.com/y.js", []string{"a.ts", "b.ts"}, contents("a")),
	}
	first := Evaluate(entries)
	second := Evaluate(entries)
	assert.Equal(t, first, second)
	assert.Equal(t, "https://a.com/x.js", entries[0].ScriptURL, "input must not be reordered")
}

func TestAuditResult(t *testing.T) {
	t.Parallel()

	a := New()
	meta := a.Meta()
	assert.Equal(t, ID, meta.ID)
	assert.Equal(t, []string{artifacts.SourceMapsArtifact}, meta.RequiredArtifacts)

	tr := i18n.NewTranslator(i18n.DefaultLocale)

	product, err := a.Audit(&artifacts.Artifacts{SourceMaps: []artifacts.SourceMapEntry{loadError("s1.js", "", "404")}})
	require.NoError(t, err)
	res := audit.NewResult(meta, product, tr)
	assert.Equal(t, "Page has missing or incomplete source maps", res.Title)
	assert.Contains(t, res.Description, "[Learn more](https://developer.chrome.com/")
	require.NotNil(t, res.Details)
	labels := make([]string, 0, len(res.Details.Headings))
	for _, h := range res.Details.Headings {
		labels = append(labels, h.Label)
	}
	assert.Equal(t, []string{"URL", "Map URL", "Error"}, labels)
	assert.Equal(t, audit.ValueTypeCode, res.Details.Headings[2].ValueType)

	product, err = a.Audit(&artifacts.Artifacts{SourceMaps: []artifacts.SourceMapEntry{}})
	require.NoError(t, err)
	res = audit.NewResult(meta, product, tr)
	assert.Equal(t, "Page has valid source maps", res.Title)
	assert.Equal(t, audit.DisplayNotApplicable, res.ScoreDisplayMode)
	assert.Nil(t, res.Details)

	de := audit.NewResult(meta, Evaluate([]artifacts.SourceMapEntry{loadError("s1.js", "", "404")}), i18n.NewTranslator("de"))
	assert.Equal(t, "Seite hat fehlende oder unvollständige Source Maps", de.Title)
	assert.Equal(t, "Fehler", de.Details.Headings[2].Label)
	assert.Contains(t, de.Description, "Source maps translate", "untranslated messages fall back")
}
