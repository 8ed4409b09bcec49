package audit

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
	"github.com/liuxd6825/srcmapaudit/lib/artifacts"
	"github.com/liuxd6825/srcmapaudit/lib/testutils"
)

type fakeAudit struct {
	meta    Meta
	product Product
	err     error
	calls   int
}

func (f *fakeAudit) Meta() Meta { return f.meta }

func (f *fakeAudit) Audit(*artifacts.Artifacts) (Product, error) {
	f.calls++
	return f.product, f.err
}

func newFake(id string, product Product, err error, required ...string) *fakeAudit {
	return &fakeAudit{
		meta:    Meta{ID: id, Title: id + ".title", FailureTitle: id + ".failure", RequiredArtifacts: required},
		product: product,
		err:     err,
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	a, b := newFake("b-audit", Product{}, nil), newFake("a-audit", Product{}, nil)
	reg, err := NewRegistry(a, b)
	require.NoError(t, err)

	assert.Equal(t, []Audit{a, b}, reg.All())
	assert.Equal(t, []string{"a-audit", "b-audit"}, reg.IDs())

	got, ok := reg.Get("a-audit")
	assert.True(t, ok)
	assert.Same(t, b, got)

	selected, err := reg.Select([]string{"a-audit"})
	require.NoError(t, err)
	assert.Equal(t, []Audit{b}, selected)

	selected, err = reg.Select(nil)
	require.NoError(t, err)
	assert.Len(t, selected, 2)

	_, err = reg.Select([]string{"nope"})
	assert.ErrorContains(t, err, `unknown audit "nope"`)

	assert.ErrorContains(t, reg.Register(newFake("a-audit", Product{}, nil)), "already registered")
	assert.ErrorContains(t, reg.Register(newFake("", Product{}, nil)), "has no id")

	_, err = NewRegistry(a, a)
	assert.Error(t, err)
}

func TestNewResult(t *testing.T) {
	t.Parallel()

	tr := i18n.NewTranslator(i18n.DefaultLocale)
	meta := Meta{ID: "x", Title: "x.title", FailureTitle: "x.failure", Description: "x.description"}
	table := NewTable([]Heading{{Key: "url", ValueType: ValueTypeURL, Label: i18n.ColumnURL}}, []Item{{"url": "a.js"}})

	failed := NewResult(meta, Product{Score: 0, Details: table}, tr)
	assert.Equal(t, "x.failure", failed.Title)
	assert.Equal(t, null.FloatFrom(0), failed.Score)
	assert.Equal(t, DisplayBinary, failed.ScoreDisplayMode)
	assert.Equal(t, "URL", failed.Details.Headings[0].Label)
	assert.Equal(t, i18n.ColumnURL, table.Headings[0].Label, "the product table must not be modified")
	assert.False(t, failed.Passed())

	passed := NewResult(meta, Product{Score: 1}, tr)
	assert.Equal(t, "x.title", passed.Title)
	assert.True(t, passed.Passed())
	assert.Nil(t, passed.Details)

	na := NewResult(meta, Product{Score: 1, NotApplicable: true}, tr)
	assert.False(t, na.Score.Valid)
	assert.Equal(t, DisplayNotApplicable, na.ScoreDisplayMode)
	assert.True(t, na.Passed())

	errRes := NewErrorResult(meta, errors.New("boom"), tr)
	assert.Equal(t, DisplayError, errRes.ScoreDisplayMode)
	assert.Equal(t, "boom", errRes.ErrorMessage)
	assert.False(t, errRes.Passed())
}

func TestRun(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	hook := testutils.NewLogHook()
	logger.AddHook(hook)
	logger.SetOutput(testutils.NewTestOutput(t))
	logger.SetLevel(logrus.DebugLevel)

	pass := newFake("pass", Product{Score: 1}, nil, artifacts.SourceMapsArtifact)
	fail := newFake("fail", Product{Score: 0, Details: NewTable(nil, nil)}, nil)
	broken := newFake("broken", Product{}, errors.New("kaput"))
	needsURL := newFake("needs-url", Product{Score: 1}, nil, artifacts.URLArtifact)

	arts := &artifacts.Artifacts{SourceMaps: []artifacts.SourceMapEntry{}}
	results := Run(logger, []Audit{pass, fail, broken, needsURL}, arts, i18n.NewTranslator(i18n.DefaultLocale))
	require.Len(t, results, 4)

	assert.Equal(t, DisplayBinary, results[0].ScoreDisplayMode)
	assert.True(t, results[0].Passed())
	assert.False(t, results[1].Passed())
	assert.Equal(t, "kaput", results[2].ErrorMessage)
	assert.Equal(t, DisplayError, results[3].ScoreDisplayMode)
	assert.Contains(t, results[3].ErrorMessage, "URL")
	assert.Equal(t, 0, needsURL.calls)

	entries := hook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.WarnLevel, "Skipping audit"))
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "Audit failed to run"))
	assert.True(t, testutils.LogContains(entries, logrus.DebugLevel, "Audit finished"))

	summary := Summarize(results)
	assert.Equal(t, Summary{Passed: 1, Failed: 1, Errored: 2}, summary)
	assert.False(t, summary.OK())

	assert.True(t, Summarize([]Result{{ScoreDisplayMode: DisplayNotApplicable}}).OK())
}
