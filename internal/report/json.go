package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/mailru/easyjson/jwriter"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/srcmapaudit/internal/audit"
)

type jsonRenderer struct{}

func (jsonRenderer) Render(out io.Writer, doc Document) error {
	w := &jwriter.Writer{NoEscapeHTML: true}
	w.RawString(`{"finalUrl":`)
	writeNullString(w, doc.FinalURL)
	w.RawString(`,"locale":`)
	w.String(doc.Locale)

	w.RawString(`,"audits":{`)
	for i, res := range doc.Results {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(res.ID)
		w.RawByte(':')
		writeResult(w, res)
	}
	w.RawByte('}')

	s := doc.Summary
	w.RawString(`,"summary":{"passed":`)
	w.Int(s.Passed)
	w.RawString(`,"failed":`)
	w.Int(s.Failed)
	w.RawString(`,"notApplicable":`)
	w.Int(s.NotApplicable)
	w.RawString(`,"errored":`)
	w.Int(s.Errored)
	w.RawString(`}}`)
	w.RawByte('\n')

	if w.Error != nil {
		return w.Error
	}
	_, err := w.DumpTo(out)
	return err
}

func writeResult(w *jwriter.Writer, res audit.Result) {
	w.RawString(`{"id":`)
	w.String(res.ID)
	w.RawString(`,"title":`)
	w.String(res.Title)
	w.RawString(`,"description":`)
	w.String(res.Description)
	w.RawString(`,"score":`)
	if res.Score.Valid {
		w.Float64(res.Score.Float64)
	} else {
		w.RawString("null")
	}
	w.RawString(`,"scoreDisplayMode":`)
	w.String(string(res.ScoreDisplayMode))
	if res.ErrorMessage != "" {
		w.RawString(`,"errorMessage":`)
		w.String(res.ErrorMessage)
	}
	if res.Details != nil {
		w.RawString(`,"details":`)
		writeTable(w, res.Details)
	}
	w.RawByte('}')
}

func writeTable(w *jwriter.Writer, t *audit.Table) {
	w.RawString(`{"type":"table","headings":[`)
	for i, h := range t.Headings {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawString(`{"key":`)
		w.String(h.Key)
		w.RawString(`,"valueType":`)
		w.String(string(h.ValueType))
		w.RawString(`,"label":`)
		w.String(h.Label)
		w.RawByte('}')
	}
	w.RawString(`],"items":[`)
	for i, item := range t.Items {
		if i > 0 {
			w.RawByte(',')
		}
		writeItem(w, t.Headings, item)
	}
	w.RawString(`]}`)
}

func writeItem(w *jwriter.Writer, headings []audit.Heading, item audit.Item) {
	w.RawByte('{')
	for i, k := range itemKeys(headings, item) {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(k)
		w.RawByte(':')
		writeValue(w, item[k])
	}
	w.RawByte('}')
}

// itemKeys returns the heading keys present in item, in heading order,
// followed by any other keys sorted by name.
func itemKeys(headings []audit.Heading, item audit.Item) []string {
	keys := make([]string, 0, len(item))
	seen := make(map[string]bool, len(headings))
	for _, h := range headings {
		if _, ok := item[h.Key]; ok {
			keys = append(keys, h.Key)
			seen[h.Key] = true
		}
	}
	extra := make([]string, 0, len(item)-len(keys))
	for k := range item {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func writeValue(w *jwriter.Writer, v interface{}) {
	switch val := v.(type) {
	case nil:
		w.RawString("null")
	case string:
		w.String(val)
	case null.String:
		writeNullString(w, val)
	case bool:
		w.Bool(val)
	case int:
		w.Int(val)
	case float64:
		w.Float64(val)
	default:
		w.Raw(json.Marshal(val))
	}
}

func writeNullString(w *jwriter.Writer, s null.String) {
	if !s.Valid {
		w.RawString("null")
		return
	}
	w.String(s.String)
}
