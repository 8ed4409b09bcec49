package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/unicode/norm"

	"github.com/liuxd6825/srcmapaudit/internal/audit"
)

const (
	succMark    = "✓"
	failMark    = "✗"
	naMark      = "–"
	detailsMark = "↳"

	indent      = "  "
	columnGap   = "  "
	emptyCell   = "-"
	ellipsis    = "..."
	minURLWidth = 24
)

type textRenderer struct {
	opts Options

	succColor  *color.Color
	failColor  *color.Color
	grayColor  *color.Color
	valueColor *color.Color
	labelColor *color.Color
}

func newTextRenderer(opts Options) *textRenderer {
	r := &textRenderer{
		opts:       opts,
		succColor:  color.New(color.FgGreen),
		failColor:  color.New(color.FgRed),
		grayColor:  color.New(color.Faint),
		valueColor: color.New(color.FgCyan),
		labelColor: color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.succColor, r.failColor, r.grayColor, r.valueColor, r.labelColor} {
		if opts.NoColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return r
}

func (r *textRenderer) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	if doc.FinalURL.Valid {
		fmt.Fprintf(&b, "%s%s %s\n\n", indent, r.labelColor.Sprint("page:"), doc.FinalURL.String)
	}
	for _, res := range doc.Results {
		r.renderResult(&b, res)
		b.WriteString("\n")
	}
	s := doc.Summary
	fmt.Fprintf(&b, "%saudits: %s, %s, %s, %s\n", indent,
		r.succColor.Sprintf("%d passed", s.Passed),
		r.failColor.Sprintf("%d failed", s.Failed),
		r.grayColor.Sprintf("%d not applicable", s.NotApplicable),
		r.failColor.Sprintf("%d errored", s.Errored),
	)
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *textRenderer) renderResult(b *strings.Builder, res audit.Result) {
	mark, markColor := succMark, r.succColor
	switch {
	case res.ScoreDisplayMode == audit.DisplayNotApplicable:
		mark, markColor = naMark, r.grayColor
	case !res.Passed():
		mark, markColor = failMark, r.failColor
	}
	fmt.Fprintf(b, "%s%s %s %s\n", indent, markColor.Sprint(mark), res.Title, r.grayColor.Sprintf("[%s]", res.ID))
	if res.ErrorMessage != "" {
		fmt.Fprintf(b, "%s%s %s %s\n", indent+indent, detailsMark, r.failColor.Sprint("error:"), res.ErrorMessage)
	}
	if res.Description != "" && !res.Passed() {
		fmt.Fprintf(b, "%s%s %s\n", indent+indent, detailsMark, r.grayColor.Sprint(res.Description))
	}
	if res.Details != nil && len(res.Details.Items) > 0 {
		b.WriteString("\n")
		r.renderTable(b, indent+indent, res.Details)
	}
}

func (r *textRenderer) renderTable(b *strings.Builder, prefix string, t *audit.Table) {
	cells := make([][]string, len(t.Items))
	for i, item := range t.Items {
		row := make([]string, len(t.Headings))
		for j, h := range t.Headings {
			row[j] = cellText(item[h.Key])
		}
		cells[i] = row
	}
	r.fitURLColumns(prefix, t.Headings, cells)

	widths := make([]int, len(t.Headings))
	for j, h := range t.Headings {
		widths[j] = StrWidth(h.Label)
		for _, row := range cells {
			if w := StrWidth(row[j]); w > widths[j] {
				widths[j] = w
			}
		}
	}

	b.WriteString(prefix)
	for j, h := range t.Headings {
		r.writeCell(b, r.labelColor.Sprint(h.Label), h.Label, widths[j], j == len(t.Headings)-1)
	}
	b.WriteString("\n")
	for _, row := range cells {
		b.WriteString(prefix)
		for j, h := range t.Headings {
			text := row[j]
			switch {
			case text == emptyCell:
				text = r.grayColor.Sprint(text)
			case h.ValueType == audit.ValueTypeCode:
				text = r.valueColor.Sprint(text)
			}
			r.writeCell(b, text, row[j], widths[j], j == len(t.Headings)-1)
		}
		b.WriteString("\n")
	}
}

// writeCell writes text, which may be colored, padded to width as measured on
// plain.
func (r *textRenderer) writeCell(b *strings.Builder, text, plain string, width int, last bool) {
	b.WriteString(text)
	if last {
		return
	}
	b.WriteString(strings.Repeat(" ", width-StrWidth(plain)))
	b.WriteString(columnGap)
}

// fitURLColumns shortens URL cells so that a row fits in the configured width.
func (r *textRenderer) fitURLColumns(prefix string, headings []audit.Heading, cells [][]string) {
	if r.opts.Width <= 0 {
		return
	}
	var urlCols []int
	fixed := StrWidth(prefix)
	for j, h := range headings {
		if h.ValueType == audit.ValueTypeURL {
			urlCols = append(urlCols, j)
			continue
		}
		w := StrWidth(h.Label)
		for _, row := range cells {
			if cw := StrWidth(row[j]); cw > w {
				w = cw
			}
		}
		fixed += w
	}
	if len(urlCols) == 0 {
		return
	}
	fixed += len(columnGap) * (len(headings) - 1)
	budget := (r.opts.Width - fixed) / len(urlCols)
	if budget < minURLWidth {
		budget = minURLWidth
	}
	for _, row := range cells {
		for _, j := range urlCols {
			row[j] = truncateMiddle(row[j], budget)
		}
	}
}

func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return emptyCell
	case string:
		if val == "" {
			return emptyCell
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}

// truncateMiddle keeps the start and the end of s, which for URLs are the host
// and the file name.
func truncateMiddle(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) <= maxWidth || maxWidth <= len(ellipsis) {
		return s
	}
	keep := maxWidth - len(ellipsis)
	head := keep / 2
	tail := keep - head
	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}

// StrWidth returns the actual width of the string, skipping over ANSI escape
// codes.
func StrWidth(s string) (n int) {
	var it norm.Iter
	it.InitString(norm.NFKD, s)

	inEscSeq := false
	inLongEscSeq := false
	for !it.Done() {
		data := it.Next()

		if data[0] == '\x1b' {
			inEscSeq = true
			continue
		}
		if inEscSeq && data[0] == '[' {
			inLongEscSeq = true
			continue
		}
		if inEscSeq && inLongEscSeq {
			// parameter and intermediate bytes up to the final byte
			if data[0] >= 0x40 && data[0] <= 0x7E {
				inEscSeq = false
				inLongEscSeq = false
			}
			continue
		}
		if inEscSeq && !inLongEscSeq && data[0] >= 0x40 && data[0] <= 0x5F {
			inEscSeq = false
			continue
		}

		n++
	}
	return
}
