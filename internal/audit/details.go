package audit

// ValueType tells a renderer how to display a table cell.
type ValueType string

// Value types used in table headings.
const (
	ValueTypeURL  ValueType = "url"
	ValueTypeCode ValueType = "code"
	ValueTypeText ValueType = "text"
)

// Heading describes one table column. Label is an i18n message id until the
// table is localized.
type Heading struct {
	Key       string    `json:"key" yaml:"key"`
	ValueType ValueType `json:"valueType" yaml:"valueType"`
	Label     string    `json:"label" yaml:"label"`
}

// Item is one table row keyed by Heading.Key. Absent values are nil.
type Item map[string]interface{}

// Table is the details table of an audit.
type Table struct {
	Headings []Heading `json:"headings" yaml:"headings"`
	Items    []Item    `json:"items" yaml:"items"`
}

// NewTable returns a table with the given headings and items.
func NewTable(headings []Heading, items []Item) *Table {
	return &Table{Headings: headings, Items: items}
}

// localized returns a copy of the table with heading labels resolved by fn.
// Items are shared with the receiver.
func (t *Table) localized(fn func(id string) string) *Table {
	if t == nil {
		return nil
	}
	headings := make([]Heading, len(t.Headings))
	for i, h := range t.Headings {
		h.Label = fn(h.Label)
		headings[i] = h
	}
	return &Table{Headings: headings, Items: t.Items}
}
