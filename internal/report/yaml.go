package report

import (
	"io"

	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/srcmapaudit/internal/audit"
)

type yamlRenderer struct{}

// yamlDocument mirrors the JSON report. Audits and items are mapping nodes so
// that the key order is the same as in the JSON output.
type yamlDocument struct {
	FinalURL *string       `yaml:"finalUrl"`
	Locale   string        `yaml:"locale"`
	Audits   *yaml.Node    `yaml:"audits"`
	Summary  audit.Summary `yaml:"summary"`
}

type yamlResult struct {
	ID               string     `yaml:"id"`
	Title            string     `yaml:"title"`
	Description      string     `yaml:"description"`
	Score            *float64   `yaml:"score"`
	ScoreDisplayMode string     `yaml:"scoreDisplayMode"`
	ErrorMessage     string     `yaml:"errorMessage,omitempty"`
	Details          *yamlTable `yaml:"details,omitempty"`
}

type yamlTable struct {
	Type     string          `yaml:"type"`
	Headings []audit.Heading `yaml:"headings"`
	Items    []*yaml.Node    `yaml:"items"`
}

func (yamlRenderer) Render(w io.Writer, doc Document) error {
	audits := &yaml.Node{Kind: yaml.MappingNode}
	for _, res := range doc.Results {
		out := yamlResult{
			ID:               res.ID,
			Title:            res.Title,
			Description:      res.Description,
			Score:            res.Score.Ptr(),
			ScoreDisplayMode: string(res.ScoreDisplayMode),
			ErrorMessage:     res.ErrorMessage,
		}
		if res.Details != nil {
			table, err := newYAMLTable(res.Details)
			if err != nil {
				return err
			}
			out.Details = table
		}
		value := &yaml.Node{}
		if err := value.Encode(out); err != nil {
			return err
		}
		audits.Content = append(audits.Content, stringNode(res.ID), value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(yamlDocument{
		FinalURL: doc.FinalURL.Ptr(),
		Locale:   doc.Locale,
		Audits:   audits,
		Summary:  doc.Summary,
	})
	if err != nil {
		return err
	}
	return enc.Close()
}

func newYAMLTable(t *audit.Table) (*yamlTable, error) {
	table := &yamlTable{
		Type:     "table",
		Headings: t.Headings,
		Items:    make([]*yaml.Node, 0, len(t.Items)),
	}
	for _, item := range t.Items {
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range itemKeys(t.Headings, item) {
			value := &yaml.Node{}
			if err := value.Encode(yamlValue(item[k])); err != nil {
				return nil, err
			}
			node.Content = append(node.Content, stringNode(k), value)
		}
		table.Items = append(table.Items, node)
	}
	return table, nil
}

func yamlValue(v interface{}) interface{} {
	if s, ok := v.(null.String); ok {
		return s.Ptr()
	}
	return v
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
