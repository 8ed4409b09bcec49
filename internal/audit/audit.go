// Package audit defines what an audit is, what it produces and how a set of
// audits is run against the artifacts gathered from a page.
package audit

import (
	"github.com/liuxd6825/srcmapaudit/lib/artifacts"
)

// Meta is the static description of an audit. Title, FailureTitle and
// Description are i18n message ids, resolved when a Result is built.
type Meta struct {
	ID                string
	Title             string
	FailureTitle      string
	Description       string
	RequiredArtifacts []string
}

// Product is what an audit computes from the artifacts. Details is nil for
// not applicable products.
type Product struct {
	Score         float64
	NotApplicable bool
	Details       *Table
}

// Audit is a single check over the artifacts of a page.
type Audit interface {
	Meta() Meta
	Audit(arts *artifacts.Artifacts) (Product, error)
}
