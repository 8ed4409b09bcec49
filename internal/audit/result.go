package audit

import (
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
)

// ScoreDisplayMode tells how the score of a result should be read.
type ScoreDisplayMode string

// Display modes.
const (
	DisplayBinary        ScoreDisplayMode = "binary"
	DisplayNotApplicable ScoreDisplayMode = "notApplicable"
	DisplayError         ScoreDisplayMode = "error"
)

// Result is the localized, render-ready outcome of one audit.
type Result struct {
	ID               string
	Title            string
	Description      string
	Score            null.Float
	ScoreDisplayMode ScoreDisplayMode
	ErrorMessage     string
	Details          *Table
}

// Passed reports whether the result doesn't need attention.
func (r Result) Passed() bool {
	switch r.ScoreDisplayMode {
	case DisplayNotApplicable:
		return true
	case DisplayError:
		return false
	default:
		return r.Score.Valid && r.Score.Float64 >= 1
	}
}

// NewResult localizes p using the metadata of the audit that produced it.
func NewResult(meta Meta, p Product, tr i18n.Translator) Result {
	res := Result{
		ID:          meta.ID,
		Title:       tr.Format(meta.Title),
		Description: tr.Format(meta.Description),
	}
	if p.NotApplicable {
		res.ScoreDisplayMode = DisplayNotApplicable
		return res
	}

	res.ScoreDisplayMode = DisplayBinary
	res.Score = null.FloatFrom(p.Score)
	if p.Score < 1 {
		res.Title = tr.Format(meta.FailureTitle)
	}
	res.Details = p.Details.localized(func(id string) string { return tr.Format(id) })
	return res
}

// NewErrorResult is the result of an audit that couldn't run.
func NewErrorResult(meta Meta, err error, tr i18n.Translator) Result {
	return Result{
		ID:               meta.ID,
		Title:            tr.Format(meta.Title),
		Description:      tr.Format(meta.Description),
		ScoreDisplayMode: DisplayError,
		ErrorMessage:     err.Error(),
	}
}
