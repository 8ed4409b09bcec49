package audit

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/srcmapaudit/internal/audit/i18n"
	"github.com/liuxd6825/srcmapaudit/lib/artifacts"
)

// Run runs audits over arts. An audit whose required artifacts are missing, or
// that returns an error, yields an error result instead of stopping the run.
func Run(
	logger logrus.FieldLogger, audits []Audit, arts *artifacts.Artifacts, tr i18n.Translator,
) []Result {
	results := make([]Result, 0, len(audits))
	for _, a := range audits {
		meta := a.Meta()
		log := logger.WithField("audit", meta.ID)

		if missing := missingArtifacts(meta, arts); len(missing) > 0 {
			err := fmt.Errorf("required artifacts missing: %v", missing)
			log.WithError(err).Warn("Skipping audit")
			results = append(results, NewErrorResult(meta, err, tr))
			continue
		}

		start := time.Now()
		product, err := a.Audit(arts)
		if err != nil {
			log.WithError(err).Error("Audit failed to run")
			results = append(results, NewErrorResult(meta, err, tr))
			continue
		}
		res := NewResult(meta, product, tr)
		log.WithFields(logrus.Fields{
			"passed":   res.Passed(),
			"mode":     res.ScoreDisplayMode,
			"duration": time.Since(start),
		}).Debug("Audit finished")
		results = append(results, res)
	}
	return results
}

func missingArtifacts(meta Meta, arts *artifacts.Artifacts) []string {
	var missing []string
	for _, name := range meta.RequiredArtifacts {
		if !arts.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Summary counts results by outcome.
type Summary struct {
	Passed        int `json:"passed" yaml:"passed"`
	Failed        int `json:"failed" yaml:"failed"`
	NotApplicable int `json:"notApplicable" yaml:"notApplicable"`
	Errored       int `json:"errored" yaml:"errored"`
}

// Summarize counts the outcomes of results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.ScoreDisplayMode == DisplayNotApplicable:
			s.NotApplicable++
		case r.ScoreDisplayMode == DisplayError:
			s.Errored++
		case r.Passed():
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}

// OK is true when no audit failed or errored.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}
