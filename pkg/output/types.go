// Package output provides formatting for comparison results.
package output

import (
	"time"

	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/matcher"
)

// Report is the complete output of one or more comparisons.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Results holds one entry per comparison, in input order.
	Results []*compare.Result `json:"results"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Comparisons int `json:"comparisons"`
	Equal       int `json:"equal"`
	Different   int `json:"different"`
	Failed      int `json:"failed"`

	// Row totals across all successful comparisons.
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`

	// LinesProcessed counts lines read from both sides.
	LinesProcessed int `json:"lines_processed"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the configuration used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Options are the matching rules in effect.
	Options matcher.Options `json:"options"`

	// ReferenceDirs lists the directories searched for references.
	ReferenceDirs []string `json:"reference_dirs,omitempty"`

	// ComparedAt is when the run finished.
	ComparedAt time.Time `json:"compared_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport aggregates comparison results.
func NewReport(results []*compare.Result, meta Metadata) *Report {
	report := &Report{
		Results:  results,
		Metadata: meta,
	}

	s := &report.Summary
	s.Comparisons = len(results)
	for _, res := range results {
		s.LinesProcessed += res.Stats.LeftLines + res.Stats.RightLines
		switch {
		case res.Failure != nil:
			s.Failed++
		case res.Equal():
			s.Equal++
		default:
			s.Different++
		}
		if res.Report != nil {
			c := res.Report.Counts()
			s.Added += c.Added
			s.Removed += c.Removed
			s.Skipped += c.Skipped
		}
	}

	return report
}

// HasDifferences returns true if any comparison differed or failed.
func (r *Report) HasDifferences() bool {
	return r.Summary.Different > 0 || r.Summary.Failed > 0
}
