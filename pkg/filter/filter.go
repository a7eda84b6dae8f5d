// Package filter removes lines that should not take part in alignment while
// keeping them for reinsertion into the final report.
package filter

import (
	"strings"

	"github.com/ccollicutt/refcompare/pkg/lines"
	"github.com/ccollicutt/refcompare/pkg/matcher"
)

// Result splits an input sequence into the lines that are aligned and the
// lines that were filtered out. Both keep the original order and together
// contain every input line exactly once.
type Result struct {
	Retained lines.Sequence
	Removed  lines.Sequence
}

// Len returns the number of input lines the result was built from.
func (r Result) Len() int {
	return len(r.Retained) + len(r.Removed)
}

// Filter drops lines matching any of skipPatterns and, when ignoreBlank is set,
// lines that are empty after trimming whitespace.
//
// Skip patterns are always matched in mask mode, whatever opts.UseMask says,
// and are tried in order until one matches. Blank-line removal only sees lines
// that survived the skip patterns.
func Filter(seq lines.Sequence, skipPatterns []string, ignoreBlank bool, m *matcher.Matcher, opts matcher.Options) Result {
	skipOpts := opts
	skipOpts.UseMask = true

	res := Result{Retained: make(lines.Sequence, 0, len(seq))}
	for _, rec := range seq {
		if skipped(rec.Text, skipPatterns, m, skipOpts) {
			res.Removed = append(res.Removed, rec)
			continue
		}
		if ignoreBlank && strings.TrimSpace(rec.Text) == "" {
			res.Removed = append(res.Removed, rec)
			continue
		}
		res.Retained = append(res.Retained, rec)
	}
	return res
}

func skipped(text string, patterns []string, m *matcher.Matcher, opts matcher.Options) bool {
	for _, p := range patterns {
		if m.Compare(text, p, opts) {
			return true
		}
	}
	return false
}
