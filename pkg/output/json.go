package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/refcompare/pkg/compare"
)

// JSONFormatter encodes reports as indented JSON for scripts and CI.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns "json", the value accepted by --output.
func (f *JSONFormatter) Name() string {
	return "json"
}

// QuietReport is the JSON document written in quiet mode: the summary and
// the comparisons that could not be diffed, without any rows.
type QuietReport struct {
	Summary  Summary        `json:"summary"`
	Failures []QuietFailure `json:"failures"`
}

// QuietFailure names one failed comparison.
type QuietFailure struct {
	Work string              `json:"work"`
	Kind compare.FailureKind `json:"kind"`
	Path string              `json:"path,omitempty"`
}

// Format writes the whole report, every result with its rows and failure,
// followed by the summary and metadata. Quiet mode writes a QuietReport.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(newQuietReport(report))
	}
	return encoder.Encode(report)
}

func newQuietReport(report *Report) QuietReport {
	q := QuietReport{Summary: report.Summary, Failures: []QuietFailure{}}
	for _, res := range report.Results {
		if res.Failure == nil {
			continue
		}
		q.Failures = append(q.Failures, QuietFailure{
			Work: res.WorkPath,
			Kind: res.Failure.Kind,
			Path: res.Failure.Path,
		})
	}
	return q
}
