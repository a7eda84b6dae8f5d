package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/refcompare/pkg/artifact"
	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/report"
)

// TextFormatter formats reports as plain text using the .dif layout.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return formatQuiet(report, w)
	}
	return formatFull(report, w, f.opts, plainPainter{})
}

// painter decorates the pieces of the text layout.
type painter interface {
	header(s string) string
	status(s string, equal bool) string
	rows(w io.Writer, rows []report.Row) error
}

type plainPainter struct{}

func (plainPainter) header(s string) string { return s }
func (plainPainter) status(s string, _ bool) string { return s }
func (plainPainter) rows(w io.Writer, rows []report.Row) error {
	return artifact.EncodeRows(w, rows)
}

func formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "refcompare: %s\n", summaryLine(report.Summary))
	return err
}

func formatFull(report *Report, w io.Writer, opts FormatOptions, p painter) error {
	for _, res := range report.Results {
		if err := formatResult(res, w, opts, p); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %s\n", p.status(summaryLine(report.Summary), !report.HasDifferences()))
	if s := report.Summary; s.Added+s.Removed+s.Skipped > 0 {
		fmt.Fprintf(w, "Rows: %d added, %d removed, %d skipped\n", s.Added, s.Removed, s.Skipped)
	}

	if opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func formatResult(res *compare.Result, w io.Writer, opts FormatOptions, p painter) error {
	fmt.Fprintln(w, p.header(fmt.Sprintf("=== %s vs %s ===", displayPath(res.WorkPath, "<work>"), displayPath(res.ReferencePath, "<reference>"))))

	switch {
	case res.Failure != nil:
		fmt.Fprintln(w, p.status(artifact.Banner(res.Failure, res), false))
	case res.Equal() && !opts.Verbose:
		fmt.Fprintln(w, p.status("No differences", true))
	default:
		if err := p.rows(w, res.Report.Rows); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

func summaryLine(s Summary) string {
	return fmt.Sprintf("%d comparisons, %d equal, %d different, %d failed",
		s.Comparisons, s.Equal, s.Different, s.Failed)
}

func displayPath(p, fallback string) string {
	if p == "" {
		return fallback
	}
	return p
}
