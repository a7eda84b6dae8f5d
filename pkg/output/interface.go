package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders comparison results in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, color, json).
	Name() string
}

// ColorMode selects whether the color formatter emits escape sequences.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose prints every row of equal comparisons and run statistics.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// Color applies to the text format only.
	Color ColorMode
}

// NewFormatter returns the formatter for name. Text output is colored unless
// opts.Color is ColorNever; in auto mode styling is dropped when the writer
// is not a terminal.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch opts.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, fmt.Errorf("unknown color mode %q (use auto, always or never)", opts.Color)
	}

	switch name {
	case "text":
		if opts.Color == ColorNever {
			return NewTextFormatter(opts), nil
		}
		return NewColorFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}
