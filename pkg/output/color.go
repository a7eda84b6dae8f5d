package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ccollicutt/refcompare/pkg/artifact"
	"github.com/ccollicutt/refcompare/pkg/report"
)

// ColorFormatter renders the text layout with terminal styling. Adjacent
// removed and added rows are paired and their differing characters
// highlighted.
type ColorFormatter struct {
	opts FormatOptions
}

// NewColorFormatter creates a new color formatter with the given options.
func NewColorFormatter(opts FormatOptions) *ColorFormatter {
	return &ColorFormatter{opts: opts}
}

// Name returns the format name.
func (f *ColorFormatter) Name() string {
	return "color"
}

// Format renders the report with styling appropriate for w.
func (f *ColorFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return formatQuiet(report, w)
	}
	return formatFull(report, w, f.opts, newColorPainter(w, f.opts.Color))
}

type colorPainter struct {
	dmp *diffmatchpatch.DiffMatchPatch

	headerStyle  lipgloss.Style
	okStyle      lipgloss.Style
	failStyle    lipgloss.Style
	gutterStyle  lipgloss.Style
	skipStyle    lipgloss.Style
	removedStyle lipgloss.Style
	addedStyle   lipgloss.Style
	removedHi    lipgloss.Style
	addedHi      lipgloss.Style
}

func newColorPainter(w io.Writer, mode ColorMode) *colorPainter {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &colorPainter{
		dmp:          diffmatchpatch.New(),
		headerStyle:  base.Bold(true).Foreground(lipgloss.Color("109")),
		okStyle:      base.Foreground(lipgloss.Color("71")),
		failStyle:    base.Bold(true).Foreground(lipgloss.Color("203")),
		gutterStyle:  base.Foreground(lipgloss.Color("241")),
		skipStyle:    base.Foreground(lipgloss.Color("244")).Italic(true),
		removedStyle: base.Foreground(lipgloss.Color("203")),
		addedStyle:   base.Foreground(lipgloss.Color("71")),
		removedHi:    base.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")),
		addedHi:      base.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("28")),
	}
}

func (p *colorPainter) header(s string) string {
	return p.headerStyle.Render(s)
}

func (p *colorPainter) status(s string, equal bool) string {
	if equal {
		return p.okStyle.Render(s)
	}
	return p.failStyle.Render(s)
}

func (p *colorPainter) rows(w io.Writer, rows []report.Row) error {
	width := artifact.NumberWidth(rows)
	texts := p.rowTexts(rows)

	bw := bufio.NewWriter(w)
	for i, row := range rows {
		gutter := fmt.Sprintf("%c%*d ", row.Kind.Tag(), width, row.LineNumber())
		bw.WriteString(p.gutterStyle.Render(gutter))
		bw.WriteString(texts[i])
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// rowTexts styles every row's text. Each run of removed rows followed by added
// rows is paired in order; paired rows get intra-line highlighting.
func (p *colorPainter) rowTexts(rows []report.Row) []string {
	texts := make([]string, len(rows))
	for i := 0; i < len(rows); {
		if rows[i].Kind != report.Removed {
			texts[i] = p.plain(rows[i])
			i++
			continue
		}

		j := i
		for j < len(rows) && rows[j].Kind == report.Removed {
			j++
		}
		k := j
		for k < len(rows) && rows[k].Kind == report.Added {
			k++
		}

		for n := i; n < k; n++ {
			texts[n] = p.plain(rows[n])
		}
		for n := 0; i+n < j && j+n < k; n++ {
			texts[i+n], texts[j+n] = p.highlight(rows[i+n].Text, rows[j+n].Text)
		}
		i = k
	}
	return texts
}

func (p *colorPainter) plain(row report.Row) string {
	switch row.Kind {
	case report.Removed:
		return p.removedStyle.Render(row.Text)
	case report.Added:
		return p.addedStyle.Render(row.Text)
	case report.SkippedContext:
		return p.skipStyle.Render(row.Text)
	default:
		return row.Text
	}
}

// highlight styles a removed/added pair, marking the characters unique to
// each side.
func (p *colorPainter) highlight(removed, added string) (string, string) {
	diffs := p.dmp.DiffMain(removed, added, false)
	diffs = p.dmp.DiffCleanupSemantic(diffs)

	var rb, ab strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			rb.WriteString(p.removedStyle.Render(d.Text))
			ab.WriteString(p.addedStyle.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			rb.WriteString(p.removedHi.Render(d.Text))
		case diffmatchpatch.DiffInsert:
			ab.WriteString(p.addedHi.Render(d.Text))
		}
	}
	return rb.String(), ab.String()
}
