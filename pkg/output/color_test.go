package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/refcompare/pkg/report"
)

func TestColorFormatter_NeverMatchesText(t *testing.T) {
	rep := createTestReport(t)

	var plain, colored bytes.Buffer
	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), rep, &plain); err != nil {
		t.Fatalf("text Format() error = %v", err)
	}
	if err := NewColorFormatter(FormatOptions{Color: ColorNever}).Format(context.Background(), rep, &colored); err != nil {
		t.Fatalf("color Format() error = %v", err)
	}

	if plain.String() != colored.String() {
		t.Errorf("uncolored output differs from text output:\n%s\n---\n%s", colored.String(), plain.String())
	}
}

func TestColorFormatter_Always(t *testing.T) {
	var buf bytes.Buffer
	if err := NewColorFormatter(FormatOptions{Color: ColorAlways}).Format(context.Background(), createTestReport(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\x1b[") {
		t.Error("forced color output has no escape sequences")
	}
	if !strings.Contains(output, "value 1") {
		t.Errorf("Output missing row text:\n%s", output)
	}
}

func TestColorFormatter_AutoOnBuffer(t *testing.T) {
	// A buffer is not a terminal, so auto mode drops styling.
	var buf bytes.Buffer
	if err := NewColorFormatter(FormatOptions{Color: ColorAuto}).Format(context.Background(), createTestReport(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("auto mode on a non-terminal writer should not emit escape sequences")
	}
}

func TestColorPainter_RowTextsPairing(t *testing.T) {
	p := newColorPainter(&bytes.Buffer{}, ColorNever)
	rows := []report.Row{
		{Kind: report.Context, LeftLine: 1, RightLine: 1, Text: "same"},
		{Kind: report.Removed, LeftLine: 2, Text: "old one"},
		{Kind: report.Removed, LeftLine: 3, Text: "old two"},
		{Kind: report.Added, RightLine: 2, Text: "new one"},
		{Kind: report.SkippedContext, RightLine: 3, Text: "skip"},
		{Kind: report.Added, RightLine: 4, Text: "tail"},
	}

	texts := p.rowTexts(rows)
	if len(texts) != len(rows) {
		t.Fatalf("len(texts) = %d, want %d", len(texts), len(rows))
	}
	for i, row := range rows {
		if texts[i] != row.Text {
			t.Errorf("texts[%d] = %q, want %q", i, texts[i], row.Text)
		}
	}
}

func TestColorPainter_Highlight(t *testing.T) {
	p := newColorPainter(&bytes.Buffer{}, ColorAlways)

	removed, added := p.highlight("value 10", "value 12")
	if removed == added {
		t.Error("highlighted pair should differ")
	}
	if !strings.Contains(removed, p.removedHi.Render("0")) {
		t.Errorf("removed text %q does not highlight the changed character", removed)
	}
	if !strings.Contains(added, p.addedHi.Render("2")) {
		t.Errorf("added text %q does not highlight the changed character", added)
	}

	plain := newColorPainter(&bytes.Buffer{}, ColorNever)
	removed, added = plain.highlight("value 10", "value 12")
	if removed != "value 10" || added != "value 12" {
		t.Errorf("uncolored highlight = %q, %q", removed, added)
	}
}
