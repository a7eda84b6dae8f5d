package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ccollicutt/refcompare/pkg/matcher"
	"github.com/ccollicutt/refcompare/pkg/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSession_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		work, ref []string
		wantEqual bool
		wantRows  []report.Row
	}{
		{
			name:      "plain diff",
			work:      []string{"alpha", "beta", "gamma"},
			ref:       []string{"alpha", "BETA", "gamma", "delta"},
			wantEqual: false,
			wantRows: []report.Row{
				{Kind: report.Context, LeftLine: 1, RightLine: 1, Text: "alpha"},
				{Kind: report.Removed, LeftLine: 2, Text: "beta"},
				{Kind: report.Added, RightLine: 2, Text: "BETA"},
				{Kind: report.Context, LeftLine: 3, RightLine: 3, Text: "gamma"},
				{Kind: report.Added, RightLine: 4, Text: "delta"},
			},
		},
		{
			name:      "case insensitive",
			opts:      []Option{WithMatchOptions(matcher.Options{IgnoreCase: true})},
			work:      []string{"alpha", "beta", "gamma"},
			ref:       []string{"alpha", "BETA", "gamma", "delta"},
			wantEqual: false,
			wantRows: []report.Row{
				{Kind: report.Context, LeftLine: 1, RightLine: 1, Text: "alpha"},
				{Kind: report.Context, LeftLine: 2, RightLine: 2, Text: "beta"},
				{Kind: report.Context, LeftLine: 3, RightLine: 3, Text: "gamma"},
				{Kind: report.Added, RightLine: 4, Text: "delta"},
			},
		},
		{
			name:      "skip pattern",
			opts:      []Option{WithSkipPatterns([]string{"TS=.*"})},
			work:      []string{"start", "TS=123", "end"},
			ref:       []string{"start", "TS=999", "end"},
			wantEqual: true,
			wantRows: []report.Row{
				{Kind: report.Context, LeftLine: 1, RightLine: 1, Text: "start"},
				{Kind: report.SkippedContext, LeftLine: 2, Text: "TS=123"},
				{Kind: report.SkippedContext, RightLine: 2, Text: "TS=999"},
				{Kind: report.Context, LeftLine: 3, RightLine: 3, Text: "end"},
			},
		},
		{
			name:      "trim then ignore blank",
			opts:      []Option{WithTrimSpace(true), WithIgnoreBlank(true)},
			work:      []string{"  a  ", "   ", "b"},
			ref:       []string{"a", "b"},
			wantEqual: true,
			wantRows: []report.Row{
				{Kind: report.Context, LeftLine: 1, RightLine: 1, Text: "a"},
				{Kind: report.SkippedContext, LeftLine: 2, Text: ""},
				{Kind: report.Context, LeftLine: 3, RightLine: 2, Text: "b"},
			},
		},
		{
			name:      "mask",
			opts:      []Option{WithMatchOptions(matcher.Options{UseMask: true})},
			work:      []string{"request 7 took 12ms", "done"},
			ref:       []string{`request \d+ took \d+ms`, "done"},
			wantEqual: true,
			wantRows: []report.Row{
				{Kind: report.Context, LeftLine: 1, RightLine: 1, Text: "request 7 took 12ms"},
				{Kind: report.Context, LeftLine: 2, RightLine: 2, Text: "done"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(tt.opts...).CompareLines(context.Background(), tt.work, tt.ref)
			if err != nil {
				t.Fatalf("CompareLines() error = %v", err)
			}
			if res.Report.Equal != tt.wantEqual {
				t.Errorf("Equal = %v, want %v", res.Report.Equal, tt.wantEqual)
			}
			if res.Equal() != tt.wantEqual {
				t.Errorf("Result.Equal() = %v, want %v", res.Equal(), tt.wantEqual)
			}
			if diff := cmp.Diff(tt.wantRows, res.Report.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// randomLines draws lines from a small alphabet so that inputs share lines.
func randomLines(r *rand.Rand, n int) []string {
	words := []string{"a", "b", "c", "", "TS=1", "TS=2", "B", "  a"}
	out := make([]string, n)
	for i := range out {
		out[i] = words[r.IntN(len(words))]
	}
	return out
}

func TestSession_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	configs := []struct {
		name string
		opts []Option
	}{
		{"default", nil},
		{"ignore case", []Option{WithMatchOptions(matcher.Options{IgnoreCase: true})}},
		{"skip and blank", []Option{WithSkipPatterns([]string{`TS=\d`}), WithIgnoreBlank(true)}},
		{"trim", []Option{WithTrimSpace(true), WithIgnoreBlank(true)}},
	}

	for _, c := range configs {
		s := New(c.opts...)
		for iter := 0; iter < 50; iter++ {
			work := randomLines(r, r.IntN(15))
			ref := randomLines(r, r.IntN(15))
			name := fmt.Sprintf("%s/%d", c.name, iter)

			res, err := s.CompareLines(context.Background(), work, ref)
			if err != nil {
				t.Fatalf("%s: CompareLines() error = %v", name, err)
			}
			checkCoverage(t, name, res.Report, len(work), len(ref))

			counts := res.Report.Counts()
			if got, want := counts.Added-counts.Removed, res.Stats.RightRetained-res.Stats.LeftRetained; got != want {
				t.Errorf("%s: added-removed = %d, want %d", name, got, want)
			}

			self, err := s.CompareLines(context.Background(), work, work)
			if err != nil {
				t.Fatalf("%s: CompareLines(self) error = %v", name, err)
			}
			if sc := self.Report.Counts(); !self.Report.Equal || sc.Added != 0 || sc.Removed != 0 {
				t.Errorf("%s: self comparison not equal: %+v", name, sc)
			}
		}
	}
}

// checkCoverage verifies that every line number of both sides appears exactly
// once and in increasing order per side.
func checkCoverage(t *testing.T, name string, rep *report.DiffReport, nLeft, nRight int) {
	t.Helper()
	var left, right []int
	for _, row := range rep.Rows {
		switch row.Kind {
		case report.Context:
			left = append(left, row.LeftLine)
			right = append(right, row.RightLine)
		case report.Removed:
			left = append(left, row.LeftLine)
		case report.Added:
			right = append(right, row.RightLine)
		case report.SkippedContext:
			if row.LeftLine != 0 {
				left = append(left, row.LeftLine)
			} else {
				right = append(right, row.RightLine)
			}
		}
	}
	for i, n := range left {
		if n != i+1 {
			t.Errorf("%s: left line numbers %v, want 1..%d", name, left, nLeft)
			break
		}
	}
	for i, n := range right {
		if n != i+1 {
			t.Errorf("%s: right line numbers %v, want 1..%d", name, right, nRight)
			break
		}
	}
	if len(left) != nLeft || len(right) != nRight {
		t.Errorf("%s: covered %d/%d lines, want %d/%d", name, len(left), len(right), nLeft, nRight)
	}
}

func TestSession_EmptyInputs(t *testing.T) {
	res, err := New().CompareLines(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("CompareLines() error = %v", err)
	}
	if !res.Equal() || len(res.Report.Rows) != 0 {
		t.Errorf("empty comparison = %+v", res.Report)
	}
}

func TestSession_CompareFiles(t *testing.T) {
	dir := t.TempDir()
	work := writeFile(t, dir, "out/test.log", "start\nTS=1\nend\n")
	writeFile(t, dir, "refs/test.ref", "start\nTS=2\nend\n")

	s := New(
		WithReferenceDirs([]string{filepath.Join(dir, "missing"), filepath.Join(dir, "refs")}),
		WithSkipPatterns([]string{"TS=.*"}),
	)
	res, err := s.CompareFiles(context.Background(), work, "test.ref")
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if !res.Equal() {
		t.Errorf("CompareFiles() not equal: %+v", res.Report)
	}
	if want := filepath.Join(dir, "refs", "test.ref"); res.ReferencePath != want {
		t.Errorf("ReferencePath = %q, want %q", res.ReferencePath, want)
	}
	if res.Stats.LeftLines != 3 || res.Stats.LeftRetained != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestSession_FailureModes(t *testing.T) {
	dir := t.TempDir()
	work := writeFile(t, dir, "work.log", "a\n")
	ref := writeFile(t, dir, "work.ref", "a\n")
	missing := filepath.Join(dir, "missing.log")

	tests := []struct {
		name     string
		work     string
		ref      string
		opts     []Option
		wantKind FailureKind
		wantErr  error
	}{
		{"missing work", missing, ref, nil, FailureInputNotFound, ErrInputNotFound},
		{"work is a directory", dir, ref, nil, FailureInputNotFound, ErrInputNotFound},
		{"missing reference", work, "nowhere.ref", []Option{WithReferenceDirs([]string{dir})}, FailureReferenceNotFound, ErrReferenceNotFound},
		{"no bound", work, ref, []Option{WithMaxCells(-1)}, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/report", func(t *testing.T) {
			res, err := New(tt.opts...).CompareFiles(context.Background(), tt.work, tt.ref)
			if err != nil {
				t.Fatalf("CompareFiles() error = %v", err)
			}
			if tt.wantKind == "" {
				if res.Failure != nil {
					t.Errorf("unexpected failure %v", res.Failure)
				}
				return
			}
			if res.Failure == nil || res.Failure.Kind != tt.wantKind {
				t.Fatalf("Failure = %+v, want kind %s", res.Failure, tt.wantKind)
			}
			if res.Report != nil || res.Equal() {
				t.Error("failed result should have no report")
			}
			if !errors.Is(res.Failure, tt.wantErr) {
				t.Errorf("Failure does not wrap %v", tt.wantErr)
			}
		})
		if tt.wantErr == nil {
			continue
		}
		t.Run(tt.name+"/abort", func(t *testing.T) {
			opts := append([]Option{WithFailureMode(FailureAbort)}, tt.opts...)
			res, err := New(opts...).CompareFiles(context.Background(), tt.work, tt.ref)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CompareFiles() error = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Error("abort mode should not return a result")
			}
			var f *Failure
			if !errors.As(err, &f) || f.Kind != tt.wantKind {
				t.Errorf("error %v is not a *Failure of kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestSession_ResourceLimit(t *testing.T) {
	work := strings.Split(strings.Repeat("x\n", 50), "\n")
	ref := strings.Split(strings.Repeat("y\n", 50), "\n")

	res, err := New(WithMaxCells(100)).CompareLines(context.Background(), work, ref)
	if err != nil {
		t.Fatalf("CompareLines() error = %v", err)
	}
	if res.Failure == nil || res.Failure.Kind != FailureResourceLimit {
		t.Fatalf("Failure = %+v, want resource limit", res.Failure)
	}
	if !errors.Is(res.Failure, ErrResourceLimitExceeded) {
		t.Error("Failure does not wrap ErrResourceLimitExceeded")
	}

	_, err = New(WithMaxCells(100), WithFailureMode(FailureAbort)).CompareLines(context.Background(), work, ref)
	if !errors.Is(err, ErrResourceLimitExceeded) {
		t.Errorf("abort mode error = %v, want ErrResourceLimitExceeded", err)
	}

	// Filtering happens before the bound is checked.
	res, err = New(WithMaxCells(100), WithSkipPatterns([]string{"x", "y"}), WithIgnoreBlank(true)).CompareLines(context.Background(), work, ref)
	if err != nil || res.Failure != nil {
		t.Errorf("filtered comparison failed: err=%v failure=%v", err, res.Failure)
	}
}

func TestSession_LogsCompileFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s := New(WithLogger(logger), WithMatchOptions(matcher.Options{UseMask: true}))
	res, err := s.CompareLines(context.Background(), []string{"a", "b"}, []string{"(", "("})
	if err != nil {
		t.Fatalf("CompareLines() error = %v", err)
	}
	if res.Report.Equal {
		t.Error("invalid pattern should not match")
	}
	if got := strings.Count(buf.String(), "pattern does not compile"); got != 1 {
		t.Errorf("logged %d compile warnings, want 1:\n%s", got, buf.String())
	}
}

func TestSession_SharedCacheConcurrent(t *testing.T) {
	cache := matcher.NewPatternCache()
	s := New(WithPatternCache(cache), WithMatchOptions(matcher.Options{UseMask: true}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			work := []string{fmt.Sprintf("id=%d", i), "ok"}
			res, err := s.CompareLines(context.Background(), work, []string{`id=\d+`, "ok"})
			if err != nil || !res.Equal() {
				t.Errorf("comparison %d failed: err=%v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, want 1", cache.Len())
	}
}

func TestSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().CompareLines(ctx, []string{"a"}, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Errorf("CompareLines() error = %v, want context.Canceled", err)
	}
}
