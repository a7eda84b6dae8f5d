package output

import (
	"context"
	"testing"
	"time"

	"github.com/ccollicutt/refcompare/pkg/compare"
)

// createTestReport builds a report with one equal, one different and one
// failed comparison.
func createTestReport(t *testing.T) *Report {
	t.Helper()
	s := compare.New(compare.WithSkipPatterns([]string{"TS=.*"}))
	ctx := context.Background()

	equal, err := s.CompareLines(ctx, []string{"a", "b"}, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	equal.WorkPath, equal.ReferencePath = "out/equal.log", "refs/equal.ref"

	diff, err := s.CompareLines(ctx, []string{"start", "TS=1", "value 10"}, []string{"start", "TS=2", "value 12"})
	if err != nil {
		t.Fatal(err)
	}
	diff.WorkPath, diff.ReferencePath = "out/diff.log", "refs/diff.ref"

	failed := &compare.Result{
		WorkPath:      "out/missing.log",
		ReferencePath: "refs/missing.ref",
		Failure: &compare.Failure{
			Kind:    compare.FailureInputNotFound,
			Path:    "out/missing.log",
			Message: "input not found: work log out/missing.log",
		},
	}

	return NewReport([]*compare.Result{equal, diff, failed}, Metadata{
		ConfigFile:    "refcompare.yaml",
		ReferenceDirs: []string{"refs"},
		ComparedAt:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Duration:      1500 * time.Millisecond,
	})
}
