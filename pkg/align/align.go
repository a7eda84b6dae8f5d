// Package align computes a line-level edit script between two sequences using
// a longest-common-subsequence table.
package align

import (
	"errors"
	"fmt"

	"github.com/ccollicutt/refcompare/pkg/lines"
	"github.com/ccollicutt/refcompare/pkg/matcher"
)

// ErrResourceLimitExceeded is returned when the alignment table would exceed
// the configured size.
var ErrResourceLimitExceeded = errors.New("resource limit exceeded")

// Op describes an edit operation.
type Op int

const (
	Match  Op = iota // Lines on both sides match
	Delete           // A line only present on the left
	Insert           // A line only present on the right
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case Match:
		return "match"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// EditOp is a single step of an edit script.
//
//   - For Match, Left and Right index the matching lines.
//   - For Delete, Left indexes the deleted line and Right is -1.
//   - For Insert, Right indexes the inserted line and Left is -1.
type EditOp struct {
	Op          Op
	Left, Right int
}

// Limits bounds the work done by Align.
type Limits struct {
	// MaxCells is the largest allowed product of the two sequence lengths.
	// Zero or less means unbounded.
	MaxCells int64
}

// Align returns the edit script that turns x into y, in forward order.
//
// Lines are compared with m under opts. Where several scripts of equal length
// exist, insertions are preferred over deletions at every step of the
// backtrack. That choice is fixed for reproducible output.
func Align(x, y lines.Sequence, m *matcher.Matcher, opts matcher.Options, limits Limits) ([]EditOp, error) {
	if err := checkLimits(len(x), len(y), limits); err != nil {
		return nil, err
	}

	eq := func(i, j int) bool { return m.Compare(x[i].Text, y[j].Text, opts) }
	t := buildTable(len(x), len(y), eq)
	return backtrack(t, eq), nil
}

func checkLimits(n, m int, limits Limits) error {
	if limits.MaxCells <= 0 || n == 0 || m == 0 {
		return nil
	}
	if int64(n) > limits.MaxCells/int64(m) {
		return fmt.Errorf("%w: %d x %d lines exceeds %d cells", ErrResourceLimitExceeded, n, m, limits.MaxCells)
	}
	return nil
}

// backtrack walks the table from the bottom-right corner. Operations are
// collected in reverse and flipped before returning.
func backtrack(t *table, eq func(i, j int) bool) []EditOp {
	ops := make([]EditOp, 0, t.n+t.m)
	i, j := t.n-1, t.m-1
	for i >= 0 || j >= 0 {
		switch {
		case i < 0:
			ops = append(ops, EditOp{Op: Insert, Left: -1, Right: j})
			j--
		case j < 0:
			ops = append(ops, EditOp{Op: Delete, Left: i, Right: -1})
			i--
		case eq(i, j):
			ops = append(ops, EditOp{Op: Match, Left: i, Right: j})
			i--
			j--
		case t.lcs(i+1, j) >= t.lcs(i, j+1):
			ops = append(ops, EditOp{Op: Insert, Left: -1, Right: j})
			j--
		default:
			ops = append(ops, EditOp{Op: Delete, Left: i, Right: -1})
			i--
		}
	}

	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

// LCSLength returns the length of the longest common subsequence of x and y.
func LCSLength(x, y lines.Sequence, m *matcher.Matcher, opts matcher.Options) int {
	t := buildTable(len(x), len(y), func(i, j int) bool { return m.Compare(x[i].Text, y[j].Text, opts) })
	return int(t.lcs(t.n, t.m))
}
