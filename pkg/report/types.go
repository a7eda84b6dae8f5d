// Package report assembles an edit script into a line-by-line diff report.
package report

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a report row.
type Kind int

const (
	Context        Kind = iota // Line present on both sides
	Removed                    // Line only in the work (left) input
	Added                      // Line only in the reference (right) input
	SkippedContext             // Line excluded from alignment, shown for context
)

var kindNames = map[Kind]string{
	Context:        "context",
	Removed:        "removed",
	Added:          "added",
	SkippedContext: "skipped",
}

// String returns the kind name used in JSON output.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Tag returns the one-character marker used in diff artifacts.
func (k Kind) Tag() byte {
	switch k {
	case Removed:
		return '-'
	case Added:
		return '+'
	case SkippedContext:
		return 'S'
	default:
		return ' '
	}
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown row kind %q", name)
}

// Row is one line of the report. A line number of zero means the row has no
// line on that side.
type Row struct {
	Kind      Kind   `json:"kind"`
	LeftLine  int    `json:"left_line,omitempty"`
	RightLine int    `json:"right_line,omitempty"`
	Text      string `json:"text"`
}

// LineNumber returns the row's line number for display: the left number when
// present, otherwise the right one.
func (r Row) LineNumber() int {
	if r.LeftLine != 0 {
		return r.LeftLine
	}
	return r.RightLine
}

// DiffReport is the outcome of one comparison.
//
// Rows cover every original line of both inputs exactly once, in
// non-decreasing line order per side.
type DiffReport struct {
	Equal bool  `json:"equal"`
	Rows  []Row `json:"rows"`
}

// Counts tallies rows by kind.
type Counts struct {
	Context int `json:"context"`
	Removed int `json:"removed"`
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Counts returns the number of rows of each kind.
func (r *DiffReport) Counts() Counts {
	var c Counts
	for _, row := range r.Rows {
		switch row.Kind {
		case Context:
			c.Context++
		case Removed:
			c.Removed++
		case Added:
			c.Added++
		case SkippedContext:
			c.Skipped++
		}
	}
	return c
}
