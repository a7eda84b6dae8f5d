// Package lines loads text input into numbered line records.
package lines

// Side identifies which input of a comparison a line came from.
type Side int

const (
	// Left is the work file under test.
	Left Side = iota
	// Right is the reference file.
	Right
)

// String returns the side name used in reports.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Record is a single input line with its original position.
type Record struct {
	// Number is the 1-based line number in the original input.
	Number int

	// Text is the line content without its terminator.
	Text string

	// Side is the input this line belongs to.
	Side Side
}

// Sequence is an ordered list of records for one side, in file order.
type Sequence []Record

// Texts returns the line contents of the sequence.
func (s Sequence) Texts() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Text
	}
	return out
}

// LoadOptions controls line normalization.
type LoadOptions struct {
	// TrimSpace removes leading and trailing whitespace from every line.
	TrimSpace bool
}
