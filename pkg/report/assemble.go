package report

import (
	"github.com/ccollicutt/refcompare/pkg/align"
	"github.com/ccollicutt/refcompare/pkg/filter"
	"github.com/ccollicutt/refcompare/pkg/lines"
)

// Assemble converts a forward edit script over the retained lines of left and
// right into a report. Lines removed by filtering are reinserted as
// SkippedContext rows ahead of the first retained line that follows them on
// the same side; any left over are appended at the end, left side first.
func Assemble(ops []align.EditOp, left, right filter.Result) *DiffReport {
	rep := &DiffReport{
		Equal: true,
		Rows:  make([]Row, 0, left.Len()+right.Len()),
	}
	ls := &splicer{removed: left.Removed}
	rs := &splicer{removed: right.Removed}

	for _, op := range ops {
		switch op.Op {
		case align.Match:
			l, r := left.Retained[op.Left], right.Retained[op.Right]
			rep.Rows = ls.before(rep.Rows, l.Number)
			rep.Rows = rs.before(rep.Rows, r.Number)
			rep.Rows = append(rep.Rows, Row{Kind: Context, LeftLine: l.Number, RightLine: r.Number, Text: l.Text})
		case align.Delete:
			l := left.Retained[op.Left]
			rep.Rows = ls.before(rep.Rows, l.Number)
			rep.Rows = append(rep.Rows, Row{Kind: Removed, LeftLine: l.Number, Text: l.Text})
			rep.Equal = false
		case align.Insert:
			r := right.Retained[op.Right]
			rep.Rows = rs.before(rep.Rows, r.Number)
			rep.Rows = append(rep.Rows, Row{Kind: Added, RightLine: r.Number, Text: r.Text})
			rep.Equal = false
		}
	}

	rep.Rows = ls.rest(rep.Rows)
	rep.Rows = rs.rest(rep.Rows)
	return rep
}

// splicer walks one side's removed lines in order.
type splicer struct {
	removed lines.Sequence
	next    int
}

// before appends all pending removed lines numbered below num.
func (s *splicer) before(rows []Row, num int) []Row {
	for s.next < len(s.removed) && s.removed[s.next].Number < num {
		rows = append(rows, skippedRow(s.removed[s.next]))
		s.next++
	}
	return rows
}

func (s *splicer) rest(rows []Row) []Row {
	for ; s.next < len(s.removed); s.next++ {
		rows = append(rows, skippedRow(s.removed[s.next]))
	}
	return rows
}

func skippedRow(rec lines.Record) Row {
	row := Row{Kind: SkippedContext, Text: rec.Text}
	if rec.Side == lines.Right {
		row.RightLine = rec.Number
	} else {
		row.LeftLine = rec.Number
	}
	return row
}
