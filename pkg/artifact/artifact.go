// Package artifact writes the .suc and .dif files that record the outcome of
// a comparison next to the work log.
package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/report"
)

// File extensions of the two artifact kinds.
const (
	SuccessExt    = ".suc"
	DifferenceExt = ".dif"
)

// minNumberWidth is the narrowest column used for line numbers in .dif files.
const minNumberWidth = 6

// Paths returns the success and difference artifact paths for a work log.
// When dir is empty the artifacts live next to the work log.
func Paths(workPath, dir string) (suc, dif string) {
	if dir == "" {
		dir = filepath.Dir(workPath)
	}
	base := filepath.Base(workPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+SuccessExt), filepath.Join(dir, stem+DifferenceExt)
}

// Write records res as an artifact and returns the path written.
// Stale artifacts of both kinds are removed first. A successful comparison
// produces an empty .suc file; differences and failures produce a .dif file.
func Write(res *compare.Result, dir string) (string, error) {
	suc, dif := Paths(res.WorkPath, dir)
	for _, p := range []string{suc, dif} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("removing stale artifact: %w", err)
		}
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating artifact directory: %w", err)
		}
	}

	if res.Equal() {
		if err := os.WriteFile(suc, nil, 0644); err != nil {
			return "", fmt.Errorf("writing %s: %w", suc, err)
		}
		return suc, nil
	}

	f, err := os.Create(dif)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", dif, err)
	}
	werr := Encode(f, res)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", fmt.Errorf("writing %s: %w", dif, werr)
	}
	return dif, nil
}

// Encode writes the .dif representation of res: a banner for failures,
// otherwise one line per report row.
func Encode(w io.Writer, res *compare.Result) error {
	if res.Failure != nil {
		_, err := fmt.Fprintln(w, Banner(res.Failure, res))
		return err
	}
	if res.Report == nil {
		return nil
	}
	return EncodeRows(w, res.Report.Rows)
}

// EncodeRows writes rows as `tag number text` lines with the numbers
// right-justified in a shared column.
func EncodeRows(w io.Writer, rows []report.Row) error {
	width := NumberWidth(rows)
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		bw.WriteString(FormatRow(row, width))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// FormatRow renders a single row without a trailing newline.
func FormatRow(row report.Row, width int) string {
	return fmt.Sprintf("%c%*d %s", row.Kind.Tag(), width, row.LineNumber(), row.Text)
}

// NumberWidth returns the column width needed for the line numbers in rows.
func NumberWidth(rows []report.Row) int {
	width := minNumberWidth
	for _, row := range rows {
		if n := len(strconv.Itoa(row.LineNumber())); n > width {
			width = n
		}
	}
	return width
}

// Banner describes a failed comparison in one line.
func Banner(f *compare.Failure, res *compare.Result) string {
	switch f.Kind {
	case compare.FailureInputNotFound:
		return "===============   work log [" + f.Path + "] does not exist ============"
	case compare.FailureReferenceNotFound:
		return "===============   reference log [" + f.Path + "] does not exist ============"
	case compare.FailureResourceLimit:
		return "===============   work log [" + res.WorkPath + "] and reference log [" +
			res.ReferencePath + "] are too large to align ============"
	default:
		return "===============   " + f.Message + " ============"
	}
}
