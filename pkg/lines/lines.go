package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const initialBufferSize = 64 * 1024

// Load reads all lines from r. Line terminators (\n and \r\n) are stripped and
// lines are numbered from 1. A trailing terminator does not start an extra line.
// Lines may be of any length.
func Load(r io.Reader, side Side, opts LoadOptions) (Sequence, error) {
	br := bufio.NewReaderSize(r, initialBufferSize)

	var seq Sequence
	num := 0
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			num++
			text = strings.TrimSuffix(text, "\n")
			text = strings.TrimSuffix(text, "\r")
			seq = append(seq, newRecord(num, text, side, opts))
		}
		if errors.Is(err, io.EOF) {
			return seq, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", num+1, err)
		}
	}
}

// LoadFile reads the lines of the file at path.
// A missing file yields an error that matches fs.ErrNotExist.
func LoadFile(path string, side Side, opts LoadOptions) (Sequence, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	seq, err := Load(f, side, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return seq, nil
}

// FromStrings builds a sequence from lines that are already in memory.
// Any trailing line terminator on an element is stripped.
func FromStrings(texts []string, side Side, opts LoadOptions) Sequence {
	seq := make(Sequence, 0, len(texts))
	for i, text := range texts {
		text = strings.TrimSuffix(text, "\n")
		text = strings.TrimSuffix(text, "\r")
		seq = append(seq, newRecord(i+1, text, side, opts))
	}
	return seq
}

func newRecord(num int, text string, side Side, opts LoadOptions) Record {
	if opts.TrimSpace {
		text = strings.TrimSpace(text)
	}
	return Record{Number: num, Text: text, Side: side}
}
