// Package masker turns reference logs into mask files: volatile tokens such
// as timestamps and identifiers become regular expressions and everything
// else is escaped literally.
package masker

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ccollicutt/refcompare/pkg/lines"
	"github.com/ccollicutt/refcompare/pkg/matcher"
)

// Hit is one token replaced in a line.
type Hit struct {
	Kind Kind
	Name string
	Text string
}

// Result holds a masked log.
type Result struct {
	Lines       []string     // Mask patterns, one per input line
	Counts      map[Kind]int // Tokens replaced per kind
	LinesMasked int          // Lines with at least one token
	Fallbacks   int          // Lines escaped literally because their mask failed to match them
}

// Masker converts log lines to mask patterns.
type Masker struct {
	tokens []*Token
	check  *matcher.Matcher
}

// Option configures the Masker.
type Option func(*Masker)

// WithKinds restricts masking to the given kinds.
func WithKinds(kinds ...Kind) Option {
	return func(m *Masker) {
		m.tokens = slices.DeleteFunc(m.tokens, func(t *Token) bool {
			return !slices.Contains(kinds, t.Kind)
		})
	}
}

// WithTokens replaces the built-in tokens.
func WithTokens(tokens []*Token) Option {
	return func(m *Masker) {
		m.tokens = tokens
	}
}

// New creates a new Masker with the default tokens.
func New(opts ...Option) *Masker {
	m := &Masker{
		tokens: DefaultTokens(),
		check:  matcher.New(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaskLine returns a pattern that matches line, with every token replaced
// by its mask. The pattern is verified against line with mask-mode matching;
// if that fails the whole line is escaped literally and no hits are returned.
func (m *Masker) MaskLine(line string) (string, []Hit) {
	masked, hits, _ := m.maskLine(line)
	return masked, hits
}

func (m *Masker) maskLine(line string) (string, []Hit, bool) {
	var b strings.Builder
	var hits []Hit

	pos := 0
	for pos < len(line) {
		tok, start, end := m.next(line, pos)
		if tok == nil {
			break
		}
		b.WriteString(regexp.QuoteMeta(line[pos:start]))
		b.WriteString(tok.Mask)
		hits = append(hits, Hit{Kind: tok.Kind, Name: tok.Name, Text: line[start:end]})
		pos = end
	}
	b.WriteString(regexp.QuoteMeta(line[pos:]))

	masked := b.String()
	if len(hits) > 0 && !m.check.Compare(line, masked, matcher.Options{UseMask: true}) {
		return regexp.QuoteMeta(line), nil, false
	}
	return masked, hits, true
}

// next finds the leftmost token at or after pos. Ties go to the longest
// match, then to the earlier token.
func (m *Masker) next(line string, pos int) (*Token, int, int) {
	var best *Token
	bestStart, bestEnd := -1, -1

	for _, tok := range m.tokens {
		from := pos
		for from < len(line) {
			loc := tok.Pattern.FindStringIndex(line[from:])
			if loc == nil || loc[0] == loc[1] {
				break
			}
			start, end := from+loc[0], from+loc[1]
			if best != nil && start > bestStart {
				break
			}
			if !validTimestamp(tok, line[start:end]) {
				from = start + 1
				continue
			}
			if best == nil || start < bestStart || (start == bestStart && end > bestEnd) {
				best, bestStart, bestEnd = tok, start, end
			}
			break
		}
	}

	return best, bestStart, bestEnd
}

func validTimestamp(tok *Token, text string) bool {
	if tok.Layout == "" {
		return true
	}
	_, err := time.Parse(tok.Layout, text)
	return err == nil
}

// MaskLines masks every line.
func (m *Masker) MaskLines(in []string) *Result {
	res := &Result{
		Lines:  make([]string, len(in)),
		Counts: make(map[Kind]int),
	}
	for i, line := range in {
		masked, hits, ok := m.maskLine(line)
		res.Lines[i] = masked
		if !ok {
			res.Fallbacks++
		}
		if len(hits) > 0 {
			res.LinesMasked++
		}
		for _, h := range hits {
			res.Counts[h.Kind]++
		}
	}
	return res
}

// MaskFile masks the log at path.
func (m *Masker) MaskFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seq, err := lines.LoadFile(path, lines.Right, lines.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return m.MaskLines(seq.Texts()), nil
}

// WriteTo writes the mask patterns one per line.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range r.Lines {
		c, _ := bw.WriteString(line)
		bw.WriteByte('\n')
		n += int64(c) + 1
	}
	return n, bw.Flush()
}
