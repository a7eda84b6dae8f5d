// Package matcher decides whether two lines are equal under the active
// comparison options.
package matcher

import "strings"

// Options selects the matching rules applied by Compare.
type Options struct {
	// UseMask treats the right-hand line as a regular expression.
	UseMask bool `json:"use_mask" yaml:"mask"`

	// IgnoreCase compares lines after Unicode case folding.
	IgnoreCase bool `json:"ignore_case" yaml:"ignore_case"`
}

// Matcher compares lines. It is safe for concurrent use when its cache is.
type Matcher struct {
	cache *PatternCache

	// OnCompileError, when set, is called once for each distinct pattern that
	// fails to compile.
	OnCompileError func(pattern string, err error)
}

// New creates a Matcher backed by cache. A nil cache gets a private one.
func New(cache *PatternCache) *Matcher {
	if cache == nil {
		cache = NewPatternCache()
	}
	return &Matcher{cache: cache}
}

// Cache returns the pattern cache used by the matcher.
func (m *Matcher) Cache() *PatternCache {
	return m.cache
}

// Compare reports whether a matches b. The rules are tried in order and the
// first that holds wins:
//
//  1. a and b are identical.
//  2. IgnoreCase is set and a and b are equal under case folding.
//  3. UseMask is set and b, read as a regular expression, matches all of a.
//
// An invalid pattern never matches.
func (m *Matcher) Compare(a, b string, opts Options) bool {
	if a == b {
		return true
	}
	if opts.IgnoreCase && strings.EqualFold(a, b) {
		return true
	}
	if opts.UseMask {
		return m.matchMask(a, b)
	}
	return false
}

func (m *Matcher) matchMask(line, pattern string) bool {
	re, created, err := m.cache.Lookup(pattern)
	if err != nil {
		if created && m.OnCompileError != nil {
			m.OnCompileError(pattern, err)
		}
		return false
	}
	loc := re.FindStringIndex(line)
	return loc != nil && loc[1] == len(line)
}
