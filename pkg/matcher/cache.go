package matcher

import (
	"regexp"
	"sync"
)

// PatternCache holds compiled mask patterns keyed by the exact pattern string.
//
// Entries are only ever added. A pattern that fails to compile is cached with
// its error so compilation is attempted once per distinct pattern. The cache
// is safe for concurrent use and may be shared between comparisons.
type PatternCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	re  *regexp.Regexp
	err error
}

// NewPatternCache creates an empty cache.
func NewPatternCache() *PatternCache {
	return &PatternCache{entries: make(map[string]*cacheEntry)}
}

// Lookup returns the compiled form of pattern, compiling and caching it on
// first use. created reports whether the entry was added by this call.
func (c *PatternCache) Lookup(pattern string) (re *regexp.Regexp, created bool, err error) {
	c.mu.RLock()
	e, ok := c.entries[pattern]
	c.mu.RUnlock()
	if ok {
		return e.re, false, e.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[pattern]; ok {
		return e.re, false, e.err
	}

	e = compile(pattern)
	c.entries[pattern] = e
	return e.re, true, e.err
}

// compile validates pattern on its own before wrapping it, so that a pattern
// like "a)|(b" is rejected rather than completed by the wrapper.
func compile(pattern string) *cacheEntry {
	if _, err := regexp.Compile(pattern); err != nil {
		return &cacheEntry{err: err}
	}
	// Anchored at the start only: full-line coverage is checked by the caller,
	// so leftmost-first alternation behaves like a prefix match.
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	return &cacheEntry{re: re, err: err}
}

// Len returns the number of cached patterns, including failed ones.
func (c *PatternCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
