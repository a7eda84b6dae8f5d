package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// IsPattern reports whether p contains glob metacharacters.
func IsPattern(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// ExpandGlobs expands work-file patterns into a sorted, deduplicated list of
// paths. Directories matched by a glob are dropped. A pattern that matches
// nothing is kept as a literal path so the comparison can report it missing.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				continue
			}
			add(m)
		}
	}

	slices.Sort(paths)
	return paths, nil
}
