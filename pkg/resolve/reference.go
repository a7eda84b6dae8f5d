// Package resolve locates comparison inputs on disk.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a reference cannot be located.
var ErrNotFound = errors.New("reference not found")

// Reference locates the reference file called name.
//
// Each directory in dirs is searched in order and the first regular file
// dir/name wins. When no directory has it, name itself is used as a path. If
// that does not exist either, the returned error wraps ErrNotFound and the
// returned path is name, so callers can report what was looked for.
func Reference(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}

	if isRegularFile(name) {
		return name, nil
	}
	return name, fmt.Errorf("%w: %s (searched %d director%s)", ErrNotFound, name, len(dirs), plural(len(dirs)))
}

// SplitDirList splits a colon-separated list of directories, dropping empty
// elements.
func SplitDirList(s string) []string {
	var dirs []string
	for _, d := range strings.Split(s, ":") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
