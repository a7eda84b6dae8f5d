package plugins

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// isolate points HOME and PATH at empty temporary directories.
func isolate(t *testing.T) (home, bin string) {
	t.Helper()
	home = t.TempDir()
	bin = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATH", bin)
	return home, bin
}

func writePlugin(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create plugins dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho test"), mode); err != nil {
		t.Fatalf("failed to create test plugin: %v", err)
	}
	return path
}

func TestFindPlugin_NotFound(t *testing.T) {
	isolate(t)
	_, err := FindPlugin("nonexistent-plugin-xyz")
	if !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestFindPlugin_InPluginsDir(t *testing.T) {
	home, _ := isolate(t)
	pluginPath := writePlugin(t, filepath.Join(home, ".refcompare", "plugins"), "refcompare-testplugin", 0755)

	found, err := FindPlugin("testplugin")
	if err != nil {
		t.Fatalf("expected to find plugin, got error: %v", err)
	}
	if found != pluginPath {
		t.Errorf("expected %s, got %s", pluginPath, found)
	}
}

func TestFindPlugin_InPath(t *testing.T) {
	_, bin := isolate(t)
	pluginPath := writePlugin(t, bin, "refcompare-junit", 0755)

	found, err := FindPlugin("junit")
	if err != nil {
		t.Fatalf("expected to find plugin, got error: %v", err)
	}
	if found != pluginPath {
		t.Errorf("expected %s, got %s", pluginPath, found)
	}
}

func TestList(t *testing.T) {
	home, bin := isolate(t)
	writePlugin(t, filepath.Join(home, ".refcompare", "plugins"), "refcompare-junit", 0755)
	writePlugin(t, bin, "refcompare-junit", 0755)
	writePlugin(t, bin, "refcompare-html", 0755)
	writePlugin(t, bin, "refcompare-notes", 0644)
	writePlugin(t, bin, "other-tool", 0755)

	if diff := cmp.Diff([]string{"html", "junit"}, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatNotFoundError(t *testing.T) {
	_, bin := isolate(t)

	msg := FormatNotFoundError("unknown")
	for _, want := range []string{`unknown command "unknown"`, "refcompare-unknown", "~/.refcompare/plugins/"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Installed plugins") {
		t.Error("should not list plugins when none are installed")
	}

	writePlugin(t, bin, "refcompare-junit", 0755)
	msg = FormatNotFoundError("unknown")
	if !strings.Contains(msg, "Installed plugins: junit") {
		t.Errorf("expected installed plugins to be listed, got:\n%s", msg)
	}
}

func TestIsExecutable(t *testing.T) {
	tmpDir := t.TempDir()

	nonExec := filepath.Join(tmpDir, "nonexec")
	if err := os.WriteFile(nonExec, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if isExecutable(nonExec) {
		t.Error("non-executable file should not be detected as executable")
	}

	exec := filepath.Join(tmpDir, "exec")
	if err := os.WriteFile(exec, []byte("test"), 0755); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if !isExecutable(exec) {
		t.Error("executable file should be detected as executable")
	}

	if isExecutable(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("non-existent file should not be detected as executable")
	}

	if isExecutable(tmpDir) {
		t.Error("directory should not be detected as executable")
	}
}
