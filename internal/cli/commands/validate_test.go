package commands

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunValidate_Success(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "out/a.log", "a\n")
	writeFile(t, dir, "out/b.log", "b\n")
	writeFile(t, dir, "refs/a.ref", "a\n")
	configPath := writeFile(t, dir, "refcompare.yaml", `reference_dirs: [`+filepath.Join(dir, "refs")+`]
options:
  ignore_case: true
comparisons:
  - name: outputs
    work: `+filepath.Join(dir, "out", "*.log")+`
    options:
      mask: true
      skip_patterns: ['^#']
  - work: `+filepath.Join(dir, "missing.log")+`
`)

	stdout, _, err := execute(t, NewValidateCommand(), configPath)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	for _, want := range []string{
		"Configuration valid!",
		"Comparisons:    2",
		"1. outputs [mask, ignore-case, 1 skip pattern(s)]",
		filepath.Join(dir, "out", "a.log") + " -> " + filepath.Join(dir, "refs", "a.ref"),
		filepath.Join(dir, "out", "b.log") + " -> b.ref (reference missing)",
		filepath.Join(dir, "missing.log") + " (work log missing)",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestRunValidate_DefaultsOnly(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "refcompare.yaml", "options:\n  trim_whitespace: true\n")

	stdout, _, err := execute(t, NewValidateCommand(), configPath)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !strings.Contains(stdout, "No comparisons defined") {
		t.Errorf("expected defaults-only warning:\n%s", stdout)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "invalid: yaml: content"},
		{"bad skip pattern", "options:\n  skip_patterns: ['(']\n"},
		{"bad reference ext", "reference_ext: ref\n"},
		{"comparison without work", "comparisons:\n  - reference: a.ref\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml", tt.content)
			_, _, err := execute(t, NewValidateCommand(), configPath)
			if err == nil || !strings.Contains(err.Error(), "validation failed") {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, _, err := execute(t, NewValidateCommand(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}
