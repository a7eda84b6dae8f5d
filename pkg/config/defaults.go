package config

import (
	"os"
	"strings"
	"time"

	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/resolve"
)

// Default values for configuration.
const (
	DefaultReferenceExt   = ".ref"
	DefaultMaxCells       = compare.DefaultMaxCells
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvReferenceDirs       = "REFCOMPARE_REFERENCE_DIRS"
	EnvBreakWithDifference = "REFCOMPARE_BREAK_WITH_DIFFERENCE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReferenceDirs: []string{},
		ReferenceExt:  DefaultReferenceExt,
		Options: Options{
			MaxCells: DefaultMaxCells,
		},
		Artifacts: ArtifactConfig{
			Enabled: true,
		},
		Comparisons: []ComparisonConfig{},
	}
}

// FromEnvironment returns the defaults with environment overrides applied,
// for runs without a configuration file.
func FromEnvironment() *Config {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	return cfg
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if dirs := os.Getenv(EnvReferenceDirs); dirs != "" {
		c.ReferenceDirs = resolve.SplitDirList(dirs)
	}

	switch v := os.Getenv(EnvBreakWithDifference); {
	case strings.EqualFold(v, "true"):
		c.BreakWithDifference = true
	case strings.EqualFold(v, "false"):
		c.BreakWithDifference = false
	}
}
