// Package config provides configuration loading and validation for refcompare.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// ReferenceDirs are searched in order for reference files.
	ReferenceDirs []string `yaml:"reference_dirs,omitempty"`

	// ReferenceExt names the default reference of a work log: <stem><ext>.
	ReferenceExt string `yaml:"reference_ext,omitempty"`

	// BreakWithDifference turns differences and missing inputs into errors
	// that stop the run.
	BreakWithDifference bool `yaml:"break_with_difference"`

	Options     Options            `yaml:"options"`
	Artifacts   ArtifactConfig     `yaml:"artifacts"`
	Comparisons []ComparisonConfig `yaml:"comparisons"`
	Webhooks    []WebhookConfig    `yaml:"webhooks,omitempty"`
}

// Options are the comparison settings shared by all comparisons.
type Options struct {
	Mask             bool     `yaml:"mask"`
	IgnoreCase       bool     `yaml:"ignore_case"`
	IgnoreBlankLines bool     `yaml:"ignore_blank_lines"`
	TrimWhitespace   bool     `yaml:"trim_whitespace"`
	SkipPatterns     []string `yaml:"skip_patterns,omitempty"`

	// MaxCells bounds the alignment table. Zero disables the bound.
	MaxCells int64 `yaml:"max_cells"`
}

// OptionOverrides replaces individual Options fields for one comparison.
// Nil fields inherit the global value.
type OptionOverrides struct {
	Mask             *bool    `yaml:"mask,omitempty"`
	IgnoreCase       *bool    `yaml:"ignore_case,omitempty"`
	IgnoreBlankLines *bool    `yaml:"ignore_blank_lines,omitempty"`
	TrimWhitespace   *bool    `yaml:"trim_whitespace,omitempty"`
	SkipPatterns     []string `yaml:"skip_patterns,omitempty"`
	MaxCells         *int64   `yaml:"max_cells,omitempty"`
}

// ArtifactConfig controls .suc/.dif output.
type ArtifactConfig struct {
	Enabled bool `yaml:"enabled"`

	// Dir overrides the directory of the work log.
	Dir string `yaml:"dir,omitempty"`
}

// ComparisonConfig defines one or more comparisons.
type ComparisonConfig struct {
	Name string `yaml:"name,omitempty"`

	// Work is a path or glob of work logs.
	Work string `yaml:"work"`

	// Reference is the reference name looked up in ReferenceDirs. When empty
	// each work log uses <stem><reference_ext>.
	Reference string `yaml:"reference,omitempty"`

	Options OptionOverrides `yaml:"options,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnDifferences fires only when a comparison differs or
	// fails (default).
	WebhookTriggerOnDifferences WebhookTrigger = "on_differences"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending comparison results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_differences" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
