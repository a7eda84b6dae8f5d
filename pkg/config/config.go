package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and compiles every skip pattern.
// Invalid skip patterns are rejected here even though at match time they
// would only fail to match. A configuration without comparisons is valid; it
// still supplies defaults to the compare command.
func Validate(cfg *Config) error {
	if cfg.ReferenceExt == "" {
		cfg.ReferenceExt = DefaultReferenceExt
	} else if !strings.HasPrefix(cfg.ReferenceExt, ".") {
		return fmt.Errorf("reference_ext: %q must start with a dot", cfg.ReferenceExt)
	}

	if err := ValidateOptions(&cfg.Options); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	for i := range cfg.Comparisons {
		if err := validateComparison(&cfg.Comparisons[i]); err != nil {
			return fmt.Errorf("comparisons[%d] (%s): %w", i, cfg.Comparisons[i].DisplayName(), err)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

// ValidateOptions checks skip patterns and bounds.
func ValidateOptions(opts *Options) error {
	if err := validatePatterns(opts.SkipPatterns); err != nil {
		return err
	}
	if opts.MaxCells < 0 {
		return fmt.Errorf("max_cells must be >= 0, got %d", opts.MaxCells)
	}
	return nil
}

func validateComparison(c *ComparisonConfig) error {
	if c.Work == "" {
		return errors.New("work is required")
	}

	if err := validatePatterns(c.Options.SkipPatterns); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	if c.Options.MaxCells != nil && *c.Options.MaxCells < 0 {
		return fmt.Errorf("options: max_cells must be >= 0, got %d", *c.Options.MaxCells)
	}

	return nil
}

func validatePatterns(patterns []string) error {
	for i, p := range patterns {
		if p == "" {
			return fmt.Errorf("skip_patterns[%d]: pattern is empty", i)
		}
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("skip_patterns[%d]: invalid pattern: %w", i, err)
		}
	}
	return nil
}

// Valid reports whether t is one of the known webhook triggers.
func (t WebhookTrigger) Valid() bool {
	switch t {
	case WebhookTriggerOnDifferences, WebhookTriggerAlways, WebhookTriggerNever:
		return true
	}
	return false
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		if !wh.Trigger.Valid() {
			return fmt.Errorf("invalid trigger %q (must be on_differences, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnDifferences
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
