package config

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/matcher"
)

// Merge returns o with every non-nil override applied.
func (o Options) Merge(ov OptionOverrides) Options {
	if ov.Mask != nil {
		o.Mask = *ov.Mask
	}
	if ov.IgnoreCase != nil {
		o.IgnoreCase = *ov.IgnoreCase
	}
	if ov.IgnoreBlankLines != nil {
		o.IgnoreBlankLines = *ov.IgnoreBlankLines
	}
	if ov.TrimWhitespace != nil {
		o.TrimWhitespace = *ov.TrimWhitespace
	}
	if ov.SkipPatterns != nil {
		o.SkipPatterns = slices.Clone(ov.SkipPatterns)
	}
	if ov.MaxCells != nil {
		o.MaxCells = *ov.MaxCells
	}
	return o
}

// MatchOptions returns the matcher rules selected by o.
func (o Options) MatchOptions() matcher.Options {
	return matcher.Options{UseMask: o.Mask, IgnoreCase: o.IgnoreCase}
}

// EffectiveOptions returns the options for one comparison.
func (c *Config) EffectiveOptions(cmp ComparisonConfig) Options {
	return c.Options.Merge(cmp.Options)
}

// SessionOptions converts the configuration into options for compare.New.
func (c *Config) SessionOptions(o Options, cache *matcher.PatternCache, logger *slog.Logger) []compare.Option {
	mode := compare.FailureReport
	if c.BreakWithDifference {
		mode = compare.FailureAbort
	}

	maxCells := o.MaxCells
	if maxCells == 0 {
		maxCells = -1
	}

	return []compare.Option{
		compare.WithMatchOptions(o.MatchOptions()),
		compare.WithSkipPatterns(o.SkipPatterns),
		compare.WithIgnoreBlank(o.IgnoreBlankLines),
		compare.WithTrimSpace(o.TrimWhitespace),
		compare.WithMaxCells(maxCells),
		compare.WithReferenceDirs(c.ReferenceDirs),
		compare.WithFailureMode(mode),
		compare.WithPatternCache(cache),
		compare.WithLogger(logger),
	}
}

// DisplayName returns the comparison's name, falling back to its work pattern.
func (c ComparisonConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Work
}

// ReferenceFor returns the reference name used for a work log matched by c.
func (c ComparisonConfig) ReferenceFor(workPath, ext string) string {
	if c.Reference != "" {
		return c.Reference
	}
	return DefaultReference(workPath, ext)
}

// DefaultReference returns <stem><ext> for a work log path.
func DefaultReference(workPath, ext string) string {
	base := filepath.Base(workPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
