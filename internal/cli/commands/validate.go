package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/refcompare/pkg/config"
	"github.com/ccollicutt/refcompare/pkg/resolve"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a refcompare configuration file without comparing anything.

Checks:
  - YAML syntax
  - Required fields
  - Skip pattern validity
  - Webhook settings
  - Work log and reference existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	printf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	printf(out, "\nConfiguration valid!\n")
	printf(out, "  Reference dirs: %s\n", displayList(cfg.ReferenceDirs))
	printf(out, "  Reference ext:  %s\n", cfg.ReferenceExt)
	printf(out, "  Comparisons:    %d\n", len(cfg.Comparisons))
	printf(out, "  Webhooks:       %d\n", len(cfg.Webhooks))
	if cfg.BreakWithDifference {
		printf(out, "  Break with difference: on\n")
	}

	if len(cfg.Comparisons) == 0 {
		printf(out, "\nWarning: No comparisons defined; this file only supplies defaults\n")
		return nil
	}

	printf(out, "\nComparisons:\n")
	for i, c := range cfg.Comparisons {
		opts := cfg.EffectiveOptions(c)
		printf(out, "  %d. %s%s\n", i+1, c.DisplayName(), describeOptions(opts))

		// Existence checks are warnings only
		files, err := resolve.ExpandGlobs([]string{c.Work})
		if err != nil {
			printf(out, "     Warning: Error expanding work pattern: %v\n", err)
			continue
		}
		for _, f := range files {
			ref, err := resolve.Reference(c.ReferenceFor(f, cfg.ReferenceExt), cfg.ReferenceDirs)
			switch {
			case !fileExists(f):
				printf(out, "     - %s (work log missing)\n", f)
			case err != nil:
				printf(out, "     - %s -> %s (reference missing)\n", f, ref)
			default:
				printf(out, "     - %s -> %s\n", f, ref)
			}
		}
	}

	return nil
}

func describeOptions(o config.Options) string {
	var parts []string
	if o.Mask {
		parts = append(parts, "mask")
	}
	if o.IgnoreCase {
		parts = append(parts, "ignore-case")
	}
	if o.IgnoreBlankLines {
		parts = append(parts, "ignore-blank")
	}
	if o.TrimWhitespace {
		parts = append(parts, "trim")
	}
	if n := len(o.SkipPatterns); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skip pattern(s)", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func displayList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
