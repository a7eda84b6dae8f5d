package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/refcompare/pkg/config"
	"github.com/ccollicutt/refcompare/pkg/masker"
)

// MaskOptions holds command-line options for the mask command.
type MaskOptions struct {
	Write       string
	Kinds       []string
	Output      string
	Force       bool
	WriteConfig string
	Work        string
}

// NewMaskCommand creates the mask command.
func NewMaskCommand() *cobra.Command {
	opts := &MaskOptions{}

	cmd := &cobra.Command{
		Use:   "mask <reference-log>",
		Short: "Generate a mask file from a reference log",
		Long: `Convert a reference log into a mask for --mask comparisons.

Volatile tokens are replaced by regular expressions and everything else is
escaped literally, so each mask line matches its original line:
  - Timestamps (ISO 8601, syslog, Apache/NGINX, Python/Java logging, ...)
  - UUIDs
  - IPv4 addresses
  - Hex addresses (0x...)
  - Durations (12ms, 1.5s, ...)
  - Numbers of four or more digits

Optionally generates a starter config file with --write-config.

Example:
  refcompare mask refs/run.ref -w refs/run.mask
  refcompare mask --kinds timestamp,uuid refs/run.ref
  refcompare mask -w refs/run.mask --write-config refcompare.yaml --work 'out/run*.log' refs/run.ref`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMask(cmd, args, opts)
		},
	}

	kinds := make([]string, 0, len(masker.Kinds()))
	for _, k := range masker.Kinds() {
		kinds = append(kinds, string(k))
	}

	cmd.Flags().StringVarP(&opts.Write, "write", "w", "", "Write the mask to this file instead of stdout")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kinds", nil, "Token kinds to mask ("+strings.Join(kinds, ",")+"), default all")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Statistics format (text|json)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing mask file")
	cmd.Flags().StringVar(&opts.WriteConfig, "write-config", "", "Write starter config to file (will not overwrite)")
	cmd.Flags().StringVar(&opts.Work, "work", "", "Work log pattern for the starter config")

	return cmd
}

func runMask(cmd *cobra.Command, args []string, opts *MaskOptions) error {
	refPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !fileExists(refPath) {
		return fmt.Errorf("reference log not found: %s", refPath)
	}

	var maskerOpts []masker.Option
	if len(opts.Kinds) > 0 {
		kinds := make([]masker.Kind, 0, len(opts.Kinds))
		for _, k := range opts.Kinds {
			kind := masker.Kind(strings.TrimSpace(k))
			if !slices.Contains(masker.Kinds(), kind) {
				return fmt.Errorf("unknown token kind %q", k)
			}
			kinds = append(kinds, kind)
		}
		maskerOpts = append(maskerOpts, masker.WithKinds(kinds...))
	}

	if opts.WriteConfig != "" && opts.Write == "" {
		return fmt.Errorf("--write-config requires --write")
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	result, err := masker.New(maskerOpts...).MaskFile(ctx, refPath)
	if err != nil {
		return fmt.Errorf("masking failed: %w", err)
	}

	// With no mask file the mask goes to stdout, so statistics go to stderr.
	statsOut := cmd.OutOrStdout()
	if opts.Write == "" {
		if _, err := result.WriteTo(cmd.OutOrStdout()); err != nil {
			return err
		}
		statsOut = cmd.ErrOrStderr()
	} else if err := writeMaskFile(result, opts.Write, opts.Force); err != nil {
		return err
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(opts.WriteConfig, opts.Work, refPath, opts.Write); err != nil {
			return err
		}
		printf(statsOut, "Wrote starter config to: %s\n", opts.WriteConfig)
	}

	if opts.Output == "json" {
		return outputMaskJSON(result, refPath, opts.Write, statsOut)
	}
	outputMaskText(result, refPath, opts.Write, statsOut)
	return nil
}

func writeMaskFile(result *masker.Result, path string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}

	// #nosec G304 -- path is provided by user via CLI
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("mask file already exists: %s (use --force to overwrite)", path)
		}
		return fmt.Errorf("failed to write mask file: %w", err)
	}
	if _, err := result.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write mask file: %w", err)
	}
	return f.Close()
}

func outputMaskText(result *masker.Result, refPath, maskPath string, w io.Writer) {
	printf(w, "=== Mask Generation ===\n")
	printf(w, "Reference: %s\n", refPath)
	if maskPath != "" {
		printf(w, "Mask:      %s\n", maskPath)
	}
	printf(w, "Lines masked: %d/%d\n", result.LinesMasked, len(result.Lines))
	for _, k := range masker.Kinds() {
		if n := result.Counts[k]; n > 0 {
			printf(w, "  %-10s %d\n", k+":", n)
		}
	}
	if result.Fallbacks > 0 {
		printf(w, "Warning: %d line(s) kept literally because their mask did not match\n", result.Fallbacks)
	}
}

// MaskJSONOutput is the JSON form of mask statistics.
type MaskJSONOutput struct {
	Reference   string         `json:"reference"`
	Mask        string         `json:"mask,omitempty"`
	Lines       int            `json:"lines"`
	LinesMasked int            `json:"lines_masked"`
	Fallbacks   int            `json:"fallbacks"`
	Tokens      map[string]int `json:"tokens"`
}

func outputMaskJSON(result *masker.Result, refPath, maskPath string, w io.Writer) error {
	out := MaskJSONOutput{
		Reference:   refPath,
		Mask:        maskPath,
		Lines:       len(result.Lines),
		LinesMasked: result.LinesMasked,
		Fallbacks:   result.Fallbacks,
		Tokens:      make(map[string]int, len(result.Counts)),
	}
	for k, n := range result.Counts {
		out.Tokens[string(k)] = n
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a configuration comparing work logs with the
// generated mask.
func writeStarterConfig(configPath, work, refPath, maskPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if work == "" {
		work = strings.TrimSuffix(filepath.Base(refPath), filepath.Ext(refPath)) + ".log"
	}

	mask := true
	cfg := config.DefaultConfig()
	cfg.ReferenceDirs = []string{filepath.Dir(maskPath)}
	cfg.Comparisons = []config.ComparisonConfig{{
		Work:      work,
		Reference: filepath.Base(maskPath),
		Options:   config.OptionOverrides{Mask: &mask},
	}}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	header := "# refcompare configuration\n# Generated by: refcompare mask " + refPath + "\n\n"

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
