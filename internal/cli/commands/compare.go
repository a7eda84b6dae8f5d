package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/refcompare/pkg/artifact"
	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/output"
)

// CompareOptions holds command-line options for the compare command.
type CompareOptions struct {
	compareFlags
	outputOptions
	Webhook webhookFlags
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	opts := &CompareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <work-log> <reference>",
		Short: "Compare a work log with its reference",
		Long: `Compare a work log line by line with a reference log.

The reference is looked up in each --reference-dir in order, then at the
given path. With --mask every reference line is a regular expression that
must match the whole work line. Lines matching a --skip pattern are shown
but never cause a difference.

The outcome is recorded next to the work log as <stem>.suc (equal) or
<stem>.dif (differences or missing files).

Exit codes:
  0 - Logs are equal
  1 - Differences found or a file is missing
  2 - Configuration or runtime error, or any failure with --break-with-difference`,
		Example: `  refcompare compare out/run.log run.ref --reference-dir refs
  refcompare compare --mask --skip 'TS=\d+' out/run.log refs/run.mask`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, opts)
		},
	}

	opts.compareFlags.bind(cmd.Flags())
	opts.outputOptions.bind(cmd.Flags())
	opts.Webhook.bind(cmd.Flags())

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, opts *CompareOptions) error {
	workPath, referenceName := args[0], args[1]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	if err := opts.Webhook.validate(); err != nil {
		return err
	}

	cfg, compareOpts, err := opts.compareFlags.resolve(cmd)
	if err != nil {
		return err
	}

	formatter, err := opts.outputOptions.formatter()
	if err != nil {
		return err
	}

	start := time.Now()
	session := compare.New(cfg.SessionOptions(compareOpts, nil, logger)...)
	res, err := session.CompareFiles(ctx, workPath, referenceName)
	if err != nil {
		return fmt.Errorf("comparing %s: %w", workPath, abortError(cfg.Artifacts, workPath, referenceName, err))
	}

	var artifactPath string
	if cfg.Artifacts.Enabled {
		artifactPath, err = artifact.Write(res, cfg.Artifacts.Dir)
		if err != nil {
			return err
		}
		logger.Info("wrote artifact", "path", artifactPath)
	}

	report := output.NewReport([]*compare.Result{res}, output.Metadata{
		ConfigFile:    opts.Config,
		Options:       compareOpts.MatchOptions(),
		ReferenceDirs: cfg.ReferenceDirs,
		ComparedAt:    time.Now(),
		Duration:      time.Since(start),
	})

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, cfg, &opts.Webhook, report, cmd.ErrOrStderr())

	if report.HasDifferences() {
		if cfg.BreakWithDifference {
			return differenceError(artifactPath)
		}
		ExitCode = ExitDifferences
	}

	return nil
}
