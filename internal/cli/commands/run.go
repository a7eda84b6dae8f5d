package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/refcompare/pkg/artifact"
	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/config"
	"github.com/ccollicutt/refcompare/pkg/matcher"
	"github.com/ccollicutt/refcompare/pkg/output"
	"github.com/ccollicutt/refcompare/pkg/resolve"
)

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	outputOptions
	Jobs        int
	NoArtifacts bool
	Webhook     webhookFlags
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <config-file>",
		Short: "Run every comparison in a configuration file",
		Long: `Run the comparisons defined in a configuration file.

Each comparison's work pattern is expanded as a glob; every matching work
log is compared with its reference (by default <stem><reference_ext>).
Comparisons run concurrently and share one compiled-pattern cache.

With break_with_difference the first difference or missing file stops the
run.

Exit codes:
  0 - All logs are equal
  1 - Differences found or a file is missing
  2 - Configuration or runtime error, or any failure with break_with_difference`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	opts.outputOptions.bind(cmd.Flags())
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.NumCPU(), "Number of comparisons to run at once")
	cmd.Flags().BoolVar(&opts.NoArtifacts, "no-artifacts", false, "Do not write .suc/.dif files")
	opts.Webhook.bind(cmd.Flags())

	return cmd
}

// job is one work log to compare. A job for a glob that matched nothing
// writes no artifact since its path does not name a file.
type job struct {
	work      string
	reference string
	opts      config.Options
	unmatched bool
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	configPath := args[0]
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

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if len(cfg.Comparisons) == 0 {
		return errors.New("no comparisons defined in config")
	}
	if opts.NoArtifacts {
		cfg.Artifacts.Enabled = false
	}

	formatter, err := opts.outputOptions.formatter()
	if err != nil {
		return err
	}

	jobs, err := expandJobs(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := runJobs(ctx, cfg, jobs, opts.Jobs, logger)
	if err != nil {
		return err
	}

	report := output.NewReport(results, output.Metadata{
		ConfigFile:    configPath,
		Options:       cfg.Options.MatchOptions(),
		ReferenceDirs: cfg.ReferenceDirs,
		ComparedAt:    time.Now(),
		Duration:      time.Since(start),
	})

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, cfg, &opts.Webhook, report, cmd.ErrOrStderr())

	if report.HasDifferences() {
		ExitCode = ExitDifferences
	}

	return nil
}

// expandJobs expands every comparison's work pattern. A pattern matching
// nothing yields one job for the literal pattern, which then reports the work
// log as missing. When artifacts are enabled, two jobs that would write the
// same artifact are rejected.
func expandJobs(cfg *config.Config) ([]job, error) {
	var jobs []job
	owners := make(map[string]string)
	for _, c := range cfg.Comparisons {
		files, err := resolve.ExpandGlobs([]string{c.Work})
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", c.DisplayName(), err)
		}
		opts := cfg.EffectiveOptions(c)
		for _, f := range files {
			j := job{
				work:      f,
				reference: c.ReferenceFor(f, cfg.ReferenceExt),
				opts:      opts,
				unmatched: f == c.Work && resolve.IsPattern(c.Work),
			}
			if cfg.Artifacts.Enabled && !j.unmatched {
				if err := claimArtifact(owners, f, cfg.Artifacts.Dir); err != nil {
					return nil, fmt.Errorf("expanding %s: %w", c.DisplayName(), err)
				}
			}
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

// claimArtifact records work as the writer of its artifacts in owners.
func claimArtifact(owners map[string]string, work, dir string) error {
	suc, dif := artifact.Paths(work, dir)
	owner, taken := owners[suc]
	switch {
	case !taken:
		owners[suc] = work
		return nil
	case filepath.Clean(owner) == filepath.Clean(work):
		return fmt.Errorf("work log %s is matched by more than one comparison and would overwrite %s", work, dif)
	default:
		return fmt.Errorf("work logs %s and %s would both write %s; set distinct artifacts.dir or rename a log", owner, work, dif)
	}
}

// runJobs compares every job with at most limit running at once. Results
// keep the order of jobs. In break-with-difference mode the first failure or
// difference cancels the remaining jobs.
func runJobs(ctx context.Context, cfg *config.Config, jobs []job, limit int, logger *slog.Logger) ([]*compare.Result, error) {
	if limit < 1 {
		limit = 1
	}

	cache := matcher.NewPatternCache()
	results := make([]*compare.Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, j := range jobs {
		artifacts := cfg.Artifacts
		if j.unmatched {
			artifacts.Enabled = false
		}
		g.Go(func() error {
			session := compare.New(cfg.SessionOptions(j.opts, cache, logger)...)
			res, err := session.CompareFiles(gctx, j.work, j.reference)
			if err != nil {
				return fmt.Errorf("comparing %s: %w", j.work, abortError(artifacts, j.work, j.reference, err))
			}

			var artifactPath string
			if artifacts.Enabled {
				artifactPath, err = artifact.Write(res, artifacts.Dir)
				if err != nil {
					return err
				}
			}

			results[i] = res
			if cfg.BreakWithDifference && !res.Equal() {
				return fmt.Errorf("comparing %s: %w", j.work, differenceError(artifactPath))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("run finished", "comparisons", len(jobs), "patterns_cached", cache.Len())
	return results, nil
}
