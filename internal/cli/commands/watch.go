package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/refcompare/pkg/artifact"
	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/config"
	"github.com/ccollicutt/refcompare/pkg/output"
	"github.com/ccollicutt/refcompare/pkg/resolve"
)

// DefaultDebounce is how long watch waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions holds command-line options for the watch command.
type WatchOptions struct {
	compareFlags
	outputOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <work-log> <reference>",
		Short: "Re-compare whenever the work log or reference changes",
		Long: `Compare a work log with its reference, then watch both files and compare
again each time either one is written, created or replaced.

Stops on interrupt. Artifacts are rewritten after every comparison.`,
		Example: `  refcompare watch out/run.log run.ref --reference-dir refs --color always`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	opts.compareFlags.bind(cmd.Flags())
	opts.outputOptions.bind(cmd.Flags())
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", DefaultDebounce, "Wait this long after the last change before comparing")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	workPath, referenceName := args[0], args[1]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger, err := newLogger(cmd)
	if err != nil {
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

	w := &watchRun{
		cfg:       cfg,
		opts:      compareOpts,
		formatter: formatter,
		logger:    logger,
		session:   compare.New(cfg.SessionOptions(compareOpts, nil, logger)...),
		work:      workPath,
		reference: referenceName,
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	targets := w.targets()
	for _, dir := range watchDirs(targets) {
		if err := fsw.Add(dir); err != nil {
			logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}

	if err := w.compare(ctx, cmd); err != nil {
		return err
	}

	return watchLoop(ctx, fsw, targets, opts.Debounce, logger, func() error {
		return w.compare(ctx, cmd)
	})
}

// watchRun repeats one comparison.
type watchRun struct {
	cfg       *config.Config
	opts      config.Options
	formatter output.Formatter
	logger    *slog.Logger
	session   *compare.Session
	work      string
	reference string
}

// targets lists the absolute paths whose changes trigger a comparison: the
// work log and every place the reference may be found.
func (w *watchRun) targets() []string {
	paths := []string{w.work}
	if ref, err := resolve.Reference(w.reference, w.cfg.ReferenceDirs); err == nil {
		paths = append(paths, ref)
	} else {
		for _, dir := range w.cfg.ReferenceDirs {
			paths = append(paths, filepath.Join(dir, w.reference))
		}
		paths = append(paths, w.reference)
	}

	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			paths[i] = abs
		}
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

func (w *watchRun) compare(ctx context.Context, cmd *cobra.Command) error {
	start := time.Now()
	res, err := w.session.CompareFiles(ctx, w.work, w.reference)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("comparing %s: %w", w.work, err)
	}

	if w.cfg.Artifacts.Enabled {
		path, err := artifact.Write(res, w.cfg.Artifacts.Dir)
		if err != nil {
			return err
		}
		w.logger.Info("wrote artifact", "path", path)
	}

	report := output.NewReport([]*compare.Result{res}, output.Metadata{
		Options:       w.opts.MatchOptions(),
		ReferenceDirs: w.cfg.ReferenceDirs,
		ComparedAt:    time.Now(),
		Duration:      time.Since(start),
	})
	if err := w.formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasDifferences() {
		ExitCode = ExitDifferences
	} else {
		ExitCode = ExitEqual
	}
	return nil
}

// watchDirs returns the directories holding paths. Directories are watched
// rather than files so that editors replacing a file are still seen.
func watchDirs(paths []string) []string {
	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		dirs = append(dirs, filepath.Dir(p))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// watchLoop calls fn once events for targets have been quiet for debounce.
// It returns when ctx is done or fn fails.
func watchLoop(ctx context.Context, fsw *fsnotify.Watcher, targets []string, debounce time.Duration, logger *slog.Logger, fn func() error) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event, targets) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-timer.C:
			if err := fn(); err != nil {
				return err
			}
		}
	}
}

func relevant(event fsnotify.Event, targets []string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		name = event.Name
	}
	return slices.Contains(targets, name)
}
