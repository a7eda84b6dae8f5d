// Package compare runs the full comparison pipeline: loading, filtering,
// alignment and report assembly.
package compare

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ccollicutt/refcompare/pkg/align"
	"github.com/ccollicutt/refcompare/pkg/filter"
	"github.com/ccollicutt/refcompare/pkg/lines"
	"github.com/ccollicutt/refcompare/pkg/matcher"
	"github.com/ccollicutt/refcompare/pkg/report"
	"github.com/ccollicutt/refcompare/pkg/resolve"
)

// DefaultMaxCells bounds the alignment table at 25M cells (100MB).
const DefaultMaxCells = 25_000_000

// Session holds the configuration for comparisons. A Session is immutable
// after New and may run comparisons concurrently; the only state shared
// between them is the pattern cache.
type Session struct {
	matchOpts     matcher.Options
	skipPatterns  []string
	ignoreBlank   bool
	trimSpace     bool
	maxCells      int64
	referenceDirs []string
	failureMode   FailureMode
	cache         *matcher.PatternCache
	logger        *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithMatchOptions sets the matching rules.
func WithMatchOptions(opts matcher.Options) Option {
	return func(s *Session) {
		s.matchOpts = opts
	}
}

// WithSkipPatterns sets the patterns of lines excluded from alignment.
func WithSkipPatterns(patterns []string) Option {
	return func(s *Session) {
		s.skipPatterns = append([]string(nil), patterns...)
	}
}

// WithIgnoreBlank excludes blank lines from alignment.
func WithIgnoreBlank(v bool) Option {
	return func(s *Session) {
		s.ignoreBlank = v
	}
}

// WithTrimSpace trims edge whitespace from every line before filtering.
func WithTrimSpace(v bool) Option {
	return func(s *Session) {
		s.trimSpace = v
	}
}

// WithMaxCells bounds the product of the filtered line counts.
// Zero or less disables the bound.
func WithMaxCells(n int64) Option {
	return func(s *Session) {
		s.maxCells = n
	}
}

// WithReferenceDirs sets the directories searched for reference files.
func WithReferenceDirs(dirs []string) Option {
	return func(s *Session) {
		s.referenceDirs = append([]string(nil), dirs...)
	}
}

// WithFailureMode selects how missing inputs and resource limits are reported.
func WithFailureMode(mode FailureMode) Option {
	return func(s *Session) {
		s.failureMode = mode
	}
}

// WithPatternCache shares a compiled-pattern cache with other sessions.
func WithPatternCache(cache *matcher.PatternCache) Option {
	return func(s *Session) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Session.
func New(opts ...Option) *Session {
	s := &Session{
		maxCells: DefaultMaxCells,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = matcher.NewPatternCache()
	}
	return s
}

// MatchOptions returns the session's matching rules.
func (s *Session) MatchOptions() matcher.Options {
	return s.matchOpts
}

// Result is the outcome of one comparison. Exactly one of Report and Failure
// is set.
type Result struct {
	WorkPath      string             `json:"work"`
	ReferencePath string             `json:"reference"`
	Report        *report.DiffReport `json:"report,omitempty"`
	Failure       *Failure           `json:"failure,omitempty"`
	Stats         Stats              `json:"stats"`
}

// Equal reports whether the comparison succeeded without differences.
func (r *Result) Equal() bool {
	return r.Failure == nil && r.Report != nil && r.Report.Equal
}

// Stats describes the work done by a comparison.
type Stats struct {
	LeftLines     int           `json:"left_lines"`
	RightLines    int           `json:"right_lines"`
	LeftRetained  int           `json:"left_retained"`
	RightRetained int           `json:"right_retained"`
	Duration      time.Duration `json:"duration"`
}

// CompareLines compares in-memory inputs. work is the left side and reference
// the right side; in mask mode reference lines are patterns.
func (s *Session) CompareLines(ctx context.Context, work, reference []string) (*Result, error) {
	loadOpts := lines.LoadOptions{TrimSpace: s.trimSpace}
	left := lines.FromStrings(work, lines.Left, loadOpts)
	right := lines.FromStrings(reference, lines.Right, loadOpts)
	return s.run(ctx, &Result{}, left, right)
}

// CompareFiles compares the work file with the reference called
// referenceName, which is looked up in the session's reference directories.
func (s *Session) CompareFiles(ctx context.Context, workPath, referenceName string) (*Result, error) {
	res := &Result{WorkPath: workPath, ReferencePath: referenceName}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkRegularFile(workPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, errNotRegular) {
			return s.fail(res, inputNotFound(workPath, err))
		}
		return nil, err
	}

	loadOpts := lines.LoadOptions{TrimSpace: s.trimSpace}
	left, err := lines.LoadFile(workPath, lines.Left, loadOpts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.fail(res, inputNotFound(workPath, err))
		}
		return nil, err
	}

	refPath, err := resolve.Reference(referenceName, s.referenceDirs)
	res.ReferencePath = refPath
	if err != nil {
		return s.fail(res, referenceNotFound(refPath, err))
	}

	right, err := lines.LoadFile(refPath, lines.Right, loadOpts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.fail(res, referenceNotFound(refPath, err))
		}
		return nil, err
	}

	return s.run(ctx, res, left, right)
}

var errNotRegular = errors.New("not a regular file")

func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, errNotRegular)
	}
	return nil
}

func (s *Session) run(ctx context.Context, res *Result, left, right lines.Sequence) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	m := matcher.New(s.cache)
	m.OnCompileError = func(pattern string, err error) {
		s.logger.Warn("pattern does not compile, treating as no match", "pattern", pattern, "error", err)
	}

	lf := filter.Filter(left, s.skipPatterns, s.ignoreBlank, m, s.matchOpts)
	rf := filter.Filter(right, s.skipPatterns, s.ignoreBlank, m, s.matchOpts)
	res.Stats = Stats{
		LeftLines:     len(left),
		RightLines:    len(right),
		LeftRetained:  len(lf.Retained),
		RightRetained: len(rf.Retained),
	}

	ops, err := align.Align(lf.Retained, rf.Retained, m, s.matchOpts, align.Limits{MaxCells: s.maxCells})
	if err != nil {
		if errors.Is(err, align.ErrResourceLimitExceeded) {
			return s.fail(res, resourceLimit(err))
		}
		return nil, err
	}

	res.Report = report.Assemble(ops, lf, rf)
	res.Stats.Duration = time.Since(start)

	counts := res.Report.Counts()
	s.logger.Debug("comparison finished",
		"work", res.WorkPath,
		"reference", res.ReferencePath,
		"equal", res.Report.Equal,
		"added", counts.Added,
		"removed", counts.Removed,
		"skipped", counts.Skipped,
		"duration", res.Stats.Duration)

	return res, nil
}

func (s *Session) fail(res *Result, f *Failure) (*Result, error) {
	s.logger.Debug("comparison failed", "kind", f.Kind, "path", f.Path, "error", f.Message)
	if s.failureMode == FailureAbort {
		return nil, f
	}
	res.Failure = f
	return res, nil
}
