package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ccollicutt/refcompare/pkg/artifact"
	"github.com/ccollicutt/refcompare/pkg/compare"
	"github.com/ccollicutt/refcompare/pkg/config"
	"github.com/ccollicutt/refcompare/pkg/output"
	"github.com/ccollicutt/refcompare/pkg/resolve"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes.
const (
	ExitEqual       = 0
	ExitDifferences = 1
	ExitError       = 2
)

// ErrDifference is returned in break-with-difference mode when a comparison
// differs.
var ErrDifference = errors.New("got difference")

func differenceError(artifactPath string) error {
	if artifactPath == "" {
		return ErrDifference
	}
	return fmt.Errorf("%w: please check [%s] for more information", ErrDifference, artifactPath)
}

// abortError records the artifact for a comparison aborted by a failure and
// wraps err with its location. Errors that are not failures are returned
// unchanged.
func abortError(artifacts config.ArtifactConfig, workPath, referenceName string, err error) error {
	var f *compare.Failure
	if !errors.As(err, &f) || !artifacts.Enabled {
		return err
	}
	res := &compare.Result{WorkPath: workPath, ReferencePath: referenceName, Failure: f}
	path, werr := artifact.Write(res, artifacts.Dir)
	if werr != nil {
		return errors.Join(err, werr)
	}
	return fmt.Errorf("%w: please check [%s] for more information", err, path)
}

// newLogger builds the diagnostics logger from the --log-level flag, which
// the root command defines as a persistent flag.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level := slog.LevelWarn
	if f := cmd.Flag("log-level"); f != nil {
		if err := level.UnmarshalText([]byte(f.Value.String())); err != nil {
			return nil, fmt.Errorf("invalid --log-level %q (use debug, info, warn or error)", f.Value.String())
		}
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}

// outputOptions are the report flags shared by compare, run and watch.
type outputOptions struct {
	Output  string
	Color   string
	Verbose bool
	Quiet   bool
}

func (o *outputOptions) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&o.Output, "output", "o", "text", "Output format (text|json)")
	flags.StringVar(&o.Color, "color", string(output.ColorAuto), "Colorize text output (auto|always|never)")
	flags.BoolVarP(&o.Verbose, "verbose", "v", false, "Show every row, including equal comparisons")
	flags.BoolVarP(&o.Quiet, "quiet", "q", false, "Summary only, no details")
}

func (o *outputOptions) formatter() (output.Formatter, error) {
	return output.NewFormatter(o.Output, output.FormatOptions{
		Verbose: o.Verbose,
		Quiet:   o.Quiet,
		Color:   output.ColorMode(o.Color),
	})
}

// compareFlags are the comparison settings accepted on the command line.
// Set flags override the configuration file.
type compareFlags struct {
	Config              string
	Mask                bool
	IgnoreCase          bool
	IgnoreBlank         bool
	Trim                bool
	Skip                []string
	ReferenceDirs       []string
	MaxCells            int64
	BreakWithDifference bool
	NoArtifacts         bool
	ArtifactDir         string
}

func (f *compareFlags) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&f.Config, "config", "c", "", "Configuration file supplying defaults")
	flags.BoolVar(&f.Mask, "mask", false, "Treat reference lines as regular expressions")
	flags.BoolVar(&f.IgnoreCase, "ignore-case", false, "Compare lines case-insensitively")
	flags.BoolVar(&f.IgnoreBlank, "ignore-blank", false, "Exclude blank lines from alignment")
	flags.BoolVar(&f.Trim, "trim", false, "Trim leading and trailing whitespace from every line")
	flags.StringArrayVar(&f.Skip, "skip", nil, "Exclude lines matching this pattern (can be repeated)")
	flags.StringArrayVar(&f.ReferenceDirs, "reference-dir", nil, "Directory searched for references (can be repeated, or colon-separated)")
	flags.Int64Var(&f.MaxCells, "max-cells", config.DefaultMaxCells, "Largest alignment table allowed, 0 for no limit")
	flags.BoolVar(&f.BreakWithDifference, "break-with-difference", false, "Treat differences and missing files as errors")
	flags.BoolVar(&f.NoArtifacts, "no-artifacts", false, "Do not write .suc/.dif files")
	flags.StringVar(&f.ArtifactDir, "artifact-dir", "", "Write .suc/.dif files here instead of next to the work log")
}

// resolve loads the configuration, if any, and applies the set flags.
func (f *compareFlags) resolve(cmd *cobra.Command) (*config.Config, config.Options, error) {
	cfg := config.FromEnvironment()
	if f.Config != "" {
		loaded, err := config.Load(cmd.Context(), f.Config)
		if err != nil {
			return nil, config.Options{}, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	opts := cfg.Options
	flags := cmd.Flags()
	if flags.Changed("mask") {
		opts.Mask = f.Mask
	}
	if flags.Changed("ignore-case") {
		opts.IgnoreCase = f.IgnoreCase
	}
	if flags.Changed("ignore-blank") {
		opts.IgnoreBlankLines = f.IgnoreBlank
	}
	if flags.Changed("trim") {
		opts.TrimWhitespace = f.Trim
	}
	if flags.Changed("skip") {
		opts.SkipPatterns = append(append([]string(nil), opts.SkipPatterns...), f.Skip...)
	}
	if flags.Changed("max-cells") {
		opts.MaxCells = f.MaxCells
	}
	if err := config.ValidateOptions(&opts); err != nil {
		return nil, config.Options{}, err
	}

	if flags.Changed("reference-dir") {
		cfg.ReferenceDirs = resolve.SplitDirList(strings.Join(f.ReferenceDirs, ":"))
	}
	if flags.Changed("break-with-difference") {
		cfg.BreakWithDifference = f.BreakWithDifference
	}
	if f.NoArtifacts {
		cfg.Artifacts.Enabled = false
	}
	if f.ArtifactDir != "" {
		cfg.Artifacts.Dir = f.ArtifactDir
	}

	return cfg, opts, nil
}

// printf writes user-facing messages to w.
func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
