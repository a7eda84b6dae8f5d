// Package cli provides the command-line interface for refcompare.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/refcompare/internal/cli/commands"
	"github.com/ccollicutt/refcompare/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the root command with args and the given output streams
// and returns the exit code.
func ExecuteArgs(args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = commands.ExitEqual

	// Unknown commands are handed to a plugin when one is installed.
	rootCmd := NewRootCommand()
	if len(args) > 0 && isCommandName(args[0]) && !isBuiltinCommand(rootCmd, args[0]) {
		if pluginPath, err := plugins.FindPlugin(args[0]); err == nil {
			return plugins.Execute(pluginPath, args[1:])
		}
	}

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		if len(args) > 0 && isCommandName(args[0]) && !isBuiltinCommand(rootCmd, args[0]) {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(args[0]))
			return commands.ExitError
		}
		// SilenceErrors prevents Cobra from printing this itself.
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return commands.ExitError
	}
	return commands.ExitCode
}

func isCommandName(arg string) bool {
	return arg != "" && arg[0] != '-'
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "refcompare",
		Short: "Compare logs with reference logs",
		Long: `refcompare compares the logs a program produced (work logs) with known-good
reference logs and reports the differences as a line diff.

Comparison can ignore case, trim whitespace, exclude blank lines or lines
matching skip patterns, and treat every reference line as a regular
expression (mask mode) so timestamps and ids do not cause differences.

Each comparison leaves an artifact next to the work log:
  <stem>.suc  logs are equal (empty file)
  <stem>.dif  the diff, or a banner naming the missing file

PLUGINS:
  refcompare supports plugins for extended functionality. Plugins are standalone
  binaries named refcompare-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the refcompare binary
    2. ~/.refcompare/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", "warn", "Diagnostics level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewMaskCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
