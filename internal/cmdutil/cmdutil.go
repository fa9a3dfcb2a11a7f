// Package cmdutil provides small helpers shared by frontdown's cobra
// subcommands.
package cmdutil

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// PrintError prints an error message in red to stderr without exiting,
// for callers that need to control the process exit code themselves
// (the backup and apply-actions subcommands map specific error classes
// to specific exit codes rather than always exiting 2).
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
}

// PrintWarning prints a warning message in yellow to stderr.
func PrintWarning(message string) {
	fmt.Fprintln(os.Stderr, color.YellowString("Warning: %s", message))
}

// Fatal prints an error message in red to stderr and terminates the
// process with exit code 2 (the "fatal" class from the CLI surface:
// configuration invalid, source or target unavailable with abort).
func Fatal(err error) {
	PrintError(err)
	os.Exit(2)
}

// Mainify adapts an error-returning cobra run function into cobra's
// Run signature, printing and exiting on error. Subcommands that need to
// return specific exit codes (partial failure, cancellation) should instead
// call os.Exit directly from within their RunE and not rely on this
// wrapper.
func Mainify(main func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := main(command, arguments); err != nil {
			Fatal(err)
		}
	}
}
