// Command frontdown is the CLI entry point for the backup pipeline: a
// "backup" subcommand that runs a configuration end to end, an
// "apply-actions" subcommand that replays a previously persisted plan,
// and a "version" subcommand. Grounded on the teacher's
// cmd/mutagen/main.go root command wiring (explicit command registration
// in init, Cobra sorting disabled) and cmd/mutagen/flush.go's
// Mainify-wrapped RunE pattern. Exit codes follow spec.md §6: 0 success,
// 1 partial failure, 2 fatal, 130 cancelled; since Cobra's own Run
// signature has no way to report which of those applies, backup and
// apply-actions call os.Exit directly instead of returning through
// cmdutil.Mainify.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCommand = &cobra.Command{
	Use:   "frontdown",
	Short: "Frontdown is a versioned, hardlink-capable file-tree backup engine.",
}

func init() {
	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		backupCommand,
		applyActionsCommand,
		versionCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(2)
	}
}
