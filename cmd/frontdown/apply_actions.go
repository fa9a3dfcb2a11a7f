package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frontdown/frontdown/internal/cmdutil"
	"github.com/frontdown/frontdown/internal/executor"
	"github.com/frontdown/frontdown/internal/fsview/local"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/record"
)

func applyActionsMain(command *cobra.Command, arguments []string) error {
	instanceDir := arguments[0]

	rec, err := record.Load(filepath.Join(instanceDir, "actions.json"))
	if err != nil {
		cmdutil.PrintError(err)
		os.Exit(2)
	}

	logger := logging.NewLogger(logging.LevelInfo, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			logger.Warn("interrupt received, cancelling after the current action")
			cancel()
		}
	}()

	totalBackupErrors := 0
	cancelled := false
	for _, src := range rec.Sources {
		sourceLogger := logger.Sublogger(src.Name)

		sourceView, err := local.New(src.SourceRoot)
		if err != nil {
			cmdutil.PrintError(err)
			os.Exit(2)
		}
		targetView, err := local.New(filepath.Join(instanceDir, src.Name))
		if err != nil {
			cmdutil.PrintError(err)
			os.Exit(2)
		}

		stats, execErr := executor.Execute(ctx, record.ToActions(src.Actions), sourceView, targetView, executor.Options{
			MaxBackupErrors: applyActionsConfiguration.maxBackupErrors,
		}, sourceLogger)
		totalBackupErrors += stats.BackupErrors

		if errors.Is(execErr, executor.ErrCancelled) {
			cancelled = true
			break
		}
		if execErr != nil && !errors.Is(execErr, executor.ErrBudgetExceeded) {
			cmdutil.PrintError(execErr)
			os.Exit(2)
		}
	}

	if cancelled {
		os.Exit(130)
	}
	if applyActionsConfiguration.maxBackupErrors >= 0 && totalBackupErrors > applyActionsConfiguration.maxBackupErrors {
		os.Exit(1)
	}
	return nil
}

var applyActionsConfiguration struct {
	maxBackupErrors int
}

var applyActionsCommand = &cobra.Command{
	Use:   "apply-actions <instance-dir>",
	Short: "Execute a previously persisted action record",
	Args:  cobra.ExactArgs(1),
	Run: func(command *cobra.Command, arguments []string) {
		if err := applyActionsMain(command, arguments); err != nil {
			cmdutil.Fatal(err)
		}
	},
}

func init() {
	flags := applyActionsCommand.Flags()
	flags.IntVar(&applyActionsConfiguration.maxBackupErrors, "max-backup-errors", -1, "Maximum tolerated action failures before stopping (-1 disables)")
}
