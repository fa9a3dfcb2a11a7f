package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/frontdown/frontdown/internal/cmdutil"
	"github.com/frontdown/frontdown/internal/configuration"
	"github.com/frontdown/frontdown/internal/decision"
	"github.com/frontdown/frontdown/internal/job"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/report"
)

func backupMain(command *cobra.Command, arguments []string) error {
	configPath := arguments[0]

	config, err := configuration.Load(configPath)
	if err != nil {
		cmdutil.PrintError(err)
		os.Exit(2)
	}

	var logBuffer bytes.Buffer
	logger := logging.NewLogger(config.LogLevel, io.MultiWriter(os.Stdout, &logBuffer))

	callback := promptCallbackIfNeeded(config)

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

	now := time.Now()
	result, runErr := job.New(config, logger, callback, now).Run(ctx)

	if result != nil {
		instanceDir := config.BackupRootDir
		if result.InstanceDir != "" {
			instanceDir = filepath.Join(config.BackupRootDir, result.InstanceDir)
		}
		finishBackup(config, instanceDir, now, result, logBuffer.Bytes())
	}

	switch {
	case runErr == nil:
		if result != nil && !result.Success {
			os.Exit(1)
		}
		return nil
	case errors.Is(runErr, job.ErrCancelled):
		cmdutil.PrintError(runErr)
		os.Exit(130)
	case errors.Is(runErr, job.ErrFatal):
		cmdutil.PrintError(runErr)
		os.Exit(2)
	default:
		cmdutil.PrintError(runErr)
		os.Exit(1)
	}
	return nil
}

// promptCallbackIfNeeded wires an interactive terminal prompt only if the
// configuration actually routes a decision through "prompt"; a job that
// never prompts has no business blocking on stdin.
func promptCallbackIfNeeded(config configuration.Configuration) decision.Callback {
	if config.TargetDriveFullAction == decision.Prompt || config.SourceUnavailableAction == decision.Prompt {
		return interactiveCallback
	}
	return nil
}

// finishBackup writes the instance's metadata.json, actions.html, and
// log.txt siblings described in spec.md §6's on-disk layout, and opens
// the actionfile/actionhtml if configured to do so. Best-effort: a
// failure here is logged but never changes the job's own success/exit
// code, since the backup itself already completed (or didn't) by this
// point.
func finishBackup(config configuration.Configuration, instanceDir string, now time.Time, result *job.Result, logData []byte) {
	if err := os.MkdirAll(instanceDir, 0755); err != nil {
		cmdutil.PrintWarning("unable to create instance directory for reports: " + err.Error())
		return
	}

	if err := os.WriteFile(filepath.Join(instanceDir, "log.txt"), logData, 0644); err != nil {
		cmdutil.PrintWarning("unable to write log.txt: " + err.Error())
	}

	rep := report.Report{InstanceDir: instanceDir, GeneratedAt: now, Success: result.Success}
	for _, s := range result.Sources {
		rep.Sources = append(rep.Sources, report.BuildSourceSummary(s.Name, s.Skipped, s.ScanErrors, s.Stats, s.Record.Actions, s.Err))
	}

	metadataPath := filepath.Join(instanceDir, "metadata.json")
	if err := report.SaveJSON(metadataPath, rep, nil); err != nil {
		cmdutil.PrintWarning("unable to save metadata.json: " + err.Error())
	}

	if config.SaveActionfile && config.OpenActionfile {
		actionfilePath := filepath.Join(instanceDir, "actions.json")
		if err := openPath(actionfilePath); err != nil {
			cmdutil.PrintWarning("unable to open actions.json: " + err.Error())
		}
	}

	if config.SaveActionHTML {
		htmlPath := filepath.Join(instanceDir, "actions.html")
		if err := saveActionHTML(htmlPath, rep, config.ExcludeActionHTMLActions); err != nil {
			cmdutil.PrintWarning("unable to save actions.html: " + err.Error())
		} else if config.OpenActionHTML {
			if err := openPath(htmlPath); err != nil {
				cmdutil.PrintWarning("unable to open actions.html: " + err.Error())
			}
		}
	}
}

func saveActionHTML(path string, rep report.Report, excludePatterns []string) error {
	filtered := report.Report{InstanceDir: rep.InstanceDir, GeneratedAt: rep.GeneratedAt, Success: rep.Success}
	for _, s := range rep.Sources {
		filtered.Sources = append(filtered.Sources, report.FilterActionsForHTML(s, excludePatterns))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.RenderHTML(f, filtered)
}

var backupCommand = &cobra.Command{
	Use:   "backup <config-path>",
	Short: "Run a backup job from a configuration file",
	Args:  cobra.ExactArgs(1),
	Run: func(command *cobra.Command, arguments []string) {
		if err := backupMain(command, arguments); err != nil {
			cmdutil.Fatal(err)
		}
	},
}
