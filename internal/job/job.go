// Package job implements the backup job (C7): orchestrating one
// invocation across N sources — instance naming, compare-root selection,
// source-availability routing, and overall success determination — per
// spec.md §4.7. Grounded on the shape of the teacher's top-level
// synchronization session loop (pkg/synchronization/manager.go), which
// similarly drives per-endpoint connect/scan/transition/apply phases and
// aggregates their outcomes into one session result.
package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frontdown/frontdown/internal/configuration"
	"github.com/frontdown/frontdown/internal/decision"
	"github.com/frontdown/frontdown/internal/diff"
	"github.com/frontdown/frontdown/internal/executor"
	"github.com/frontdown/frontdown/internal/fsview"
	"github.com/frontdown/frontdown/internal/fsview/ftp"
	"github.com/frontdown/frontdown/internal/fsview/local"
	"github.com/frontdown/frontdown/internal/fsview/wpd"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/plan"
	"github.com/frontdown/frontdown/internal/record"
	"github.com/frontdown/frontdown/internal/scan"
)

// ErrCancelled is returned by Run when ctx is cancelled, mapped by the CLI
// to exit code 130.
var ErrCancelled = errors.New("job: cancelled")

// ErrFatal wraps a configuration, source, or target condition that stops
// the job before any source completes, mapped by the CLI to exit code 2.
var ErrFatal = errors.New("job: fatal condition")

// SourceResult captures one source's outcome.
type SourceResult struct {
	Name       string
	Skipped    bool
	ScanErrors int
	Stats      *executor.Statistics
	Record     record.SourceRecord
	Err        error
}

// Result is the aggregate outcome of a Run, per spec.md §4.7's success
// rule: success iff scan_errors <= max_scanning_errors and backup_errors
// <= max_backup_errors (summed across sources) and at least one source
// completed. InstanceDir is the one backup instance directory shared by
// every source in this run (spec.md §3: "backup_root / <timestamp>[_n] /
// source.name/"); it is empty when the configuration is unversioned, in
// which case backup_root itself is the instance.
type Result struct {
	Success     bool
	InstanceDir string
	Sources     []SourceResult
	Cancelled   bool
}

// Job runs one backup invocation described by a loaded configuration.
type Job struct {
	config   configuration.Configuration
	logger   *logging.Logger
	callback decision.Callback
	now      time.Time
}

// New creates a Job. now is the timestamp used for instance-directory
// naming, passed in explicitly (rather than read from time.Now inside
// Run) so naming is deterministic under test. callback resolves any
// Prompt-policy decision; it may be nil if no field is configured as
// "prompt".
func New(config configuration.Configuration, logger *logging.Logger, callback decision.Callback, now time.Time) *Job {
	return &Job{config: config, logger: logger, callback: callback, now: now}
}

// Run executes the job end to end: resolve the shared backup instance
// directory, then per source, scan both sides, diff, plan, and execute.
// When save_actionfile is set, the combined action record is written once,
// after the last source has run or when the job is cancelled.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	backupRoot, err := openView(j.config.BackupRootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open backup root: %v", ErrFatal, err)
	}
	if err := ensureLocalDirExists(backupRoot); err != nil {
		return nil, fmt.Errorf("%w: unable to create backup root: %v", ErrFatal, err)
	}

	// instanceRoot is the single directory shared by every source in this
	// run (spec.md §3's "backup_root / <timestamp>[_n] /"); each source
	// gets its own subdirectory beneath it.
	var instanceName string
	instanceRoot := backupRoot
	instanceRootExists := true
	if j.config.Versioned {
		instanceName, err = resolveInstanceDir(backupRoot, j.config.VersionName, j.now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFatal, err)
		}
		instanceRoot, err = rootedSubview(backupRoot, instanceName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFatal, err)
		}
		instanceRootExists = false
		if err := ensureLocalDirExists(instanceRoot); err != nil {
			return nil, fmt.Errorf("%w: unable to create backup instance directory: %v", ErrFatal, err)
		}
	}

	// compareInstanceRoot is the most recent prior instance directory,
	// resolved once at the job level per spec.md §4.7 ("found by
	// timestamp-ordered listing of backup_root"), not per source.
	var compareInstanceRoot fsview.View
	var compareInstanceName string
	compareInstanceFound := false
	if j.config.CompareWithLastBackup && j.config.Versioned {
		latest, found, err := latestInstance(backupRoot, instanceName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFatal, err)
		}
		if found {
			compareInstanceRoot, err = rootedSubview(backupRoot, latest)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFatal, err)
			}
			compareInstanceName = latest
			compareInstanceFound = true
		}
	}

	result := &Result{InstanceDir: instanceName}

	for _, src := range j.config.Sources {
		if err := ctx.Err(); err != nil {
			result.Cancelled = true
			if j.config.SaveActionfile {
				j.saveCombinedRecord(instanceRoot, instanceName, result)
			}
			return result, ErrCancelled
		}

		sourceResult := j.runSource(ctx, src, instanceRoot, instanceRootExists, compareInstanceRoot, compareInstanceName, compareInstanceFound)
		result.Sources = append(result.Sources, sourceResult)
		if errors.Is(sourceResult.Err, executor.ErrCancelled) {
			result.Cancelled = true
			if j.config.SaveActionfile {
				j.saveCombinedRecord(instanceRoot, instanceName, result)
			}
			return result, ErrCancelled
		}
	}

	result.Success = computeSuccess(j.config, result.Sources)

	if j.config.SaveActionfile {
		j.saveCombinedRecord(instanceRoot, instanceName, result)
	}

	return result, nil
}

// saveCombinedRecord writes the single actions.json shared by every
// source in this instance, per spec.md §6's on-disk layout (one
// actions.json sibling to the per-source mirror trees, not one per
// source).
func (j *Job) saveCombinedRecord(instanceRoot fsview.View, instanceName string, result *Result) {
	sources := make([]record.SourceRecord, 0, len(result.Sources))
	for _, s := range result.Sources {
		if s.Skipped {
			continue
		}
		sources = append(sources, s.Record)
	}
	recordPath := filepath.Join(instanceRoot.AbsolutePath(""), "actions.json")
	err := record.Save(recordPath, record.Record{
		BackupRoot:  j.config.BackupRootDir,
		InstanceDir: instanceName,
		ScanTime:    j.now,
		Sources:     sources,
	}, j.logger)
	if err != nil {
		j.logger.Warnf("unable to save action record: %v", err)
	}
}

func computeSuccess(config configuration.Configuration, sources []SourceResult) bool {
	completed := 0
	totalScanErrors := 0
	totalBackupErrors := 0
	for _, s := range sources {
		totalScanErrors += s.ScanErrors
		if s.Stats != nil {
			totalBackupErrors += s.Stats.BackupErrors
		}
		if s.Skipped || s.Err != nil {
			continue
		}
		completed++
	}
	if completed == 0 {
		return false
	}
	if configuration.ErrorBudgetExhausted(totalScanErrors, config.MaxScanningErrors) {
		return false
	}
	if configuration.ErrorBudgetExhausted(totalBackupErrors, config.MaxBackupErrors) {
		return false
	}
	return true
}

func (j *Job) runSource(
	ctx context.Context,
	src configuration.Source,
	instanceRoot fsview.View,
	instanceRootExists bool,
	compareInstanceRoot fsview.View,
	compareInstanceName string,
	compareInstanceFound bool,
) SourceResult {
	logger := j.logger.Sublogger(src.Name)
	result := SourceResult{Name: src.Name}

	sourceView, err := openView(src.Dir)
	if err != nil {
		if !decision.Resolve(j.config.SourceUnavailableAction, decision.Request{
			Kind:   decision.SourceUnavailable,
			Detail: err.Error(),
			Source: src.Name,
		}, j.callback) {
			result.Err = fmt.Errorf("%w: source %q unavailable: %v", ErrFatal, src.Name, err)
			return result
		}
		logger.Warnf("source %q unavailable, skipping: %v", src.Name, err)
		result.Skipped = true
		return result
	}
	if exists, err := sourceView.Exists(""); err != nil || !exists {
		if !decision.Resolve(j.config.SourceUnavailableAction, decision.Request{
			Kind:   decision.SourceUnavailable,
			Detail: "source root does not exist",
			Source: src.Name,
		}, j.callback) {
			result.Err = fmt.Errorf("%w: source %q unavailable", ErrFatal, src.Name)
			return result
		}
		logger.Warnf("source %q unavailable, skipping", src.Name)
		result.Skipped = true
		return result
	}

	// targetView is instanceRoot/<source.name>, per spec.md §3's backup
	// instance layout. instanceRootExists alone doesn't tell us whether
	// this particular source's subdirectory exists yet (a freshly resolved
	// instance never has it; an unversioned, pre-existing instance may not
	// have it either, if the source was added after the first run).
	targetView, err := rootedSubview(instanceRoot, src.Name)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrFatal, err)
		return result
	}
	targetRootExists := instanceRootExists
	if targetRootExists {
		exists, err := targetView.Exists("")
		if err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrFatal, err)
			return result
		}
		targetRootExists = exists
	}
	if err := ensureLocalDirExists(targetView); err != nil {
		result.Err = fmt.Errorf("%w: unable to create target for %q: %v", ErrFatal, src.Name, err)
		return result
	}

	// compareView mirrors spec.md §4.7's compare-root rule: the most
	// recent prior instance's copy of this same source when versioned and
	// compare_with_last_backup is set, falling back to "no compare" if no
	// prior instance exists yet or this source wasn't present in it; the
	// target directory itself, unchanged, for the unversioned case.
	compareView := targetView
	compareRootExists := targetRootExists
	compareRootName := ""
	if j.config.CompareWithLastBackup && j.config.Versioned {
		if compareInstanceFound {
			compareView, err = rootedSubview(compareInstanceRoot, src.Name)
			if err != nil {
				result.Err = fmt.Errorf("%w: %v", ErrFatal, err)
				return result
			}
			exists, err := compareView.Exists("")
			if err != nil {
				result.Err = fmt.Errorf("%w: %v", ErrFatal, err)
				return result
			}
			compareRootExists = exists
			if compareRootExists {
				compareRootName = compareInstanceName
			}
		} else {
			compareRootExists = false
		}
	}

	excludes, err := scan.ParsePatterns(src.ExcludePaths)
	if err != nil {
		result.Err = fmt.Errorf("%w: invalid exclude pattern: %v", ErrFatal, err)
		return result
	}

	scanOptions := scan.Options{
		Excludes:        excludes,
		CaseSensitivity: scan.CaseSensitivityForPlatform(),
		MaxErrors:       j.config.MaxScanningErrors,
	}

	sourceScan, scanErr := scan.Scan(ctx, sourceView, scanOptions)
	result.ScanErrors += len(sourceScan.Errors)
	if scanErr != nil {
		result.Err = fmt.Errorf("%w: %v", ErrFatal, scanErr)
		return result
	}

	// A freshly created target (or a compare side that doesn't exist yet)
	// has nothing to scan; skip it rather than counting its expected
	// "directory not found" as a scan error.
	var compareScan scan.Result
	if compareRootExists {
		var compareScanErr error
		compareScan, compareScanErr = scan.Scan(ctx, compareView, scanOptions)
		result.ScanErrors += len(compareScan.Errors)
		if compareScanErr != nil {
			result.Err = fmt.Errorf("%w: %v", ErrFatal, compareScanErr)
			return result
		}
	}

	chain := j.config.CompareMethod
	if err := chain.Validate(sourceView.SupportsModTime(), compareView.SupportsModTime()); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrFatal, err)
		return result
	}

	pairings := diff.Merge(sourceScan, compareScan, chain, sourceView, compareView)
	countComparisonErrors(&result, pairings)

	planOptions := plan.Options{
		Mode:             j.config.Mode,
		CopyEmptyDirs:    j.config.CopyEmptyDirs,
		TargetRootExists: targetRootExists,
	}
	actions := plan.Build(pairings, planOptions, sourceView, compareView)

	if err := plan.CheckFreeSpace(actions, targetView, j.config.TargetDriveFullAction, j.callback); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrFatal, err)
		return result
	}

	sourceRecord := record.SourceRecord{
		Name:        src.Name,
		SourceRoot:  sourceView.AbsolutePath(""),
		CompareRoot: compareRootName,
		Mode:        j.config.Mode,
		CreatedAt:   j.now,
		Excludes:    src.ExcludePaths,
		Actions:     record.FromActions(actions),
	}
	result.Record = sourceRecord

	if !j.config.ApplyActions {
		return result
	}

	stats, execErr := executor.Execute(ctx, actions, sourceView, targetView, executor.Options{
		MaxBackupErrors: j.config.MaxBackupErrors,
	}, logger)
	result.Stats = stats
	if execErr != nil {
		result.Err = execErr
	}
	return result
}

func countComparisonErrors(result *SourceResult, pairings []diff.Pairing) {
	for _, p := range pairings {
		if p.VerdictErr != nil {
			result.ScanErrors++
		}
	}
}

// rootedSubview opens a local subdirectory view joined onto parent's
// absolute root. Remote views (ftp/wpd) don't support nested sub-roots in
// this revision, since backup instances are always local directory
// concepts; a remote source is only ever read from, never used as a
// backup root.
func rootedSubview(parent fsview.View, name string) (fsview.View, error) {
	if _, ok := parent.(*local.View); !ok {
		return nil, fmt.Errorf("backup root must be a local directory, got %T", parent)
	}
	joined := filepath.Join(parent.AbsolutePath(""), name)
	return openView(joined)
}

// ensureLocalDirExists creates v's root directory (and any missing
// parents) if v is a local view. The backup root, the fresh versioned
// instance directory, and a source's target subdirectory may not exist
// yet on a first run, and fsview.View.Mkdir deliberately only creates a
// single level (the interface documents "the parent must already
// exist"), so bootstrapping the directory chain is the job's concern, not
// the view's.
func ensureLocalDirExists(v fsview.View) error {
	view, ok := v.(*local.View)
	if !ok {
		return nil
	}
	return os.MkdirAll(view.Root(), 0755)
}

func openView(dir string) (fsview.View, error) {
	switch {
	case strings.HasPrefix(dir, "ftp://"):
		return ftp.New(dir, nil)
	case strings.HasPrefix(dir, "wpd://"):
		return wpd.New(dir)
	default:
		return local.New(dir)
	}
}
