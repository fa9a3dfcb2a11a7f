// Package executor implements the executor (C6): applying a totally
// ordered plan.List against a target fsview.View, one action at a time,
// per spec.md §4.6. Grounded on the teacher's own apply-phase loop
// (pkg/synchronization/core/transition.go), generalized from mutagen's
// recursive Entry transitions to this spec's flat action list, and from
// mutagen's FileSystem+cache duo to the shared fsview.View abstraction.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/frontdown/frontdown/internal/fsview"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/plan"
	"github.com/frontdown/frontdown/internal/scan"
)

// defaultFileMode is applied to a file that loses its prior permissions
// when a hardlink falls back to a copy; scan entries don't capture source
// permission bits, so this is a documented best-effort default rather than
// bit-for-bit preservation.
const defaultFileMode = 0644

// ErrBudgetExceeded is returned when backup_errors exceeds the configured
// max_backup_errors, per spec.md §4.6's error budget rule.
var ErrBudgetExceeded = errors.New("executor: backup error budget exceeded")

// ErrCancelled is returned when ctx is cancelled between actions.
var ErrCancelled = errors.New("executor: cancelled")

// errorBudget applies Options.MaxBackupErrors inside Execute; a negative
// limit disables the check.
type errorBudget struct {
	limit int
}

func (b errorBudget) exhausted(count int) bool {
	if b.limit < 0 {
		return false
	}
	return count > b.limit
}

// Options configures a single Execute call.
type Options struct {
	// MaxBackupErrors is the configured error budget; -1 disables it.
	MaxBackupErrors int
	// Progress receives a weight increment after each action.
	Progress ProgressSink
}

// Execute applies actions in order against target, reading copy sources
// from source. It returns the accumulated Statistics regardless of
// whether an error is also returned, since partial progress is always
// meaningful (spec.md §4.6: "already-applied actions are not rolled
// back").
func Execute(ctx context.Context, actions plan.List, source, target fsview.View, options Options, logger *logging.Logger) (*Statistics, error) {
	stats := &Statistics{StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()
	budget := errorBudget{limit: options.MaxBackupErrors}

	for _, action := range actions {
		select {
		case <-ctx.Done():
			return stats, ErrCancelled
		default:
		}

		effectiveType, err := applyOne(source, target, action, logger)
		if err != nil {
			stats.BackupErrors++
			logger.Warnf("action %s %s failed: %v", action.Type, action.RelPath, err)
			if budget.exhausted(stats.BackupErrors) {
				return stats, fmt.Errorf("%w: %v", ErrBudgetExceeded, err)
			}
		} else {
			recordSuccess(stats, effectiveType, action)
		}

		options.Progress.report(action.Size)
	}

	return stats, nil
}

// recordSuccess tallies a successfully applied action against effectiveType
// rather than action.Type, since a hardlink that fell back to a copy must
// count as a copy in stats (spec.md §4.6).
func recordSuccess(stats *Statistics, effectiveType plan.Type, action plan.Action) {
	switch effectiveType {
	case plan.Copy:
		stats.FilesCopied++
		stats.BytesCopied += action.Size
	case plan.Hardlink:
		stats.FilesHardlinked++
		stats.BytesHardlinked += action.Size
	case plan.Delete:
		stats.FilesDeleted++
	case plan.NewDir, plan.EmptyDir:
		stats.DirsCreated++
	case plan.ExistingDir:
		// No counter: spec.md only counts directories actually created.
	}
}

// applyOne applies action and returns the type actually realized on disk,
// which for plan.Hardlink may be plan.Copy if the hardlink fell back.
func applyOne(source, target fsview.View, action plan.Action, logger *logging.Logger) (plan.Type, error) {
	switch action.Type {
	case plan.NewDir, plan.EmptyDir:
		return action.Type, ensureDir(target, action.RelPath)
	case plan.ExistingDir:
		exists, err := target.Exists(string(action.RelPath))
		if err != nil {
			return action.Type, err
		}
		if !exists {
			logger.Warnf("expected existing directory %s not found in compare base; creating", action.RelPath)
			return action.Type, target.Mkdir(string(action.RelPath))
		}
		return action.Type, nil
	case plan.Delete:
		return action.Type, target.Delete(string(action.RelPath), toFsviewKind(action.Kind))
	case plan.Copy:
		return action.Type, applyCopy(source, target, action, logger)
	case plan.Hardlink:
		return applyHardlink(source, target, action, logger)
	default:
		return action.Type, fmt.Errorf("unrecognized action type %q", action.Type)
	}
}

// ensureDir creates relpath if it doesn't already exist, per spec.md
// §4.6's "ensure directory exists" wording for new_dir and empty_dir
// (idempotent rather than a strict "must not already exist" create, since
// the job may have bootstrapped an instance directory before the
// executor ran).
func ensureDir(target fsview.View, relpath scan.RelPath) error {
	exists, err := target.Exists(string(relpath))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return target.Mkdir(string(relpath))
}

func applyCopy(source, target fsview.View, action plan.Action, logger *logging.Logger) error {
	reader, err := source.OpenRead(string(action.RelPath))
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	defer reader.Close()

	// Views that support atomic rename get a scratch-name copy so a
	// concurrent reader never observes a half-written file at its final
	// path; views that don't (remote adapters) write directly and rely on
	// the post-copy size check plus cleanup below.
	renamer, canRename := target.(fsview.Renamer)
	writePath := string(action.RelPath)
	if canRename {
		writePath = scratchName(action.RelPath)
	}

	writer, err := target.OpenWrite(writePath)
	if err != nil {
		return fmt.Errorf("unable to open target: %w", err)
	}

	written, copyErr := io.Copy(writer, reader)
	closeErr := writer.Close()

	if copyErr == nil && closeErr != nil {
		copyErr = closeErr
	}
	if copyErr == nil && written != action.Size {
		copyErr = fmt.Errorf("copied %d bytes, expected %d", written, action.Size)
	}
	if copyErr != nil {
		if removeErr := target.Delete(writePath, fsview.KindFile); removeErr != nil {
			logger.Warnf("unable to remove partial file %s: %v", writePath, removeErr)
		}
		return fmt.Errorf("copy failed: %w", copyErr)
	}

	if canRename {
		if err := renamer.Rename(writePath, string(action.RelPath)); err != nil {
			if removeErr := target.Delete(writePath, fsview.KindFile); removeErr != nil {
				logger.Warnf("unable to remove scratch file %s: %v", writePath, removeErr)
			}
			return fmt.Errorf("unable to finalize copy: %w", err)
		}
	}

	if setter, ok := target.(fsview.ModTimeSetter); ok && !action.ModTime.IsZero() {
		if err := setter.SetModTime(string(action.RelPath), action.ModTime); err != nil {
			return fmt.Errorf("unable to preserve modification time: %w", err)
		}
	}
	return nil
}

// scratchName derives a temporary sibling path for relpath, used as the
// write target before an atomic rename into place.
func scratchName(relpath scan.RelPath) string {
	return string(relpath) + ".frontdown-tmp-" + uuid.NewString()
}

// applyHardlink attempts a hardlink and falls back to a copy when the
// target view can't link across the source/prior-backup boundary,
// returning plan.Copy as the effective type in that case so the caller's
// statistics reflect what was actually written (spec.md §4.6).
func applyHardlink(source, target fsview.View, action plan.Action, logger *logging.Logger) (plan.Type, error) {
	err := target.Hardlink(action.AbsLinkTarget, string(action.RelPath))
	if err == nil {
		return plan.Hardlink, nil
	}
	if !errors.Is(err, fsview.ErrCrossDevice) && !errors.Is(err, fsview.ErrUnsupported) {
		return plan.Hardlink, fmt.Errorf("hardlink failed: %w", err)
	}

	logger.Warnf("hardlink for %s unsupported (%v), falling back to copy", action.RelPath, err)
	fallback := action
	fallback.Type = plan.Copy
	if copyErr := applyCopy(source, target, fallback, logger); copyErr != nil {
		return plan.Copy, copyErr
	}
	if applier, ok := target.(fsview.ModeApplier); ok {
		if modeErr := applier.ApplyMode(string(action.RelPath), defaultFileMode); modeErr != nil {
			logger.Warnf("unable to apply fallback permissions to %s: %v", action.RelPath, modeErr)
		}
	}
	return plan.Copy, nil
}

func toFsviewKind(k scan.Kind) fsview.Kind {
	if k == scan.KindDirectory {
		return fsview.KindDirectory
	}
	return fsview.KindFile
}
