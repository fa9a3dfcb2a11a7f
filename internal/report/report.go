// Package report renders a finished job's statistics and action list as
// JSON and HTML, per spec.md §6's `save_actionhtml`/`save_actionfile`
// pair and SPEC_FULL.md §7. Grounded on the teacher's own
// pkg/synchronization/status.go for what a human-facing summary of a
// completed run should surface (counts, bytes, duration), translated
// here from mutagen's sync-session status into this spec's backup-job
// statistics.
package report

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/frontdown/frontdown/internal/encoding"
	"github.com/frontdown/frontdown/internal/executor"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/record"
)

// SourceSummary is one source's contribution to a Report.
type SourceSummary struct {
	Name            string             `json:"name"`
	Skipped         bool               `json:"skipped"`
	ScanErrors      int                `json:"scan_errors"`
	FilesCopied     int                `json:"files_copied"`
	FilesHardlinked int                `json:"files_hardlinked"`
	FilesDeleted    int                `json:"files_deleted"`
	DirsCreated     int                `json:"dirs_created"`
	BackupErrors    int                `json:"backup_errors"`
	BytesCopied     int64              `json:"bytes_copied"`
	BytesHardlinked int64              `json:"bytes_hardlinked"`
	DurationSeconds float64            `json:"duration_seconds"`
	Error           string             `json:"error,omitempty"`
	Actions         []record.ActionJSON `json:"actions"`
}

// Report is the top-level JSON/HTML report document for one job run.
type Report struct {
	InstanceDir string          `json:"instance_dir"`
	GeneratedAt time.Time       `json:"generated_at"`
	Success     bool            `json:"success"`
	Sources     []SourceSummary `json:"sources"`
}

// BuildSourceSummary assembles a SourceSummary from a source's executed
// statistics (nil if the plan was never applied) and its recorded
// actions (already in their serialized form, since the job package
// produces those as part of its own action record).
func BuildSourceSummary(name string, skipped bool, scanErrors int, stats *executor.Statistics, actions []record.ActionJSON, err error) SourceSummary {
	summary := SourceSummary{
		Name:       name,
		Skipped:    skipped,
		ScanErrors: scanErrors,
		Actions:    actions,
	}
	if stats != nil {
		summary.FilesCopied = stats.FilesCopied
		summary.FilesHardlinked = stats.FilesHardlinked
		summary.FilesDeleted = stats.FilesDeleted
		summary.DirsCreated = stats.DirsCreated
		summary.BackupErrors = stats.BackupErrors
		summary.BytesCopied = stats.BytesCopied
		summary.BytesHardlinked = stats.BytesHardlinked
		summary.DurationSeconds = stats.Duration().Seconds()
	}
	if err != nil {
		summary.Error = err.Error()
	}
	return summary
}

// HumanBytes formats a byte count the way the CLI's progress and report
// output do, e.g. "14 MB".
func HumanBytes(n int64) string {
	return humanize.Bytes(uint64(n))
}

// SaveJSON writes the report atomically as JSON.
func SaveJSON(path string, r Report, logger *logging.Logger) error {
	return encoding.MarshalAndSaveJSON(path, r, logger)
}
