package plan

import (
	"time"

	"github.com/frontdown/frontdown/internal/scan"
)

// Type identifies the kind of filesystem operation an Action performs.
type Type string

const (
	// Copy streams bytes from an absolute source location to the target.
	Copy Type = "copy"
	// Hardlink creates a hardlink at the target pointing at a prior
	// backup's file.
	Hardlink Type = "hardlink"
	// Delete removes a file or empty directory from the target (MIRROR
	// only).
	Delete Type = "delete"
	// NewDir creates a directory that does not yet exist in the target.
	NewDir Type = "new_dir"
	// ExistingDir asserts that a directory is already present in the
	// target (a sanity check when versioned, a no-op structurally
	// otherwise).
	ExistingDir Type = "existing_dir"
	// EmptyDir materializes a source directory that has no surviving
	// children, when copy_empty_dirs is enabled.
	EmptyDir Type = "empty_dir"
)

// Action is a single, idempotent (with respect to a clean target tree)
// step in a plan, per spec.md §3.
type Action struct {
	Type    Type
	RelPath scan.RelPath
	// Kind disambiguates delete actions between files and directories.
	Kind scan.Kind

	// AbsSource is the absolute location to read from, for Copy and as
	// the thing being linked for Hardlink.
	AbsSource string
	// AbsLinkTarget is the absolute location of the prior-backup file a
	// Hardlink action points at. For Hardlink actions this is the same as
	// AbsSource; it is recorded separately in the action record for
	// auditability (spec.md §6).
	AbsLinkTarget string
	// Size is the expected size of the source file, used for the
	// pre-apply free-space check and for post-copy size verification.
	Size int64
	// ModTime is the source file's modification time, preserved on the
	// copy target.
	ModTime time.Time
}

// List is an ordered action list, the output of Build.
type List []Action

// ExpectedBytesCopied sums the sizes of every Copy action, used for the
// pre-apply free-space check (spec.md §4.4).
func (l List) ExpectedBytesCopied() int64 {
	var total int64
	for _, a := range l {
		if a.Type == Copy {
			total += a.Size
		}
	}
	return total
}
