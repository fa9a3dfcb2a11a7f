package scan

import "time"

// Kind distinguishes a file entry from a directory entry.
type Kind int

const (
	// KindFile identifies a regular file.
	KindFile Kind = iota
	// KindDirectory identifies a directory.
	KindDirectory
)

// MarshalText implements encoding.TextMarshaler, grounded on the teacher's
// EntryKind.MarshalText (pkg/synchronization/core/entry.go), so action
// records serialize kinds as readable words rather than small integers.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindFile:
		return []byte("file"), nil
	case KindDirectory:
		return []byte("directory"), nil
	default:
		return []byte("unknown"), nil
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "directory":
		*k = KindDirectory
	default:
		*k = KindFile
	}
	return nil
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	text, _ := k.MarshalText()
	return string(text)
}

// Entry is one enumerated item in a tree, as specified by spec.md §3. Size
// and Modified are meaningless (left zero) for directories. Entries are
// immutable once created by Scan.
type Entry struct {
	// RelPath is the entry's path relative to the scan root.
	RelPath RelPath
	// Kind is the entry's kind.
	Kind Kind
	// Size is the entry's size in bytes; meaningless for directories.
	Size int64
	// Modified is the entry's modification time; meaningless for
	// directories, and absent (HasModTime false) for views that can't
	// report it.
	Modified time.Time
	// HasModTime indicates whether Modified is meaningful.
	HasModTime bool
	// IsEmptyDir indicates that a directory entry has no surviving
	// children after exclusion (or wraps an unfollowed junction).
	IsEmptyDir bool
}

// Error is a scan error attributed to a subtree: the subtree's listing
// failed, so it was skipped while siblings continued.
type Error struct {
	// RelPath is the subtree whose listing failed.
	RelPath RelPath
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return "scan error at " + string(e.RelPath) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Result is an ordered sequence of Entries for a given root, sorted by
// RelPath in canonical pre-order (directories before their contents,
// siblings sorted by name under the platform's case rule).
type Result struct {
	// Entries is the ordered entry sequence.
	Entries []Entry
	// Errors is the set of subtree scan errors encountered.
	Errors []Error
}
