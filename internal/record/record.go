// Package record implements the action record (C5): a durable,
// human-readable serialization of a plan plus the minimum context a later
// executor run needs, per spec.md §4.5 and §6. It uses JSON rather than
// the configuration loader's YAML — the record is machine-generated and
// machine-consumed, and spec.md §6 asks for "field names stable for
// cross-version interoperability", which a fixed struct-tagged JSON
// schema gives more directly than YAML's looser decoding.
package record

import (
	"time"

	"github.com/frontdown/frontdown/internal/encoding"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/plan"
	"github.com/frontdown/frontdown/internal/scan"
)

// ActionJSON is the on-disk representation of a plan.Action.
type ActionJSON struct {
	Type          plan.Type `json:"type"`
	RelPath       string    `json:"relpath"`
	Kind          string    `json:"kind,omitempty"`
	AbsSource     string    `json:"abs_source,omitempty"`
	AbsLinkTarget string    `json:"abs_link_target,omitempty"`
	Size          int64     `json:"size,omitempty"`
	ModTime       time.Time `json:"mtime,omitempty"`
}

// SourceRecord captures one source's planning context, per spec.md §6's
// action record schema.
type SourceRecord struct {
	Name        string       `json:"name"`
	SourceRoot  string       `json:"source_root"`
	CompareRoot string       `json:"compare_root,omitempty"`
	Mode        plan.Mode    `json:"mode"`
	CreatedAt   time.Time    `json:"created_at"`
	Excludes    []string     `json:"exclude_patterns,omitempty"`
	Actions     []ActionJSON `json:"actions"`
}

// Record is the full on-disk action record for one backup run, covering
// every source.
type Record struct {
	BackupRoot  string         `json:"backup_root"`
	InstanceDir string         `json:"instance_dir"`
	ScanTime    time.Time      `json:"scan_time"`
	Sources     []SourceRecord `json:"sources"`
}

// FromActions converts an in-memory plan.List into its JSON
// representation.
func FromActions(actions plan.List) []ActionJSON {
	result := make([]ActionJSON, 0, len(actions))
	for _, a := range actions {
		entry := ActionJSON{
			Type:          a.Type,
			RelPath:       string(a.RelPath),
			AbsSource:     a.AbsSource,
			AbsLinkTarget: a.AbsLinkTarget,
			Size:          a.Size,
			ModTime:       a.ModTime,
		}
		if a.Type == plan.Delete || a.Type == plan.NewDir || a.Type == plan.ExistingDir || a.Type == plan.EmptyDir {
			entry.Kind = a.Kind.String()
		}
		result = append(result, entry)
	}
	return result
}

// ToActions converts a decoded JSON representation back into an in-memory
// plan.List.
func ToActions(entries []ActionJSON) plan.List {
	result := make(plan.List, 0, len(entries))
	for _, e := range entries {
		action := plan.Action{
			Type:          e.Type,
			RelPath:       scan.RelPath(e.RelPath),
			AbsSource:     e.AbsSource,
			AbsLinkTarget: e.AbsLinkTarget,
			Size:          e.Size,
			ModTime:       e.ModTime,
		}
		if e.Kind == "directory" {
			action.Kind = scan.KindDirectory
		} else {
			action.Kind = scan.KindFile
		}
		result = append(result, action)
	}
	return result
}

// Save writes the record atomically to path as indented JSON. internal/job
// calls it once per run, after every source has been processed (and
// executed, when apply_actions is set) or when the run is cancelled, so
// the record is not on disk while the executor runs.
func Save(path string, r Record, logger *logging.Logger) error {
	return encoding.MarshalAndSaveJSON(path, r, logger)
}

// Load reads and decodes a record previously written by Save, enabling
// the "apply-actions" CLI path to separate scan from apply in time.
func Load(path string) (Record, error) {
	var r Record
	if err := encoding.LoadAndUnmarshalJSON(path, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}
