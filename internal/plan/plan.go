package plan

import (
	"sort"

	"github.com/frontdown/frontdown/internal/comparator"
	"github.com/frontdown/frontdown/internal/diff"
	"github.com/frontdown/frontdown/internal/fsview"
	"github.com/frontdown/frontdown/internal/scan"
)

// Options configures a single planning pass.
type Options struct {
	// Mode selects the matrix applied to each pairing.
	Mode Mode
	// CopyEmptyDirs controls whether a source directory with no
	// surviving children is materialized at all.
	CopyEmptyDirs bool
	// TargetRootExists indicates whether the backup instance's root
	// directory already exists on the target side, determining whether
	// the root action is NewDir or ExistingDir.
	TargetRootExists bool
}

// Build turns a classified diff.Pairing stream into a totally ordered
// action list, per spec.md §4.4's matrix and ordering rules. sourceView
// and compareView supply absolute paths and are not read from directly
// here (the comparator chain has already run during diff.Merge).
func Build(pairings []diff.Pairing, options Options, sourceView, compareView fsview.View) List {
	var creations List
	var deletions List

	rootType := NewDir
	if options.TargetRootExists {
		rootType = ExistingDir
	}
	creations = append(creations, Action{Type: rootType, RelPath: "", Kind: scan.KindDirectory})

	for _, pairing := range pairings {
		switch {
		case pairing.Source != nil && pairing.Compare == nil:
			creations = append(creations, sourceOnlyAction(pairing, options, sourceView)...)
		case pairing.Source == nil && pairing.Compare != nil:
			if action, ok := compareOnlyAction(pairing, options); ok {
				deletions = append(deletions, action)
			}
		default:
			creations = append(creations, bothSidesAction(pairing, options, sourceView, compareView)...)
		}
	}

	sort.SliceStable(deletions, func(i, j int) bool {
		return deletions[i].RelPath.Depth() > deletions[j].RelPath.Depth()
	})

	result := make(List, 0, len(creations)+len(deletions))
	result = append(result, creations...)
	result = append(result, deletions...)
	return result
}

func sourceOnlyAction(pairing diff.Pairing, options Options, sourceView fsview.View) List {
	s := pairing.Source
	if s.Kind == scan.KindDirectory {
		if s.IsEmptyDir {
			if !options.CopyEmptyDirs {
				return nil
			}
			return List{{Type: EmptyDir, RelPath: s.RelPath, Kind: scan.KindDirectory}}
		}
		return List{{Type: NewDir, RelPath: s.RelPath, Kind: scan.KindDirectory}}
	}
	return List{{
		Type:      Copy,
		RelPath:   s.RelPath,
		Kind:      scan.KindFile,
		AbsSource: sourceView.AbsolutePath(string(s.RelPath)),
		Size:      s.Size,
		ModTime:   s.Modified,
	}}
}

// compareOnlyAction returns the action for a path present only on the
// compare side (never present in HARDLINK mode's usual sense, since the
// compare side there is a prior backup and "compare only" just means a
// file that's been removed from the source since that backup — still only
// relevant to MIRROR, which is the only mode that deletes).
func compareOnlyAction(pairing diff.Pairing, options Options) (Action, bool) {
	if options.Mode != ModeMirror {
		return Action{}, false
	}
	c := pairing.Compare
	return Action{Type: Delete, RelPath: c.RelPath, Kind: c.Kind}, true
}

func bothSidesAction(pairing diff.Pairing, options Options, sourceView, compareView fsview.View) List {
	s, c := pairing.Source, pairing.Compare

	if s.Kind != c.Kind {
		// A type mismatch is split upstream into independent source-only
		// and compare-only pairings by diff.Merge, so bothSidesAction is
		// never reached for mismatched kinds; this branch only guards
		// against future changes to that invariant.
		return nil
	}

	if s.Kind == scan.KindDirectory {
		return List{{Type: ExistingDir, RelPath: s.RelPath, Kind: scan.KindDirectory}}
	}

	if pairing.Verdict == comparator.Different || pairing.VerdictErr != nil {
		return List{{
			Type:      Copy,
			RelPath:   s.RelPath,
			Kind:      scan.KindFile,
			AbsSource: sourceView.AbsolutePath(string(s.RelPath)),
			Size:      s.Size,
			ModTime:   s.Modified,
		}}
	}

	// Verdict is Same.
	if options.Mode == ModeHardlink {
		link := compareView.AbsolutePath(string(c.RelPath))
		return List{{
			Type:          Hardlink,
			RelPath:       s.RelPath,
			Kind:          scan.KindFile,
			AbsSource:     link,
			AbsLinkTarget: link,
			Size:          s.Size,
			ModTime:       s.Modified,
		}}
	}
	return nil
}
