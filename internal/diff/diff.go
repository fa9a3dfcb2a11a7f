// Package diff implements the path set diff (C3): merging two sorted
// scan.Result streams by relative path and classifying each path as
// source-only, compare-only, or present on both sides with a comparison
// verdict, per spec.md §4.3.
package diff

import (
	"strings"

	"github.com/frontdown/frontdown/internal/comparator"
	"github.com/frontdown/frontdown/internal/fsview"
	"github.com/frontdown/frontdown/internal/scan"
)

// Pairing is one merged row: at least one of Source, Compare is present.
// When both are present, Verdict holds the outcome of the comparator
// chain (meaningful only when both sides are files of the same kind).
type Pairing struct {
	RelPath scan.RelPath
	Source  *scan.Entry
	Compare *scan.Entry
	Verdict comparator.Verdict
	// VerdictErr carries a comparison failure (e.g. unreadable file during
	// a "bytes" compare); spec.md §7 treats this as "different" and a
	// counted scan error.
	VerdictErr error
}

// Merge performs the ordering-preserving merge-join of two scan results,
// per spec.md §4.3's ordering invariant: output is in scan order of
// source, with compare-only entries inserted at their sorted position.
// Type mismatches (same path, different kind on each side) are split into
// two independent pairings, one source-only and one compare-only, per
// spec.md §4.3.
//
// sourceView/compareView and chain are used to run the comparator chain
// lazily only for paths present on both sides as files of the same kind;
// a nil chain (or an empty one) always yields comparator.Same without
// touching either view, useful for callers (like MIRROR without a
// comparator configured) that only need presence information.
func Merge(source, compare scan.Result, chain comparator.Chain, sourceView, compareView fsview.View) []Pairing {
	sourceEntries := source.Entries
	compareEntries := compare.Entries
	pairings := make([]Pairing, 0, len(sourceEntries)+len(compareEntries))

	// key orders paths the way scan.Scan emits them: '/' maps below every
	// name byte, so a directory's contents sort before its later siblings,
	// and names compare under the platform's case rule.
	fold := scan.CaseSensitivityForPlatform() == scan.CaseInsensitive
	key := func(p scan.RelPath) string {
		k := strings.ReplaceAll(string(p), "/", "\x00")
		if fold {
			k = strings.ToLower(k)
		}
		return k
	}

	i, j := 0, 0
	for i < len(sourceEntries) && j < len(compareEntries) {
		s, c := sourceEntries[i], compareEntries[j]
		sk, ck := key(s.RelPath), key(c.RelPath)
		switch {
		case sk < ck:
			pairings = append(pairings, Pairing{RelPath: s.RelPath, Source: &sourceEntries[i]})
			i++
		case sk > ck:
			pairings = append(pairings, Pairing{RelPath: c.RelPath, Compare: &compareEntries[j]})
			j++
		default:
			pairings = append(pairings, pairPath(s.RelPath, &sourceEntries[i], &compareEntries[j], chain, sourceView, compareView)...)
			i++
			j++
		}
	}
	for ; i < len(sourceEntries); i++ {
		pairings = append(pairings, Pairing{RelPath: sourceEntries[i].RelPath, Source: &sourceEntries[i]})
	}
	for ; j < len(compareEntries); j++ {
		pairings = append(pairings, Pairing{RelPath: compareEntries[j].RelPath, Compare: &compareEntries[j]})
	}

	return pairings
}

// pairPath builds the pairing(s) for a relative path present on both
// sides. A kind mismatch (file on one side, directory on the other) is
// split into two independent pairings per spec.md §4.3.
func pairPath(path scan.RelPath, s, c *scan.Entry, chain comparator.Chain, sourceView, compareView fsview.View) []Pairing {
	if s.Kind != c.Kind {
		return []Pairing{
			{RelPath: path, Source: s},
			{RelPath: path, Compare: c},
		}
	}

	pairing := Pairing{RelPath: path, Source: s, Compare: c}
	if s.Kind == scan.KindFile && len(chain) > 0 {
		verdict, err := comparator.Compare(chain, *s, *c,
			comparator.OpenReader(sourceView, s.RelPath),
			comparator.OpenReader(compareView, c.RelPath),
		)
		pairing.Verdict = verdict
		pairing.VerdictErr = err
	}
	return []Pairing{pairing}
}
