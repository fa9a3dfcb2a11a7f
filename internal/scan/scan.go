package scan

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/frontdown/frontdown/internal/fsview"
)

// ErrBudgetExceeded is returned by Scan when the number of accumulated
// scan errors exceeds maxErrors, signaling a fatal condition to the job
// per spec.md §4.2.
var ErrBudgetExceeded = errors.New("scan error budget exceeded")

// Options configures a single scan.
type Options struct {
	// Excludes is the ordered list of exclusion patterns to apply.
	Excludes []Pattern
	// CaseSensitivity controls pattern matching and sibling sort order.
	CaseSensitivity CaseSensitivity
	// MaxErrors is the maximum tolerated scan errors; -1 disables the
	// check, matching spec.md §6's "-1 disables" convention.
	MaxErrors int
}

// Scan walks view starting at root, applying excludes, and returns a
// canonically ordered Result. If the accumulated error count exceeds
// MaxErrors, it returns the partial Result alongside ErrBudgetExceeded.
func Scan(ctx context.Context, view fsview.View, options Options) (Result, error) {
	s := &scanner{view: view, options: options}
	root := RelPath("")
	if err := s.walk(ctx, root); err != nil {
		return s.result, err
	}
	if options.MaxErrors >= 0 && len(s.result.Errors) > options.MaxErrors {
		return s.result, ErrBudgetExceeded
	}
	return s.result, nil
}

type scanner struct {
	view    fsview.View
	options Options
	result  Result
}

// walk visits directory at path (already known to exist and be a
// directory, or to be the root) in pre-order, appending entries to
// s.result as it goes. It returns an error only for cancellation; per-item
// failures are recorded as scan errors and do not abort sibling work.
func (s *scanner) walk(ctx context.Context, path RelPath) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	children, err := s.view.List(string(path))
	if err != nil {
		s.result.Errors = append(s.result.Errors, Error{RelPath: path, Err: err})
		return nil
	}

	sort.Slice(children, func(i, j int) bool {
		a, b := children[i].Name, children[j].Name
		if s.options.CaseSensitivity == CaseInsensitive {
			a, b = strings.ToLower(a), strings.ToLower(b)
		}
		return a < b
	})

	for _, child := range children {
		childPath := path.Join(child.Name)
		isDir := child.Kind == fsview.KindDirectory

		if AnyMatches(s.options.Excludes, childPath, isDir, s.options.CaseSensitivity) {
			continue
		}

		entry := Entry{
			RelPath:    childPath,
			Size:       child.Size,
			Modified:   child.Modified,
			HasModTime: child.HasModTime,
		}

		if isDir {
			entry.Kind = KindDirectory
			entry.IsEmptyDir = child.IsEmptyDir
			s.result.Entries = append(s.result.Entries, entry)
			entryIndex := len(s.result.Entries) - 1
			if !child.IsEmptyDir {
				if err := s.walk(ctx, childPath); err != nil {
					return err
				}
				// If exclusion pruned every child, the directory is empty
				// after all even though the underlying view didn't think
				// so before exclusions were applied.
				if len(s.result.Entries)-1 == entryIndex {
					s.result.Entries[entryIndex].IsEmptyDir = true
				}
			}
		} else {
			entry.Kind = KindFile
			s.result.Entries = append(s.result.Entries, entry)
		}
	}

	return nil
}
