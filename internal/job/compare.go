package job

import (
	"errors"
	"fmt"
	"sort"

	"github.com/frontdown/frontdown/internal/fsview"
)

// latestInstance returns the lexicographically greatest directory name
// under root, excluding exclude (the instance currently being created).
// This assumes version_name produces a pattern whose lexicographic order
// matches chronological order (true of any sane strftime-style pattern
// that puts the most significant field first, e.g. "%Y-%m-%d_%H-%M-%S");
// a pattern violating that assumption would need a different selection
// rule, which spec.md leaves unspecified.
func latestInstance(root fsview.View, exclude string) (string, bool, error) {
	entries, err := root.List("")
	if err != nil {
		if errors.Is(err, fsview.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("unable to list backup root: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Kind != fsview.KindDirectory {
			continue
		}
		if entry.Name == exclude {
			continue
		}
		names = append(names, entry.Name)
	}
	if len(names) == 0 {
		return "", false, nil
	}
	sort.Strings(names)
	return names[len(names)-1], true, nil
}
