package job

import (
	"fmt"
	"time"

	"github.com/frontdown/frontdown/internal/fsview"
	"github.com/frontdown/frontdown/internal/strftime"
)

// resolveInstanceDir derives the instance directory name from pattern,
// disambiguating with "_2", "_3", ... if a directory with that name
// already exists under the backup root, per spec.md §4.7.
func resolveInstanceDir(root fsview.View, pattern string, now time.Time) (string, error) {
	base := strftime.Format(pattern, now)

	candidate := base
	for suffix := 2; ; suffix++ {
		exists, err := root.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("unable to check instance directory: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, suffix)
	}
}
