package scan

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// CaseSensitivity controls how exclusion patterns and sibling ordering
// treat case, matching spec.md §4.2's "case-insensitive on platforms whose
// filesystem is case-insensitive" rule.
type CaseSensitivity int

const (
	// CaseSensitive performs exact-case matching (the default on Linux).
	CaseSensitive CaseSensitivity = iota
	// CaseInsensitive folds case before matching (the default on macOS and
	// Windows).
	CaseInsensitive
)

// Pattern is a single parsed exclusion pattern, grounded on the parsing
// rules of the teacher's ignorePattern
// (pkg/synchronization/core/ignore.go), narrowed to spec.md §4.2's
// simpler semantics: a plain glob applied to the relative path, with a
// trailing separator restricting the match to directories and pruning the
// subtree.
type Pattern struct {
	directoryOnly bool
	matchLeaf     bool
	raw           string
}

// CaseSensitivityForPlatform returns the case sensitivity of the current
// platform's native filesystem, per spec.md §4.2: case-insensitive on
// platforms whose filesystem is normally case-insensitive (macOS,
// Windows), case-sensitive everywhere else.
func CaseSensitivityForPlatform() CaseSensitivity {
	switch runtime.GOOS {
	case "windows", "darwin":
		return CaseInsensitive
	default:
		return CaseSensitive
	}
}

// NewPattern validates and parses a single exclusion pattern.
func NewPattern(pattern string) (Pattern, error) {
	if pattern == "" {
		return Pattern{}, fmt.Errorf("empty pattern")
	}

	directoryOnly := false
	if strings.HasSuffix(pattern, "/") {
		directoryOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			return Pattern{}, fmt.Errorf("root directory pattern")
		}
	}

	matchLeaf := !strings.Contains(pattern, "/")

	if _, err := doublestar.Match(pattern, "a"); err != nil {
		return Pattern{}, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return Pattern{directoryOnly: directoryOnly, matchLeaf: matchLeaf, raw: pattern}, nil
}

// ParsePatterns parses a list of raw exclusion patterns, failing on the
// first invalid one (exclusion pattern validation is a configuration-time
// concern, not a scan-time one).
func ParsePatterns(raw []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(raw))
	for _, r := range raw {
		p, err := NewPattern(r)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func foldCase(s string, sensitivity CaseSensitivity) string {
	if sensitivity == CaseInsensitive {
		return strings.ToLower(s)
	}
	return s
}

// Matches reports whether the pattern matches the given relative path. A
// directory-only pattern never matches a file.
func (p Pattern) Matches(path RelPath, directory bool, sensitivity CaseSensitivity) bool {
	if p.directoryOnly && !directory {
		return false
	}
	candidate := foldCase(string(path), sensitivity)
	pattern := foldCase(p.raw, sensitivity)
	if match, _ := doublestar.Match(pattern, candidate); match {
		return true
	}
	if p.matchLeaf {
		if match, _ := doublestar.Match(pattern, foldCase(path.Base(), sensitivity)); match {
			return true
		}
	}
	return false
}

// AnyMatches reports whether any pattern in patterns excludes path.
func AnyMatches(patterns []Pattern, path RelPath, directory bool, sensitivity CaseSensitivity) bool {
	for _, p := range patterns {
		if p.Matches(path, directory, sensitivity) {
			return true
		}
	}
	return false
}
