//go:build windows

package local

import "strings"

// windowsMaxPath is the length threshold past which Windows paths must be
// rewritten to the extended ("\\?\") form to avoid MAX_PATH failures. This
// mirrors the threshold and rewriting approach the teacher vendors from the
// Go standard library's internal long-path fixup (no third-party library in
// the retrieval pack offers this — it's filesystem-call plumbing, not a
// general-purpose concern worth a dependency).
const windowsMaxPath = 260

// fixLongPath rewrites path to its extended form when it's long enough to
// risk exceeding Windows' legacy MAX_PATH limit, leaving short paths and
// already-extended paths untouched.
func fixLongPath(path string) string {
	if len(path) < windowsMaxPath {
		return path
	}
	if strings.HasPrefix(path, `\\?\`) {
		return path
	}
	if strings.HasPrefix(path, `\\`) {
		// UNC path: \\server\share\... becomes \\?\UNC\server\share\...
		return `\\?\UNC\` + path[2:]
	}
	return `\\?\` + path
}
