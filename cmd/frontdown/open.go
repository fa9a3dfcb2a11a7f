package main

import (
	"os/exec"
	"runtime"
)

// openPath best-effort launches the platform's default handler for path,
// for open_actionfile/open_actionhtml. Grounded on the retrieval pack's
// only example of this pattern (a GOOS-switched exec.Command launcher);
// a failure here is never fatal to the backup job, just logged.
func openPath(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
