// Package ftp is a documented extension point, not an implementation.
//
// spec.md §1 places remote-source adapters (FTP, Windows Portable Devices)
// outside the core: the scanner, diff, planner, and executor only ever
// consume the fsview.View interface, never a concrete FTP client. No FTP
// client library appears anywhere in this module's retrieval pack to
// ground a real implementation on, and inventing a dependency or hand-
// rolling a protocol client was explicitly out of scope for this pass. A
// future FTP view belongs here, behind the same interface the local view
// implements.
package ftp

import (
	"errors"

	"github.com/frontdown/frontdown/internal/fsview"
)

// New is a placeholder constructor documenting the intended entry point
// for a read-only FTP-backed fsview.View. It is not implemented.
func New(host string, credentials map[string]string) (fsview.View, error) {
	return nil, errors.New("ftp: not implemented, see package doc")
}
