// Package wpd is a documented extension point, not an implementation.
//
// See the ftp package's doc comment: Windows Portable Devices, like FTP,
// is a remote-source adapter kept outside the core by spec.md §1, and no
// MTP/WPD client library appears in this module's retrieval pack to ground
// an implementation on.
package wpd

import (
	"errors"

	"github.com/frontdown/frontdown/internal/fsview"
)

// New is a placeholder constructor documenting the intended entry point
// for a read-only Windows-Portable-Devices-backed fsview.View. It is not
// implemented.
func New(devicePath string) (fsview.View, error) {
	return nil, errors.New("wpd: not implemented, see package doc")
}
