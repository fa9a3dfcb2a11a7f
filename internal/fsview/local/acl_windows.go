//go:build windows

package local

import (
	"fmt"
	"os"

	"github.com/hectane/go-acl"
)

// ApplyMode applies a POSIX-style permission mode to relpath by translating
// it into a Windows ACL, grounded on the teacher's use of go-acl in
// pkg/filesystem/permissions_windows.go to bridge POSIX mode semantics onto
// NTFS. The executor calls this only after a hardlink has fallen back to a
// copy, since the copy fallback loses whatever ACL the prior backup's
// hardlinked file carried.
func (v *View) ApplyMode(relpath string, mode os.FileMode) error {
	if err := acl.Chmod(v.resolve(relpath), mode); err != nil {
		return fmt.Errorf("unable to apply permissions: %w", err)
	}
	return nil
}
