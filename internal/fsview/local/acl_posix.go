//go:build !windows

package local

import "os"

// ApplyMode sets relpath's permission bits directly via chmod. POSIX
// filesystems already use mode bits natively, so there's no ACL
// translation step to perform here (that's only needed on Windows, where
// go-acl bridges POSIX mode semantics onto NTFS ACLs).
func (v *View) ApplyMode(relpath string, mode os.FileMode) error {
	return os.Chmod(v.resolve(relpath), mode)
}
