//go:build !windows

package local

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FreeSpace implements fsview.View.FreeSpace using statfs, grounded on the
// teacher's own QueryFormatByPath use of unix.Statfs for filesystem
// metadata queries.
func (v *View) FreeSpace() (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(v.root, &stat); err != nil {
		return 0, fmt.Errorf("unable to query filesystem metadata: %w", err)
	}
	return uint64(stat.Bsize) * stat.Bavail, nil
}

// deviceID returns the device identifier for path, backing View.DeviceID.
func deviceID(path string) (uint64, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return 0, fmt.Errorf("unable to query filesystem information: %w", err)
	}
	return uint64(stat.Dev), nil
}

// isCrossDeviceError reports whether err corresponds to a cross-device link
// failure from the kernel.
func isCrossDeviceError(err error) bool {
	return err == unix.EXDEV
}

// isTransientError reports whether err corresponds to a transient I/O
// condition worth distinguishing from a hard access-denied failure.
func isTransientError(err error) bool {
	return err == unix.EAGAIN || err == unix.EINTR || err == unix.EBUSY
}
