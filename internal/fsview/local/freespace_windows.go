//go:build windows

package local

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// FreeSpace implements fsview.View.FreeSpace using GetDiskFreeSpaceEx,
// grounded on the teacher's Windows filesystem metadata handling
// (pkg/filesystem/metadata_windows.go uses the same x/sys/windows API
// family for volume queries).
func (v *View) FreeSpace() (uint64, error) {
	root, err := windows.UTF16PtrFromString(v.root)
	if err != nil {
		return 0, fmt.Errorf("unable to convert path to UTF-16: %w", err)
	}
	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(root, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0, fmt.Errorf("unable to query free space: %w", err)
	}
	return freeBytesAvailable, nil
}

// deviceID returns the volume serial number for path's volume, backing
// View.DeviceID.
func deviceID(path string) (uint64, error) {
	pointer, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("unable to convert path to UTF-16: %w", err)
	}
	handle, err := windows.CreateFile(
		pointer,
		0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return 0, fmt.Errorf("unable to open path: %w", err)
	}
	defer windows.CloseHandle(handle)
	var info windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(handle, &info); err != nil {
		return 0, fmt.Errorf("unable to query file information: %w", err)
	}
	return uint64(info.VolumeSerialNumber), nil
}

// isCrossDeviceError reports whether err corresponds to a cross-device link
// failure reported by the Windows hardlink creation path.
func isCrossDeviceError(err error) bool {
	return err == windows.ERROR_NOT_SAME_DEVICE
}

// isTransientError reports whether err corresponds to a transient I/O
// condition (the file is in use by another process, for example).
func isTransientError(err error) bool {
	return err == windows.ERROR_SHARING_VIOLATION || err == windows.ERROR_LOCK_VIOLATION
}
