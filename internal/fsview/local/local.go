// Package local implements fsview.View over a local directory tree, with
// POSIX and Windows specifics split into platform files the way the
// teacher's own filesystem package is organized.
package local

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/frontdown/frontdown/internal/fsview"
)

// View is a local filesystem-backed fsview.View rooted at a fixed absolute
// directory.
type View struct {
	root string
}

// New creates a View rooted at the specified absolute directory. The
// directory need not exist yet (a backup target directory may not exist
// before the first run); operations against a missing root surface
// fsview.ErrNotFound.
func New(root string) (*View, error) {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve absolute path: %w", err)
	}
	return &View{root: absolute}, nil
}

// Root returns the view's absolute root directory.
func (v *View) Root() string {
	return v.root
}

func (v *View) resolve(relpath string) string {
	return fixLongPath(filepath.Join(v.root, filepath.FromSlash(relpath)))
}

func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", fsview.ErrNotFound, err)
	}
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", fsview.ErrAccessDenied, err)
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		if isCrossDeviceError(linkErr.Err) {
			return fmt.Errorf("%w: %v", fsview.ErrCrossDevice, err)
		}
	}
	if isTransientError(err) {
		return fmt.Errorf("%w: %v", fsview.ErrTransient, err)
	}
	return fmt.Errorf("%w: %v", fsview.ErrIO, err)
}

// List implements fsview.View.List.
func (v *View) List(relpath string) ([]fsview.Info, error) {
	entries, err := os.ReadDir(v.resolve(relpath))
	if err != nil {
		return nil, classifyError(err)
	}
	result := make([]fsview.Info, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, classifyError(err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			result = append(result, fsview.Info{Name: entry.Name(), Kind: fsview.KindDirectory, IsEmptyDir: true})
			continue
		}
		result = append(result, infoFromOS(entry.Name(), info))
	}
	return result, nil
}

func infoFromOS(name string, info fs.FileInfo) fsview.Info {
	kind := fsview.KindFile
	if info.IsDir() {
		kind = fsview.KindDirectory
	}
	return fsview.Info{
		Name:       name,
		Kind:       kind,
		Size:       info.Size(),
		Modified:   info.ModTime(),
		HasModTime: true,
	}
}

// OpenRead implements fsview.View.OpenRead.
func (v *View) OpenRead(relpath string) (io.ReadCloser, error) {
	f, err := os.Open(v.resolve(relpath))
	if err != nil {
		return nil, classifyError(err)
	}
	return f, nil
}

// OpenWrite implements fsview.View.OpenWrite.
func (v *View) OpenWrite(relpath string) (io.WriteCloser, error) {
	f, err := os.OpenFile(v.resolve(relpath), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, classifyError(err)
	}
	return f, nil
}

// Stat implements fsview.View.Stat.
func (v *View) Stat(relpath string) (fsview.Info, error) {
	info, err := os.Lstat(v.resolve(relpath))
	if err != nil {
		return fsview.Info{}, classifyError(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		// Junctions on Windows present as reparse points; since this view
		// does not follow symbolic links or junctions, report them as
		// empty directories (List does the same for its children) so the
		// scanner does not descend into them. No warning is logged.
		return fsview.Info{
			Name:       relpath,
			Kind:       fsview.KindDirectory,
			IsEmptyDir: true,
		}, nil
	}
	result := infoFromOS(filepath.Base(relpath), info)
	result.Name = relpath
	return result, nil
}

// Exists implements fsview.View.Exists.
func (v *View) Exists(relpath string) (bool, error) {
	_, err := os.Lstat(v.resolve(relpath))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, classifyError(err)
}

// Mkdir implements fsview.View.Mkdir.
func (v *View) Mkdir(relpath string) error {
	if err := os.Mkdir(v.resolve(relpath), 0755); err != nil {
		return classifyError(err)
	}
	return nil
}

// Hardlink implements fsview.View.Hardlink.
func (v *View) Hardlink(targetAbs string, newRelpath string) error {
	if err := os.Link(targetAbs, v.resolve(newRelpath)); err != nil {
		return classifyError(err)
	}
	return nil
}

// Delete implements fsview.View.Delete. kind is unused: os.Remove handles
// both plain files and empty directories identically.
func (v *View) Delete(relpath string, kind fsview.Kind) error {
	if err := os.Remove(v.resolve(relpath)); err != nil {
		return classifyError(err)
	}
	return nil
}

// Rename implements fsview.Renamer.
func (v *View) Rename(oldRelpath, newRelpath string) error {
	if err := os.Rename(v.resolve(oldRelpath), v.resolve(newRelpath)); err != nil {
		return classifyError(err)
	}
	return nil
}

// AbsolutePath implements fsview.View.AbsolutePath.
func (v *View) AbsolutePath(relpath string) string {
	return v.resolve(relpath)
}

// SupportsModTime implements fsview.View.SupportsModTime.
func (v *View) SupportsModTime() bool {
	return true
}

// SetModTime sets the modification time of the file at relpath, used by the
// executor to preserve mtime after a copy.
func (v *View) SetModTime(relpath string, t time.Time) error {
	if err := os.Chtimes(v.resolve(relpath), t, t); err != nil {
		return classifyError(err)
	}
	return nil
}

// DeviceID returns the device identifier containing relpath. The executor
// does not call it: it attempts the hardlink and falls back to a copy on
// fsview.ErrCrossDevice or fsview.ErrUnsupported.
func (v *View) DeviceID(relpath string) (uint64, error) {
	id, err := deviceID(v.resolve(relpath))
	if err != nil {
		return 0, classifyError(err)
	}
	return id, nil
}
