// Package fsviewtest provides an in-memory fsview.View fake used across
// scanner, diff, planner, and executor tests so those tests don't have to
// touch the real filesystem for every case. It is grounded on the
// teacher's own practice of isolating filesystem behavior behind a
// fixture interface for its synchronization core tests
// (testing_filesystems_test.go).
package fsviewtest

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/frontdown/frontdown/internal/fsview"
)

type node struct {
	kind       fsview.Kind
	data       []byte
	modified   time.Time
	isEmptyDir bool
	children   map[string]string // name -> child absolute relpath
}

// View is an in-memory filesystem rooted at "" with '/'-separated paths.
type View struct {
	nodes           map[string]*node
	free            uint64
	supportsModTime bool
	devices         map[string]uint64 // relpath -> device id, for cross-device simulation
}

// New creates an empty in-memory view with a root directory and abundant
// free space.
func New() *View {
	v := &View{
		nodes:           make(map[string]*node),
		free:            1 << 40,
		supportsModTime: true,
		devices:         make(map[string]uint64),
	}
	v.nodes[""] = &node{kind: fsview.KindDirectory, children: make(map[string]string)}
	return v
}

// SetFreeSpace overrides the amount of free space FreeSpace reports.
func (v *View) SetFreeSpace(n uint64) { v.free = n }

// SetSupportsModTime overrides whether this view reports modification
// times, simulating a remote view that cannot.
func (v *View) SetSupportsModTime(b bool) { v.supportsModTime = b }

// SetDevice assigns relpath to a synthetic device id, so hardlinks across
// differently-assigned paths can be made to fail with ErrCrossDevice.
func (v *View) SetDevice(relpath string, device uint64) { v.devices[clean(relpath)] = device }

func clean(relpath string) string {
	return strings.Trim(relpath, "/")
}

func parent(relpath string) string {
	idx := strings.LastIndex(relpath, "/")
	if idx < 0 {
		return ""
	}
	return relpath[:idx]
}

func base(relpath string) string {
	idx := strings.LastIndex(relpath, "/")
	if idx < 0 {
		return relpath
	}
	return relpath[idx+1:]
}

// AddDir creates a directory at relpath (parent must already exist).
func (v *View) AddDir(relpath string) {
	relpath = clean(relpath)
	v.nodes[relpath] = &node{kind: fsview.KindDirectory, children: make(map[string]string)}
	p := v.nodes[parent(relpath)]
	p.children[base(relpath)] = relpath
}

// AddFile creates a file at relpath with the given content and
// modification time (parent must already exist).
func (v *View) AddFile(relpath string, content []byte, modified time.Time) {
	relpath = clean(relpath)
	v.nodes[relpath] = &node{kind: fsview.KindFile, data: content, modified: modified}
	p := v.nodes[parent(relpath)]
	p.children[base(relpath)] = relpath
}

// List implements fsview.View.List.
func (v *View) List(relpath string) ([]fsview.Info, error) {
	n, ok := v.nodes[clean(relpath)]
	if !ok || n.kind != fsview.KindDirectory {
		return nil, fmt.Errorf("%w: %s", fsview.ErrNotFound, relpath)
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]fsview.Info, 0, len(names))
	for _, name := range names {
		child := v.nodes[n.children[name]]
		result = append(result, v.infoFor(name, child))
	}
	return result, nil
}

func (v *View) infoFor(name string, n *node) fsview.Info {
	return fsview.Info{
		Name:       name,
		Kind:       n.kind,
		Size:       int64(len(n.data)),
		Modified:   n.modified,
		HasModTime: v.supportsModTime,
		IsEmptyDir: n.kind == fsview.KindDirectory && len(n.children) == 0,
	}
}

// OpenRead implements fsview.View.OpenRead.
func (v *View) OpenRead(relpath string) (io.ReadCloser, error) {
	n, ok := v.nodes[clean(relpath)]
	if !ok || n.kind != fsview.KindFile {
		return nil, fmt.Errorf("%w: %s", fsview.ErrNotFound, relpath)
	}
	return io.NopCloser(bytes.NewReader(n.data)), nil
}

type writeCloser struct {
	buf *bytes.Buffer
	v   *View
	rel string
}

func (w *writeCloser) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *writeCloser) Close() error {
	w.v.AddFile(w.rel, w.buf.Bytes(), time.Time{})
	return nil
}

// OpenWrite implements fsview.View.OpenWrite.
func (v *View) OpenWrite(relpath string) (io.WriteCloser, error) {
	relpath = clean(relpath)
	if _, ok := v.nodes[parent(relpath)]; !ok {
		return nil, fmt.Errorf("%w: parent of %s", fsview.ErrNotFound, relpath)
	}
	return &writeCloser{buf: &bytes.Buffer{}, v: v, rel: relpath}, nil
}

// Stat implements fsview.View.Stat.
func (v *View) Stat(relpath string) (fsview.Info, error) {
	path := clean(relpath)
	n, ok := v.nodes[path]
	if !ok {
		return fsview.Info{}, fmt.Errorf("%w: %s", fsview.ErrNotFound, relpath)
	}
	return v.infoFor(path, n), nil
}

// Exists implements fsview.View.Exists.
func (v *View) Exists(relpath string) (bool, error) {
	_, ok := v.nodes[clean(relpath)]
	return ok, nil
}

// Mkdir implements fsview.View.Mkdir.
func (v *View) Mkdir(relpath string) error {
	relpath = clean(relpath)
	if _, ok := v.nodes[relpath]; ok {
		return fmt.Errorf("%w: %s already exists", fsview.ErrIO, relpath)
	}
	if _, ok := v.nodes[parent(relpath)]; !ok {
		return fmt.Errorf("%w: parent of %s", fsview.ErrNotFound, relpath)
	}
	v.AddDir(relpath)
	return nil
}

// Hardlink implements fsview.View.Hardlink. targetAbs is interpreted as a
// relpath into this same view for test purposes.
func (v *View) Hardlink(targetAbs string, newRelpath string) error {
	target := clean(targetAbs)
	newRelpath = clean(newRelpath)
	source, ok := v.nodes[target]
	if !ok || source.kind != fsview.KindFile {
		return fmt.Errorf("%w: %s", fsview.ErrNotFound, targetAbs)
	}
	if v.devices[target] != v.devices[newRelpath] {
		return fmt.Errorf("%w: %s -> %s", fsview.ErrCrossDevice, target, newRelpath)
	}
	v.AddFile(newRelpath, source.data, source.modified)
	return nil
}

// Delete implements fsview.View.Delete.
func (v *View) Delete(relpath string, kind fsview.Kind) error {
	relpath = clean(relpath)
	n, ok := v.nodes[relpath]
	if !ok {
		return fmt.Errorf("%w: %s", fsview.ErrNotFound, relpath)
	}
	if n.kind == fsview.KindDirectory && len(n.children) > 0 {
		return fmt.Errorf("%w: directory %s not empty", fsview.ErrIO, relpath)
	}
	delete(v.nodes, relpath)
	if p, ok := v.nodes[parent(relpath)]; ok {
		delete(p.children, base(relpath))
	}
	return nil
}

// FreeSpace implements fsview.View.FreeSpace.
func (v *View) FreeSpace() (uint64, error) { return v.free, nil }

// AbsolutePath implements fsview.View.AbsolutePath.
func (v *View) AbsolutePath(relpath string) string { return clean(relpath) }

// SupportsModTime implements fsview.View.SupportsModTime.
func (v *View) SupportsModTime() bool { return v.supportsModTime }

var _ fsview.View = (*View)(nil)
