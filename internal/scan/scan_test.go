package scan

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdown/frontdown/internal/fsview/fsviewtest"
)

func TestScanOrdersPreOrderWithDirectoriesBeforeContents(t *testing.T) {
	v := fsviewtest.New()
	v.AddDir("b")
	v.AddFile("a.txt", []byte("x"), time.Now())
	v.AddFile("b/child.txt", []byte("y"), time.Now())

	result, err := Scan(context.Background(), v, Options{MaxErrors: -1})
	require.NoError(t, err)

	var order []string
	for _, e := range result.Entries {
		order = append(order, string(e.RelPath))
	}
	assert.Equal(t, []string{"a.txt", "b", "b/child.txt"}, order)
}

func TestScanAppliesExcludePatterns(t *testing.T) {
	v := fsviewtest.New()
	v.AddFile("keep.txt", []byte("x"), time.Now())
	v.AddFile("skip.log", []byte("x"), time.Now())

	patterns, err := ParsePatterns([]string{"*.log"})
	require.NoError(t, err)

	result, err := Scan(context.Background(), v, Options{Excludes: patterns, MaxErrors: -1})
	require.NoError(t, err)

	var names []string
	for _, e := range result.Entries {
		names = append(names, string(e.RelPath))
	}
	assert.Equal(t, []string{"keep.txt"}, names)
}

func TestScanDirectoryExcludePrunesSubtree(t *testing.T) {
	v := fsviewtest.New()
	v.AddDir("node_modules")
	v.AddFile("node_modules/pkg.js", []byte("x"), time.Now())
	v.AddFile("main.go", []byte("x"), time.Now())

	patterns, err := ParsePatterns([]string{"node_modules/"})
	require.NoError(t, err)

	result, err := Scan(context.Background(), v, Options{Excludes: patterns, MaxErrors: -1})
	require.NoError(t, err)

	var names []string
	for _, e := range result.Entries {
		names = append(names, string(e.RelPath))
	}
	assert.Equal(t, []string{"main.go"}, names)
}

func TestScanMarksDirectoryEmptiedByExclusion(t *testing.T) {
	v := fsviewtest.New()
	v.AddDir("onlyjunk")
	v.AddFile("onlyjunk/skip.tmp", []byte("x"), time.Now())

	patterns, err := ParsePatterns([]string{"*.tmp"})
	require.NoError(t, err)

	result, err := Scan(context.Background(), v, Options{Excludes: patterns, MaxErrors: -1})
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.True(t, result.Entries[0].IsEmptyDir)
}

func TestScanRespectsCancellation(t *testing.T) {
	v := fsviewtest.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, v, Options{MaxErrors: -1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPatternCaseInsensitivity(t *testing.T) {
	p, err := NewPattern("*.LOG")
	require.NoError(t, err)

	assert.True(t, p.Matches("file.log", false, CaseInsensitive))
	assert.False(t, p.Matches("file.log", false, CaseSensitive))
}

func TestCaseSensitivityForPlatformMatchesGOOS(t *testing.T) {
	got := CaseSensitivityForPlatform()
	switch runtime.GOOS {
	case "windows", "darwin":
		assert.Equal(t, CaseInsensitive, got)
	default:
		assert.Equal(t, CaseSensitive, got)
	}
}

func TestPatternDirectoryOnlyNeverMatchesFile(t *testing.T) {
	p, err := NewPattern("build/")
	require.NoError(t, err)

	assert.False(t, p.Matches("build", false, CaseSensitive))
	assert.True(t, p.Matches("build", true, CaseSensitive))
}

func TestParsePatternsRejectsInvalidGlob(t *testing.T) {
	_, err := ParsePatterns([]string{"["})
	assert.Error(t, err)
}

func TestRelPathHelpers(t *testing.T) {
	p := RelPath("a/b/c.txt")
	assert.Equal(t, RelPath("a/b"), p.Parent())
	assert.Equal(t, "c.txt", p.Base())
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, RelPath("a/b/c.txt/d"), p.Join("d"))

	root := RelPath("")
	assert.Equal(t, RelPath(""), root.Parent())
	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, RelPath("top"), root.Join("top"))
}
