package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdown/frontdown/internal/comparator"
	"github.com/frontdown/frontdown/internal/configuration"
	"github.com/frontdown/frontdown/internal/decision"
	"github.com/frontdown/frontdown/internal/executor"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/plan"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelDisabled, nil)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func baseConfig(sourceDir, backupRoot string) configuration.Configuration {
	return configuration.Configuration{
		Sources:                 []configuration.Source{{Name: "docs", Dir: sourceDir}},
		BackupRootDir:           backupRoot,
		Mode:                    plan.ModeSave,
		CompareMethod:           comparator.Chain{comparator.MethodSize},
		MaxScanningErrors:       -1,
		MaxBackupErrors:         -1,
		SaveActionfile:          true,
		ApplyActions:            true,
		TargetDriveFullAction:   decision.Abort,
		SourceUnavailableAction: decision.Abort,
	}
}

func TestRunSaveModeUnversionedEmptyTarget(t *testing.T) {
	sourceDir := t.TempDir()
	backupRoot := t.TempDir()
	writeTree(t, sourceDir, map[string]string{"a.txt": "hello", "sub/b.txt": "world"})

	config := baseConfig(sourceDir, backupRoot)

	result, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, 2, result.Sources[0].Stats.FilesCopied)

	assert.FileExists(t, filepath.Join(backupRoot, "docs", "a.txt"))
	assert.FileExists(t, filepath.Join(backupRoot, "docs", "sub", "b.txt"))
	assert.FileExists(t, filepath.Join(backupRoot, "actions.json"), "one combined action record lives at the instance root")
}

func TestRunVersionedCreatesSharedInstanceDirectoryAcrossSources(t *testing.T) {
	sourceADir := t.TempDir()
	sourceBDir := t.TempDir()
	backupRoot := t.TempDir()
	writeTree(t, sourceADir, map[string]string{"a.txt": "hello"})
	writeTree(t, sourceBDir, map[string]string{"b.txt": "world"})

	config := baseConfig(sourceADir, backupRoot)
	config.Sources = []configuration.Source{
		{Name: "alpha", Dir: sourceADir},
		{Name: "beta", Dir: sourceBDir},
	}
	config.Versioned = true
	config.VersionName = "fixed-instance-name"

	result, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success)

	instanceDir := filepath.Join(backupRoot, result.InstanceDir)
	assert.Equal(t, "fixed-instance-name", result.InstanceDir)
	assert.DirExists(t, filepath.Join(instanceDir, "alpha"))
	assert.DirExists(t, filepath.Join(instanceDir, "beta"))
	assert.FileExists(t, filepath.Join(instanceDir, "actions.json"), "actions.json is a sibling of every source's mirror, not duplicated per source")
}

func TestRunVersionedDisambiguatesCollidingInstanceNames(t *testing.T) {
	sourceDir := t.TempDir()
	backupRoot := t.TempDir()
	writeTree(t, sourceDir, map[string]string{"a.txt": "hello"})

	config := baseConfig(sourceDir, backupRoot)
	config.Versioned = true
	config.VersionName = "fixed-instance-name"

	first, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-instance-name", first.InstanceDir)

	second, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-instance-name_2", second.InstanceDir)
}

// Unversioned MIRROR reuses the same target directory every run, so the
// compare side is the target itself per spec.md §4.7 ("for plain
// SAVE/MIRROR without versioning, [the compare root] is the target
// directory itself"), and a file removed from the source is deleted from
// that same physical target on the next run.
func TestRunMirrorModeDeletesStaleFilesOnNextRun(t *testing.T) {
	sourceDir := t.TempDir()
	backupRoot := t.TempDir()
	writeTree(t, sourceDir, map[string]string{"keep.txt": "keep", "stale.txt": "stale"})

	config := baseConfig(sourceDir, backupRoot)
	config.Mode = plan.ModeMirror

	first, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	require.True(t, first.Success)
	assert.FileExists(t, filepath.Join(backupRoot, "docs", "stale.txt"))

	require.NoError(t, os.Remove(filepath.Join(sourceDir, "stale.txt")))

	second, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	require.True(t, second.Success)

	assert.FileExists(t, filepath.Join(backupRoot, "docs", "keep.txt"))
	assert.NoFileExists(t, filepath.Join(backupRoot, "docs", "stale.txt"))
}

func TestRunHardlinkModeLinksUnchangedFiles(t *testing.T) {
	sourceDir := t.TempDir()
	backupRoot := t.TempDir()
	writeTree(t, sourceDir, map[string]string{"stable.txt": "unchanging content"})

	config := baseConfig(sourceDir, backupRoot)
	config.Mode = plan.ModeHardlink
	config.Versioned = true
	config.VersionName = "instance-one"
	config.CompareWithLastBackup = true

	first, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	require.True(t, first.Success)

	config.VersionName = "instance-two"
	second, err := New(config, testLogger(), nil, time.Now().Add(time.Minute)).Run(context.Background())
	require.NoError(t, err)
	require.True(t, second.Success)
	assert.Equal(t, 1, second.Sources[0].Stats.FilesHardlinked)
	assert.Equal(t, 0, second.Sources[0].Stats.FilesCopied)

	firstPath := filepath.Join(backupRoot, "instance-one", "docs", "stable.txt")
	secondPath := filepath.Join(backupRoot, "instance-two", "docs", "stable.txt")
	firstInfo, err := os.Stat(firstPath)
	require.NoError(t, err)
	secondInfo, err := os.Stat(secondPath)
	require.NoError(t, err)
	assert.True(t, os.SameFile(firstInfo, secondInfo), "the unchanged file must be the same inode across instances")
}

func TestRunExcludesSubtree(t *testing.T) {
	sourceDir := t.TempDir()
	backupRoot := t.TempDir()
	writeTree(t, sourceDir, map[string]string{"keep.txt": "keep", "vendor/skip.txt": "skip"})

	config := baseConfig(sourceDir, backupRoot)
	config.Sources[0].ExcludePaths = []string{"vendor/"}

	result, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.FileExists(t, filepath.Join(backupRoot, "docs", "keep.txt"))
	assert.NoDirExists(t, filepath.Join(backupRoot, "docs", "vendor"))
}

func TestRunSourceUnavailableAbortsByDefault(t *testing.T) {
	backupRoot := t.TempDir()
	config := baseConfig(filepath.Join(t.TempDir(), "does-not-exist"), backupRoot)

	result, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err, "an unavailable source fails the job's success rule, not the Run call itself")
	assert.False(t, result.Success)
	require.Len(t, result.Sources, 1)
	assert.ErrorIs(t, result.Sources[0].Err, ErrFatal)
}

func TestRunSourceUnavailableProceedsWhenConfigured(t *testing.T) {
	backupRoot := t.TempDir()
	otherSourceDir := t.TempDir()
	writeTree(t, otherSourceDir, map[string]string{"a.txt": "hello"})

	config := baseConfig(filepath.Join(t.TempDir(), "does-not-exist"), backupRoot)
	config.Sources = []configuration.Source{
		{Name: "missing", Dir: filepath.Join(t.TempDir(), "does-not-exist")},
		{Name: "present", Dir: otherSourceDir},
	}
	config.SourceUnavailableAction = decision.Proceed

	result, err := New(config, testLogger(), nil, time.Now()).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Sources, 2)
	assert.True(t, result.Sources[0].Skipped)
	assert.False(t, result.Sources[1].Skipped)
}

func TestComputeSuccessRequiresAtLeastOneCompletedSource(t *testing.T) {
	config := configuration.Configuration{MaxScanningErrors: -1, MaxBackupErrors: -1}
	sources := []SourceResult{{Name: "docs", Skipped: true}}
	assert.False(t, computeSuccess(config, sources))
}

func TestComputeSuccessFailsWhenScanErrorBudgetExceeded(t *testing.T) {
	config := configuration.Configuration{MaxScanningErrors: 1, MaxBackupErrors: -1}
	sources := []SourceResult{{Name: "docs", ScanErrors: 2}}
	assert.False(t, computeSuccess(config, sources))
}

func TestComputeSuccessFailsWhenBackupErrorBudgetExceeded(t *testing.T) {
	config := configuration.Configuration{MaxScanningErrors: -1, MaxBackupErrors: 0}
	sources := []SourceResult{{Name: "docs", Stats: &executor.Statistics{BackupErrors: 1}}}
	assert.False(t, computeSuccess(config, sources))
}

func TestComputeSuccessIgnoresSourcesThatErroredOutright(t *testing.T) {
	config := configuration.Configuration{MaxScanningErrors: -1, MaxBackupErrors: -1}
	sources := []SourceResult{
		{Name: "broken", Err: errBoom},
		{Name: "fine", Stats: &executor.Statistics{}},
	}
	assert.True(t, computeSuccess(config, sources))
}

var errBoom = errors.New("boom")
