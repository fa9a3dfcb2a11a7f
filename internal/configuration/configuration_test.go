package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdown/frontdown/internal/comparator"
	"github.com/frontdown/frontdown/internal/decision"
	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/plan"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadMinimalConfiguration(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: docs
    dir: /home/user/docs
backup_root_dir: /mnt/backup
mode: save
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "docs", config.Sources[0].Name)
	assert.Equal(t, plan.ModeSave, config.Mode)
	assert.Equal(t, "%Y-%m-%d_%H-%M-%S", config.VersionName, "defaults fill in version_name even though this config omits it")
	assert.Equal(t, comparator.Chain{comparator.MethodModDate, comparator.MethodSize}, config.CompareMethod)
	assert.Equal(t, -1, config.MaxScanningErrors)
	assert.Equal(t, decision.Abort, config.TargetDriveFullAction)
	assert.Equal(t, logging.LevelInfo, config.LogLevel)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: docs
    dir: /home/user/docs
backup_root_dir: /mnt/backup
mode: save
typo_field: true
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: docs
    dir: /home/user/docs
backup_root_dir: /mnt/backup
mode: destroy
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsHashCompareMethod(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: docs
    dir: /home/user/docs
backup_root_dir: /mnt/backup
mode: save
compare_method: [hash]
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadHardlinkModeForcesVersionedAndCompare(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: docs
    dir: /home/user/docs
backup_root_dir: /mnt/backup
mode: hardlink
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.True(t, config.Versioned)
	assert.True(t, config.CompareWithLastBackup)
}

func TestEnsureValidRejectsDuplicateSourceNames(t *testing.T) {
	config := Configuration{
		Sources: []Source{
			{Name: "docs", Dir: "/a"},
			{Name: "docs", Dir: "/b"},
		},
		BackupRootDir: "/backup",
		Mode:          plan.ModeSave,
	}
	err := config.EnsureValid()
	assert.ErrorIs(t, err, errDuplicateName)
}

func TestEnsureValidRejectsEmptySourceList(t *testing.T) {
	config := Configuration{BackupRootDir: "/backup", Mode: plan.ModeSave}
	err := config.EnsureValid()
	assert.ErrorIs(t, err, errNoSources)
}

func TestEnsureValidRejectsVersionedWithoutVersionName(t *testing.T) {
	config := Configuration{
		Sources:       []Source{{Name: "docs", Dir: "/a"}},
		BackupRootDir: "/backup",
		Mode:          plan.ModeSave,
		Versioned:     true,
	}
	err := config.EnsureValid()
	assert.ErrorIs(t, err, errEmptyVersionName)
}

func TestErrorBudgetExhausted(t *testing.T) {
	assert.False(t, ErrorBudgetExhausted(100, -1), "-1 disables the budget")
	assert.False(t, ErrorBudgetExhausted(5, 5))
	assert.True(t, ErrorBudgetExhausted(6, 5))
}
