package record

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdown/frontdown/internal/plan"
	"github.com/frontdown/frontdown/internal/scan"
)

func TestFromActionsToActionsRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	actions := plan.List{
		{Type: plan.Copy, RelPath: "a.txt", Kind: scan.KindFile, AbsSource: "/src/a.txt", Size: 10, ModTime: now},
		{Type: plan.Hardlink, RelPath: "b.txt", Kind: scan.KindFile, AbsLinkTarget: "/prior/b.txt", Size: 20, ModTime: now},
		{Type: plan.Delete, RelPath: "c.txt", Kind: scan.KindFile},
		{Type: plan.NewDir, RelPath: "dir", Kind: scan.KindDirectory},
	}

	roundTripped := ToActions(FromActions(actions))

	require.Len(t, roundTripped, len(actions))
	for i := range actions {
		assert.Equal(t, actions[i].Type, roundTripped[i].Type)
		assert.Equal(t, actions[i].RelPath, roundTripped[i].RelPath)
		assert.Equal(t, actions[i].Kind, roundTripped[i].Kind)
		assert.Equal(t, actions[i].AbsSource, roundTripped[i].AbsSource)
		assert.Equal(t, actions[i].AbsLinkTarget, roundTripped[i].AbsLinkTarget)
		assert.Equal(t, actions[i].Size, roundTripped[i].Size)
		assert.True(t, actions[i].ModTime.Equal(roundTripped[i].ModTime))
	}
}

func TestFromActionsOmitsKindForCopyAndHardlink(t *testing.T) {
	actions := plan.List{
		{Type: plan.Copy, RelPath: "a.txt", Kind: scan.KindFile},
		{Type: plan.Hardlink, RelPath: "b.txt", Kind: scan.KindFile},
	}
	entries := FromActions(actions)
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Kind, "copy/hardlink actions are always files; recording kind would be redundant")
	assert.Empty(t, entries[1].Kind, "copy/hardlink actions are always files; recording kind would be redundant")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.json")
	now := time.Now().Truncate(time.Second)

	original := Record{
		BackupRoot:  "/mnt/backup",
		InstanceDir: "2026-08-01_12-00-00",
		ScanTime:    now,
		Sources: []SourceRecord{
			{
				Name:       "docs",
				SourceRoot: "/home/user/docs",
				Mode:       plan.ModeMirror,
				CreatedAt:  now,
				Actions: []ActionJSON{
					{Type: plan.Copy, RelPath: "a.txt", AbsSource: "/home/user/docs/a.txt", Size: 5, ModTime: now},
				},
			},
		},
	}

	require.NoError(t, Save(path, original, nil))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.BackupRoot, loaded.BackupRoot)
	assert.Equal(t, original.InstanceDir, loaded.InstanceDir)
	require.Len(t, loaded.Sources, 1)
	assert.Equal(t, original.Sources[0].Name, loaded.Sources[0].Name)
	require.Len(t, loaded.Sources[0].Actions, 1)
	assert.Equal(t, original.Sources[0].Actions[0].RelPath, loaded.Sources[0].Actions[0].RelPath)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}
