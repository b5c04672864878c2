package workspace_test

import (
	"testing"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackupNullsEmptySelection(t *testing.T) {
	b := workspace.NewBackup(workspace.NewState(), epoch)
	assert.Equal(t, workspace.BackupVersion, b.BackupVersion)
	assert.Nil(t, b.ActiveProjectID)
	assert.Nil(t, b.ActiveDocumentID)
	assert.Equal(t, "vibewriter-workspace-2025-03-01.json", workspace.BackupFileName(epoch))
}

func TestBackupRestoreKeepsSurvivingSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	p, f, d := seedDoc(t, s)
	_, ok := s.CreateSnapshot(d.ID, workspace.SnapshotOptions{Label: "v1"})
	require.True(t, ok)
	b := workspace.NewBackup(s.State(), s.Now())

	later, err := s.CreateDocument(f.ID, "Later", "<p>x</p>")
	require.NoError(t, err)
	_, ok = s.CreateSnapshot(later.ID, workspace.SnapshotOptions{})
	require.True(t, ok)

	s.Transform(b.Restore)

	st := s.State()
	require.Len(t, st.Documents, 1)
	assert.Equal(t, d.ID, st.Documents[0].ID)
	require.Len(t, st.DocumentVersions, 1)
	assert.Equal(t, d.ID, st.DocumentVersions[0].DocumentID)
	assert.Equal(t, p.ID, st.ActiveProjectID)
}

func TestKeepNewest(t *testing.T) {
	var in []workspace.SafetyBackup
	for i := 0; i < 4; i++ {
		in = append(in, workspace.SafetyBackup{ID: string(rune('a' + i)), CreatedAt: epoch.Add(time.Duration(i) * time.Hour)})
	}
	out := workspace.KeepNewest(in, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "d", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}
