package storage_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/storage"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

func sampleState() workspace.State {
	st := workspace.NewState()
	st.Projects = []workspace.Project{{ID: "p1", Name: "Novel", CreatedAt: t0, UpdatedAt: t0}}
	st.Folders = []workspace.Folder{{ID: "f1", ProjectID: "p1", Name: "Drafts"}}
	st.Documents = []workspace.Document{{ID: "d1", FolderID: "f1", Name: "One", Content: "<p>Hi there</p>", IncludeInContext: true, WordCount: 2, TokenCount: 3}}
	st.DocumentVersions = []workspace.Snapshot{{ID: "v1", DocumentID: "d1", DocumentName: "One", Content: "<p>Hi</p>", TextPreview: "Hi", WordCount: 1, TokenCount: 2, Source: workspace.SourceManual, CreatedAt: t0}}
	st.Personas = []workspace.Persona{{ID: "x1", Title: "Editor", SystemPrompt: "Edit."}}
	st.ActiveProjectID = "p1"
	st.ActiveDocumentID = "d1"
	return st
}

func backupAt(i int) workspace.SafetyBackup {
	created := t0.Add(time.Duration(i) * time.Minute)
	return workspace.SafetyBackup{
		ID:        fmt.Sprintf("b%d", i),
		CreatedAt: created,
		Reason:    "pre-import",
		Payload:   workspace.NewBackup(sampleState(), created),
	}
}

func TestBackends(t *testing.T) {
	for _, driver := range []string{storage.DriverFile, storage.DriverSQLite, storage.DriverBadger} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			be, err := storage.New(storage.Config{Driver: driver, Dir: t.TempDir(), SafetyBackupLimit: 3}, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = be.Close() })

			st, found, err := be.Load(ctx)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Empty(t, st.Projects)

			want := sampleState()
			require.NoError(t, be.Save(ctx, want))
			got, found, err := be.Load(ctx)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want.Documents, got.Documents)
			assert.Equal(t, want.ActiveDocumentID, got.ActiveDocumentID)
			require.Len(t, got.Projects, 1)
			assert.True(t, want.Projects[0].CreatedAt.Equal(got.Projects[0].CreatedAt))
			require.Len(t, got.DocumentVersions, 1)
			assert.Equal(t, "v1", got.DocumentVersions[0].ID)

			for i := 1; i <= 5; i++ {
				require.NoError(t, be.PushSafetyBackup(ctx, backupAt(i)))
			}
			backups, err := be.SafetyBackups(ctx)
			require.NoError(t, err)
			require.Len(t, backups, 3)
			assert.Equal(t, []string{"b5", "b4", "b3"}, []string{backups[0].ID, backups[1].ID, backups[2].ID})
			assert.Equal(t, "pre-import", backups[0].Reason)
			assert.Equal(t, workspace.BackupVersion, backups[0].Payload.BackupVersion)
			assert.Equal(t, "p1", workspace.Deref(backups[0].Payload.ActiveProjectID))
		})
	}
}

func TestUnknownDriver(t *testing.T) {
	_, err := storage.New(storage.Config{Driver: "postgres", Dir: t.TempDir()}, nil)
	assert.Error(t, err)
}
