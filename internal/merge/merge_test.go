package merge_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/merge"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)

func localState() workspace.State {
	st := workspace.NewState()
	st.Projects = []workspace.Project{{ID: "p1", Name: "Local", CreatedAt: t0, UpdatedAt: t0}}
	st.Folders = []workspace.Folder{{ID: "f1", ProjectID: "p1", Name: "Drafts"}}
	st.Documents = []workspace.Document{
		{ID: "d1", FolderID: "f1", Name: "One", Content: "<p>A</p>", IncludeInContext: true, WordCount: 1, TokenCount: 2},
		{ID: "local", FolderID: "f1", Name: "Local only", Content: "<p>mine</p>", Order: 1, WordCount: 1, TokenCount: 2},
	}
	st.Personas = []workspace.Persona{{ID: "x1", Title: "Editor", SystemPrompt: "Edit."}}
	st.ActiveProjectID = "p1"
	st.ActiveDocumentID = "d1"
	st.SplitMode = true
	st.ActiveDocumentIDSecondary = "local"
	return st
}

func mustParse(t *testing.T, s string) *merge.Payload {
	t.Helper()
	p, err := merge.Parse([]byte(s))
	require.NoError(t, err)
	return p
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "malformed", in: `{"projects": [`, want: merge.ErrParse},
		{name: "not json", in: `hello`, want: merge.ErrParse},
		{name: "array top level", in: `[]`, want: merge.ErrFormat},
		{name: "missing documents", in: `{"projects":[],"folders":[]}`, want: merge.ErrFormat},
		{name: "folders not array", in: `{"projects":[],"folders":{},"documents":[]}`, want: merge.ErrFormat},
		{name: "null projects", in: `{"projects":null,"folders":[],"documents":[]}`, want: merge.ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := merge.Parse([]byte(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseToleratesOptionalFields(t *testing.T) {
	p := mustParse(t, `{"projects":[],"folders":[],"documents":[],"settings":"nope","personas":5,"extra":true}`)
	assert.Nil(t, p.Settings)
	assert.Nil(t, p.Personas)
	assert.Empty(t, p.ActiveProjectID)
}

func TestIncomingWins(t *testing.T) {
	cur := localState()
	p := mustParse(t, `{"projects":[],"folders":[],"documents":[{"id":"d1","content":"<p>B</p>"}]}`)

	sum := merge.Summarize(cur, p)
	assert.Equal(t, merge.Counts{Imported: 1, Updates: 1}, sum.Documents)

	next := merge.Apply(cur, p)
	var d1 workspace.Document
	for _, d := range next.Documents {
		if d.ID == "d1" {
			d1 = d
		}
	}
	assert.Equal(t, "<p>B</p>", d1.Content)
	assert.Equal(t, "One", d1.Name, "fields absent from the import are kept")
	assert.True(t, d1.IncludeInContext)
	assert.Equal(t, "<p>A</p>", cur.Documents[0].Content, "input state is not modified")
}

func TestNonDestructive(t *testing.T) {
	cur := localState()
	p := mustParse(t, `{
		"projects":[{"id":"p2","name":"Imported"}],
		"folders":[{"id":"f2","projectId":"p2","name":"New"}],
		"documents":[{"id":"d2","folderId":"f2","name":"Two","content":"<p>two words</p>"}]
	}`)

	next := merge.Apply(cur, p)

	require.Len(t, next.Documents, 3)
	assert.Equal(t, cur.Documents[0], next.Documents[0])
	assert.Equal(t, cur.Documents[1], next.Documents[1])
	assert.Equal(t, "d2", next.Documents[2].ID)
	assert.Equal(t, 2, next.Documents[2].WordCount)
	assert.Equal(t, 3, next.Documents[2].TokenCount)
	assert.Equal(t, []string{"p1", "p2"}, []string{next.Projects[0].ID, next.Projects[1].ID})
}

func TestReferentialFiltering(t *testing.T) {
	cur := localState()
	p := mustParse(t, `{
		"projects":[],
		"folders":[{"id":"orphan","projectId":"ghost","name":"Lost"}],
		"documents":[
			{"id":"od","folderId":"orphan","name":"Lost doc"},
			{"id":"nd","folderId":"nowhere","name":"Nowhere"}
		]
	}`)

	next := merge.Apply(cur, p)

	for _, f := range next.Folders {
		assert.NotEqual(t, "orphan", f.ID)
	}
	for _, d := range next.Documents {
		assert.NotContains(t, []string{"od", "nd"}, d.ID)
	}
	assert.Len(t, next.Documents, 2)
}

func TestSkipsUnusableItems(t *testing.T) {
	cur := localState()
	p := mustParse(t, `{"projects":[null, 3, {"name":"no id"}, {"id":""}, {"id":7}],"folders":[],"documents":[]}`)

	assert.Equal(t, merge.Counts{}, merge.Summarize(cur, p).Projects)
	assert.Len(t, merge.Apply(cur, p).Projects, 1)
}

func TestBadFieldValueDegrades(t *testing.T) {
	cur := localState()
	p := mustParse(t, `{"projects":[{"id":"p1","name":"Renamed","createdAt":"not a date"}],"folders":[],"documents":[]}`)

	next := merge.Apply(cur, p)

	assert.Equal(t, "Renamed", next.Projects[0].Name)
	assert.Equal(t, t0, next.Projects[0].CreatedAt)
}

func TestSettingsOverlay(t *testing.T) {
	cur := localState()
	cur.Settings.OpenRouterAPIKey = "keep"

	p := mustParse(t, `{"projects":[],"folders":[],"documents":[],"settings":{"themeMode":"light","openAiCliEnabled":true}}`)
	next := merge.Apply(cur, p)
	assert.Equal(t, "light", next.Settings.ThemeMode)
	assert.True(t, next.Settings.OpenAICLIEnabled)
	assert.Equal(t, "keep", next.Settings.OpenRouterAPIKey)

	p = mustParse(t, `{"projects":[],"folders":[],"documents":[],"settings":[1,2]}`)
	assert.Equal(t, cur.Settings, merge.Apply(cur, p).Settings)
}

func TestSettingsOverlayDropsUnknownKeys(t *testing.T) {
	cur := localState()
	p := mustParse(t, `{"projects":[],"folders":[],"documents":[],"settings":{"fontSize":18,"themeMode":"light"}}`)
	next := merge.Apply(cur, p)

	want := cur.Settings
	want.ThemeMode = "light"
	assert.Equal(t, want, next.Settings)
}

func TestSummaryReportsSettingsOnlyChange(t *testing.T) {
	cur := localState()
	cur.Settings.ThemeMode = "light"
	backup := workspace.NewBackup(localState(), t0)
	data, err := json.Marshal(backup)
	require.NoError(t, err)

	sum := merge.Summarize(cur, mustParse(t, string(data)))
	assert.Zero(t, sum.Documents.NewItems+sum.Documents.Updates)
	assert.True(t, sum.SettingsChanged)
	assert.True(t, sum.HasChanges())

	sum = merge.Summarize(localState(), mustParse(t, string(data)))
	assert.False(t, sum.SettingsChanged)
}

func TestSelectionResolution(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*workspace.State)
		payload     string
		wantProject string
		wantDoc     string
	}{
		{
			name:        "local selection kept",
			payload:     `{"projects":[{"id":"p2"}],"folders":[],"documents":[],"activeProjectId":"p2"}`,
			wantProject: "p1",
			wantDoc:     "d1",
		},
		{
			name:        "imported selection used when local is empty",
			mutate:      func(st *workspace.State) { st.ActiveProjectID, st.ActiveDocumentID = "", "" },
			payload:     `{"projects":[{"id":"p2"}],"folders":[],"documents":[],"activeProjectId":"p2","activeDocumentId":"local"}`,
			wantProject: "p2",
			wantDoc:     "local",
		},
		{
			name:        "first project as fallback",
			mutate:      func(st *workspace.State) { st.ActiveProjectID, st.ActiveDocumentID = "gone", "gone" },
			payload:     `{"projects":[],"folders":[],"documents":[],"activeProjectId":"missing","activeDocumentId":"missing"}`,
			wantProject: "p1",
			wantDoc:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := localState()
			if tt.mutate != nil {
				tt.mutate(&cur)
			}
			next := merge.Apply(cur, mustParse(t, tt.payload))
			assert.Equal(t, tt.wantProject, next.ActiveProjectID)
			assert.Equal(t, tt.wantDoc, next.ActiveDocumentID)
			assert.False(t, next.SplitMode)
			assert.Empty(t, next.ActiveDocumentIDSecondary)
		})
	}
}

func TestEmptyWorkspaceSelection(t *testing.T) {
	next := merge.Apply(workspace.NewState(), mustParse(t, `{"projects":[],"folders":[],"documents":[]}`))
	assert.Empty(t, next.ActiveProjectID)
	assert.Empty(t, next.ActiveDocumentID)
}

func TestPersonasMerged(t *testing.T) {
	cur := localState()
	p := mustParse(t, `{"projects":[],"folders":[],"documents":[],"personas":[{"id":"x1","title":"Editor","systemPrompt":"Edit."},{"id":"x2","title":"Muse","systemPrompt":"Dream."}]}`)

	sum := merge.Summarize(cur, p)
	assert.Equal(t, merge.Counts{Imported: 2, NewItems: 1, Unchanged: 1}, sum.Personas)
	assert.Len(t, merge.Apply(cur, p).Personas, 2)

	noPersonas := mustParse(t, `{"projects":[],"folders":[],"documents":[]}`)
	assert.Equal(t, cur.Personas, merge.Apply(cur, noPersonas).Personas)
}

func TestIdempotentReimport(t *testing.T) {
	src := localState()
	src.Documents[0].Content = "<p>Imported words here</p>"
	src.Projects = append(src.Projects, workspace.Project{ID: "p9", Name: "Extra", CreatedAt: t0.Add(time.Hour), UpdatedAt: t0.Add(time.Hour)})
	data, err := json.Marshal(workspace.NewBackup(src, t0))
	require.NoError(t, err)

	store := workspace.NewStore(workspace.NewState())
	im := merge.NewImporter(store, nil, nil)

	first, err := im.ImportBytes(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Summary.Projects.NewItems)

	_, second, err := im.Preview(data)
	require.NoError(t, err)
	for name, c := range map[string]merge.Counts{
		"projects": second.Projects, "folders": second.Folders,
		"documents": second.Documents, "personas": second.Personas,
	} {
		assert.Zero(t, c.Updates, name)
		assert.Zero(t, c.NewItems, name)
		assert.Equal(t, c.Imported, c.Unchanged, name)
	}
	assert.False(t, second.HasChanges())
}

type failingBackups struct{ calls int }

func (f *failingBackups) PushSafetyBackup(context.Context, workspace.SafetyBackup) error {
	f.calls++
	return errors.New("quota exceeded")
}

type memoryBackups struct{ got []workspace.SafetyBackup }

func (m *memoryBackups) PushSafetyBackup(_ context.Context, b workspace.SafetyBackup) error {
	m.got = append(m.got, b)
	return nil
}

func TestImportProceedsWhenSafetyBackupFails(t *testing.T) {
	store := workspace.NewStore(localState())
	sink := &failingBackups{}
	im := merge.NewImporter(store, sink, nil)

	out, err := im.ImportBytes(context.Background(), []byte(`{"projects":[],"folders":[],"documents":[{"id":"d1","content":"<p>B</p>"}]}`))

	require.NoError(t, err)
	assert.Equal(t, 1, sink.calls)
	assert.Error(t, out.SafetyBackupErr)
	d, _ := store.Document("d1")
	assert.Equal(t, "<p>B</p>", d.Content)
	assert.False(t, out.Selection.SplitMode)
}

func TestImportStoresSafetyBackupOfPriorState(t *testing.T) {
	n := 0
	store := workspace.NewStore(localState(), workspace.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("backup-%d", n)
	}))
	sink := &memoryBackups{}
	im := merge.NewImporter(store, sink, nil)

	_, err := im.ImportBytes(context.Background(), []byte(`{"projects":[],"folders":[],"documents":[{"id":"d1","content":"<p>B</p>"}]}`))
	require.NoError(t, err)

	require.Len(t, sink.got, 1)
	b := sink.got[0]
	assert.Equal(t, "backup-1", b.ID)
	assert.Equal(t, merge.ImportReason, b.Reason)
	assert.Equal(t, workspace.BackupVersion, b.Payload.BackupVersion)
	assert.Equal(t, "<p>A</p>", b.Payload.Documents[0].Content)
}

func TestRejectedImportLeavesStateUntouched(t *testing.T) {
	store := workspace.NewStore(localState())
	sink := &memoryBackups{}
	im := merge.NewImporter(store, sink, nil)
	before := store.State()

	_, err := im.ImportBytes(context.Background(), []byte(`{"projects":[]}`))

	assert.ErrorIs(t, err, merge.ErrFormat)
	assert.Empty(t, sink.got)
	assert.Equal(t, before, store.State())
}
