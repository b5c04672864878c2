package workspace_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoSnapshotPolicy(t *testing.T) {
	tests := []struct {
		name  string
		gap   time.Duration
		first string
		then  string
		want  int
	}{
		{name: "second edit within interval is suppressed", gap: 10 * time.Second, first: longText("a"), then: longText("b"), want: 1},
		{name: "second edit after interval is captured", gap: 3 * time.Minute, first: longText("a"), then: longText("b"), want: 2},
		{name: "exactly the interval counts", gap: 2 * time.Minute, first: longText("a"), then: longText("b"), want: 2},
		{name: "short text never snapshots", gap: 3 * time.Minute, first: "short", then: "still short", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clk := newTestStore(t)
			_, _, d := seedDoc(t, s)

			require.True(t, s.UpdateDocumentContent(d.ID, htmlOf(tt.first), tt.first))
			clk.Advance(tt.gap)
			require.True(t, s.UpdateDocumentContent(d.ID, htmlOf(tt.then), tt.then))

			assert.Len(t, s.ListSnapshots(d.ID), tt.want)
		})
	}
}

func TestAutoSnapshotRecordsNewContent(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, d := seedDoc(t, s)
	text := longText("x")

	s.UpdateDocumentContent(d.ID, htmlOf(text), text)

	snaps := s.ListSnapshots(d.ID)
	require.Len(t, snaps, 1)
	assert.Equal(t, workspace.SourceAuto, snaps[0].Source)
	assert.Equal(t, htmlOf(text), snaps[0].Content)
	assert.Equal(t, "Chapter_One", snaps[0].DocumentName)
	assert.Equal(t, 31, snaps[0].WordCount)
	assert.Equal(t, 41, snaps[0].TokenCount)
}

func TestAutoSnapshotSkipsUnchangedHTML(t *testing.T) {
	s, clk := newTestStore(t)
	_, _, d := seedDoc(t, s)
	text := longText("same")

	s.UpdateDocumentContent(d.ID, htmlOf(text), text)
	clk.Advance(5 * time.Minute)
	s.UpdateDocumentContent(d.ID, htmlOf(text), text)

	assert.Len(t, s.ListSnapshots(d.ID), 1)
}

func TestAutoSnapshotSkipsContentEqualToLatest(t *testing.T) {
	s, clk := newTestStore(t)
	_, _, d := seedDoc(t, s)
	a, b := longText("a"), longText("b")

	s.UpdateDocumentContent(d.ID, htmlOf(a), a)
	clk.Advance(10 * time.Second)
	s.UpdateDocumentContent(d.ID, htmlOf(b), b)
	clk.Advance(5 * time.Minute)
	// back to the snapshotted content: differs from stored html but equals latest snapshot
	s.UpdateDocumentContent(d.ID, htmlOf(a), a)

	assert.Len(t, s.ListSnapshots(d.ID), 1)
}

func TestUpdateDocumentContentCounts(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, d := seedDoc(t, s)

	require.True(t, s.UpdateDocumentContent(d.ID, "<p>one two three</p>", "one two three"))

	got, ok := s.Document(d.ID)
	require.True(t, ok)
	assert.Equal(t, "<p>one two three</p>", got.Content)
	assert.Equal(t, 3, got.WordCount)
	assert.Equal(t, 4, got.TokenCount)
	assert.False(t, s.UpdateDocumentContent("missing", "<p>x</p>", "x"))
}

func TestSnapshotCap(t *testing.T) {
	s, clk := newTestStore(t)
	_, _, d := seedDoc(t, s)
	other, err := s.CreateDocument(d.FolderID, "Other", "<p>keep me</p>")
	require.NoError(t, err)
	_, ok := s.CreateSnapshot(other.ID, workspace.SnapshotOptions{Label: "other"})
	require.True(t, ok)

	var times []time.Time
	for i := 0; i < 60; i++ {
		clk.Advance(3 * time.Minute)
		text := longText(fmt.Sprint(i))
		s.UpdateDocumentContent(d.ID, htmlOf(text), text)
		times = append(times, clk.Now())
	}

	snaps := s.ListSnapshots(d.ID)
	require.Len(t, snaps, 50)
	assert.Equal(t, times[59], snaps[0].CreatedAt)
	assert.Equal(t, times[10], snaps[49].CreatedAt)
	assert.Len(t, s.ListSnapshots(other.ID), 1)
}

func TestCreateSnapshot(t *testing.T) {
	s, clk := newTestStore(t)
	_, f, _ := seedDoc(t, s)
	d, err := s.CreateDocument(f.ID, "Draft", "<p>Hello <em>there</em> friend</p>")
	require.NoError(t, err)

	snap, ok := s.CreateSnapshot(d.ID, workspace.SnapshotOptions{Label: "milestone"})
	require.True(t, ok)
	assert.Equal(t, workspace.SourceManual, snap.Source)
	assert.Equal(t, "milestone", snap.Label)
	assert.Equal(t, "Hello there friend", snap.TextPreview)
	assert.Equal(t, 3, snap.WordCount)
	assert.Equal(t, clk.Now(), snap.CreatedAt)

	_, ok = s.CreateSnapshot("nope", workspace.SnapshotOptions{})
	assert.False(t, ok)
}

func TestSnapshotPreviewTruncated(t *testing.T) {
	s, _ := newTestStore(t)
	_, f, _ := seedDoc(t, s)
	body := ""
	for len(body) < 400 {
		body += "abcdefghij"
	}
	d, err := s.CreateDocument(f.ID, "Long", htmlOf(body))
	require.NoError(t, err)

	snap, ok := s.CreateSnapshot(d.ID, workspace.SnapshotOptions{})
	require.True(t, ok)
	assert.Len(t, snap.TextPreview, workspace.PreviewLength)
}

func TestRestoreSnapshot(t *testing.T) {
	s, clk := newTestStore(t)
	_, _, d := seedDoc(t, s)
	s.UpdateDocumentContent(d.ID, "<p>one two three</p>", "one two three")
	snap, ok := s.CreateSnapshot(d.ID, workspace.SnapshotOptions{})
	require.True(t, ok)
	clk.Advance(time.Minute)
	s.UpdateDocumentContent(d.ID, "<p>changed</p>", "changed")

	require.True(t, s.RestoreSnapshot(d.ID, snap.ID))

	got, _ := s.Document(d.ID)
	assert.Equal(t, snap.Content, got.Content)
	assert.Equal(t, 3, got.WordCount)
	assert.Equal(t, 4, got.TokenCount)
	_, still := s.Snapshot(snap.ID)
	assert.True(t, still)
	assert.Len(t, s.ListSnapshots(d.ID), 1)

	assert.False(t, s.RestoreSnapshot("other-doc", snap.ID))
	assert.False(t, s.RestoreSnapshot(d.ID, "missing"))
}

func TestDuplicateSnapshotAsDocument(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, d := seedDoc(t, s)
	s.UpdateDocumentContent(d.ID, "<p>alpha beta</p>", "alpha beta")
	snap, ok := s.CreateSnapshot(d.ID, workspace.SnapshotOptions{})
	require.True(t, ok)
	s.SetActiveDocumentSecondary("something")

	first, ok := s.DuplicateSnapshotAsDocument(snap.ID)
	require.True(t, ok)
	assert.Equal(t, "Chapter_One_restored", first.Name)
	assert.Equal(t, d.FolderID, first.FolderID)
	assert.Equal(t, "<p>alpha beta</p>", first.Content)
	assert.True(t, first.IncludeInContext)
	assert.Equal(t, 2, first.WordCount)
	assert.Equal(t, 1, first.Order)

	sel := s.Selection()
	assert.Equal(t, first.ID, sel.ActiveDocumentID)
	assert.False(t, sel.SplitMode)
	assert.Empty(t, sel.ActiveDocumentIDSecondary)

	second, ok := s.DuplicateSnapshotAsDocument(snap.ID)
	require.True(t, ok)
	assert.Equal(t, "Chapter_One_restored_2", second.Name)
	third, _ := s.DuplicateSnapshotAsDocument(snap.ID)
	assert.Equal(t, "Chapter_One_restored_3", third.Name)

	orig, _ := s.Document(d.ID)
	assert.Equal(t, "<p>alpha beta</p>", orig.Content)
}

func TestDuplicateSnapshotStaleIDs(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, d := seedDoc(t, s)
	snap, ok := s.CreateSnapshot(d.ID, workspace.SnapshotOptions{})
	require.True(t, ok)

	_, ok = s.DuplicateSnapshotAsDocument("missing")
	assert.False(t, ok)

	before := s.State()
	require.True(t, s.DeleteDocument(d.ID))
	_, ok = s.DuplicateSnapshotAsDocument(snap.ID)
	assert.False(t, ok)
	assert.Len(t, s.State().Documents, len(before.Documents)-1)
}

func TestDeleteDocumentRemovesSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, d := seedDoc(t, s)
	s.CreateSnapshot(d.ID, workspace.SnapshotOptions{})
	s.CreateSnapshot(d.ID, workspace.SnapshotOptions{})

	require.True(t, s.DeleteDocument(d.ID))
	assert.Empty(t, s.State().DocumentVersions)
	assert.Empty(t, s.Selection().ActiveDocumentID)
	assert.False(t, s.DeleteDocument(d.ID))
}
