package ai

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

func TestWithContextIncludesDocsInOrder(t *testing.T) {
	docs := []workspace.Document{
		{Name: "Alpha", Content: "<p>Alpha content.</p>"},
		{Name: "Beta", Content: "<h1>Beta</h1><p>Beta content.</p>"},
	}
	prompt := WithContext(docs, "Summarize")
	if !strings.HasPrefix(prompt, "[REFERENCE DOCUMENTS]\n") {
		t.Fatalf("missing header: %q", prompt)
	}
	a := strings.Index(prompt, "--- Document: Alpha ---\nAlpha content.")
	b := strings.Index(prompt, "--- Document: Beta ---\nBeta\nBeta content.")
	if a < 0 || b < 0 || a > b {
		t.Fatalf("documents missing or out of order: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "[TASK]\nBased on the reference documents above: Summarize") {
		t.Fatalf("missing task: %q", prompt)
	}
	if WithContext(nil, "x") != "x" {
		t.Fatalf("expected bare prompt without documents")
	}
}

func TestContextDocumentsFiltersAndOrders(t *testing.T) {
	st := workspace.NewState()
	st.Projects = []workspace.Project{{ID: "p"}}
	st.Folders = []workspace.Folder{{ID: "f2", ProjectID: "p", Order: 1}, {ID: "f1", ProjectID: "p", Order: 0}}
	st.Documents = []workspace.Document{
		{ID: "d3", FolderID: "f2", IncludeInContext: true},
		{ID: "d2", FolderID: "f1", Order: 1, IncludeInContext: true},
		{ID: "d1", FolderID: "f1", Order: 0, IncludeInContext: false},
	}
	got := ContextDocuments(st, "p")
	if len(got) != 2 || got[0].ID != "d2" || got[1].ID != "d3" {
		t.Fatalf("unexpected documents: %+v", got)
	}
}

func TestExpandPrompt(t *testing.T) {
	want := "Apply the following expansion instructions to the selected text.\n\nInstructions:\nadd detail\n\nSelected text:\nThe sea.\n\nReturn only the rewritten expanded text."
	if got := ExpandPrompt("  add detail ", "The sea."); got != want {
		t.Fatalf("got %q", got)
	}
}

func TestExpandedDocumentName(t *testing.T) {
	docs := []workspace.Document{{Name: "Intro_expanded"}, {Name: "Intro_expanded_2"}}
	if got := ExpandedDocumentName("Intro", docs); got != "Intro_expanded_3" {
		t.Fatalf("got %q", got)
	}
	if got := ExpandedDocumentName("Notes.md", nil); got != "Notes_expanded" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyToDocumentSnapshotsFirst(t *testing.T) {
	s := workspace.NewStore(workspace.NewState())
	p, _ := s.CreateProject("P")
	f, _ := s.CreateFolder(p.ID, "F")
	d, _ := s.CreateDocument(f.ID, "D", "<p>before</p>")

	if !ApplyToDocument(s, d.ID, " after\n\nmore ") {
		t.Fatalf("apply failed")
	}
	got, _ := s.Document(d.ID)
	if got.Content != "<p>after</p><p>more</p>" || got.WordCount != 2 {
		t.Fatalf("unexpected document: %+v", got)
	}
	snaps := s.ListSnapshots(d.ID)
	if len(snaps) != 1 || snaps[0].Label != PreEditLabel || snaps[0].Content != "<p>before</p>" {
		t.Fatalf("unexpected snapshots: %+v", snaps)
	}
	if ApplyToDocument(s, "missing", "x") {
		t.Fatalf("expected false for missing document")
	}
}
