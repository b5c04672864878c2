package workspace

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/vibewriter/internal/utils"
)

// PreviewLength is the number of characters kept in Snapshot.TextPreview.
const PreviewLength = 300

// SnapshotOptions tags a snapshot. An empty Source means manual.
type SnapshotOptions struct {
	Source SnapshotSource
	Label  string
}

func (s *Store) newSnapshot(docID, docName, html, text string, source SnapshotSource, label string) Snapshot {
	counts := utils.Count(text)
	return Snapshot{
		ID:           s.newID(),
		DocumentID:   docID,
		DocumentName: docName,
		Content:      html,
		TextPreview:  utils.Preview(text, PreviewLength),
		WordCount:    counts.Words,
		TokenCount:   counts.Tokens,
		Source:       source,
		Label:        label,
		CreatedAt:    s.clock.Now(),
	}
}

// CreateSnapshot records the document's current stored content. It returns
// false, and changes nothing, when the document does not exist.
func (s *Store) CreateSnapshot(documentID string, opts SnapshotOptions) (Snapshot, bool) {
	if opts.Source == "" {
		opts.Source = SourceManual
	}
	var snap Snapshot
	ok := s.mutate(func(st *State) bool {
		i, ok := st.document(documentID)
		if !ok {
			return false
		}
		d := st.Documents[i]
		snap = s.newSnapshot(d.ID, d.Name, d.Content, utils.PlainText(d.Content), opts.Source, opts.Label)
		st.DocumentVersions = append(st.DocumentVersions, snap)
		st.DocumentVersions = pruneSnapshots(st.DocumentVersions, d.ID, s.policy.MaxSnapshotsPerDocument)
		return true
	})
	if ok {
		s.logger.Debug().Str("document_id", documentID).Str("snapshot_id", snap.ID).Str("source", string(opts.Source)).Msg("snapshot created")
	}
	return snap, ok
}

// pruneSnapshots trims the snapshots of one document to limit, evicting the
// oldest by CreatedAt. Snapshots of other documents are untouched.
func pruneSnapshots(all []Snapshot, documentID string, limit int) []Snapshot {
	var mine []Snapshot
	for _, v := range all {
		if v.DocumentID == documentID {
			mine = append(mine, v)
		}
	}
	if limit <= 0 || len(mine) <= limit {
		return all
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.Before(mine[j].CreatedAt) })
	evict := map[string]bool{}
	for _, v := range mine[:len(mine)-limit] {
		evict[v.ID] = true
	}
	out := make([]Snapshot, 0, len(all)-len(evict))
	for _, v := range all {
		if !evict[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

// PruneSnapshots applies the retention cap to one document.
func (s *Store) PruneSnapshots(documentID string) bool {
	return s.mutate(func(st *State) bool {
		before := len(st.DocumentVersions)
		st.DocumentVersions = pruneSnapshots(st.DocumentVersions, documentID, s.policy.MaxSnapshotsPerDocument)
		return len(st.DocumentVersions) != before
	})
}

// ListSnapshots returns a document's snapshots, newest first.
func (s *Store) ListSnapshots(documentID string) []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DocumentSnapshots(documentID)
}

// Snapshot looks up a snapshot by id.
func (s *Store) Snapshot(id string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.state.snapshot(id)
	if !ok {
		return Snapshot{}, false
	}
	return s.state.DocumentVersions[i], true
}

// RestoreSnapshot overwrites the document's content and counts with those of
// the snapshot. History is left intact. Callers wanting the current content
// to stay recoverable take a manual snapshot first.
func (s *Store) RestoreSnapshot(documentID, snapshotID string) bool {
	return s.mutate(func(st *State) bool {
		vi, ok := st.snapshot(snapshotID)
		if !ok || st.DocumentVersions[vi].DocumentID != documentID {
			return false
		}
		di, ok := st.document(documentID)
		if !ok {
			return false
		}
		snap := st.DocumentVersions[vi]
		st.Documents[di].Content = snap.Content
		st.Documents[di].WordCount = snap.WordCount
		st.Documents[di].TokenCount = snap.TokenCount
		return true
	})
}

// DuplicateSnapshotAsDocument creates a new document in the folder of the
// snapshot's document, holding the snapshot's content under a unique
// "<name>_restored" name. The new document becomes the only open pane.
func (s *Store) DuplicateSnapshotAsDocument(snapshotID string) (Document, bool) {
	var d Document
	ok := s.mutate(func(st *State) bool {
		vi, ok := st.snapshot(snapshotID)
		if !ok {
			return false
		}
		snap := st.DocumentVersions[vi]
		si, ok := st.document(snap.DocumentID)
		if !ok {
			return false
		}
		src := st.Documents[si]
		base := snap.DocumentName
		if base == "" {
			base = src.Name
		}
		d = Document{
			ID:               s.newID(),
			FolderID:         src.FolderID,
			Name:             uniqueRestoredName(base, st.Documents),
			Content:          snap.Content,
			Order:            len(st.FolderDocuments(src.FolderID)),
			IncludeInContext: true,
			WordCount:        snap.WordCount,
			TokenCount:       snap.TokenCount,
		}
		st.Documents = append(st.Documents, d)
		st.ActiveDocumentID = d.ID
		st.SplitMode = false
		st.ActiveDocumentIDSecondary = ""
		return true
	})
	return d, ok
}

// uniqueRestoredName returns "<base>_restored", or the first free
// "<base>_restored_N" (N >= 2) when that name is taken anywhere in the
// workspace.
func uniqueRestoredName(base string, docs []Document) string {
	if base == "" {
		base = "Document"
	}
	stem := base + "_restored"
	taken := make(map[string]bool, len(docs))
	for _, d := range docs {
		taken[d.Name] = true
	}
	if !taken[stem] {
		return stem
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s_%d", stem, i)
		if !taken[name] {
			return name
		}
	}
}
