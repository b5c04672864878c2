package workspace

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/vibewriter/internal/utils"
)

// CreateDocument adds a document to a folder and makes it the primary
// selection. Counts are derived from the plain text of content.
func (s *Store) CreateDocument(folderID, name, content string) (Document, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return Document{}, err
	}
	counts := utils.Count(utils.PlainText(content))
	var d Document
	var missing bool
	s.mutate(func(st *State) bool {
		if _, ok := st.folder(folderID); !ok {
			missing = true
			return false
		}
		d = Document{
			ID:               s.newID(),
			FolderID:         folderID,
			Name:             name,
			Content:          content,
			Order:            len(st.FolderDocuments(folderID)),
			IncludeInContext: true,
			WordCount:        counts.Words,
			TokenCount:       counts.Tokens,
		}
		st.Documents = append(st.Documents, d)
		st.ActiveDocumentID = d.ID
		return true
	})
	if missing {
		return Document{}, fmt.Errorf("create document: folder %s: %w", folderID, ErrNotFound)
	}
	return d, nil
}

// UpdateDocumentContent stores new content for a document. It is the only
// path by which edited content enters the workspace: counts are recomputed
// from text and the auto-snapshot policy runs here. It reports false when the
// document does not exist.
func (s *Store) UpdateDocumentContent(id, html, text string) bool {
	counts := utils.Count(text)
	return s.mutate(func(st *State) bool {
		i, ok := st.document(id)
		if !ok {
			return false
		}
		cur := st.Documents[i]
		if s.shouldAutoSnapshot(*st, cur, html, text) {
			snap := s.newSnapshot(cur.ID, cur.Name, html, text, SourceAuto, "")
			st.DocumentVersions = append(st.DocumentVersions, snap)
			st.DocumentVersions = pruneSnapshots(st.DocumentVersions, cur.ID, s.policy.MaxSnapshotsPerDocument)
			s.logger.Debug().Str("document_id", cur.ID).Str("snapshot_id", snap.ID).Msg("auto snapshot")
		}
		st.Documents[i].Content = html
		st.Documents[i].WordCount = counts.Words
		st.Documents[i].TokenCount = counts.Tokens
		return true
	})
}

// shouldAutoSnapshot decides whether an edit of cur to html/text is recorded.
// HTML is compared literally.
func (s *Store) shouldAutoSnapshot(st State, cur Document, html, text string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < s.policy.AutoSnapshotMinTextLength {
		return false
	}
	if cur.Content == html {
		return false
	}
	latest, ok := st.LatestSnapshot(cur.ID)
	if !ok {
		return true
	}
	if latest.Content == html {
		return false
	}
	return s.clock.Now().Sub(latest.CreatedAt) >= s.policy.AutoSnapshotInterval
}

// UpdateDocumentName renames a document.
func (s *Store) UpdateDocumentName(id, name string) (bool, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return false, err
	}
	return s.mutate(func(st *State) bool {
		i, ok := st.document(id)
		if !ok {
			return false
		}
		st.Documents[i].Name = name
		return true
	}), nil
}

// ToggleDocumentContext flips whether a document is fed to AI prompts.
func (s *Store) ToggleDocumentContext(id string) bool {
	return s.mutate(func(st *State) bool {
		i, ok := st.document(id)
		if !ok {
			return false
		}
		st.Documents[i].IncludeInContext = !st.Documents[i].IncludeInContext
		return true
	})
}

// DeleteDocument removes a document and all of its snapshots.
func (s *Store) DeleteDocument(id string) bool {
	return s.mutate(func(st *State) bool {
		i, ok := st.document(id)
		if !ok {
			return false
		}
		st.Documents = append(st.Documents[:i:i], st.Documents[i+1:]...)
		st.DocumentVersions = dropSnapshots(st.DocumentVersions, map[string]bool{id: true})
		if st.ActiveDocumentID == id {
			st.ActiveDocumentID = ""
		}
		if st.ActiveDocumentIDSecondary == id {
			st.ActiveDocumentIDSecondary = ""
		}
		return true
	})
}

// Document looks up a document by id.
func (s *Store) Document(id string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.state.document(id)
	if !ok {
		return Document{}, false
	}
	return s.state.Documents[i], true
}

// Documents returns the documents of a folder ordered by Order.
func (s *Store) Documents(folderID string) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FolderDocuments(folderID)
}

// ProjectDocuments returns a project's documents in display order.
func (s *Store) ProjectDocuments(projectID string) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ProjectDocuments(projectID)
}

// FindDocument resolves a document of the project by id or, failing that, by
// case-insensitive name.
func (s *Store) FindDocument(projectID, ref string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.state.ProjectDocuments(projectID)
	for _, d := range docs {
		if d.ID == ref {
			return d, true
		}
	}
	for _, d := range docs {
		if strings.EqualFold(d.Name, ref) {
			return d, true
		}
	}
	return Document{}, false
}
