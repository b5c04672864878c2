package ai

import (
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

// PreEditLabel labels the snapshot taken before AI output replaces a document.
const PreEditLabel = "Pre-AI edit"

// ApplyToDocument replaces a document's content with generated text. A manual
// snapshot of the current content is taken first. It reports false when the
// document does not exist.
func ApplyToDocument(s *workspace.Store, documentID, text string) bool {
	if _, ok := s.CreateSnapshot(documentID, workspace.SnapshotOptions{Source: workspace.SourceManual, Label: PreEditLabel}); !ok {
		return false
	}
	text = strings.TrimSpace(text)
	return s.UpdateDocumentContent(documentID, utils.PlainTextToHTML(text), text)
}

// AppendToDocument adds generated text as new paragraphs after the existing
// content, with the same pre-edit snapshot.
func AppendToDocument(s *workspace.Store, documentID, text string) bool {
	doc, ok := s.Document(documentID)
	if !ok {
		return false
	}
	if _, ok := s.CreateSnapshot(documentID, workspace.SnapshotOptions{Source: workspace.SourceManual, Label: PreEditLabel}); !ok {
		return false
	}
	html := doc.Content + utils.PlainTextToHTML(strings.TrimSpace(text))
	return s.UpdateDocumentContent(documentID, html, utils.PlainText(html))
}
