package findreplace

import (
	"errors"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/phuslu/log"
)

// Scope selects which documents a search covers.
type Scope string

const (
	ScopeDocument Scope = "document"
	ScopeProject  Scope = "project"
)

var (
	// ErrNoDocument is returned for document scope when no document is open.
	ErrNoDocument = errors.New("no active document")
	// ErrNoProject is returned for project scope when no project is active.
	ErrNoProject = errors.New("no active project")
	// ErrStale is returned when a match no longer exists in its document.
	ErrStale = errors.New("could not replace selected match (document may have changed)")
)

// Options tune matching.
type Options struct {
	MatchCase bool
}

// Match is one occurrence of the query in a document's plain text.
type Match struct {
	DocumentID   string  `json:"documentId"`
	DocumentName string  `json:"documentName"`
	Occurrence   int     `json:"occurrence"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	Snippet      Snippet `json:"snippet"`
}

// Search lists every occurrence of query across docs, in document order.
func Search(docs []workspace.Document, query string, opts Options) []Match {
	var out []Match
	for _, d := range docs {
		text := utils.PlainText(d.Content)
		runes := []rune(text)
		for i, sp := range Occurrences(text, query, opts.MatchCase) {
			out = append(out, Match{
				DocumentID:   d.ID,
				DocumentName: d.Name,
				Occurrence:   i,
				Start:        sp.Start,
				End:          sp.End,
				Snippet:      snippetOf(runes, sp),
			})
		}
	}
	return out
}

// Engine runs find and replace against a store. Writes go through
// Store.UpdateDocumentContent.
type Engine struct {
	store  *workspace.Store
	logger *log.Logger
}

func New(store *workspace.Store, logger *log.Logger) *Engine {
	return &Engine{store: store, logger: logging.OrNop(logger)}
}

// Documents returns the documents in scope: the primary document, or every
// document of the active project.
func (e *Engine) Documents(scope Scope) ([]workspace.Document, error) {
	sel := e.store.Selection()
	if scope == ScopeProject {
		if sel.ActiveProjectID == "" {
			return nil, ErrNoProject
		}
		return e.store.ProjectDocuments(sel.ActiveProjectID), nil
	}
	d, ok := e.store.Document(sel.ActiveDocumentID)
	if !ok {
		return nil, ErrNoDocument
	}
	return []workspace.Document{d}, nil
}

// Find searches the documents in scope.
func (e *Engine) Find(scope Scope, query string, opts Options) ([]Match, error) {
	docs, err := e.Documents(scope)
	if err != nil {
		return nil, err
	}
	return Search(docs, query, opts), nil
}

// ReplaceOne replaces a single match and makes its document the primary one.
func (e *Engine) ReplaceOne(m Match, query, replacement string, opts Options) error {
	doc, ok := e.store.Document(m.DocumentID)
	if !ok {
		return ErrStale
	}
	out, changed, err := ReplaceOccurrence(doc.Content, query, replacement, m.Occurrence, opts.MatchCase)
	if err != nil {
		return err
	}
	if !changed || !e.store.UpdateDocumentContent(doc.ID, out, utils.PlainText(out)) {
		return ErrStale
	}
	e.store.SetActiveDocument(doc.ID)
	e.logger.Debug().Str("document_id", doc.ID).Int("occurrence", m.Occurrence).Msg("replaced match")
	return nil
}

// ReplaceAll replaces every occurrence in scope and returns the total count.
// Documents without a match are not written.
func (e *Engine) ReplaceAll(scope Scope, query, replacement string, opts Options) (int, error) {
	docs, err := e.Documents(scope)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, d := range docs {
		out, n, err := ReplaceAll(d.Content, query, replacement, opts.MatchCase)
		if err != nil {
			return total, err
		}
		if n == 0 {
			continue
		}
		if e.store.UpdateDocumentContent(d.ID, out, utils.PlainText(out)) {
			total += n
		}
	}
	e.logger.Debug().Str("scope", string(scope)).Int("replaced", total).Msg("replace all")
	return total, nil
}
