package merge

import (
	"encoding/json"

	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

// entity is the per-type behaviour merge-by-id needs.
type entity[T any] struct {
	id func(T) string
	// fix adjusts a merged value given its base; used to keep derived fields
	// consistent.
	fix func(base, merged T) T
}

func (e entity[T]) apply(base T, rec record) T {
	out := overlay(base, rec)
	if e.fix != nil {
		out = e.fix(base, out)
	}
	return out
}

var (
	projectEntity = entity[workspace.Project]{id: func(p workspace.Project) string { return p.ID }}
	folderEntity  = entity[workspace.Folder]{id: func(f workspace.Folder) string { return f.ID }}
	personaEntity = entity[workspace.Persona]{id: func(p workspace.Persona) string { return p.ID }}
	// Counts are never taken from the payload: they follow the merged content.
	documentEntity = entity[workspace.Document]{
		id: func(d workspace.Document) string { return d.ID },
		fix: func(base, d workspace.Document) workspace.Document {
			if d.Content == base.Content {
				d.WordCount, d.TokenCount = base.WordCount, base.TokenCount
				return d
			}
			c := utils.Count(utils.PlainText(d.Content))
			d.WordCount, d.TokenCount = c.Words, c.Tokens
			return d
		},
	}
)

// mergeByID merges incoming items into current keyed by id. Current items come
// first in their original order, followed by new items in incoming order.
// Items present on both sides are overlaid shallowly, incoming values winning.
// Nothing is ever removed.
func mergeByID[T any](e entity[T], current []T, incoming []json.RawMessage) []T {
	out := append([]T{}, current...)
	index := make(map[string]int, len(out))
	for i, item := range out {
		index[e.id(item)] = i
	}
	for _, raw := range incoming {
		rec, ok := decodeRecord(raw)
		if !ok {
			continue
		}
		if i, ok := index[rec.id]; ok {
			out[i] = e.apply(out[i], rec)
			continue
		}
		var zero T
		index[rec.id] = len(out)
		out = append(out, e.apply(zero, rec))
	}
	return out
}

// Apply merges the payload into current and returns the resulting state.
// current is not modified.
func Apply(current workspace.State, p *Payload) workspace.State {
	next := current.Clone()

	next.Projects = mergeByID(projectEntity, current.Projects, p.Projects)
	projectIDs := idSet(next.Projects, projectEntity.id)

	folders := mergeByID(folderEntity, current.Folders, p.Folders)
	next.Folders = make([]workspace.Folder, 0, len(folders))
	for _, f := range folders {
		if projectIDs[f.ProjectID] {
			next.Folders = append(next.Folders, f)
		}
	}
	folderIDs := idSet(next.Folders, folderEntity.id)

	docs := mergeByID(documentEntity, current.Documents, p.Documents)
	next.Documents = make([]workspace.Document, 0, len(docs))
	for _, d := range docs {
		if folderIDs[d.FolderID] {
			next.Documents = append(next.Documents, d)
		}
	}

	if p.Personas != nil {
		next.Personas = mergeByID(personaEntity, current.Personas, p.Personas)
	}
	next.Settings = overlaySettings(current.Settings, p.Settings)

	resolveSelection(&next, current, p)
	return next
}

// resolveSelection prefers the local selection, then the imported one, and
// always leaves split mode off.
func resolveSelection(next *workspace.State, current workspace.State, p *Payload) {
	projects := idSet(next.Projects, projectEntity.id)
	switch {
	case projects[current.ActiveProjectID]:
		next.ActiveProjectID = current.ActiveProjectID
	case projects[p.ActiveProjectID]:
		next.ActiveProjectID = p.ActiveProjectID
	case len(next.Projects) > 0:
		next.ActiveProjectID = next.Projects[0].ID
	default:
		next.ActiveProjectID = ""
	}

	docs := idSet(next.Documents, documentEntity.id)
	switch {
	case docs[current.ActiveDocumentID]:
		next.ActiveDocumentID = current.ActiveDocumentID
	case docs[p.ActiveDocumentID]:
		next.ActiveDocumentID = p.ActiveDocumentID
	default:
		next.ActiveDocumentID = ""
	}

	next.SplitMode = false
	next.ActiveDocumentIDSecondary = ""
}

func idSet[T any](items []T, id func(T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		if k := id(it); k != "" {
			set[k] = true
		}
	}
	return set
}
