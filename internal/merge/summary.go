package merge

import (
	"encoding/json"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/google/go-cmp/cmp"
)

// Counts classifies the incoming items of one entity category.
type Counts struct {
	Imported  int `json:"imported"`
	NewItems  int `json:"newItems"`
	Updates   int `json:"updates"`
	Unchanged int `json:"unchanged"`
}

// Summary is the preview shown before an import is confirmed.
type Summary struct {
	Projects  Counts `json:"projects"`
	Folders   Counts `json:"folders"`
	Documents Counts `json:"documents"`
	Personas  Counts `json:"personas"`
	// SettingsChanged is set when the settings overlay alters a value.
	SettingsChanged bool `json:"settingsChanged"`
}

// HasChanges reports whether applying the import would add or alter anything.
func (s Summary) HasChanges() bool {
	for _, c := range []Counts{s.Projects, s.Folders, s.Documents, s.Personas} {
		if c.NewItems > 0 || c.Updates > 0 {
			return true
		}
	}
	return s.SettingsChanged
}

// Summarize classifies every usable incoming item against current without
// touching it: absent locally is new, present with a merged value that
// differs from the local one is an update, otherwise unchanged.
func Summarize(current workspace.State, p *Payload) Summary {
	return Summary{
		Projects:  classify(projectEntity, current.Projects, p.Projects),
		Folders:   classify(folderEntity, current.Folders, p.Folders),
		Documents: classify(documentEntity, current.Documents, p.Documents),
		Personas:  classify(personaEntity, current.Personas, p.Personas),

		SettingsChanged: !cmp.Equal(overlaySettings(current.Settings, p.Settings), current.Settings),
	}
}

func classify[T any](e entity[T], current []T, incoming []json.RawMessage) Counts {
	local := make(map[string]T, len(current))
	for _, item := range current {
		local[e.id(item)] = item
	}
	var c Counts
	for _, raw := range incoming {
		rec, ok := decodeRecord(raw)
		if !ok {
			continue
		}
		c.Imported++
		cur, ok := local[rec.id]
		switch {
		case !ok:
			c.NewItems++
		case !cmp.Equal(e.apply(cur, rec), cur):
			c.Updates++
		default:
			c.Unchanged++
		}
	}
	return c
}
