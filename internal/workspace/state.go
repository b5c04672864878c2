package workspace

import (
	"sort"
	"time"
)

// State is the whole persisted workspace tree. An empty id in a selection
// field means "none".
type State struct {
	Projects         []Project  `json:"projects"`
	Folders          []Folder   `json:"folders"`
	Documents        []Document `json:"documents"`
	DocumentVersions []Snapshot `json:"documentVersions"`
	Personas         []Persona  `json:"personas"`
	Settings         Settings   `json:"settings"`

	ActiveProjectID           string `json:"activeProjectId"`
	ActiveDocumentID          string `json:"activeDocumentId"`
	SplitMode                 bool   `json:"splitMode"`
	ActiveDocumentIDSecondary string `json:"activeDocumentIdSecondary"`
}

// NewState returns an empty workspace with default settings.
func NewState() State {
	return State{
		Projects:         []Project{},
		Folders:          []Folder{},
		Documents:        []Document{},
		DocumentVersions: []Snapshot{},
		Personas:         []Persona{},
		Settings:         DefaultSettings(),
	}
}

// Clone returns a deep copy. Entities hold no pointers, so copying the
// slices is sufficient.
func (st State) Clone() State {
	out := st
	out.Projects = append([]Project{}, st.Projects...)
	out.Folders = append([]Folder{}, st.Folders...)
	out.Documents = append([]Document{}, st.Documents...)
	out.DocumentVersions = append([]Snapshot{}, st.DocumentVersions...)
	out.Personas = append([]Persona{}, st.Personas...)
	return out
}

// Selection returns the pane-selection part of the state.
func (st State) Selection() Selection {
	return Selection{
		ActiveProjectID:           st.ActiveProjectID,
		ActiveDocumentID:          st.ActiveDocumentID,
		SplitMode:                 st.SplitMode,
		ActiveDocumentIDSecondary: st.ActiveDocumentIDSecondary,
	}
}

func (st State) project(id string) (int, bool) {
	for i := range st.Projects {
		if st.Projects[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (st State) folder(id string) (int, bool) {
	for i := range st.Folders {
		if st.Folders[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (st State) document(id string) (int, bool) {
	for i := range st.Documents {
		if st.Documents[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (st State) snapshot(id string) (int, bool) {
	for i := range st.DocumentVersions {
		if st.DocumentVersions[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (st State) persona(id string) (int, bool) {
	for i := range st.Personas {
		if st.Personas[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// ProjectFolders returns the folders of a project sorted by Order.
func (st State) ProjectFolders(projectID string) []Folder {
	var out []Folder
	for _, f := range st.Folders {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// FolderDocuments returns the documents of a folder sorted by Order.
func (st State) FolderDocuments(folderID string) []Document {
	var out []Document
	for _, d := range st.Documents {
		if d.FolderID == folderID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ProjectDocuments returns a project's documents in display order: folders by
// Order, then documents by Order within each folder. Orphans are skipped.
func (st State) ProjectDocuments(projectID string) []Document {
	var out []Document
	for _, f := range st.ProjectFolders(projectID) {
		out = append(out, st.FolderDocuments(f.ID)...)
	}
	return out
}

// DocumentProject resolves the project owning a document, if any.
func (st State) DocumentProject(documentID string) (Project, bool) {
	di, ok := st.document(documentID)
	if !ok {
		return Project{}, false
	}
	fi, ok := st.folder(st.Documents[di].FolderID)
	if !ok {
		return Project{}, false
	}
	pi, ok := st.project(st.Folders[fi].ProjectID)
	if !ok {
		return Project{}, false
	}
	return st.Projects[pi], true
}

// DocumentSnapshots returns the snapshots of a document, newest first.
// Snapshots sharing a timestamp keep their insertion order reversed, so the
// most recently appended one comes first.
func (st State) DocumentSnapshots(documentID string) []Snapshot {
	var out []Snapshot
	for i := len(st.DocumentVersions) - 1; i >= 0; i-- {
		if st.DocumentVersions[i].DocumentID == documentID {
			out = append(out, st.DocumentVersions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// LatestSnapshot returns the newest snapshot of a document.
func (st State) LatestSnapshot(documentID string) (Snapshot, bool) {
	snaps := st.DocumentSnapshots(documentID)
	if len(snaps) == 0 {
		return Snapshot{}, false
	}
	return snaps[0], true
}

func touch(p *Project, now time.Time) {
	p.UpdatedAt = now
}
