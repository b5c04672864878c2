package workspace

import "fmt"

// CreateFolder appends a folder to a project. Its order is the number of
// folders the project already holds.
func (s *Store) CreateFolder(projectID, name string) (Folder, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return Folder{}, err
	}
	var f Folder
	var missing bool
	s.mutate(func(st *State) bool {
		pi, ok := st.project(projectID)
		if !ok {
			missing = true
			return false
		}
		f = Folder{
			ID:        s.newID(),
			ProjectID: projectID,
			Name:      name,
			Order:     len(st.ProjectFolders(projectID)),
		}
		st.Folders = append(st.Folders, f)
		touch(&st.Projects[pi], s.clock.Now())
		return true
	})
	if missing {
		return Folder{}, fmt.Errorf("create folder: project %s: %w", projectID, ErrNotFound)
	}
	return f, nil
}

// RenameFolder changes a folder's name.
func (s *Store) RenameFolder(id, name string) (bool, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return false, err
	}
	return s.mutate(func(st *State) bool {
		i, ok := st.folder(id)
		if !ok {
			return false
		}
		st.Folders[i].Name = name
		return true
	}), nil
}

// DeleteFolder removes a folder together with its documents and their
// snapshots. Selection slots holding one of those documents are cleared.
func (s *Store) DeleteFolder(id string) bool {
	return s.mutate(func(st *State) bool {
		if _, ok := st.folder(id); !ok {
			return false
		}
		gone := map[string]bool{}
		docs := st.Documents[:0:0]
		for _, d := range st.Documents {
			if d.FolderID == id {
				gone[d.ID] = true
				continue
			}
			docs = append(docs, d)
		}
		folders := st.Folders[:0:0]
		for _, f := range st.Folders {
			if f.ID != id {
				folders = append(folders, f)
			}
		}
		st.Folders = folders
		st.Documents = docs
		st.DocumentVersions = dropSnapshots(st.DocumentVersions, gone)
		if gone[st.ActiveDocumentID] {
			st.ActiveDocumentID = ""
		}
		if gone[st.ActiveDocumentIDSecondary] {
			st.ActiveDocumentIDSecondary = ""
		}
		return true
	})
}

// Folders returns the folders of a project ordered by Order.
func (s *Store) Folders(projectID string) []Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ProjectFolders(projectID)
}

// Folder looks up a folder by id.
func (s *Store) Folder(id string) (Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.state.folder(id)
	if !ok {
		return Folder{}, false
	}
	return s.state.Folders[i], true
}

func dropSnapshots(in []Snapshot, docs map[string]bool) []Snapshot {
	out := make([]Snapshot, 0, len(in))
	for _, v := range in {
		if !docs[v.DocumentID] {
			out = append(out, v)
		}
	}
	return out
}
