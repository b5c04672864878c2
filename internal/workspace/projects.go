package workspace

// CreateProject adds a project and makes it active, clearing both document
// panes and leaving split mode.
func (s *Store) CreateProject(name string) (Project, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return Project{}, err
	}
	var p Project
	s.mutate(func(st *State) bool {
		now := s.clock.Now()
		p = Project{ID: s.newID(), Name: name, CreatedAt: now, UpdatedAt: now}
		st.Projects = append(st.Projects, p)
		st.ActiveProjectID = p.ID
		st.ActiveDocumentID = ""
		st.SplitMode = false
		st.ActiveDocumentIDSecondary = ""
		return true
	})
	s.logger.Debug().Str("project_id", p.ID).Str("name", name).Msg("project created")
	return p, nil
}

// RenameProject changes a project's name and bumps UpdatedAt.
func (s *Store) RenameProject(id, name string) (bool, error) {
	name, err := cleanName("name", name)
	if err != nil {
		return false, err
	}
	return s.mutate(func(st *State) bool {
		i, ok := st.project(id)
		if !ok {
			return false
		}
		st.Projects[i].Name = name
		touch(&st.Projects[i], s.clock.Now())
		return true
	}), nil
}

// SetActiveProject selects a project and resets the document panes. The id is
// not checked; an unknown id simply selects nothing visible.
func (s *Store) SetActiveProject(id string) {
	s.mutate(func(st *State) bool {
		st.ActiveProjectID = id
		st.ActiveDocumentID = ""
		st.SplitMode = false
		st.ActiveDocumentIDSecondary = ""
		return true
	})
}

// Projects returns all projects in creation order.
func (s *Store) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Project{}, s.state.Projects...)
}

// Project looks up a project by id.
func (s *Store) Project(id string) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.state.project(id)
	if !ok {
		return Project{}, false
	}
	return s.state.Projects[i], true
}

// ActiveProject returns the selected project, if it exists.
func (s *Store) ActiveProject() (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.state.project(s.state.ActiveProjectID)
	if !ok {
		return Project{}, false
	}
	return s.state.Projects[i], true
}
