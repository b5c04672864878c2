package workspace

// Selection returns the current pane state.
func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Selection()
}

// SetActiveDocument opens id in the primary pane. If the secondary pane held
// the same document it is emptied.
func (s *Store) SetActiveDocument(id string) {
	s.mutate(func(st *State) bool {
		st.ActiveDocumentID = id
		if id != "" && st.ActiveDocumentIDSecondary == id {
			st.ActiveDocumentIDSecondary = ""
		}
		return true
	})
}

// SetActiveDocumentSecondary opens id in the secondary pane, entering split
// mode. If the primary pane held the same document it is emptied.
func (s *Store) SetActiveDocumentSecondary(id string) {
	s.mutate(func(st *State) bool {
		st.SplitMode = true
		st.ActiveDocumentIDSecondary = id
		if id != "" && st.ActiveDocumentID == id {
			st.ActiveDocumentID = ""
		}
		return true
	})
}

// ToggleSplitMode switches between one and two panes. Leaving split mode
// closes the secondary pane.
func (s *Store) ToggleSplitMode() bool {
	var on bool
	s.mutate(func(st *State) bool {
		st.SplitMode = !st.SplitMode
		if !st.SplitMode {
			st.ActiveDocumentIDSecondary = ""
		}
		on = st.SplitMode
		return true
	})
	return on
}
