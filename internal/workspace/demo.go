package workspace

// Demo persona prompts seeded on first run.
const (
	strictEditorPrompt = "You are a ruthless, highly critical editor. Point out every single grammar mistake, plot inconsistency, and weak verb. Do not hold back. Suggest punchy alternatives."
	creativeMusePrompt = "You are an imaginative creative writing partner. Help the author brainstorm wild ideas, expand on metaphors, and push the boundaries of their concepts. Respond enthusiastically and creatively."
)

// InitializeDemoData seeds an empty workspace with a starter project and two
// personas. It does nothing when any project exists and reports whether it
// seeded.
func (s *Store) InitializeDemoData() bool {
	return s.mutate(func(st *State) bool {
		if len(st.Projects) > 0 {
			return false
		}
		now := s.clock.Now()
		p := Project{ID: s.newID(), Name: "My First Project", CreatedAt: now, UpdatedAt: now}
		st.Projects = []Project{p}
		st.Folders = []Folder{}
		st.Documents = []Document{}
		st.DocumentVersions = []Snapshot{}
		st.Personas = []Persona{
			{ID: s.newID(), Title: "Strict Editor", Description: "Focuses on technical perfection and critique.", SystemPrompt: strictEditorPrompt},
			{ID: s.newID(), Title: "Creative Muse", Description: "Focuses on brainstorming and expansion.", SystemPrompt: creativeMusePrompt},
		}
		st.ActiveProjectID = p.ID
		st.ActiveDocumentID = ""
		return true
	})
}
