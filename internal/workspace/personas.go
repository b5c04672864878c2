package workspace

// CreatePersona adds a reusable system prompt.
func (s *Store) CreatePersona(title, description, systemPrompt string) (Persona, error) {
	in := personaInput{Title: title, Description: description, SystemPrompt: systemPrompt}
	if err := in.validate(); err != nil {
		return Persona{}, err
	}
	var p Persona
	s.mutate(func(st *State) bool {
		p = Persona{ID: s.newID(), Title: title, Description: description, SystemPrompt: systemPrompt}
		st.Personas = append(st.Personas, p)
		return true
	})
	return p, nil
}

// PersonaUpdate carries the fields to overwrite; nil fields are kept.
type PersonaUpdate struct {
	Title        *string
	Description  *string
	SystemPrompt *string
}

// UpdatePersona overlays the non-nil fields of u onto a persona.
func (s *Store) UpdatePersona(id string, u PersonaUpdate) (bool, error) {
	if u.Title != nil {
		if _, err := cleanName("title", *u.Title); err != nil {
			return false, err
		}
	}
	return s.mutate(func(st *State) bool {
		i, ok := st.persona(id)
		if !ok {
			return false
		}
		p := &st.Personas[i]
		if u.Title != nil {
			p.Title = *u.Title
		}
		if u.Description != nil {
			p.Description = *u.Description
		}
		if u.SystemPrompt != nil {
			p.SystemPrompt = *u.SystemPrompt
		}
		return true
	}), nil
}

// DeletePersona removes a persona.
func (s *Store) DeletePersona(id string) bool {
	return s.mutate(func(st *State) bool {
		i, ok := st.persona(id)
		if !ok {
			return false
		}
		st.Personas = append(st.Personas[:i:i], st.Personas[i+1:]...)
		return true
	})
}

// Personas returns all personas.
func (s *Store) Personas() []Persona {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Persona{}, s.state.Personas...)
}

// Persona looks up a persona by id.
func (s *Store) Persona(id string) (Persona, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.state.persona(id)
	if !ok {
		return Persona{}, false
	}
	return s.state.Personas[i], true
}
