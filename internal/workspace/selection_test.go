package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecondaryTakesDocumentFromPrimary(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, d := seedDoc(t, s)
	s.SetActiveDocument(d.ID)

	s.SetActiveDocumentSecondary(d.ID)

	sel := s.Selection()
	assert.Empty(t, sel.ActiveDocumentID)
	assert.Equal(t, d.ID, sel.ActiveDocumentIDSecondary)
	assert.True(t, sel.SplitMode)
}

func TestPrimaryTakesDocumentFromSecondary(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, d := seedDoc(t, s)
	s.SetActiveDocumentSecondary(d.ID)

	s.SetActiveDocument(d.ID)

	sel := s.Selection()
	assert.Equal(t, d.ID, sel.ActiveDocumentID)
	assert.Empty(t, sel.ActiveDocumentIDSecondary)
	assert.True(t, sel.SplitMode)
}

func TestToggleSplitClearsSecondary(t *testing.T) {
	s, _ := newTestStore(t)
	_, f, d := seedDoc(t, s)
	other, _ := s.CreateDocument(f.ID, "Other", "")

	assert.True(t, s.ToggleSplitMode())
	s.SetActiveDocumentSecondary(d.ID)
	assert.Equal(t, other.ID, s.Selection().ActiveDocumentID)

	assert.False(t, s.ToggleSplitMode())
	sel := s.Selection()
	assert.False(t, sel.SplitMode)
	assert.Empty(t, sel.ActiveDocumentIDSecondary)
	assert.Equal(t, other.ID, sel.ActiveDocumentID)
}

func TestSetActiveProjectResetsPanes(t *testing.T) {
	s, _ := newTestStore(t)
	p, _, d := seedDoc(t, s)
	s.SetActiveDocumentSecondary(d.ID)

	s.SetActiveProject(p.ID)

	sel := s.Selection()
	assert.Equal(t, p.ID, sel.ActiveProjectID)
	assert.Empty(t, sel.ActiveDocumentID)
	assert.Empty(t, sel.ActiveDocumentIDSecondary)
	assert.False(t, sel.SplitMode)
}
