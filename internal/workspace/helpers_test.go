package workspace_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func seqIDs(prefix string) workspace.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...workspace.Option) (*workspace.Store, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: epoch}
	base := []workspace.Option{workspace.WithClock(clk), workspace.WithIDFunc(seqIDs("id-"))}
	return workspace.NewStore(workspace.NewState(), append(base, opts...)...), clk
}

// seedDoc creates a project, folder and empty document.
func seedDoc(t *testing.T, s *workspace.Store) (workspace.Project, workspace.Folder, workspace.Document) {
	t.Helper()
	p, err := s.CreateProject("Novel")
	require.NoError(t, err)
	f, err := s.CreateFolder(p.ID, "Chapters")
	require.NoError(t, err)
	d, err := s.CreateDocument(f.ID, "Chapter_One", "")
	require.NoError(t, err)
	return p, f, d
}

// longText returns plain text well over the auto-snapshot threshold; tag keeps
// variants distinct.
func longText(tag string) string {
	return strings.Repeat("lorem ipsum ", 15) + tag
}

func htmlOf(text string) string { return "<p>" + text + "</p>" }
