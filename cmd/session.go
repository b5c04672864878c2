package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/storage"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
)

// session is one opened workspace: the backend, the store loaded from it and
// the persister that writes every change back.
type session struct {
	backend   storage.Backend
	persister *storage.Persister
	store     *workspace.Store
	found     bool
}

func openSession(ctx context.Context) (*session, error) {
	c, err := currentConfig()
	if err != nil {
		return nil, err
	}
	dir, err := utils.ExpandHome(c.DataDir)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	sc := c.Storage()
	sc.Dir = dir
	backend, err := storage.New(sc, commandLogger())
	if err != nil {
		return nil, err
	}
	st, found, err := backend.Load(ctx)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	p := storage.NewPersister(backend, commandLogger())
	store := workspace.NewStore(st,
		workspace.WithPolicy(c.Policy()),
		workspace.WithLogger(commandLogger()),
		workspace.WithOnChange(p.Schedule),
	)
	return &session{backend: backend, persister: p, store: store, found: found}, nil
}

// Close flushes pending writes and closes the backend.
func (s *session) Close() error {
	return errors.Join(s.persister.Close(), s.backend.Close())
}

// withSession opens the workspace, runs fn and always flushes afterwards.
func withSession(cmd *cobra.Command, fn func(s *session) error) (err error) {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("save workspace: %w", cerr))
		}
	}()
	return fn(s)
}

// activeProject returns the active project or an error telling the user how
// to pick one.
func (s *session) activeProject() (workspace.Project, error) {
	p, ok := s.store.ActiveProject()
	if !ok {
		return workspace.Project{}, errors.New("no active project (use `vibewriter project use <name>` or `project create`)")
	}
	return p, nil
}

// project resolves a project by id or case-insensitive name; empty means the
// active project.
func (s *session) project(ref string) (workspace.Project, error) {
	if ref == "" {
		return s.activeProject()
	}
	if p, ok := s.store.Project(ref); ok {
		return p, nil
	}
	for _, p := range s.store.Projects() {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return workspace.Project{}, fmt.Errorf("project %q: %w", ref, workspace.ErrNotFound)
}

// folder resolves a folder of the active project by id or name.
func (s *session) folder(ref string) (workspace.Folder, error) {
	p, err := s.activeProject()
	if err != nil {
		return workspace.Folder{}, err
	}
	folders := s.store.Folders(p.ID)
	if ref == "" {
		if len(folders) == 1 {
			return folders[0], nil
		}
		return workspace.Folder{}, errors.New("--folder is required")
	}
	for _, f := range folders {
		if f.ID == ref {
			return f, nil
		}
	}
	for _, f := range folders {
		if strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return workspace.Folder{}, fmt.Errorf("folder %q: %w", ref, workspace.ErrNotFound)
}

// document resolves a document by id or by name within the active project;
// empty means the primary document.
func (s *session) document(ref string) (workspace.Document, error) {
	if ref == "" {
		d, ok := s.store.Document(s.store.Selection().ActiveDocumentID)
		if !ok {
			return workspace.Document{}, errors.New("no document open (pass a document name or use `vibewriter open <doc>`)")
		}
		return d, nil
	}
	if d, ok := s.store.Document(ref); ok {
		return d, nil
	}
	if p, ok := s.store.ActiveProject(); ok {
		if d, ok := s.store.FindDocument(p.ID, ref); ok {
			return d, nil
		}
	}
	return workspace.Document{}, fmt.Errorf("document %q: %w", ref, workspace.ErrNotFound)
}
