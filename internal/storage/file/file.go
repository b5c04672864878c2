// Package file stores the workspace as JSON files in a directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

const (
	workspaceFileName = "workspace.json"
	backupsFileName   = "safety-backups.json"
)

// Store keeps workspace.json and safety-backups.json under one directory.
type Store struct {
	dir   string
	limit int
	mu    sync.Mutex
}

// New returns a file store rooted at dir. Nothing is touched until the first
// write.
func New(dir string, limit int) *Store {
	return &Store{dir: dir, limit: limit}
}

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// Load reads workspace.json.
func (s *Store) Load(ctx context.Context) (workspace.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path(workspaceFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return workspace.NewState(), false, nil
		}
		return workspace.State{}, false, fmt.Errorf("read workspace: %w", err)
	}
	st := workspace.NewState()
	if err := json.Unmarshal(b, &st); err != nil {
		return workspace.State{}, false, fmt.Errorf("parse workspace: %w", err)
	}
	return st, true, nil
}

// Save writes workspace.json atomically.
func (s *Store) Save(ctx context.Context, st workspace.State) error {
	b, err := utils.PrettyJSON(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := utils.SafeWriteFile(s.path(workspaceFileName), b); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// PushSafetyBackup prepends b to the history and keeps the newest entries.
func (s *Store) PushSafetyBackup(ctx context.Context, b workspace.SafetyBackup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.readBackups()
	if err != nil {
		return err
	}
	list = workspace.KeepNewest(append([]workspace.SafetyBackup{b}, list...), s.limit)
	data, err := utils.PrettyJSON(list)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(s.path(backupsFileName), data); err != nil {
		return fmt.Errorf("save safety backup: %w", err)
	}
	return nil
}

// SafetyBackups lists stored backups, newest first.
func (s *Store) SafetyBackups(ctx context.Context) ([]workspace.SafetyBackup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.readBackups()
	if err != nil {
		return nil, err
	}
	return workspace.KeepNewest(list, 0), nil
}

func (s *Store) readBackups() ([]workspace.SafetyBackup, error) {
	b, err := os.ReadFile(s.path(backupsFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read safety backups: %w", err)
	}
	var list []workspace.SafetyBackup
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("parse safety backups: %w", err)
	}
	return list, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
