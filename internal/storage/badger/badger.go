// Package badger stores the workspace in an embedded Badger database through
// badgerhold.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/phuslu/log"
	"github.com/timshannon/badgerhold/v4"
)

const workspaceKey = "workspace"

// workspaceRecord is the single stored workspace.
type workspaceRecord struct {
	Key   string
	State workspace.State
}

// backupRecord is one safety backup.
type backupRecord struct {
	ID     string `badgerhold:"key"`
	Backup workspace.SafetyBackup
}

// Store is a badgerhold-backed workspace store.
type Store struct {
	store  *badgerhold.Store
	limit  int
	logger *log.Logger
}

// Open opens (creating if needed) the database directory.
func Open(dir string, limit int, logger *log.Logger) (*Store, error) {
	logger = logging.OrNop(logger)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil
	// JSON keeps records readable by the other backends' tooling.
	options.Encoder = json.Marshal
	options.Decoder = json.Unmarshal

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	logger.Debug().Str("path", dir).Msg("badger workspace store ready")
	return &Store{store: store, limit: limit, logger: logger}, nil
}

// Load reads the stored workspace.
func (s *Store) Load(ctx context.Context) (workspace.State, bool, error) {
	var rec workspaceRecord
	err := s.store.Get(workspaceKey, &rec)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return workspace.NewState(), false, nil
	}
	if err != nil {
		return workspace.State{}, false, fmt.Errorf("failed to load workspace: %w", err)
	}
	return rec.State, true, nil
}

// Save upserts the workspace.
func (s *Store) Save(ctx context.Context, st workspace.State) error {
	if err := s.store.Upsert(workspaceKey, &workspaceRecord{Key: workspaceKey, State: st}); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	return nil
}

// PushSafetyBackup stores b and deletes backups beyond the newest limit.
func (s *Store) PushSafetyBackup(ctx context.Context, b workspace.SafetyBackup) error {
	if err := s.store.Upsert(b.ID, &backupRecord{ID: b.ID, Backup: b}); err != nil {
		return fmt.Errorf("store safety backup: %w", err)
	}
	all, err := s.all()
	if err != nil {
		return err
	}
	if s.limit <= 0 || len(all) <= s.limit {
		return nil
	}
	for _, old := range all[s.limit:] {
		if err := s.store.Delete(old.ID, backupRecord{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("trim safety backups: %w", err)
		}
	}
	return nil
}

// SafetyBackups lists stored backups, newest first.
func (s *Store) SafetyBackups(ctx context.Context) ([]workspace.SafetyBackup, error) {
	return s.all()
}

func (s *Store) all() ([]workspace.SafetyBackup, error) {
	var recs []backupRecord
	if err := s.store.Find(&recs, nil); err != nil {
		return nil, fmt.Errorf("list safety backups: %w", err)
	}
	out := make([]workspace.SafetyBackup, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Backup)
	}
	return workspace.KeepNewest(out, 0), nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
