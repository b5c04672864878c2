// Package sqlite stores the workspace in a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/phuslu/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS workspace (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       TEXT    NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS safety_backups (
	id         TEXT    PRIMARY KEY,
	created_at INTEGER NOT NULL,
	reason     TEXT    NOT NULL,
	payload    TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_safety_backups_created ON safety_backups(created_at DESC);
`

// Store is a SQLite-backed workspace store.
type Store struct {
	db     *sql.DB
	limit  int
	logger *log.Logger
	mu     sync.Mutex // serialises writers to avoid SQLITE_BUSY
}

// Open opens (creating if needed) the database at path.
func Open(path string, limit int, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	// modernc.org/sqlite registers as "sqlite"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger = logging.OrNop(logger)
	logger.Debug().Str("path", path).Msg("sqlite workspace store ready")
	return &Store{db: db, limit: limit, logger: logger}, nil
}

// Load reads the stored workspace row.
func (s *Store) Load(ctx context.Context) (workspace.State, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM workspace WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return workspace.NewState(), false, nil
	}
	if err != nil {
		return workspace.State{}, false, fmt.Errorf("failed to load workspace: %w", err)
	}
	st := workspace.NewState()
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return workspace.State{}, false, fmt.Errorf("parse workspace: %w", err)
	}
	return st, true, nil
}

// Save upserts the workspace row.
func (s *Store) Save(ctx context.Context, st workspace.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workspace (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(b), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	return nil
}

// PushSafetyBackup inserts b and deletes everything beyond the newest limit
// rows in the same transaction.
func (s *Store) PushSafetyBackup(ctx context.Context, b workspace.SafetyBackup) error {
	payload, err := json.Marshal(b.Payload)
	if err != nil {
		return fmt.Errorf("marshal safety backup: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO safety_backups (id, created_at, reason, payload) VALUES (?, ?, ?, ?)`,
		b.ID, b.CreatedAt.UnixNano(), b.Reason, string(payload)); err != nil {
		return fmt.Errorf("insert safety backup: %w", err)
	}
	if s.limit > 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM safety_backups WHERE id NOT IN (
				SELECT id FROM safety_backups ORDER BY created_at DESC LIMIT ?
			)`, s.limit); err != nil {
			return fmt.Errorf("trim safety backups: %w", err)
		}
	}
	return tx.Commit()
}

// SafetyBackups lists stored backups, newest first.
func (s *Store) SafetyBackups(ctx context.Context) ([]workspace.SafetyBackup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, reason, payload FROM safety_backups ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query safety backups: %w", err)
	}
	defer rows.Close()
	var out []workspace.SafetyBackup
	for rows.Next() {
		var (
			b       workspace.SafetyBackup
			created int64
			payload string
		)
		if err := rows.Scan(&b.ID, &created, &b.Reason, &payload); err != nil {
			return nil, fmt.Errorf("scan safety backup: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &b.Payload); err != nil {
			s.logger.Warn().Err(err).Str("backup_id", b.ID).Msg("skipping unreadable safety backup")
			continue
		}
		b.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
