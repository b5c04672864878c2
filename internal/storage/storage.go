// Package storage persists the workspace and its safety-backup history.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/KaramelBytes/vibewriter/internal/storage/badger"
	"github.com/KaramelBytes/vibewriter/internal/storage/file"
	"github.com/KaramelBytes/vibewriter/internal/storage/sqlite"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/phuslu/log"
)

// Backend stores one workspace.
type Backend interface {
	// Load returns the persisted state; found is false when nothing has been
	// saved yet, in which case an empty workspace is returned.
	Load(ctx context.Context) (st workspace.State, found bool, err error)
	Save(ctx context.Context, st workspace.State) error
	// PushSafetyBackup records b and trims the history to the configured limit.
	PushSafetyBackup(ctx context.Context, b workspace.SafetyBackup) error
	// SafetyBackups lists stored backups, newest first.
	SafetyBackups(ctx context.Context) ([]workspace.SafetyBackup, error)
	Close() error
}

// Drivers supported by New.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Config selects and locates a backend.
type Config struct {
	Driver            string
	Dir               string
	SafetyBackupLimit int
}

// New opens the backend named by cfg.Driver under cfg.Dir.
func New(cfg Config, logger *log.Logger) (Backend, error) {
	logger = logging.OrNop(logger)
	if cfg.SafetyBackupLimit <= 0 {
		cfg.SafetyBackupLimit = workspace.MaxSafetyBackups
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverFile
	}
	logger.Debug().Str("driver", driver).Str("dir", cfg.Dir).Msg("opening workspace storage")
	switch driver {
	case DriverFile:
		return file.New(cfg.Dir, cfg.SafetyBackupLimit), nil
	case DriverSQLite:
		return sqlite.Open(filepath.Join(cfg.Dir, "workspace.db"), cfg.SafetyBackupLimit, logger)
	case DriverBadger:
		return badger.Open(filepath.Join(cfg.Dir, "badger"), cfg.SafetyBackupLimit, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s (use file, sqlite or badger)", cfg.Driver)
	}
}
