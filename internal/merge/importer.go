package merge

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/phuslu/log"
)

// ImportReason tags safety backups taken before an import.
const ImportReason = "pre-import"

// SafetyBackupWriter stores pre-import copies of the workspace.
type SafetyBackupWriter interface {
	PushSafetyBackup(ctx context.Context, b workspace.SafetyBackup) error
}

// Importer applies confirmed imports to a store.
type Importer struct {
	store   *workspace.Store
	backups SafetyBackupWriter
	logger  *log.Logger
}

// NewImporter wires an importer. backups may be nil, in which case no safety
// backup is attempted.
func NewImporter(store *workspace.Store, backups SafetyBackupWriter, logger *log.Logger) *Importer {
	return &Importer{store: store, backups: backups, logger: logging.OrNop(logger)}
}

// Outcome reports what an import did.
type Outcome struct {
	Summary   Summary
	Selection workspace.Selection
	// SafetyBackupErr is set when the pre-import backup could not be stored.
	// The import still went ahead.
	SafetyBackupErr error
}

// Preview parses data and summarises it against the live workspace without
// changing anything.
func (im *Importer) Preview(data []byte) (*Payload, Summary, error) {
	p, err := Parse(data)
	if err != nil {
		return nil, Summary{}, err
	}
	return p, Summarize(im.store.State(), p), nil
}

// Import stores a best-effort safety backup of the current workspace and then
// merges the payload into the store.
func (im *Importer) Import(ctx context.Context, p *Payload) (Outcome, error) {
	if p == nil {
		return Outcome{}, fmt.Errorf("import: %w", ErrFormat)
	}
	var out Outcome
	if im.backups != nil {
		now := im.store.Now()
		backup := workspace.SafetyBackup{
			ID:        im.store.NewID(),
			CreatedAt: now,
			Reason:    ImportReason,
			Payload:   workspace.NewBackup(im.store.State(), now),
		}
		if err := im.backups.PushSafetyBackup(ctx, backup); err != nil {
			out.SafetyBackupErr = err
			im.logger.Warn().Err(err).Msg("safety backup could not be stored; continuing import")
		} else {
			im.logger.Debug().Str("backup_id", backup.ID).Msg("safety backup stored")
		}
	}
	im.store.Transform(func(cur workspace.State) workspace.State {
		out.Summary = Summarize(cur, p)
		next := Apply(cur, p)
		out.Selection = next.Selection()
		return next
	})
	im.logger.Info().
		Int("new_documents", out.Summary.Documents.NewItems).
		Int("updated_documents", out.Summary.Documents.Updates).
		Msg("workspace imported")
	return out, nil
}

// ImportBytes parses and imports in one step.
func (im *Importer) ImportBytes(ctx context.Context, data []byte) (Outcome, error) {
	p, err := Parse(data)
	if err != nil {
		return Outcome{}, err
	}
	return im.Import(ctx, p)
}
