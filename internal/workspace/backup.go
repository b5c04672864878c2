package workspace

import (
	"sort"
	"time"
)

// BackupVersion is written into every exported backup.
const BackupVersion = 2

// MaxSafetyBackups is the default length of the safety-backup history.
const MaxSafetyBackups = 5

// Backup is the exported workspace file. Snapshots are not part of it.
type Backup struct {
	BackupVersion             int        `json:"backupVersion"`
	ExportedAt                time.Time  `json:"exportedAt"`
	Projects                  []Project  `json:"projects"`
	Folders                   []Folder   `json:"folders"`
	Documents                 []Document `json:"documents"`
	Personas                  []Persona  `json:"personas"`
	Settings                  Settings   `json:"settings"`
	ActiveProjectID           *string    `json:"activeProjectId"`
	ActiveDocumentID          *string    `json:"activeDocumentId"`
	SplitMode                 bool       `json:"splitMode"`
	ActiveDocumentIDSecondary *string    `json:"activeDocumentIdSecondary"`
}

// NewBackup captures st as a backup stamped with now.
func NewBackup(st State, now time.Time) Backup {
	st = st.Clone()
	return Backup{
		BackupVersion:             BackupVersion,
		ExportedAt:                now,
		Projects:                  st.Projects,
		Folders:                   st.Folders,
		Documents:                 st.Documents,
		Personas:                  st.Personas,
		Settings:                  st.Settings,
		ActiveProjectID:           nullable(st.ActiveProjectID),
		ActiveDocumentID:          nullable(st.ActiveDocumentID),
		SplitMode:                 st.SplitMode,
		ActiveDocumentIDSecondary: nullable(st.ActiveDocumentIDSecondary),
	}
}

// BackupFileName is the suggested file name for a backup exported at t.
func BackupFileName(t time.Time) string {
	return "vibewriter-workspace-" + t.Format("2006-01-02") + ".json"
}

func nullable(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Deref returns the id behind a nullable pointer, or "".
func Deref(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// SafetyBackup is a copy of the workspace taken right before an import.
type SafetyBackup struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Reason    string    `json:"reason"`
	Payload   Backup    `json:"payload"`
}

// KeepNewest orders backups newest first and keeps at most limit of them.
func KeepNewest(backups []SafetyBackup, limit int) []SafetyBackup {
	out := append([]SafetyBackup{}, backups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Restore returns cur with its content replaced by the backup. Snapshots of
// documents that still exist are kept; split mode follows the backup.
func (b Backup) Restore(cur State) State {
	next := NewState()
	next.Projects = append(next.Projects, b.Projects...)
	next.Folders = append(next.Folders, b.Folders...)
	next.Documents = append(next.Documents, b.Documents...)
	next.Personas = append(next.Personas, b.Personas...)
	next.Settings = b.Settings
	next.ActiveProjectID = Deref(b.ActiveProjectID)
	next.ActiveDocumentID = Deref(b.ActiveDocumentID)
	next.SplitMode = b.SplitMode
	next.ActiveDocumentIDSecondary = Deref(b.ActiveDocumentIDSecondary)

	keep := make(map[string]bool, len(next.Documents))
	for _, d := range next.Documents {
		keep[d.ID] = true
	}
	for _, sn := range cur.DocumentVersions {
		if keep[sn.DocumentID] {
			next.DocumentVersions = append(next.DocumentVersions, sn)
		}
	}
	return next
}
