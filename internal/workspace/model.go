package workspace

import "time"

// Project is the root container for folders.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Folder groups documents inside a project. Order is relative; gaps and
// duplicates are tolerated.
type Folder struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
}

// Document holds rich-text HTML content. WordCount and TokenCount are derived
// from the plain text of Content and are only ever set together.
type Document struct {
	ID               string `json:"id"`
	FolderID         string `json:"folderId"`
	Name             string `json:"name"`
	Content          string `json:"content"`
	Order            int    `json:"order"`
	IncludeInContext bool   `json:"includeInContext"`
	WordCount        int    `json:"wordCount"`
	TokenCount       int    `json:"tokenCount"`
}

// SnapshotSource records how a snapshot came to exist.
type SnapshotSource string

const (
	SourceManual SnapshotSource = "manual"
	SourceAuto   SnapshotSource = "auto"
)

// Snapshot is an immutable point-in-time copy of a document's content.
type Snapshot struct {
	ID           string         `json:"id"`
	DocumentID   string         `json:"documentId"`
	DocumentName string         `json:"documentName"`
	Content      string         `json:"content"`
	TextPreview  string         `json:"textPreview"`
	WordCount    int            `json:"wordCount"`
	TokenCount   int            `json:"tokenCount"`
	Source       SnapshotSource `json:"source"`
	Label        string         `json:"label"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Persona is a reusable system prompt ("skill") for AI actions.
type Persona struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	SystemPrompt string `json:"systemPrompt"`
}

// Settings is the single workspace-wide configuration record.
type Settings struct {
	OpenRouterAPIKey       string `json:"openRouterApiKey"`
	OpenAIAPIKey           string `json:"openAiApiKey"`
	OpenAICLIEnabled       bool   `json:"openAiCliEnabled"`
	ThemeMode              string `json:"themeMode"`
	QuickAIContinueEnabled bool   `json:"quickAiContinueEnabled"`
	SystemPrompt           string `json:"systemPrompt,omitempty"`
	Model                  string `json:"model,omitempty"`
	LocalModel             string `json:"localModel,omitempty"`
}

// DefaultSettings returns the settings of a fresh workspace.
func DefaultSettings() Settings {
	return Settings{ThemeMode: "dark"}
}

// Selection is the pane state: active project, primary and secondary documents.
type Selection struct {
	ActiveProjectID           string `json:"activeProjectId"`
	ActiveDocumentID          string `json:"activeDocumentId"`
	SplitMode                 bool   `json:"splitMode"`
	ActiveDocumentIDSecondary string `json:"activeDocumentIdSecondary"`
}
