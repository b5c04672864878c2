// Package export turns workspace documents into Markdown, DOCX, ZIP and PDF
// files.
package export

import (
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

// Format names accepted by the CLI.
const (
	FormatMarkdown = "md"
	FormatDocx     = "docx"
	FormatZip      = "zip"
	FormatPDF      = "pdf"
)

// Select returns the project's documents in display order. With ids, only
// those documents are kept; without, the documents included in context are.
func Select(st workspace.State, projectID string, ids []string) []workspace.Document {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []workspace.Document
	for _, d := range st.ProjectDocuments(projectID) {
		if len(ids) > 0 && !want[d.ID] {
			continue
		}
		if len(ids) == 0 && !d.IncludeInContext {
			continue
		}
		out = append(out, d)
	}
	return out
}

// IsMaster reports whether docs are exported as one combined master file.
func IsMaster(docs []workspace.Document) bool { return len(docs) > 1 }

// BaseName is the file stem for an export: the document's own name for a
// single document, "<project>_Master" otherwise.
func BaseName(projectName string, docs []workspace.Document) string {
	if len(docs) == 1 {
		return utils.SafeFileName(docs[0].Name)
	}
	return utils.SafeFileName(projectName + "_Master")
}

// DisplayName turns underscores back into spaces for headings.
func DisplayName(name string) string { return strings.ReplaceAll(name, "_", " ") }
