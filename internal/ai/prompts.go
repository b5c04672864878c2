package ai

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

// EditorSystemPrompt is used for editing actions when settings carry no
// system prompt of their own.
const EditorSystemPrompt = "You are an expert editor."

func RewritePrompt(text string) string {
	return "Rewrite this text to be punchier, more engaging, and professional:\n\n" + text
}

func ShortenPrompt(text string) string {
	return "Shorten and tighten this text, removing filler words and getting straight to the point:\n\n" + text
}

// PersonaPrompt asks a persona to process text under its own system prompt.
func PersonaPrompt(text string) string {
	return "Apply your specific skills to process and rewrite the following text according to your system instructions:\n\n" + text
}

func ExpandPrompt(instructions, text string) string {
	return strings.Join([]string{
		"Apply the following expansion instructions to the selected text.",
		"",
		"Instructions:\n" + strings.TrimSpace(instructions),
		"",
		"Selected text:\n" + text,
		"",
		"Return only the rewritten expanded text.",
	}, "\n")
}

func ContinuePrompt(text string) string {
	return "Continue the following text in the same voice and style. Return only the new text, without repeating what is already written.\n\n" + text
}

// ContextBlock renders the reference section built from documents, in the
// order given. Content is sent as plain text.
func ContextBlock(docs []workspace.Document) string {
	if len(docs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("[REFERENCE DOCUMENTS]\n")
	for _, d := range docs {
		sb.WriteString("--- Document: ")
		sb.WriteString(d.Name)
		sb.WriteString(" ---\n")
		sb.WriteString(strings.TrimSpace(utils.PlainText(d.Content)))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// WithContext prefixes prompt with the reference documents and restates it as
// the task.
func WithContext(docs []workspace.Document, prompt string) string {
	block := ContextBlock(docs)
	if block == "" {
		return prompt
	}
	return block + "[TASK]\nBased on the reference documents above: " + prompt
}

// ContextDocuments returns the project documents flagged for inclusion in AI
// context, in folder then document order.
func ContextDocuments(st workspace.State, projectID string) []workspace.Document {
	var out []workspace.Document
	for _, d := range st.ProjectDocuments(projectID) {
		if d.IncludeInContext {
			out = append(out, d)
		}
	}
	return out
}

// ExpandedDocumentName returns "<base>_expanded", or the first free
// "<base>_expanded_N" from N=2 when that name is taken.
func ExpandedDocumentName(base string, docs []workspace.Document) string {
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	stem := base + "_expanded"
	taken := make(map[string]bool, len(docs))
	for _, d := range docs {
		taken[d.Name] = true
	}
	if !taken[stem] {
		return stem
	}
	for i := 2; ; i++ {
		if name := fmt.Sprintf("%s_%d", stem, i); !taken[name] {
			return name
		}
	}
}
