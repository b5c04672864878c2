package export

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"

	"github.com/KaramelBytes/vibewriter/internal/workspace"
)

// MarkdownEncoder sanitises document HTML and converts it to Markdown.
// Safe for concurrent use.
type MarkdownEncoder struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

// NewMarkdownEncoder builds an encoder with ATX headings.
func NewMarkdownEncoder() *MarkdownEncoder {
	return &MarkdownEncoder{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, &md.Options{HeadingStyle: "atx"}),
	}
}

// Convert renders one HTML fragment as Markdown.
func (e *MarkdownEncoder) Convert(fragment string) (string, error) {
	out, err := e.converter.ConvertString(e.policy.Sanitize(fragment))
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return out, nil
}

// ToMarkdown renders one document.
func (e *MarkdownEncoder) ToMarkdown(doc workspace.Document) ([]byte, error) {
	out, err := e.Convert(doc.Content)
	if err != nil {
		return nil, err
	}
	return []byte(out + "\n"), nil
}

// Combine renders docs as one file. With more than one document each gets a
// "# Name" heading and documents are separated by horizontal rules.
func (e *MarkdownEncoder) Combine(docs []workspace.Document) ([]byte, error) {
	master := IsMaster(docs)
	var sb strings.Builder
	for i, d := range docs {
		if master {
			sb.WriteString("# " + DisplayName(d.Name) + "\n\n")
		}
		body, err := e.Convert(d.Content)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.Name, err)
		}
		sb.WriteString(body + "\n\n")
		if master && i < len(docs)-1 {
			sb.WriteString("---\n\n")
		}
	}
	return []byte(sb.String()), nil
}
