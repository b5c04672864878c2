package parser

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type markdownParser struct{}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (markdownParser) CanParse(filename string) bool {
	return hasSuffix(filename, ".md", ".markdown")
}

// Parse renders Markdown to HTML. Raw HTML in the source is omitted.
func (markdownParser) Parse(content []byte) (string, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	var buf bytes.Buffer
	if err := md.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}
