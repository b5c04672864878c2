package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

type docxParser struct{}

var (
	docxParagraph = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	docxBreak     = regexp.MustCompile(`<w:(br|cr)[^>]*/>`)
	docxTab       = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
)

func (docxParser) CanParse(filename string) bool {
	return hasSuffix(filename, ".docx")
}

// Parse extracts the paragraphs of word/document.xml as <p> elements. Styling
// is not carried over.
func (docxParser) Parse(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("open document.xml: %w", err)
			}
			b, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			docXML = b
			break
		}
	}
	if len(docXML) == 0 {
		return "", fmt.Errorf("document.xml not found in DOCX")
	}
	var sb strings.Builder
	for _, para := range docxParagraph.FindAll(docXML, -1) {
		p := docxBreak.ReplaceAll(para, []byte("\n"))
		p = docxTab.ReplaceAll(p, []byte("\t"))
		text := html.UnescapeString(string(xmlTag.ReplaceAll(p, nil)))
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = html.EscapeString(l)
		}
		sb.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>")
	}
	return sb.String(), nil
}
