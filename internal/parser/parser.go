// Package parser converts external files into document HTML.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parser converts one file format into an HTML fragment.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (string, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on filename and returns document HTML.
// Unknown extensions are treated as plain text.
func ParseFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return Parse(path, data)
}

// Parse converts content named filename.
func Parse(filename string, content []byte) (string, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p.Parse(content)
		}
	}
	return txtParser{}.Parse(content)
}

// DocumentName derives a document name from a file path: the base name
// without its extension.
func DocumentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	Register(txtParser{})
	Register(markdownParser{})
	Register(htmlParser{})
	Register(docxParser{})
	Register(csvParser{})
	Register(xlsxParser{})
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported document format")

func hasSuffix(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
