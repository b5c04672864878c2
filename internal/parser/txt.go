package parser

import "github.com/KaramelBytes/vibewriter/internal/utils"

type txtParser struct{}

func (txtParser) CanParse(filename string) bool {
	return hasSuffix(filename, ".txt")
}

func (txtParser) Parse(content []byte) (string, error) {
	return utils.PlainTextToHTML(string(content)), nil
}
