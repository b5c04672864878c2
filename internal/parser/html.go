package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

type htmlParser struct{}

var ugc = bluemonday.UGCPolicy()

func (htmlParser) CanParse(filename string) bool {
	return hasSuffix(filename, ".html", ".htm")
}

// Parse keeps the body of an HTML page, sanitised.
func (htmlParser) Parse(content []byte) (string, error) {
	body := string(content)
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		if inner, err := doc.Find("body").Html(); err == nil {
			body = inner
		}
	}
	return strings.TrimSpace(ugc.Sanitize(body)), nil
}
