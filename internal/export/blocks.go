package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading1
	blockHeading2
	blockHeading3
	blockListItem
	blockQuote
)

type run struct {
	text   string
	bold   bool
	italic bool
}

type block struct {
	kind blockKind
	runs []run
}

func (b block) text() string {
	var sb strings.Builder
	for _, r := range b.runs {
		sb.WriteString(r.text)
	}
	return sb.String()
}

// blocksOf splits a document's HTML into paragraph-level blocks with styled
// runs. Empty blocks are dropped.
func blocksOf(fragment string) []block {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	var out []block
	var walk func(sel *goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, s *goquery.Selection) {
			n := s.Get(0)
			if n.Type == html.TextNode {
				if strings.TrimSpace(n.Data) != "" {
					out = appendBlock(out, block{kind: blockParagraph, runs: []run{{text: n.Data}}})
				}
				return
			}
			if n.Type != html.ElementNode {
				return
			}
			switch n.Data {
			case "h1":
				out = appendBlock(out, block{kind: blockHeading1, runs: runsOf(s)})
			case "h2":
				out = appendBlock(out, block{kind: blockHeading2, runs: runsOf(s)})
			case "h3", "h4", "h5", "h6":
				out = appendBlock(out, block{kind: blockHeading3, runs: runsOf(s)})
			case "ul", "ol":
				s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
					out = appendBlock(out, block{kind: blockListItem, runs: runsOf(li)})
				})
			case "blockquote":
				out = appendBlock(out, block{kind: blockQuote, runs: runsOf(s)})
			case "div", "section", "article", "body":
				walk(s)
			default:
				out = appendBlock(out, block{kind: blockParagraph, runs: runsOf(s)})
			}
		})
	}
	walk(doc.Find("body"))
	return out
}

func appendBlock(list []block, b block) []block {
	if strings.TrimSpace(b.text()) == "" {
		return list
	}
	return append(list, b)
}

// runsOf flattens inline content, tracking bold and italic.
func runsOf(sel *goquery.Selection) []run {
	var out []run
	var walk func(n *html.Node, bold, italic bool)
	walk = func(n *html.Node, bold, italic bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				out = append(out, run{text: c.Data, bold: bold, italic: italic})
			case html.ElementNode:
				switch c.Data {
				case "br":
					out = append(out, run{text: "\n", bold: bold, italic: italic})
				case "strong", "b":
					walk(c, true, italic)
				case "em", "i":
					walk(c, bold, true)
				default:
					walk(c, bold, italic)
				}
			}
		}
	}
	for _, n := range sel.Nodes {
		walk(n, false, false)
	}
	return out
}
