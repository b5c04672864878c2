package findreplace

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fragment parses an HTML fragment in the context of a <div>.
func fragment(src string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return nodes, nil
}

func render(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return sb.String(), nil
}

// walkText visits text nodes in document order until fn returns false.
func walkText(nodes []*html.Node, fn func(n *html.Node) bool) {
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode {
			return fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, n := range nodes {
		if !walk(n) {
			return
		}
	}
}

// ReplaceOccurrence replaces the n-th (zero based) occurrence of query found
// inside a single text node. changed is false when there is no such
// occurrence; the input is then returned as is.
func ReplaceOccurrence(src, query, replacement string, n int, matchCase bool) (out string, changed bool, err error) {
	if query == "" || n < 0 {
		return src, false, nil
	}
	nodes, err := fragment(src)
	if err != nil {
		return src, false, err
	}
	seen := 0
	walkText(nodes, func(node *html.Node) bool {
		spans := Occurrences(node.Data, query, matchCase)
		if seen+len(spans) <= n {
			seen += len(spans)
			return true
		}
		text := []rune(node.Data)
		node.Data = replaceSpans(text, spans[n-seen:n-seen+1], replacement)
		changed = true
		return false
	})
	if !changed {
		return src, false, nil
	}
	out, err = render(nodes)
	if err != nil {
		return src, false, err
	}
	return out, true, nil
}

// ReplaceAll replaces every occurrence of query in the text nodes of src and
// reports how many were replaced.
func ReplaceAll(src, query, replacement string, matchCase bool) (string, int, error) {
	if query == "" {
		return src, 0, nil
	}
	nodes, err := fragment(src)
	if err != nil {
		return src, 0, err
	}
	count := 0
	walkText(nodes, func(node *html.Node) bool {
		spans := Occurrences(node.Data, query, matchCase)
		if len(spans) > 0 {
			node.Data = replaceSpans([]rune(node.Data), spans, replacement)
			count += len(spans)
		}
		return true
	})
	if count == 0 {
		return src, 0, nil
	}
	out, err := render(nodes)
	if err != nil {
		return src, 0, err
	}
	return out, count, nil
}
