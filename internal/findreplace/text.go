// Package findreplace searches document text and rewrites matches inside the
// HTML text nodes of documents, leaving markup untouched.
package findreplace

import "unicode"

// SnippetContext is the number of characters shown either side of a match.
const SnippetContext = 40

// Span is a match position in runes, End exclusive.
type Span struct {
	Start int
	End   int
}

// Occurrences returns the non-overlapping positions of query in text, left to
// right. Comparison folds case per rune unless matchCase is set.
func Occurrences(text, query string, matchCase bool) []Span {
	if query == "" {
		return nil
	}
	hay := runesOf(text, matchCase)
	needle := runesOf(query, matchCase)
	var out []Span
	for i := 0; i+len(needle) <= len(hay); {
		if equalAt(hay, needle, i) {
			out = append(out, Span{Start: i, End: i + len(needle)})
			i += len(needle)
			continue
		}
		i++
	}
	return out
}

func runesOf(s string, matchCase bool) []rune {
	r := []rune(s)
	if !matchCase {
		for i := range r {
			r[i] = unicode.ToLower(r[i])
		}
	}
	return r
}

func equalAt(hay, needle []rune, at int) bool {
	for j := range needle {
		if hay[at+j] != needle[j] {
			return false
		}
	}
	return true
}

// Snippet is the text around a match.
type Snippet struct {
	Before string `json:"before"`
	Match  string `json:"match"`
	After  string `json:"after"`
}

func snippetOf(text []rune, sp Span) Snippet {
	from := max(0, sp.Start-SnippetContext)
	to := min(len(text), sp.End+SnippetContext)
	return Snippet{
		Before: string(text[from:sp.Start]),
		Match:  string(text[sp.Start:sp.End]),
		After:  string(text[sp.End:to]),
	}
}

// replaceSpans substitutes replacement for every span in text.
func replaceSpans(text []rune, spans []Span, replacement string) string {
	out := make([]rune, 0, len(text))
	cursor := 0
	for _, sp := range spans {
		out = append(out, text[cursor:sp.Start]...)
		out = append(out, []rune(replacement)...)
		cursor = sp.End
	}
	out = append(out, text[cursor:]...)
	return string(out)
}
