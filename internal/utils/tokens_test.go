package utils_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/vibewriter/internal/utils"
)

func TestCount(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		words  int
		tokens int
	}{
		{"empty", "", 0, 0},
		{"whitespace", "   \n\t ", 0, 0},
		{"three", "one two three", 3, 4},
		{"padded", "  one\ttwo\n\nthree  ", 3, 4},
		{"single", "word", 1, 2},
		{"ten", strings.Repeat("w ", 10), 10, 13},
	}
	for _, c := range cases {
		got := utils.Count(c.in)
		if got.Words != c.words || got.Tokens != c.tokens {
			t.Errorf("%s: got %+v, want words=%d tokens=%d", c.name, got, c.words, c.tokens)
		}
	}
}

func TestTruncateToTokenLimit(t *testing.T) {
	text := strings.Repeat("abcd ", 1000)
	trunc := utils.TruncateToTokenLimit(text, 300)
	n := utils.CountTokens(trunc)
	if n > 300 {
		t.Fatalf("tokens=%d exceeds limit", n)
	}
	if len(trunc) == 0 {
		t.Fatalf("expected non-empty truncation")
	}
	if strings.HasSuffix(trunc, " ") {
		t.Fatalf("expected trailing whitespace trimmed: %q", trunc[len(trunc)-10:])
	}
	if got := utils.TruncateToTokenLimit("short text", 300); got != "short text" {
		t.Fatalf("short text changed: %q", got)
	}
}

func TestCountAcrossParagraphs(t *testing.T) {
	html := utils.PlainTextToHTML("The cat sat.\n\nThe dog ran.")
	got := utils.Count(utils.PlainText(html))
	if got.Words != 6 || got.Tokens != 8 {
		t.Fatalf("got %+v, want words=6 tokens=8", got)
	}
}
