package utils

import (
	"math"
	"strings"
	"unicode"
)

// tokensPerWord is the fixed word-to-token ratio used for every count shown to
// the user. It is an estimate, not a tokenizer.
const tokensPerWord = 1.3

// Counts holds the derived word and token totals for a piece of plain text.
type Counts struct {
	Words  int `json:"words"`
	Tokens int `json:"tokens"`
}

// Count derives word and token counts from plain text.
// Words are whitespace-delimited runs in the trimmed text; tokens are
// ceil(words * 1.3).
func Count(text string) Counts {
	words := len(strings.Fields(strings.TrimSpace(text)))
	return Counts{Words: words, Tokens: EstimateTokens(words)}
}

// EstimateTokens converts a word count into the token estimate.
func EstimateTokens(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) * tokensPerWord))
}

// CountTokens estimates the number of tokens in the given text.
func CountTokens(text string) int {
	return Count(text).Tokens
}

// TruncateToTokenLimit truncates text to the words that fit within a token limit.
// Whitespace inside the kept prefix is preserved.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if CountTokens(text) <= limit {
		return text
	}
	maxWords := int(float64(limit) / tokensPerWord)
	for maxWords > 0 && EstimateTokens(maxWords) > limit {
		maxWords--
	}
	if maxWords == 0 {
		return ""
	}
	seen := 0
	inWord := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if !space && !inWord {
			if seen == maxWords {
				return strings.TrimRightFunc(text[:i], unicode.IsSpace)
			}
			seen++
		}
		inWord = !space
	}
	return text
}
