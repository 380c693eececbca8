package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isSentenceEnd reports whether r closes a sentence when followed by whitespace.
func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}

// SegmentSentences splits text into trimmed sentence-like pieces.
//
// A cut happens wherever a '.', '!', '?' or newline is immediately followed by
// one or more whitespace characters; the whole whitespace run is dropped and the
// punctuation stays with the preceding piece. The trailing fragment is always
// returned, so empty text yields a single empty string and text ending in ". "
// yields a trailing empty string. Runs of punctuation are not collapsed.
func SegmentSentences(text string) []string {
	var sentences []string
	start := 0
	var prev rune
	hasPrev := false

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		// unicode.IsSpace excludes the separators U+001C..U+001F.
		if hasPrev && isSentenceEnd(prev) && unicode.IsSpace(r) {
			end := i
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if !unicode.IsSpace(r) {
					break
				}
				i += size
			}
			sentences = append(sentences, strings.TrimSpace(text[start:end]))
			start = i
			// The rune at i (if any) is not whitespace, so no cut can start there.
			hasPrev = false
			continue
		}
		prev, hasPrev = r, true
		i += size
	}

	return append(sentences, strings.TrimSpace(text[start:]))
}
