package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeWord lower-cases a token and trims punctuation from both ends,
// so "Running." and "running" compare as the same word.
func normalizeWord(s string) string {
	return strings.TrimFunc(strings.ToLower(s), unicode.IsPunct)
}

// IsSameWord reports whether two tokens count as the same word.
//
// Both tokens are lower-cased and stripped of leading and trailing punctuation
// first. A token that is empty after that never matches, in either mode.
//
// In exact mode the normalized tokens must be equal.
//
// In fuzzy mode the tokens are ordered so that long is at least as long as
// short (in runes). The pair is rejected outright when
// len(long)-len(short) >= len(short), i.e. when short is not strictly more than
// half as long as long. Otherwise the tokens match iff short is a substring of long.
// "runs"/"run" match; "running"/"run" do not.
//
// Because the gate and the substring test run on trimmed tokens, a token with
// punctuation attached can match a pattern it would not match raw: "ru." and
// "run" match in fuzzy mode ("ru" is a substring of "run" and passes the gate),
// as do "day." and "da".
func IsSameWord(a, b string, exact bool) bool {
	a = normalizeWord(a)
	b = normalizeWord(b)
	if a == "" || b == "" {
		return false
	}
	if exact {
		return a == b
	}

	long, short := a, b
	longLen, shortLen := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if shortLen > longLen {
		long, short = short, long
		longLen, shortLen = shortLen, longLen
	}
	if longLen-shortLen >= shortLen {
		return false
	}
	return strings.Contains(long, short)
}

// containsWord reports whether any whitespace separated token of sentence matches pattern.
func containsWord(sentence, pattern string, exact bool) bool {
	for _, token := range strings.Fields(sentence) {
		if IsSameWord(token, pattern, exact) {
			return true
		}
	}
	return false
}
