package stats

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Words returns the lower-cased words of text in order.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// CountWords counts the lower-cased words of text.
func CountWords(text string) map[string]int {
	counts := make(map[string]int)
	for _, w := range Words(text) {
		counts[w]++
	}
	return counts
}

// Merge adds the counts of src into dst.
func Merge(dst, src map[string]int) {
	for w, n := range src {
		dst[w] += n
	}
}
