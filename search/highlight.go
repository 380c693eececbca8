package search

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// markerEscape (U+2060 WORD JOINER) is inserted after the first rune of any
// marker found in entry text, so the text can never be mistaken for a marker.
const markerEscape = "\u2060"

// Markers are the delimiter pairs placed in rendered output.
// Match markers wrap matched tokens; label markers wrap entry label lines.
type Markers struct {
	MatchOpen  string
	MatchClose string
	LabelOpen  string
	LabelClose string
}

// DefaultMarkers returns the markers used when none are configured.
func DefaultMarkers() Markers {
	return Markers{
		MatchOpen:  "[match]",
		MatchClose: "[/match]",
		LabelOpen:  "[label]",
		LabelClose: "[/label]",
	}
}

// Validate checks that every marker is at least two runes long, free of the
// escape rune, and that the four markers are distinct.
func (m Markers) Validate() error {
	all := m.all()
	seen := make(map[string]bool, len(all))
	for _, marker := range all {
		if marker == "" {
			return fmt.Errorf("%w: marker cannot be empty", ErrInvalidMarkers)
		}
		if utf8.RuneCountInString(marker) < 2 {
			return fmt.Errorf("%w: marker %q must be at least two runes long", ErrInvalidMarkers, marker)
		}
		if strings.Contains(marker, markerEscape) {
			return fmt.Errorf("%w: marker %q contains U+2060", ErrInvalidMarkers, marker)
		}
		if seen[marker] {
			return fmt.Errorf("%w: duplicate marker %q", ErrInvalidMarkers, marker)
		}
		seen[marker] = true
	}
	return nil
}

func (m Markers) all() []string {
	return []string{m.MatchOpen, m.MatchClose, m.LabelOpen, m.LabelClose}
}

// Unescape removes the escapes the Highlighter adds to marker strings found in
// entry text.
func (m Markers) Unescape(s string) string {
	return strings.ReplaceAll(s, markerEscape, "")
}

// escaper breaks up marker occurrences in entry text so the text contains none
// of them. A nil escaper, built from invalid markers, is a no-op.
type escaper struct {
	markers  []string
	replacer *strings.Replacer
}

func newEscaper(m Markers) *escaper {
	if m.Validate() != nil {
		return nil
	}
	markers := m.all()
	pairs := make([]string, 0, 2*len(markers))
	for _, marker := range markers {
		_, size := utf8.DecodeRuneInString(marker)
		pairs = append(pairs, marker, marker[:size]+markerEscape+marker[size:])
	}
	return &escaper{markers: markers, replacer: strings.NewReplacer(pairs...)}
}

func (e *escaper) escape(s string) string {
	if e == nil {
		return s
	}
	// Overlapping occurrences can survive a single pass. Each pass splits at
	// least one marker-forming rune pair, so the loop ends.
	for e.contains(s) {
		s = e.replacer.Replace(s)
	}
	return s
}

func (e *escaper) contains(s string) bool {
	for _, marker := range e.markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// WrapMatch wraps a matched token.
func (m Markers) WrapMatch(token string) string {
	return m.MatchOpen + token + m.MatchClose
}

// WrapLabel wraps an entry label.
func (m Markers) WrapLabel(label string) string {
	return m.LabelOpen + label + m.LabelClose
}

// CountMatches counts the match marker pairs in rendered output.
func (m Markers) CountMatches(rendered string) int {
	return strings.Count(rendered, m.MatchOpen)
}

// Highlighter renders sentences with matching tokens wrapped in match markers.
// It holds no per-call state and is safe for concurrent use.
type Highlighter struct {
	markers Markers
	escaper *escaper
}

// NewHighlighter creates a Highlighter using the given markers.
func NewHighlighter(markers Markers) *Highlighter {
	return &Highlighter{markers: markers, escaper: newEscaper(markers)}
}

// RenderSentence splits sentence on whitespace, wraps every token that matches
// pattern, joins the tokens with single spaces and appends a newline.
// Tokens are escaped first, so the line holds exactly one match marker pair per
// wrapped token. It returns the rendered line and the number of wrapped tokens.
func (h *Highlighter) RenderSentence(sentence, pattern string, exact bool) (string, int) {
	var sb strings.Builder
	count := 0
	for i, token := range strings.Fields(sentence) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		escaped := h.escaper.escape(token)
		if IsSameWord(token, pattern, exact) {
			count++
			sb.WriteString(h.markers.WrapMatch(escaped))
		} else {
			sb.WriteString(escaped)
		}
	}
	sb.WriteByte('\n')
	return sb.String(), count
}

// RenderLabel wraps an escaped entry label in label markers.
func (h *Highlighter) RenderLabel(label string) string {
	return h.markers.WrapLabel(h.escaper.escape(label))
}
