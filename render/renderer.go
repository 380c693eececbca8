// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package render turns marked-up search output into terminal text.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/diarium/search"
)

// Renderer replaces search markers with terminal styles.
type Renderer struct {
	markers search.Markers
	plain   bool
	match   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPlain drops all styling; markers are still removed.
func WithPlain(plain bool) Option {
	return func(r *Renderer) {
		r.plain = plain
	}
}

// WithMarkers sets the markers to look for. Default is search.DefaultMarkers().
func WithMarkers(markers search.Markers) Option {
	return func(r *Renderer) {
		r.markers = markers
	}
}

// NewRenderer creates a renderer whose color profile is detected from w.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	lr := lipgloss.NewRenderer(w)
	r := &Renderer{
		markers: search.DefaultMarkers(),
		match:   lr.NewStyle().Bold(true).Foreground(ColorMatch),
		label:   lr.NewStyle().Foreground(ColorLabel),
		muted:   lr.NewStyle().Foreground(ColorMuted),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render rewrites marked text: matches are highlighted and labels become
// "Date: <label>" headings. Markers escaped inside entry text are restored as
// plain text.
func (r *Renderer) Render(text string) string {
	text = replaceSpans(text, r.markers.LabelOpen, r.markers.LabelClose, r.Label)
	text = replaceSpans(text, r.markers.MatchOpen, r.markers.MatchClose, r.Match)
	return r.markers.Unescape(text)
}

// Label renders an entry label heading.
func (r *Renderer) Label(label string) string {
	return r.style(r.label, LabelPrefix+label)
}

// Match renders a highlighted word.
func (r *Renderer) Match(word string) string {
	return r.style(r.match, word)
}

// Muted renders secondary text such as timings.
func (r *Renderer) Muted(s string) string {
	return r.style(r.muted, s)
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.plain || text == "" {
		return text
	}
	return s.Render(text)
}

// replaceSpans replaces every open...close span in text with fn(inner).
// An open marker without a matching close is left as is.
func replaceSpans(text, open, close string, fn func(string) string) string {
	if open == "" || close == "" {
		return text
	}

	var sb strings.Builder
	for {
		start := strings.Index(text, open)
		if start < 0 {
			break
		}
		end := strings.Index(text[start+len(open):], close)
		if end < 0 {
			break
		}
		end += start + len(open)

		sb.WriteString(text[:start])
		sb.WriteString(fn(text[start+len(open) : end]))
		text = text[end+len(close):]
	}
	sb.WriteString(text)
	return sb.String()
}
