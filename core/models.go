package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content fingerprint.
// Two entries with identical label and text share the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Entry is a single journal day: a date label paired with its full text body.
type Entry struct {
	Label string    // Day the entry was written, formatted as DD.MM.YYYY
	Date  time.Time // Midnight UTC of the same day
	Text  string
}

// NewEntry creates an entry for the given day. The label is derived from date.
func NewEntry(date time.Time, text string) *Entry {
	day := TruncateToDay(date)
	return &Entry{
		Label: LabelFromDate(day),
		Date:  day,
		Text:  text,
	}
}

// Fingerprint returns a content ID over the label and text.
// It changes whenever the text of the day changes.
func (e *Entry) Fingerprint() ID {
	return IDFromContent(e.Label + "\n" + e.Text)
}

// WordCount returns the number of whitespace separated words in the entry.
func (e *Entry) WordCount() int {
	return len(strings.Fields(e.Text))
}
