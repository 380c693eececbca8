package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for different data types. Every prefix ends in a colon so
// one prefix is never a byte prefix of another.
const (
	entryPrefix     = "ent:"
	entryDatePrefix = "entd:"
	frequencyPrefix = "wfreq:"
	frequencyMeta   = "meta:wfreq"
)

// makeEntryKey generates a key for an entry by label.
func makeEntryKey(label string) []byte {
	return append([]byte(entryPrefix), label...)
}

// makeEntryDateKey generates a composite key for the date index.
// Format: prefix:timestamp:label
func makeEntryDateKey(date time.Time, label string) []byte {
	buf := makePartialEntryDateKey(date)
	return append(buf, label...)
}

// makePartialEntryDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialEntryDateKey(date time.Time) []byte {
	buf := make([]byte, len(entryDatePrefix)+8)
	offset := copy(buf, entryDatePrefix)
	// BigEndian with the sign bit flipped keeps pre-1970 dates ordered before later ones
	binary.BigEndian.PutUint64(buf[offset:], uint64(date.UnixMicro())^(1<<63))
	return buf
}

// makeFrequencyKey generates a key for a single word count.
func makeFrequencyKey(word string) []byte {
	return append([]byte(frequencyPrefix), word...)
}
