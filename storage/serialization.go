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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/diarium/core"
)

// Entries are encoded as: label (string), date (unix micro, varint), text (string).

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *core.Entry) []byte {
	date := entry.Date.UnixMicro()
	size := ord.String.Size(entry.Label) +
		varint.Int64.Size(date) +
		ord.String.Size(entry.Text)

	buf := make([]byte, size)
	n := ord.String.Marshal(entry.Label, buf)
	n += varint.Int64.Marshal(date, buf[n:])
	ord.String.Marshal(entry.Text, buf[n:])
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*core.Entry, error) {
	label, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: entry label: %w", ErrSerializationFailed, err)
	}

	date, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: entry date: %w", ErrSerializationFailed, err)
	}
	n += m

	text, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: entry text: %w", ErrSerializationFailed, err)
	}
	n += m

	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}

	return &core.Entry{
		Label: label,
		Date:  time.UnixMicro(date).UTC(),
		Text:  text,
	}, nil
}

// MarshalCount serializes a word count to bytes.
func MarshalCount(count int) []byte {
	buf := make([]byte, varint.Int.Size(count))
	varint.Int.Marshal(count, buf)
	return buf
}

// UnmarshalCount deserializes a word count from bytes.
func UnmarshalCount(data []byte) (int, error) {
	count, _, err := varint.Int.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrSerializationFailed, err)
	}
	return count, nil
}

// MarshalTime serializes a timestamp with microsecond precision.
func MarshalTime(t time.Time) []byte {
	micros := t.UnixMicro()
	buf := make([]byte, varint.Int64.Size(micros))
	varint.Int64.Marshal(micros, buf)
	return buf
}

// UnmarshalTime deserializes a timestamp written by MarshalTime.
func UnmarshalTime(data []byte) (time.Time, error) {
	micros, _, err := varint.Int64.Unmarshal(data)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time: %w", ErrSerializationFailed, err)
	}
	return time.UnixMicro(micros).UTC(), nil
}
