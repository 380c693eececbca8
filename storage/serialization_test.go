package storage

import (
	"testing"
	"time"

	"github.com/poiesic/diarium/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalEntry(t *testing.T) {
	day := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry *core.Entry
	}{
		{
			name:  "plain entry",
			entry: &core.Entry{Label: "01.01.2020", Date: day, Text: "I run every day."},
		},
		{
			name:  "empty text",
			entry: &core.Entry{Label: "01.01.2020", Date: day},
		},
		{
			name:  "unicode and newlines",
			entry: &core.Entry{Label: "01.01.2020", Date: day, Text: "Dnes pršalo.\n\nZajtra? Snáď slnko!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalEntry(MarshalEntry(tt.entry))
			require.NoError(t, err)
			assert.Equal(t, tt.entry.Label, decoded.Label)
			assert.Equal(t, tt.entry.Text, decoded.Text)
			assert.True(t, tt.entry.Date.Equal(decoded.Date))
		})
	}
}

func TestUnmarshalEntry_Invalid(t *testing.T) {
	valid := MarshalEntry(&core.Entry{Label: "01.01.2020", Text: "hello"})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", valid[:len(valid)-2]},
		{"trailing bytes", append(append([]byte{}, valid...), 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEntry(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalCount(t *testing.T) {
	for _, count := range []int{0, 1, 127, 128, 1 << 20} {
		decoded, err := UnmarshalCount(MarshalCount(count))
		require.NoError(t, err)
		assert.Equal(t, count, decoded)
	}

	_, err := UnmarshalCount(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalTime(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	decoded, err := UnmarshalTime(MarshalTime(now))
	require.NoError(t, err)
	assert.True(t, now.Equal(decoded))
}
