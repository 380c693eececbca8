package core

import (
	"fmt"
	"time"
)

// LabelLayout is the time layout of entry labels (DD.MM.YYYY).
const LabelLayout = "02.01.2006"

// ticksAtUnixEpoch is the number of 100ns ticks between 0001-01-01 and 1970-01-01.
const ticksAtUnixEpoch int64 = 621355968000000000

// LabelFromDate formats a date as an entry label.
func LabelFromDate(t time.Time) string {
	return t.Format(LabelLayout)
}

// ParseLabel parses an entry label into midnight UTC of that day.
func ParseLabel(label string) (time.Time, error) {
	t, err := time.ParseInLocation(LabelLayout, label, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return t, nil
}

// TruncateToDay returns midnight UTC of the calendar day t falls on in its own location.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateFromTicks converts .NET ticks (100ns intervals since 0001-01-01 UTC),
// as stored by diary applications, to a UTC time.
func DateFromTicks(ticks int64) time.Time {
	delta := ticks - ticksAtUnixEpoch
	sec := delta / 10_000_000
	nsec := (delta % 10_000_000) * 100
	return time.Unix(sec, nsec).UTC()
}
