package storage

import (
	"context"
	"time"

	"github.com/poiesic/diarium/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	// It does not close the shared backend.
	Close() error
}

// EntryRepository provides operations for managing journal entries.
// Entries are keyed by label, so there is at most one entry per day.
type EntryRepository interface {
	Repository

	// PutEntries stores entries, replacing any existing entry with the same label.
	// Returns only the entries that were new or whose text changed.
	PutEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error)

	// DeleteEntries removes entries by label.
	// Returns ErrNotFound if any entry doesn't exist.
	DeleteEntries(ctx context.Context, labels ...string) error

	// GetEntry retrieves a single entry by label.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, label string) (*core.Entry, error)

	// GetEntries retrieves all entries ordered by date, oldest first.
	GetEntries(ctx context.Context) ([]*core.Entry, error)

	// GetEntriesByDateRange retrieves entries where start <= Date < end, ordered by date.
	GetEntriesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Entry, error)

	// CountEntries returns the number of stored entries.
	CountEntries(ctx context.Context) (int, error)
}

// FrequencyRepository persists the cached word-frequency table.
type FrequencyRepository interface {
	Repository

	// SaveFrequencies replaces the stored table with counts.
	SaveFrequencies(ctx context.Context, counts map[string]int) error

	// LoadFrequencies returns the stored table.
	// Returns ErrNotFound if no table has been saved yet.
	LoadFrequencies(ctx context.Context) (map[string]int, error)

	// GetFrequency returns the stored count of a single word, or 0 if absent.
	GetFrequency(ctx context.Context, word string) (int, error)

	// BuiltAt returns when the stored table was last saved.
	// Returns ErrNotFound if no table has been saved yet.
	BuiltAt(ctx context.Context) (time.Time, error)
}
