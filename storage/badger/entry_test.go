package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/diarium/core"
	"github.com/poiesic/diarium/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntryRepo(t *testing.T) storage.EntryRepository {
	t.Helper()
	entries, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		entries.Close()
		backend.Close()
	})
	return entries
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEntryRepository_PutAndGet(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	changed, err := repo.PutEntries(ctx,
		&core.Entry{Label: "01.01.2020", Text: "I run every day."},
		core.NewEntry(day(2020, time.January, 2), "Rain."),
	)
	require.NoError(t, err)
	assert.Len(t, changed, 2)

	got, err := repo.GetEntry(ctx, "01.01.2020")
	require.NoError(t, err)
	assert.Equal(t, "I run every day.", got.Text)
	assert.True(t, got.Date.Equal(day(2020, time.January, 1)), "date is derived from the label")

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEntryRepository_PutReportsOnlyChanges(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	_, err := repo.PutEntries(ctx,
		&core.Entry{Label: "01.01.2020", Text: "one"},
		&core.Entry{Label: "02.01.2020", Text: "two"},
	)
	require.NoError(t, err)

	changed, err := repo.PutEntries(ctx,
		&core.Entry{Label: "01.01.2020", Text: "one"},
		&core.Entry{Label: "02.01.2020", Text: "two, edited"},
		&core.Entry{Label: "03.01.2020", Text: "three"},
	)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Equal(t, "02.01.2020", changed[0].Label)
	assert.Equal(t, "03.01.2020", changed[1].Label)

	got, err := repo.GetEntry(ctx, "02.01.2020")
	require.NoError(t, err)
	assert.Equal(t, "two, edited", got.Text)

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestEntryRepository_PutRejectsInvalid(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry *core.Entry
	}{
		{"nil entry", nil},
		{"empty label", &core.Entry{Text: "x"}},
		{"label is not a date", &core.Entry{Label: "yesterday"}},
		{"date mismatch", &core.Entry{Label: "01.01.2020", Date: day(2020, time.March, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.PutEntries(ctx, tt.entry)
			assert.ErrorIs(t, err, core.ErrInvalidEntry)
		})
	}

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEntryRepository_PutFutureDay(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	tomorrow := core.NewEntry(time.Now().UTC().AddDate(0, 0, 1), "Written just after midnight.")
	changed, err := repo.PutEntries(ctx, tomorrow)
	require.NoError(t, err)
	assert.Len(t, changed, 1)

	got, err := repo.GetEntry(ctx, tomorrow.Label)
	require.NoError(t, err)
	assert.Equal(t, tomorrow.Text, got.Text)
}

func TestEntryRepository_GetEntriesOrderedByDate(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	_, err := repo.PutEntries(ctx,
		&core.Entry{Label: "15.03.2021", Text: "c"},
		&core.Entry{Label: "01.01.1965", Text: "a"},
		&core.Entry{Label: "31.12.2020", Text: "b"},
	)
	require.NoError(t, err)

	entries, err := repo.GetEntries(ctx)
	require.NoError(t, err)

	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	assert.Equal(t, []string{"01.01.1965", "31.12.2020", "15.03.2021"}, labels)
}

func TestEntryRepository_GetEntriesByDateRange(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	for d := 1; d <= 10; d++ {
		_, err := repo.PutEntries(ctx, core.NewEntry(day(2020, time.May, d), "x"))
		require.NoError(t, err)
	}

	t.Run("half-open range", func(t *testing.T) {
		entries, err := repo.GetEntriesByDateRange(ctx, day(2020, time.May, 3), day(2020, time.May, 6))
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "03.05.2020", entries[0].Label)
		assert.Equal(t, "05.05.2020", entries[2].Label)
	})

	t.Run("empty range", func(t *testing.T) {
		entries, err := repo.GetEntriesByDateRange(ctx, day(2020, time.May, 3), day(2020, time.May, 3))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := repo.GetEntriesByDateRange(ctx, day(2020, time.May, 6), day(2020, time.May, 3))
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestEntryRepository_Delete(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	_, err := repo.PutEntries(ctx, &core.Entry{Label: "01.01.2020", Text: "x"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteEntries(ctx, "01.01.2020"))

	_, err = repo.GetEntry(ctx, "01.01.2020")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	entries, err := repo.GetEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "date index must be cleaned up")

	err = repo.DeleteEntries(ctx, "01.01.2020")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEntryRepository_LargeBatch(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	start := day(2010, time.January, 1)
	entries := make([]*core.Entry, 0, 3*putBatchSize)
	for i := 0; i < 3*putBatchSize; i++ {
		entries = append(entries, core.NewEntry(start.AddDate(0, 0, i), "entry text"))
	}

	changed, err := repo.PutEntries(ctx, entries...)
	require.NoError(t, err)
	assert.Len(t, changed, len(entries))

	count, err := repo.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(entries), count)
}

func TestEntryRepository_CancelledContext(t *testing.T) {
	repo := newTestEntryRepo(t)

	_, err := repo.PutEntries(context.Background(), &core.Entry{Label: "01.01.2020", Text: "x"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.GetEntries(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
