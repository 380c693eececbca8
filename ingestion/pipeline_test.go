package ingestion

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/diarium/core"
	"github.com/poiesic/diarium/storage"
	"github.com/poiesic/diarium/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	entries     storage.EntryRepository
	frequencies storage.FrequencyRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	entries, frequencies, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		entries.Close()
		frequencies.Close()
		backend.Close()
	})
	return testRepos{entries: entries, frequencies: frequencies}
}

func newTestPipeline(t *testing.T, repos testRepos, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(repos.entries, repos.frequencies, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func entryOn(y int, m time.Month, d int, text string) *core.Entry {
	return core.NewEntry(time.Date(y, m, d, 0, 0, 0, 0, time.UTC), text)
}

func TestNewPipeline(t *testing.T) {
	repos := newTestRepos(t)

	t.Run("missing entry repository", func(t *testing.T) {
		_, err := NewPipeline(nil, repos.frequencies)
		assert.ErrorIs(t, err, ErrEntryRepositoryRequired)
	})

	t.Run("missing frequency repository", func(t *testing.T) {
		_, err := NewPipeline(repos.entries, nil)
		assert.ErrorIs(t, err, ErrFrequencyRepositoryRequired)
	})

	t.Run("with options", func(t *testing.T) {
		p := newTestPipeline(t, repos, WithPoolSize(3), WithLogger(slog.Default()), WithProgress(nil))
		assert.Equal(t, 3, p.pool.Cap())
	})

	t.Run("option error releases pool", func(t *testing.T) {
		failing := func(*Pipeline) error { return errors.New("boom") }
		_, err := NewPipeline(repos.entries, repos.frequencies, failing)
		assert.EqualError(t, err, "boom")
	})
}

func TestPipeline_Import(t *testing.T) {
	repos := newTestRepos(t)
	var progress bytes.Buffer
	p := newTestPipeline(t, repos, WithPoolSize(4), WithProgress(&progress))
	ctx := context.Background()

	src := NewSliceSource("memory",
		entryOn(2020, time.January, 1, "I like running. I run every day."),
		entryOn(2020, time.January, 2, "Rain, rain."),
	)

	report, err := p.Import(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, "memory", report.Source)
	assert.Equal(t, 2, report.Read)
	assert.Equal(t, 2, report.Changed)
	assert.Equal(t, 2, report.Stored)
	assert.True(t, report.Rebuilt)
	assert.Equal(t, 9, report.Words)
	assert.Equal(t, 7, report.Unique)
	assert.Contains(t, progress.String(), "2/2")

	counts, err := repos.frequencies.LoadFrequencies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["rain"])
	assert.Equal(t, 2, counts["i"])

	t.Run("unchanged import skips rebuild", func(t *testing.T) {
		report, err := p.Import(ctx, src)
		require.NoError(t, err)
		assert.Zero(t, report.Changed)
		assert.False(t, report.Rebuilt)
		assert.Equal(t, 9, report.Words)
	})

	t.Run("changed entry triggers rebuild", func(t *testing.T) {
		report, err := p.Import(ctx, NewSliceSource("edit", entryOn(2020, time.January, 2, "Sun.")))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Changed)
		assert.True(t, report.Rebuilt)

		rain, err := repos.frequencies.GetFrequency(ctx, "rain")
		require.NoError(t, err)
		assert.Zero(t, rain)
	})
}

func TestPipeline_ImportEmptyBuildsTable(t *testing.T) {
	repos := newTestRepos(t)
	p := newTestPipeline(t, repos)
	ctx := context.Background()

	report, err := p.Import(ctx, NewSliceSource("empty"))
	require.NoError(t, err)
	assert.True(t, report.Rebuilt, "a table is built the first time even without entries")
	assert.Zero(t, report.Words)

	_, err = repos.frequencies.BuiltAt(ctx)
	assert.NoError(t, err)
}

func TestPipeline_ImportErrors(t *testing.T) {
	repos := newTestRepos(t)
	p := newTestPipeline(t, repos)
	ctx := context.Background()

	t.Run("nil source", func(t *testing.T) {
		_, err := p.Import(ctx, nil)
		assert.ErrorIs(t, err, ErrSourceRequired)
	})

	t.Run("source error", func(t *testing.T) {
		_, err := p.Import(ctx, NewSQLiteSource("/does/not/exist.db"))
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := p.Import(cctx, NewSliceSource("memory", entryOn(2020, time.January, 1, "x")))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPipeline_ImportSkipsInvalidEntries(t *testing.T) {
	repos := newTestRepos(t)
	p := newTestPipeline(t, repos)
	ctx := context.Background()

	now := time.Now().UTC()
	today := core.NewEntry(now, "Today I ran.")
	tomorrow := core.NewEntry(now.AddDate(0, 0, 1), "Tomorrow already, in UTC.")

	src := NewSliceSource("mixed",
		today,
		&core.Entry{Label: "not a date", Text: "lost"},
		tomorrow,
		nil,
	)

	report, err := p.Import(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Read)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 2, report.Changed)
	assert.Equal(t, 2, report.Stored)

	for _, e := range []*core.Entry{today, tomorrow} {
		got, err := repos.entries.GetEntry(ctx, e.Label)
		require.NoError(t, err)
		assert.Equal(t, e.Text, got.Text)
	}
}

func TestPipeline_ImportFromSQLite(t *testing.T) {
	repos := newTestRepos(t)
	p := newTestPipeline(t, repos)
	ctx := context.Background()

	path := writeDiaryDB(t, map[int64]string{
		ticks20200101: "<p>I like running.</p><p>I run every day.</p>",
	})

	report, err := p.Import(ctx, NewSQLiteSource(path))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stored)

	entry, err := repos.entries.GetEntry(ctx, "01.01.2020")
	require.NoError(t, err)
	assert.Equal(t, "I like running.\nI run every day.\n", entry.Text)
}

func TestPipeline_Released(t *testing.T) {
	repos := newTestRepos(t)
	p, err := NewPipeline(repos.entries, repos.frequencies)
	require.NoError(t, err)
	p.Release()

	_, err = p.Import(context.Background(), NewSliceSource("memory", entryOn(2020, time.January, 1, "x")))
	assert.ErrorIs(t, err, ErrPipelineReleased)
}
