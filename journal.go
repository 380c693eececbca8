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


package diarium

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/diarium/core"
	"github.com/poiesic/diarium/ingestion"
	"github.com/poiesic/diarium/search"
	"github.com/poiesic/diarium/stats"
	"github.com/poiesic/diarium/storage"
	"github.com/poiesic/diarium/storage/badger"
	"golang.org/x/sync/errgroup"
)

// Journal is a persistent diary: a store of dated entries plus the cached
// word-frequency table computed over them.
type Journal struct {
	backend       *badger.Backend
	entryRepo     storage.EntryRepository
	frequencyRepo storage.FrequencyRepository
	logger        *slog.Logger

	mu    sync.Mutex
	table *stats.Table
}

// JournalOption configures a Journal.
type JournalOption func(*journalOptions)

type journalOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory keeps the journal in memory; the path is ignored.
func WithInMemory() JournalOption {
	return func(o *journalOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) JournalOption {
	return func(o *journalOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewJournal opens the journal stored at filePath, creating it if needed.
func NewJournal(filePath string, opts ...JournalOption) (*Journal, error) {
	options := &journalOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	return &Journal{
		backend:       backend,
		entryRepo:     badger.NewEntryRepository(backend),
		frequencyRepo: badger.NewFrequencyRepository(backend),
		logger:        options.logger,
	}, nil
}

// Close closes the repositories and the backend.
func (j *Journal) Close() error {
	if err := j.frequencyRepo.Close(); err != nil {
		j.logger.Error("error closing frequency repository", "err", err)
		return err
	}
	if err := j.entryRepo.Close(); err != nil {
		j.logger.Error("error closing entry repository", "err", err)
		return err
	}
	if err := j.backend.Close(); err != nil {
		j.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (j *Journal) EntryRepository() storage.EntryRepository {
	return j.entryRepo
}

func (j *Journal) FrequencyRepository() storage.FrequencyRepository {
	return j.frequencyRepo
}

// NewPipeline creates an import pipeline writing to this journal.
func (j *Journal) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(j.logger)}, opts...)
	return ingestion.NewPipeline(j.entryRepo, j.frequencyRepo, opts...)
}

// NewFinder creates a finder logging through this journal's logger.
func (j *Journal) NewFinder(opts ...search.Option) (*search.Finder, error) {
	opts = append([]search.Option{search.WithLogger(j.logger)}, opts...)
	return search.NewFinder(opts...)
}

// Import stores the entries of src and refreshes the word-frequency table.
func (j *Journal) Import(ctx context.Context, src ingestion.Source, opts ...ingestion.Option) (*ingestion.Report, error) {
	pipeline, err := j.NewPipeline(opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	report, err := pipeline.Import(ctx, src)
	if err != nil {
		return nil, err
	}

	j.mu.Lock()
	j.table = nil
	j.mu.Unlock()

	return report, nil
}

// Corpus loads every entry, oldest first.
func (j *Journal) Corpus(ctx context.Context) (*core.Corpus, error) {
	entries, err := j.entryRepo.GetEntries(ctx)
	if err != nil {
		return nil, err
	}

	corpus := core.NewCorpus()
	for _, e := range entries {
		corpus.Add(*e)
	}
	return corpus, nil
}

// Entry returns the entry for a DD.MM.YYYY label.
func (j *Journal) Entry(ctx context.Context, label string) (*core.Entry, error) {
	if _, err := core.ParseLabel(label); err != nil {
		return nil, err
	}
	return j.entryRepo.GetEntry(ctx, label)
}

// Range returns the entries from the day labelled from through the day labelled
// to, both inclusive, oldest first.
func (j *Journal) Range(ctx context.Context, from, to string) ([]*core.Entry, error) {
	start, err := core.ParseLabel(from)
	if err != nil {
		return nil, err
	}
	end, err := core.ParseLabel(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", storage.ErrInvalidQuery, to, from)
	}
	return j.entryRepo.GetEntriesByDateRange(ctx, start, end.AddDate(0, 0, 1))
}

// Delete removes the entries for the given labels and rebuilds the
// word-frequency table. Nothing is deleted if any label is missing.
func (j *Journal) Delete(ctx context.Context, labels ...string) error {
	for _, label := range labels {
		if _, err := core.ParseLabel(label); err != nil {
			return err
		}
	}
	if err := j.entryRepo.DeleteEntries(ctx, labels...); err != nil {
		return err
	}

	pipeline, err := j.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	table, err := pipeline.RebuildFrequencies(ctx)
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.table = table
	j.mu.Unlock()

	j.logger.Info("entries deleted", "count", len(labels))
	return nil
}

// Occurrences returns how often word occurs in the journal, counted the way
// the word-frequency table counts. A stored table is queried for the single
// word instead of being loaded.
func (j *Journal) Occurrences(ctx context.Context, word string) (int, error) {
	j.mu.Lock()
	table := j.table
	j.mu.Unlock()
	if table != nil {
		return table.Occurrences(word), nil
	}

	_, err := j.frequencyRepo.BuiltAt(ctx)
	if err == nil {
		return j.frequencyRepo.GetFrequency(ctx, strings.ToLower(word))
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return 0, err
	}

	table, err = j.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return table.Occurrences(word), nil
}

// Stats returns the word-frequency table, loading it from storage on first use.
// A journal that was never imported into gets a table built on the spot.
func (j *Journal) Stats(ctx context.Context) (*stats.Table, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.table != nil {
		return j.table, nil
	}

	counts, err := j.frequencyRepo.LoadFrequencies(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		pipeline, perr := j.NewPipeline()
		if perr != nil {
			return nil, perr
		}
		defer pipeline.Release()

		table, rerr := pipeline.RebuildFrequencies(ctx)
		if rerr != nil {
			return nil, rerr
		}
		j.table = table
	case err != nil:
		return nil, err
	default:
		j.table = stats.NewTable(counts)
	}

	return j.table, nil
}

// FindResult is a search result with timing information.
type FindResult struct {
	*search.Result
	WordsSearched int           // Total words in the journal
	Elapsed       time.Duration // Time spent loading and searching
}

// Find searches every entry for query.Pattern.
func (j *Journal) Find(ctx context.Context, query search.Query, opts ...search.Option) (*FindResult, error) {
	start := time.Now()

	corpus, err := j.Corpus(ctx)
	if err != nil {
		return nil, err
	}

	finder, err := j.NewFinder(opts...)
	if err != nil {
		return nil, err
	}
	defer finder.Release()

	result, err := finder.Search(ctx, corpus, query)
	if err != nil {
		return nil, err
	}

	table, err := j.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &FindResult{
		Result:        result,
		WordsSearched: table.Total(),
		Elapsed:       time.Since(start),
	}, nil
}

// EntryCounter reports how many entries a source holds.
type EntryCounter interface {
	Count(ctx context.Context) (int, error)
}

// NewEntries returns how many more entries src holds than the journal.
// A positive result means an import would pick up new days.
func (j *Journal) NewEntries(ctx context.Context, src EntryCounter) (int, error) {
	available, err := src.Count(ctx)
	if err != nil {
		return 0, err
	}
	stored, err := j.entryRepo.CountEntries(ctx)
	if err != nil {
		return 0, err
	}
	return available - stored, nil
}

// Export writes every entry to dir/<year>/<month>/<day>.txt, without leading zeros.
// Existing files are overwritten. Returns the number of files written.
func (j *Journal) Export(ctx context.Context, dir string) (int, error) {
	entries, err := j.entryRepo.GetEntries(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			y, m, d := e.Date.Date()
			monthDir := filepath.Join(dir, strconv.Itoa(y), strconv.Itoa(int(m)))
			if err := os.MkdirAll(monthDir, 0755); err != nil {
				return err
			}
			path := filepath.Join(monthDir, strconv.Itoa(d)+".txt")
			if err := os.WriteFile(path, []byte(e.Text), 0644); err != nil {
				return fmt.Errorf("export %s: %w", e.Label, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	j.logger.Debug("journal exported", "dir", dir, "entries", len(entries))
	return len(entries), nil
}
