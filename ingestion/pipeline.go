package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/diarium/core"
	"github.com/poiesic/diarium/stats"
	"github.com/poiesic/diarium/storage"
)

// Pipeline imports entries into storage and keeps the word-frequency table current.
type Pipeline struct {
	entryRepository     storage.EntryRepository
	frequencyRepository storage.FrequencyRepository
	pool                *ants.Pool
	progress            io.Writer
	logger              *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for word counting.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress reports word-counting progress to w.
// Default is no progress output.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// NewPipeline creates a new import pipeline.
func NewPipeline(
	entryRepository storage.EntryRepository,
	frequencyRepository storage.FrequencyRepository,
	opts ...Option,
) (*Pipeline, error) {
	if entryRepository == nil {
		return nil, ErrEntryRepositoryRequired
	}
	if frequencyRepository == nil {
		return nil, ErrFrequencyRepositoryRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		entryRepository:     entryRepository,
		frequencyRepository: frequencyRepository,
		pool:                pool,
		logger:              slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Report summarizes an import.
type Report struct {
	Source  string        // Source name
	Read    int           // Entries read from the source
	Skipped int           // Entries that failed validation and were not stored
	Changed int           // Entries that were new or whose text changed
	Stored  int           // Entries in storage after the import
	Rebuilt bool          // Whether the word-frequency table was rebuilt
	Words   int           // Total words in the frequency table
	Unique  int           // Distinct words in the frequency table
	Elapsed time.Duration // Wall time of the whole import
}

// Import stores every entry src produces and rebuilds the word-frequency table
// when anything changed or no table has been built yet.
func (p *Pipeline) Import(ctx context.Context, src Source) (*Report, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	start := time.Now()

	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}

	valid := p.validEntries(src.Name(), entries)

	changed, err := p.entryRepository.PutEntries(ctx, valid...)
	if err != nil {
		return nil, fmt.Errorf("store entries from %s: %w", src.Name(), err)
	}

	report := &Report{
		Source:  src.Name(),
		Read:    len(entries),
		Skipped: len(entries) - len(valid),
		Changed: len(changed),
	}

	needsRebuild := len(changed) > 0
	if !needsRebuild {
		if _, err := p.frequencyRepository.BuiltAt(ctx); errors.Is(err, storage.ErrNotFound) {
			needsRebuild = true
		} else if err != nil {
			return nil, err
		}
	}

	var table *stats.Table
	if needsRebuild {
		table, err = p.RebuildFrequencies(ctx)
		report.Rebuilt = true
	} else {
		var counts map[string]int
		counts, err = p.frequencyRepository.LoadFrequencies(ctx)
		table = stats.NewTable(counts)
	}
	if err != nil {
		return nil, err
	}

	report.Words = table.Total()
	report.Unique = table.Unique()
	if report.Stored, err = p.entryRepository.CountEntries(ctx); err != nil {
		return nil, err
	}
	report.Elapsed = time.Since(start)

	p.logger.Info("import finished",
		"source", report.Source, "read", report.Read, "skipped", report.Skipped, "changed", report.Changed,
		"stored", report.Stored, "rebuilt", report.Rebuilt, "elapsed", report.Elapsed)

	return report, nil
}

// validEntries drops entries that cannot be stored, so one bad row does not
// abort the rest of the import.
func (p *Pipeline) validEntries(source string, entries []*core.Entry) []*core.Entry {
	valid := make([]*core.Entry, 0, len(entries))
	for _, entry := range entries {
		if err := core.ValidateEntry(entry); err != nil {
			p.logger.Warn("skipping entry", "source", source, "error", err)
			continue
		}
		valid = append(valid, entry)
	}
	return valid
}

// RebuildFrequencies recounts the words of every stored entry and saves the table.
func (p *Pipeline) RebuildFrequencies(ctx context.Context) (*stats.Table, error) {
	entries, err := p.entryRepository.GetEntries(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := p.countWords(ctx, entries)
	if err != nil {
		return nil, err
	}

	if err := p.frequencyRepository.SaveFrequencies(ctx, counts); err != nil {
		return nil, fmt.Errorf("save word frequencies: %w", err)
	}

	table := stats.NewTable(counts)
	p.logger.Debug("word frequencies rebuilt",
		"entries", len(entries), "words", table.Total(), "unique", table.Unique())
	return table, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// countWords counts words per entry on the pool and merges the results in entry order.
func (p *Pipeline) countWords(ctx context.Context, entries []*core.Entry) (map[string]int, error) {
	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, "entries", len(entries), max(len(entries)/20, 1))
		tracker.Start()
	}

	perEntry := make([]map[string]int, len(entries))
	if err := p.submitAll(ctx, len(entries), func(i int) {
		perEntry[i] = stats.CountWords(entries[i].Text)
		if tracker != nil {
			tracker.Increment(1)
		}
	}); err != nil {
		return nil, err
	}

	if tracker != nil {
		tracker.Finish()
	}

	counts := make(map[string]int)
	for _, c := range perEntry {
		stats.Merge(counts, c)
	}
	return counts, nil
}

// submitAll runs task(i) for i in [0, n) on the pool and waits for every submitted task.
func (p *Pipeline) submitAll(ctx context.Context, n int, task func(i int)) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			task(i)
		})
		if err != nil {
			wg.Done()
			if errors.Is(err, ants.ErrPoolClosed) {
				return ErrPipelineReleased
			}
			return err
		}
	}

	return nil
}
