package search

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/diarium/core"
)

// Query is a single search request.
type Query struct {
	Pattern string // Word to look for. An empty pattern matches nothing.
	Exact   bool   // Case-insensitive equality instead of the fuzzy heuristic
}

// Result is the output of a search.
// Count always equals the number of match marker pairs in RenderedText.
type Result struct {
	RenderedText string
	Count        int
}

// Finder scans a corpus for a word and renders the matching sentences.
// A Finder is safe for concurrent use; every call to Search starts from a clean slate.
type Finder struct {
	pool        *ants.Pool
	markers     Markers
	highlighter *Highlighter
	logger      *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder) error

// WithPoolSize sets the number of entries scanned concurrently.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(f *Finder) error {
		if size < 1 {
			size = 1
		}

		if f.pool != nil {
			f.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		f.pool = pool
		return nil
	}
}

// WithMarkers sets the delimiters written around matches and labels.
// Default is DefaultMarkers().
func WithMarkers(markers Markers) Option {
	return func(f *Finder) error {
		if err := markers.Validate(); err != nil {
			return err
		}
		f.markers = markers
		f.highlighter = NewHighlighter(markers)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFinder creates a new finder.
func NewFinder(opts ...Option) (*Finder, error) {
	pool, err := ants.NewPool(runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	markers := DefaultMarkers()
	f := &Finder{
		pool:        pool,
		markers:     markers,
		highlighter: NewHighlighter(markers),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			f.Release()
			return nil, err
		}
	}

	return f, nil
}

// Markers returns the markers this finder writes.
func (f *Finder) Markers() Markers {
	return f.markers
}

// Search scans every entry of corpus for query.Pattern.
//
// For each entry with at least one matching sentence the output holds the
// wrapped label line, one highlighted line per matching sentence (in text order)
// and a blank line. Entries appear in corpus order regardless of which finished
// first. The corpus must not be modified while Search runs.
//
// Errors are only returned when ctx is cancelled or the finder was released.
func (f *Finder) Search(ctx context.Context, corpus *core.Corpus, query Query) (*Result, error) {
	return f.SearchWithMonitor(ctx, corpus, query, nil)
}

// SearchWithMonitor is Search with monitoring.
// The monitor receives a callback for every entry that contributed output.
func (f *Finder) SearchWithMonitor(ctx context.Context, corpus *core.Corpus, query Query, monitor SearchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	entries := corpus.Entries()
	monitor.Start(query, len(entries))

	// One slot per entry; each task writes only its own slot.
	slots := make([]fragment, len(entries))
	if query.Pattern != "" {
		if err := f.scanAll(ctx, entries, query, slots); err != nil {
			return nil, err
		}
	}

	var sb strings.Builder
	total := 0
	for i, slot := range slots {
		if slot.sentences == 0 {
			continue
		}
		sb.WriteString(slot.text)
		total += slot.count
		monitor.EntryMatched(entries[i].Label, slot.sentences, slot.count)
	}

	result := &Result{
		RenderedText: sb.String(),
		Count:        total,
	}
	f.logger.Debug("search finished",
		"pattern", query.Pattern, "exact", query.Exact,
		"entries", len(entries), "matches", total)
	monitor.Finish(result)

	return result, nil
}

// Count returns only the number of matches of pattern in corpus.
func (f *Finder) Count(ctx context.Context, corpus *core.Corpus, pattern string, exact bool) (int, error) {
	result, err := f.Search(ctx, corpus, Query{Pattern: pattern, Exact: exact})
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

// Release releases the worker pool.
// The finder should not be used after calling Release.
func (f *Finder) Release() {
	if f.pool != nil {
		f.pool.Release()
	}
}

// fragment is the output of scanning a single entry.
type fragment struct {
	text      string
	sentences int
	count     int
}

// scanAll fans entries out to the pool and waits for every submitted task.
func (f *Finder) scanAll(ctx context.Context, entries []core.Entry, query Query, slots []fragment) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		wg.Add(1)
		err := f.pool.Submit(func() {
			defer wg.Done()
			slots[i] = f.scanEntry(&entries[i], query)
		})
		if err != nil {
			wg.Done()
			if errors.Is(err, ants.ErrPoolClosed) {
				return ErrFinderReleased
			}
			return err
		}
	}

	return nil
}

// scanEntry renders the matching sentences of a single entry.
func (f *Finder) scanEntry(entry *core.Entry, query Query) fragment {
	var frag fragment
	if entry.Text == "" {
		return frag
	}

	var sb strings.Builder
	for _, sentence := range SegmentSentences(entry.Text) {
		if !containsWord(sentence, query.Pattern, query.Exact) {
			continue
		}
		if frag.sentences == 0 {
			sb.WriteString(f.highlighter.RenderLabel(entry.Label))
			sb.WriteByte('\n')
		}
		line, n := f.highlighter.RenderSentence(sentence, query.Pattern, query.Exact)
		sb.WriteString(line)
		frag.sentences++
		frag.count += n
	}
	if frag.sentences > 0 {
		sb.WriteByte('\n')
	}

	frag.text = sb.String()
	return frag
}
