package search

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track per-entry results during a search.
//
// Callbacks run on the goroutine that called Search, in corpus order,
// after all entries have been scanned.
type SearchMonitor interface {
	Start(query Query, entries int)
	EntryMatched(label string, sentences int, matches int)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query, _ int)                {}
func (n *noopMonitor) EntryMatched(_ string, _ int, _ int) {}
func (n *noopMonitor) Finish(_ *Result)                    {}
