package stats

import (
	"math/rand/v2"

	"github.com/poiesic/diarium/core"
)

// LongestEntry returns the entry with the most whitespace-separated words.
// On a tie the later entry in corpus order wins. Returns false for an empty corpus.
func LongestEntry(corpus *core.Corpus) (core.Entry, int, bool) {
	var (
		best      core.Entry
		bestCount = -1
	)
	for _, e := range corpus.Entries() {
		if n := e.WordCount(); n >= bestCount {
			best, bestCount = e, n
		}
	}
	if bestCount < 0 {
		return core.Entry{}, 0, false
	}
	return best, bestCount, true
}

// RandomEntry picks an entry uniformly at random using rng.
// A nil rng uses the global source. Returns false for an empty corpus.
func RandomEntry(corpus *core.Corpus, rng *rand.Rand) (core.Entry, bool) {
	entries := corpus.Entries()
	if len(entries) == 0 {
		return core.Entry{}, false
	}

	var i int
	if rng == nil {
		i = rand.IntN(len(entries))
	} else {
		i = rng.IntN(len(entries))
	}
	return entries[i], true
}
