package stats

import (
	"cmp"
	"slices"
	"strings"
)

// WordCount pairs a word with its number of occurrences.
type WordCount struct {
	Word  string
	Count int
}

// Table is an immutable word-frequency table.
type Table struct {
	counts map[string]int
	total  int
}

// NewTable builds a table from counts. The map is copied.
func NewTable(counts map[string]int) *Table {
	t := &Table{counts: make(map[string]int, len(counts))}
	for w, n := range counts {
		if n <= 0 {
			continue
		}
		t.counts[w] = n
		t.total += n
	}
	return t
}

// Total returns the number of words counted.
func (t *Table) Total() int {
	return t.total
}

// Unique returns the number of distinct words.
func (t *Table) Unique() int {
	return len(t.counts)
}

// Occurrences returns how often word occurs. The lookup is case-insensitive.
func (t *Table) Occurrences(word string) int {
	return t.counts[strings.ToLower(word)]
}

// MostFrequent returns up to n words ordered by count descending.
// Words with equal counts are ordered alphabetically.
func (t *Table) MostFrequent(n int) []WordCount {
	if n <= 0 {
		return nil
	}

	all := make([]WordCount, 0, len(t.counts))
	for w, c := range t.counts {
		all = append(all, WordCount{Word: w, Count: c})
	}
	slices.SortFunc(all, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})

	if len(all) > n {
		all = all[:n]
	}
	return all
}
