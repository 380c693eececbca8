package core

// Corpus is an ordered collection of entries with unique labels.
//
// Order is insertion order and is part of the contract: search output lists
// entries in exactly this order. Adding an entry whose label is already present
// replaces the text in place and keeps the original position.
//
// A Corpus is not safe for concurrent mutation. Readers may share it freely
// as long as no writer modifies it at the same time.
type Corpus struct {
	entries []Entry
	index   map[string]int
}

// NewCorpus creates a corpus from entries in the given order.
func NewCorpus(entries ...Entry) *Corpus {
	c := &Corpus{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add appends an entry, or overwrites the text of an existing entry with the same label.
// Returns true if the label was new.
func (c *Corpus) Add(e Entry) bool {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[e.Label]; ok {
		c.entries[i].Text = e.Text
		if !e.Date.IsZero() {
			c.entries[i].Date = e.Date
		}
		return false
	}
	c.index[e.Label] = len(c.entries)
	c.entries = append(c.entries, e)
	return true
}

// Put is shorthand for adding a label/text pair.
func (c *Corpus) Put(label, text string) bool {
	return c.Add(Entry{Label: label, Text: text})
}

// Get returns the entry with the given label.
func (c *Corpus) Get(label string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.index[label]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Len returns the number of entries.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns the entries in corpus order.
// The returned slice is shared with the corpus and must not be modified.
func (c *Corpus) Entries() []Entry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Labels returns the labels in corpus order.
func (c *Corpus) Labels() []string {
	labels := make([]string, 0, c.Len())
	for _, e := range c.Entries() {
		labels = append(labels, e.Label)
	}
	return labels
}
