package post

import "slices"

// Entry is one post in a collection. Post is set when the body was parsed
// while building the index.
type Entry struct {
	Summary Summary
	Post    *ParsedPost
}

// Collection is an ordered, read-only set of posts. Rebuilding produces a new
// value; nothing mutates one after NewCollection returns.
type Collection struct {
	strategy Strategy
	entries  []Entry
}

// NewCollection sorts a copy of entries.
func NewCollection(strategy Strategy, entries []Entry) *Collection {
	sorted := slices.Clone(entries)
	SortEntries(sorted)
	return &Collection{strategy: strategy, entries: sorted}
}

func (c *Collection) Strategy() Strategy {
	if c == nil {
		return ""
	}
	return c.strategy
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the ordered entries.
func (c *Collection) Entries() []Entry {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}

// Summaries returns the ordered summaries.
func (c *Collection) Summaries() []Summary {
	if c == nil {
		return nil
	}
	out := make([]Summary, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Summary
	}
	return out
}

// First returns the default post.
func (c *Collection) First() (Entry, bool) {
	if c.Len() == 0 {
		return Entry{}, false
	}
	return c.entries[0], true
}

// Find returns the first entry whose slug or source name equals id.
// An empty id selects the default post. Duplicates resolve to the earliest
// entry in collection order.
func (c *Collection) Find(id string) (Entry, bool) {
	if id == "" {
		return c.First()
	}
	if c == nil {
		return Entry{}, false
	}
	for _, e := range c.entries {
		if e.Summary.Slug == id || e.Summary.SourceName == id {
			return e, true
		}
	}
	return Entry{}, false
}
