// Package catalog loads the movie catalog from its tabular source, maintains
// the ordered entry sequence plus the derived title index, and owns the only
// write path into entries (poster backfill).
package catalog

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one movie in the catalog. Title is the only mandatory field.
type Entry struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Genres    string `json:"genres"`
	Overview  string `json:"overview"`
	Language  string `json:"language"`
	PosterURL string `json:"poster_url,omitempty"`
}

// Catalog holds the ordered entries and a lowercased title → position index.
// Entries are effectively immutable after load; the single exception is the
// poster URL, which SetPosterURL mutates under the lock. Catalog order is
// the ranking tie-break and the index axis of the similarity matrix, so
// nothing may reorder entries after construction.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
	byTitle map[string]int
}

// New builds a Catalog from an ordered entry slice. Duplicate titles resolve
// to the later entry (last write wins), matching sequential load order.
func New(entries []Entry) *Catalog {
	byTitle := make(map[string]int, len(entries))
	for i, e := range entries {
		byTitle[strings.ToLower(e.Title)] = i
	}
	return &Catalog{
		entries: entries,
		byTitle: byTitle,
	}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RowOf returns the position of the given title (case-insensitive exact
// match) and whether it exists.
func (c *Catalog) RowOf(title string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byTitle[strings.ToLower(title)]
	return i, ok
}

// EntryAt returns a copy of the entry at position i.
func (c *Catalog) EntryAt(i int) Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[i]
}

// Titles returns all titles in catalog order.
func (c *Catalog) Titles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	titles := make([]string, len(c.entries))
	for i, e := range c.entries {
		titles[i] = e.Title
	}
	return titles
}

// Documents returns the text fed into the vector space for every entry, in
// catalog order: title, overview, and genres joined with single spaces.
func (c *Catalog) Documents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	docs := make([]string, len(c.entries))
	for i, e := range c.entries {
		docs[i] = e.Title + " " + e.Overview + " " + e.Genres
	}
	return docs
}

// Snapshot returns a copy of all entries in catalog order.
func (c *Catalog) Snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]Entry, len(c.entries))
	copy(entries, c.entries)
	return entries
}

// SetPosterURL writes a poster URL into the entry at position i. It is the
// only mutation entry point on a loaded catalog; callers must follow a
// single-writer discipline for backfill runs.
func (c *Catalog) SetPosterURL(i int, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.entries) {
		return fmt.Errorf("poster write out of range: %d (catalog size %d)", i, len(c.entries))
	}
	c.entries[i].PosterURL = url
	return nil
}
