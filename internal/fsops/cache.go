package fsops

import (
	"strings"
	"sync"

	"organizer/internal/types"
)

// ListingCache holds recent directory listings keyed by workspace-relative
// directory. It is a read-through optimization only: callers that need the
// truth re-list the directory.
type ListingCache struct {
	mu      sync.RWMutex
	entries map[string][]types.DirectoryEntry
}

// NewListingCache returns an empty cache.
func NewListingCache() *ListingCache {
	return &ListingCache{entries: make(map[string][]types.DirectoryEntry)}
}

// Get returns a copy of the cached listing for dir.
func (c *ListingCache) Get(dir string) ([]types.DirectoryEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[dir]
	if !ok {
		return nil, false
	}
	return append([]types.DirectoryEntry(nil), e...), true
}

// Put stores the listing for dir.
func (c *ListingCache) Put(dir string, entries []types.DirectoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dir] = append([]types.DirectoryEntry(nil), entries...)
}

// Invalidate drops the listings of every given path, of everything below it
// and of its parent, since a mutation of p changes the listing that
// contains it.
func (c *ListingCache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		if p == "" {
			c.entries = make(map[string][]types.DirectoryEntry)
			return
		}
		delete(c.entries, p)
		delete(c.entries, types.ParentPath(p))
		prefix := p + "/"
		for dir := range c.entries {
			if strings.HasPrefix(dir, prefix) {
				delete(c.entries, dir)
			}
		}
	}
}

// Reset drops everything.
func (c *ListingCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]types.DirectoryEntry)
}

// Len returns the number of cached directories.
func (c *ListingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
