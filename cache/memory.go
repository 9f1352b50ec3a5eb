package cache

import (
	"context"
	"sync"

	"github.com/goliatone/go-twcomposer/theme"
)

// MemoryCache keeps resolved components in a map. Composers are immutable,
// so cached entries can be shared across goroutines.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[theme.ScopeSet]Entry
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]map[theme.ScopeSet]Entry{}}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, name string, scope theme.ScopeSet) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[name][scope]
	return entry, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, name string, scope theme.ScopeSet, entry Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]map[theme.ScopeSet]Entry{}
	}
	if c.entries[name] == nil {
		c.entries[name] = map[theme.ScopeSet]Entry{}
	}
	c.entries[name][scope] = entry
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Clear implements Cache.
func (c *MemoryCache) Clear(context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]map[theme.ScopeSet]Entry{}
}

// Len returns the number of cached entries across all names.
func (c *MemoryCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, scopes := range c.entries {
		total += len(scopes)
	}
	return total
}

var _ Cache = (*MemoryCache)(nil)
