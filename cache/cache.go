package cache

import (
	"context"

	"github.com/goliatone/go-twcomposer/theme"
)

// Entry stores a resolved component and its trace.
type Entry struct {
	Resolved theme.Resolved
	Trace    theme.ResolveTrace
}

// Cache stores resolved components by name and scope.
type Cache interface {
	Get(ctx context.Context, name string, scope theme.ScopeSet) (Entry, bool)
	Set(ctx context.Context, name string, scope theme.ScopeSet, entry Entry)
	// Delete drops every scope cached for name.
	Delete(ctx context.Context, name string)
	Clear(ctx context.Context)
}

// NoopCache ignores all cache operations.
type NoopCache struct{}

// Get implements Cache.
func (NoopCache) Get(context.Context, string, theme.ScopeSet) (Entry, bool) {
	return Entry{}, false
}

// Set implements Cache.
func (NoopCache) Set(context.Context, string, theme.ScopeSet, Entry) {}

// Delete implements Cache.
func (NoopCache) Delete(context.Context, string) {}

// Clear implements Cache.
func (NoopCache) Clear(context.Context) {}

var _ Cache = NoopCache{}
