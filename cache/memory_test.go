package cache

import (
	"context"
	"testing"

	"github.com/goliatone/go-twcomposer/theme"
)

func TestMemoryCacheDeleteDropsAllScopes(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	c.Set(ctx, "button", theme.ScopeSet{}, Entry{Resolved: theme.Resolved{Name: "button"}})
	c.Set(ctx, "button", theme.ScopeSet{TenantID: "acme"}, Entry{Resolved: theme.Resolved{Name: "button"}})
	c.Set(ctx, "card", theme.ScopeSet{}, Entry{Resolved: theme.Resolved{Name: "card"}})

	if entry, ok := c.Get(ctx, "button", theme.ScopeSet{TenantID: "acme"}); !ok || entry.Resolved.Name != "button" {
		t.Fatalf("expected cached entry, got %+v %v", entry, ok)
	}
	c.Delete(ctx, "button")
	if _, ok := c.Get(ctx, "button", theme.ScopeSet{}); ok {
		t.Fatalf("expected button entries dropped")
	}
	if c.Len() != 1 {
		t.Fatalf("expected card entry kept, got %d entries", c.Len())
	}
	c.Clear(ctx)
	if c.Len() != 0 {
		t.Fatalf("expected empty cache")
	}
}

func TestNoopCacheNeverHits(t *testing.T) {
	var c Cache = NoopCache{}
	c.Set(context.Background(), "button", theme.ScopeSet{}, Entry{})
	if _, ok := c.Get(context.Background(), "button", theme.ScopeSet{}); ok {
		t.Fatalf("expected noop cache miss")
	}
}
