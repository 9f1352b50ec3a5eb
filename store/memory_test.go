package store

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/theme"
)

func TestChainOrdersLeastSpecificFirst(t *testing.T) {
	chain := Chain(theme.ScopeSet{TenantID: "acme", OrgID: "design", UserID: "u1"})
	levels := []Level{LevelSystem, LevelTenant, LevelOrg, LevelUser}
	if len(chain) != len(levels) {
		t.Fatalf("expected %d layers, got %d", len(levels), len(chain))
	}
	for i, level := range levels {
		if chain[i].Level != level {
			t.Fatalf("layer %d: expected %s, got %s", i, level, chain[i].Level)
		}
	}
	if chain[3].ID() != "u1" {
		t.Fatalf("expected user id, got %q", chain[3].ID())
	}
	if got := Chain(theme.ScopeSet{System: true, TenantID: "acme"}); len(got) != 1 {
		t.Fatalf("expected system scope to ignore identifiers, got %d layers", len(got))
	}
	if got := WriteLayer(theme.ScopeSet{TenantID: "acme", OrgID: "design"}); got.Level != LevelOrg {
		t.Fatalf("expected org write layer, got %s", got.Level)
	}
}

func TestMemoryStoreLayers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	system := composer.Config{Base: composer.C("rounded-none")}
	tenant := composer.Config{Base: composer.C("rounded-lg")}

	if err := s.Set(ctx, "Button", theme.ScopeSet{}, system, theme.ActorRef{}); err != nil {
		t.Fatalf("set system: %v", err)
	}
	if err := s.Set(ctx, "button", theme.ScopeSet{TenantID: "acme"}, tenant, theme.ActorRef{}); err != nil {
		t.Fatalf("set tenant: %v", err)
	}
	tenant.Base[0] = "mutated"

	layers, err := s.Get(ctx, "button", theme.ScopeSet{TenantID: "acme", UserID: "u1"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	if !layers[0].Override.HasValue() || layers[0].Override.Config.Base[0] != "rounded-none" {
		t.Fatalf("unexpected system layer: %+v", layers[0])
	}
	if !layers[1].Override.HasValue() || layers[1].Override.Config.Base[0] != "rounded-lg" {
		t.Fatalf("unexpected tenant layer: %+v", layers[1])
	}
	if layers[2].Override.State != theme.OverrideStateMissing {
		t.Fatalf("expected missing user layer, got %s", layers[2].Override.State)
	}

	if err := s.Unset(ctx, "button", theme.ScopeSet{TenantID: "acme"}, theme.ActorRef{}); err != nil {
		t.Fatalf("unset: %v", err)
	}
	layers, _ = s.Get(ctx, "button", theme.ScopeSet{TenantID: "acme"})
	if layers[1].Override.HasValue() {
		t.Fatalf("expected tenant layer cleared")
	}
	if !layers[0].Override.HasValue() {
		t.Fatalf("expected system layer kept")
	}
}

func TestMemoryStoreRequiresName(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), " ", theme.ScopeSet{})
	if !errors.Is(err, ferrors.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	var nilStore *MemoryStore
	if err := nilStore.Set(context.Background(), "x", theme.ScopeSet{}, composer.Config{}, theme.ActorRef{}); !errors.Is(err, ferrors.ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
}
