package goauthadapter

import (
	"context"
	"testing"

	"github.com/goliatone/go-auth"

	"github.com/goliatone/go-twcomposer/scope"
)

func extractorFor(actor *auth.ActorContext) ActorExtractor {
	return func(context.Context) (*auth.ActorContext, bool) {
		return actor, actor != nil
	}
}

func TestScopeResolverUsesActorClaims(t *testing.T) {
	resolver := NewScopeResolver(WithActorExtractor(extractorFor(&auth.ActorContext{
		Subject:        "subject-1",
		TenantID:       "acme",
		OrganizationID: "org-1",
	})))

	got, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TenantID != "acme" || got.OrgID != "org-1" || got.UserID != "subject-1" {
		t.Fatalf("unexpected scope: %+v", got)
	}
}

func TestScopeResolverPrefersExplicitContext(t *testing.T) {
	resolver := NewScopeResolver(WithActorExtractor(extractorFor(&auth.ActorContext{
		ActorID:  "user-1",
		TenantID: "acme",
	})))

	ctx := scope.WithTenantID(context.Background(), "globex")
	got, err := resolver.Resolve(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TenantID != "globex" || got.UserID != "user-1" {
		t.Fatalf("unexpected scope: %+v", got)
	}

	got, err = resolver.Resolve(scope.WithSystem(context.Background(), true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.System || got.TenantID != "" {
		t.Fatalf("expected system scope, got %+v", got)
	}
}

func TestScopeResolverWithoutActor(t *testing.T) {
	resolver := NewScopeResolver(WithActorExtractor(extractorFor(nil)))
	got, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected empty scope, got %+v", got)
	}
}

func TestActorRefAndContextScope(t *testing.T) {
	actor := &auth.ActorContext{ActorID: "user-9", Subject: "user", Role: "admin", TenantID: "acme"}
	ref := ActorRefFromActor(actor)
	if ref.ID != "user-9" || ref.Name != "admin" {
		t.Fatalf("unexpected actor ref: %+v", ref)
	}
	ctx := WithActorScope(context.Background(), actor)
	if scope.TenantID(ctx) != "acme" || scope.UserID(ctx) != "user-9" {
		t.Fatalf("expected actor scope on context")
	}
}
