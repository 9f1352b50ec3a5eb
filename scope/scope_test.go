package scope

import (
	"context"
	"testing"

	"github.com/goliatone/go-twcomposer/theme"
)

func TestScopeHelpersNoopAndClear(t *testing.T) {
	ctx := context.Background()
	ctx = WithTenantID(ctx, "  acme ")
	ctx = WithOrgID(ctx, " design ")
	ctx = WithUserID(ctx, " user-123 ")

	if got := TenantID(ctx); got != "acme" {
		t.Fatalf("TenantID() = %q, want %q", got, "acme")
	}
	if got := OrgID(ctx); got != "design" {
		t.Fatalf("OrgID() = %q, want %q", got, "design")
	}
	if got := UserID(ctx); got != "user-123" {
		t.Fatalf("UserID() = %q, want %q", got, "user-123")
	}

	ctx = WithTenantID(ctx, " ")
	ctx = WithOrgID(ctx, "")
	ctx = WithUserID(ctx, "\n\t")

	if got := TenantID(ctx); got != "acme" {
		t.Fatalf("TenantID() after no-op = %q, want %q", got, "acme")
	}
	if got := UserID(ctx); got != "user-123" {
		t.Fatalf("UserID() after no-op = %q, want %q", got, "user-123")
	}

	ctx = ClearTenantID(ctx)
	ctx = ClearOrgID(ctx)
	ctx = ClearUserID(ctx)

	if got := FromContext(ctx); got != (theme.ScopeSet{}) {
		t.Fatalf("FromContext() after clear = %+v, want empty", got)
	}
}

func TestFromContextSystemOverride(t *testing.T) {
	ctx := context.Background()
	ctx = WithTenantID(ctx, "acme")
	ctx = WithUserID(ctx, "user-123")
	ctx = WithSystem(ctx, true)

	got := FromContext(ctx)
	want := theme.ScopeSet{System: true}
	if got != want {
		t.Fatalf("FromContext() = %+v, want %+v", got, want)
	}
}

func TestWithScopeSetRoundTrip(t *testing.T) {
	want := theme.ScopeSet{TenantID: "acme", OrgID: "design", UserID: "u1"}
	ctx := WithScopeSet(context.Background(), want)
	got, err := Resolver{}.Resolve(ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestFromContextNil(t *testing.T) {
	var ctx context.Context
	if got := FromContext(ctx); got != (theme.ScopeSet{}) {
		t.Fatalf("FromContext(nil) = %+v, want empty ScopeSet", got)
	}
}
