package routeradapter

import (
	"context"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/scope"
	"github.com/goliatone/go-twcomposer/theme"
)

// ClassResolver is the subset of resolver.Resolver used by handlers.
type ClassResolver interface {
	Class(ctx context.Context, name string, props composer.Props, opts ...theme.ResolveOption) (string, error)
	Slots(ctx context.Context, name string, props composer.Props, opts ...theme.ResolveOption) (composer.SlotClasses, error)
}

// Context extracts the standard context from a router context.
func Context(ctx router.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx.Context()
}

// ScopeSet derives a ScopeSet from a router context.
func ScopeSet(ctx router.Context) theme.ScopeSet {
	return scope.FromContext(Context(ctx))
}

// WithRouterContext returns a resolve option that uses scope derived from
// the router context.
func WithRouterContext(ctx router.Context) theme.ResolveOption {
	return theme.WithScopeSet(ScopeSet(ctx))
}

// Class resolves a component class string for the request scope.
func Class(ctx router.Context, resolver ClassResolver, name string, props composer.Props) (string, error) {
	if resolver == nil {
		return "", resolverRequired("class")
	}
	return resolver.Class(Context(ctx), name, props, WithRouterContext(ctx))
}

// Slots resolves slot class strings for the request scope.
func Slots(ctx router.Context, resolver ClassResolver, name string, props composer.Props) (map[string]string, error) {
	if resolver == nil {
		return nil, resolverRequired("slots")
	}
	slots, err := resolver.Slots(Context(ctx), name, props, WithRouterContext(ctx))
	if err != nil {
		return nil, err
	}
	return slots.Strings(), nil
}

func resolverRequired(operation string) error {
	return ferrors.WrapSentinel(ferrors.ErrResolverRequired, "routeradapter: resolver is required", map[string]any{
		ferrors.MetaAdapter:   "router",
		ferrors.MetaOperation: operation,
	})
}
