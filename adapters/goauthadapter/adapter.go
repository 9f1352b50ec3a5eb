package goauthadapter

import (
	"context"

	"github.com/goliatone/go-auth"

	"github.com/goliatone/go-twcomposer/scope"
	"github.com/goliatone/go-twcomposer/theme"
)

// ActorExtractor extracts an auth.ActorContext from context.
type ActorExtractor func(context.Context) (*auth.ActorContext, bool)

// Option customizes the scope resolver behavior.
type Option func(*ScopeResolver)

// ScopeResolver derives theme scopes from go-auth actor context. Scope
// values already placed on the context win over actor claims.
type ScopeResolver struct {
	extractor ActorExtractor
}

// NewScopeResolver builds a resolver using go-auth's actor context extractor.
func NewScopeResolver(opts ...Option) *ScopeResolver {
	resolver := &ScopeResolver{
		extractor: auth.ActorFromContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(resolver)
		}
	}
	if resolver.extractor == nil {
		resolver.extractor = auth.ActorFromContext
	}
	return resolver
}

// WithActorExtractor overrides the actor context extractor.
func WithActorExtractor(extractor ActorExtractor) Option {
	return func(resolver *ScopeResolver) {
		if resolver == nil {
			return
		}
		resolver.extractor = extractor
	}
}

// Resolve implements theme.ScopeResolver..
func (r *ScopeResolver) Resolve(ctx context.Context) (theme.ScopeSet, error) {
	if r == nil || r.extractor == nil {
		return theme.ScopeSet{}, nil
	}
	explicit := scope.FromContext(ctx)
	if explicit.System {
		return explicit, nil
	}
	actor, ok := r.extractor(ctx)
	if !ok || actor == nil {
		return explicit, nil
	}
	derived := ScopeFromActor(actor)
	if explicit.TenantID != "" {
		derived.TenantID = explicit.TenantID
	}
	if explicit.OrgID != "" {
		derived.OrgID = explicit.OrgID
	}
	if explicit.UserID != "" {
		derived.UserID = explicit.UserID
	}
	return derived, nil
}

// WithActorScope stores the actor derived scope on ctx so scope.FromContext
// and the default resolver see it.
func WithActorScope(ctx context.Context, actor *auth.ActorContext) context.Context {
	return scope.WithScopeSet(ctx, ScopeFromActor(actor))
}

// ScopeFromActor builds a ScopeSet from an auth.ActorContext.
func ScopeFromActor(actor *auth.ActorContext) theme.ScopeSet {
	if actor == nil {
		return theme.ScopeSet{}
	}
	userID := actor.ActorID
	if userID == "" {
		userID = actor.Subject
	}
	return theme.ScopeSet{
		TenantID: actor.TenantID,
		OrgID:    actor.OrganizationID,
		UserID:   userID,
	}
}

// ActorRefFromActor builds an ActorRef from an auth.ActorContext.
func ActorRefFromActor(actor *auth.ActorContext) theme.ActorRef {
	if actor == nil {
		return theme.ActorRef{}
	}
	id := actor.ActorID
	if id == "" {
		id = actor.Subject
	}
	return theme.ActorRef{
		ID:   id,
		Type: actor.Subject,
		Name: actor.Role,
	}
}

// ActorRefFromContext extracts an ActorRef from context.
func ActorRefFromContext(ctx context.Context) (theme.ActorRef, bool) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok || actor == nil {
		return theme.ActorRef{}, false
	}
	return ActorRefFromActor(actor), true
}

var _ theme.ScopeResolver = (*ScopeResolver)(nil)
