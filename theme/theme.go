package theme

import (
	"context"

	"github.com/goliatone/go-twcomposer/composer"
)

// ScopeSet captures the resolution scope for a theme lookup.
type ScopeSet struct {
	System   bool
	TenantID string
	OrgID    string
	UserID   string
}

// IsZero reports whether no scope identifiers are set.
func (s ScopeSet) IsZero() bool {
	return s == ScopeSet{}
}

// ScopeResolver derives a ScopeSet from context.
type ScopeResolver interface {
	Resolve(ctx context.Context) (ScopeSet, error)
}

// ResolveOption mutates a resolve request.
type ResolveOption func(*ResolveRequest)

// ResolveRequest captures optional inputs for a resolve call.
type ResolveRequest struct {
	ScopeSet *ScopeSet
}

// WithScopeSet forces a specific scope instead of deriving it from context.
func WithScopeSet(s ScopeSet) ResolveOption {
	return func(req *ResolveRequest) {
		if req == nil {
			return
		}
		req.ScopeSet = &s
	}
}

// Resolved is a component composer after scope overrides were applied.
// Exactly one of Composer or Slots is set.
type Resolved struct {
	Name     string
	Composer *composer.Composer
	Slots    *composer.SlotComposer
}

// Slotted reports whether the component has named slots.
func (r Resolved) Slotted() bool {
	return r.Slots != nil
}

// Class returns the class string for a plain component, or the base slot of
// a slotted one.
func (r Resolved) Class(props composer.Props) string {
	if r.Slots != nil {
		return r.Slots.Slots(props).Get(composer.BaseSlot)
	}
	return r.Composer.Class(props)
}

// SlotClasses returns per-slot classes. Plain components expose a single
// base slot.
func (r Resolved) SlotClasses(props composer.Props) composer.SlotClasses {
	if r.Slots != nil {
		return r.Slots.Slots(props)
	}
	out := r.Composer.Class(props)
	return composer.SlotClasses{composer.BaseSlot: func(extra ...any) string {
		if len(extra) == 0 {
			return out
		}
		return r.Composer.Class(composer.Props{Variants: props.Variants, Class: []any{props.Class, extra}})
	}}
}

// VariantKeys returns the declared variant names in order.
func (r Resolved) VariantKeys() []string {
	if r.Slots != nil {
		return r.Slots.VariantKeys()
	}
	return r.Composer.VariantKeys()
}

// Config returns a copy of the effective configuration.
func (r Resolved) Config() composer.Config {
	if r.Slots != nil {
		return r.Slots.Config()
	}
	return r.Composer.Config()
}

// ThemeResolver resolves component composers for the current scope.
type ThemeResolver interface {
	Resolve(ctx context.Context, name string, opts ...ResolveOption) (Resolved, error)
}

// TraceableThemeResolver adds explainability for theme resolution.
type TraceableThemeResolver interface {
	ThemeResolver
	ResolveWithTrace(ctx context.Context, name string, opts ...ResolveOption) (Resolved, ResolveTrace, error)
}

// MutableThemeResolver supports runtime style overrides.
type MutableThemeResolver interface {
	ThemeResolver
	Set(ctx context.Context, name string, scope ScopeSet, partial composer.Config, actor ActorRef) error
	Unset(ctx context.Context, name string, scope ScopeSet, actor ActorRef) error
}

// ActorRef identifies the actor making a change to runtime overrides.
type ActorRef struct {
	ID   string
	Type string
	Name string
}

// OverrideState captures whether a scope layer holds an override.
type OverrideState string

const (
	OverrideStateMissing OverrideState = "missing"
	OverrideStateSet     OverrideState = "set"
	OverrideStateUnset   OverrideState = "unset"
)
