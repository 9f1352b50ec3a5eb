package theme

import "context"

// ResolveSource captures which layer produced the final composer.
type ResolveSource string

const (
	ResolveSourceOverride ResolveSource = "override"
	ResolveSourceRegistry ResolveSource = "registry"
)

// LayerTrace records one scope layer consulted during resolution.
type LayerTrace struct {
	Level string
	Scope ScopeSet
	State OverrideState
}

// ResolveTrace captures provenance for a single component resolution.
type ResolveTrace struct {
	Name           string
	NormalizedName string
	Scope          ScopeSet
	Slotted        bool
	Source         ResolveSource
	Layers         []LayerTrace
	OverrideError  error
	CacheHit       bool
}

// Applied returns the layers that contributed an override, least specific
// first.
func (t ResolveTrace) Applied() []LayerTrace {
	var out []LayerTrace
	for _, layer := range t.Layers {
		if layer.State == OverrideStateSet {
			out = append(out, layer)
		}
	}
	return out
}

// ResolveEvent is emitted after resolution for hooks.
type ResolveEvent struct {
	Name           string
	NormalizedName string
	Scope          ScopeSet
	Source         ResolveSource
	Error          error
	Trace          ResolveTrace
}

// ResolveHook receives resolution events.
type ResolveHook interface {
	OnResolve(ctx context.Context, event ResolveEvent)
}

// ResolveHookFunc wraps a function as a ResolveHook.
type ResolveHookFunc func(context.Context, ResolveEvent)

// OnResolve implements ResolveHook.
func (fn ResolveHookFunc) OnResolve(ctx context.Context, event ResolveEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}
