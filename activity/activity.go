package activity

import (
	"context"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/theme"
)

// Action describes a runtime style override mutation.
type Action string

const (
	ActionSet    Action = "set"
	ActionUnset  Action = "unset"
	ActionReload Action = "reload"
)

// UpdateEvent captures a runtime override mutation or registry reload.
type UpdateEvent struct {
	Name           string
	NormalizedName string
	Scope          theme.ScopeSet
	Actor          theme.ActorRef
	Action         Action
	// Config is the stored partial configuration for set actions.
	Config *composer.Config
	// Source names the file or backend for reload actions.
	Source string
}

// Hook receives update events.
type Hook interface {
	OnUpdate(ctx context.Context, event UpdateEvent)
}

// HookFunc wraps a function as a Hook.
type HookFunc func(context.Context, UpdateEvent)

// OnUpdate implements Hook.
func (fn HookFunc) OnUpdate(ctx context.Context, event UpdateEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}

// NoopHook ignores updates.
type NoopHook struct{}

// OnUpdate implements Hook.
func (NoopHook) OnUpdate(context.Context, UpdateEvent) {}

// Hooks fans an event out to several hooks.
type Hooks []Hook

// OnUpdate implements Hook.
func (h Hooks) OnUpdate(ctx context.Context, event UpdateEvent) {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.OnUpdate(ctx, event)
	}
}
