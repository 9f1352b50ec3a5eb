package store

import (
	"context"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/theme"
)

// Level names a scope layer.
type Level string

const (
	LevelSystem Level = "system"
	LevelTenant Level = "tenant"
	LevelOrg    Level = "org"
	LevelUser   Level = "user"
)

// Override is a partial configuration stored for one component at one
// scope layer. It is applied with composer.Merge on top of the registry
// definition.
type Override struct {
	State  theme.OverrideState
	Config composer.Config
}

// MissingOverride builds a placeholder override for absent layers.
func MissingOverride() Override {
	return Override{State: theme.OverrideStateMissing}
}

// UnsetOverride builds a placeholder override for explicit unsets.
func UnsetOverride() Override {
	return Override{State: theme.OverrideStateUnset}
}

// SetOverride wraps a partial configuration.
func SetOverride(cfg composer.Config) Override {
	return Override{State: theme.OverrideStateSet, Config: cfg.Clone()}
}

// HasValue reports whether the override carries a configuration.
func (o Override) HasValue() bool {
	return o.State == theme.OverrideStateSet
}

// Layer is one scope layer of a lookup.
type Layer struct {
	Level    Level
	Scope    theme.ScopeSet
	Override Override
}

// Reader resolves stored overrides. Layers are returned least specific
// first: system, tenant, org, user.
type Reader interface {
	Get(ctx context.Context, name string, scope theme.ScopeSet) ([]Layer, error)
}

// Writer stores overrides at the most specific layer of scope.
type Writer interface {
	Set(ctx context.Context, name string, scope theme.ScopeSet, partial composer.Config, actor theme.ActorRef) error
	Unset(ctx context.Context, name string, scope theme.ScopeSet, actor theme.ActorRef) error
}

// ReadWriter is a combined reader/writer.
type ReadWriter interface {
	Reader
	Writer
}

// Chain expands scope into the layers consulted on read, least specific
// first.
func Chain(scope theme.ScopeSet) []Layer {
	layers := []Layer{{Level: LevelSystem, Scope: theme.ScopeSet{System: true}}}
	if scope.System {
		return layers
	}
	if scope.TenantID != "" {
		layers = append(layers, Layer{Level: LevelTenant, Scope: theme.ScopeSet{TenantID: scope.TenantID}})
	}
	if scope.OrgID != "" {
		layers = append(layers, Layer{Level: LevelOrg, Scope: theme.ScopeSet{OrgID: scope.OrgID}})
	}
	if scope.UserID != "" {
		layers = append(layers, Layer{Level: LevelUser, Scope: theme.ScopeSet{UserID: scope.UserID}})
	}
	return layers
}

// WriteLayer returns the most specific layer of scope.
func WriteLayer(scope theme.ScopeSet) Layer {
	chain := Chain(scope)
	return chain[len(chain)-1]
}

// ID returns the layer identifier: empty for system, otherwise the tenant,
// org or user id.
func (l Layer) ID() string {
	switch l.Level {
	case LevelTenant:
		return l.Scope.TenantID
	case LevelOrg:
		return l.Scope.OrgID
	case LevelUser:
		return l.Scope.UserID
	default:
		return ""
	}
}
