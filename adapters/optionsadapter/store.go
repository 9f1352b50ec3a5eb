package optionsadapter

import (
	"context"
	"fmt"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/scope"
	"github.com/goliatone/go-twcomposer/store"
	"github.com/goliatone/go-twcomposer/styledoc"
	"github.com/goliatone/go-twcomposer/theme"
)

const (
	prioritySystem = 10
	priorityTenant = 20
	priorityOrg    = 30
	priorityUser   = 40
)

// DefaultDomain is the options domain used for style overrides.
const DefaultDomain = "style_overrides"

// ScopeBuilder maps a store layer to the go-options scope holding it.
type ScopeBuilder func(layer store.Layer) opts.Scope

// MetaBuilder builds storage metadata from an actor reference.
type MetaBuilder func(actor theme.ActorRef) state.Meta

// Option customizes the Store adapter.
type Option func(*Store)

// Store adapts a go-options state.Store into an override store. Each scope
// snapshot maps normalized component names to encoded partial
// configurations.
type Store struct {
	stateStore state.Store[map[string]any]
	domain     string
	scopes     ScopeBuilder
	meta       MetaBuilder
}

// NewStore constructs an adapter backed by a go-options state.Store.
func NewStore(stateStore state.Store[map[string]any], options ...Option) *Store {
	adapter := &Store{
		stateStore: stateStore,
		domain:     DefaultDomain,
		scopes:     defaultScope,
		meta:       defaultMeta,
	}
	for _, opt := range options {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.domain == "" {
		adapter.domain = DefaultDomain
	}
	if adapter.scopes == nil {
		adapter.scopes = defaultScope
	}
	if adapter.meta == nil {
		adapter.meta = defaultMeta
	}
	return adapter
}

// WithDomain sets the options domain used for style overrides.
func WithDomain(domain string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.domain = strings.TrimSpace(domain)
	}
}

// WithScopeBuilder overrides the default scope mapping.
func WithScopeBuilder(builder ScopeBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.scopes = builder
	}
}

// WithMetaBuilder overrides the metadata builder used on mutations.
func WithMetaBuilder(builder MetaBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.meta = builder
	}
}

// Get implements store.Reader.
func (s *Store) Get(ctx context.Context, name string, scopeSet theme.ScopeSet) ([]store.Layer, error) {
	if s == nil || s.stateStore == nil {
		return nil, s.storeRequired(name, scopeSet, "get")
	}
	normalized, err := s.normalize(name, scopeSet, "get")
	if err != nil {
		return nil, err
	}

	layers := store.Chain(scopeSet)
	for i := range layers {
		layers[i].Override = store.MissingOverride()
		scopeDef := s.scopes(layers[i])
		snapshot, _, ok, err := s.stateStore.Load(ctx, state.Ref{Domain: s.domain, Scope: scopeDef})
		if err != nil {
			meta := storeMeta(scopeDef, "load", s.domain)
			meta[ferrors.MetaComponent] = normalized
			return nil, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "optionsadapter: load failed", meta)
		}
		if !ok || len(snapshot) == 0 {
			continue
		}
		value, found := snapshot[normalized]
		if !found {
			continue
		}
		override, err := overrideFromValue(normalized, value, scopeDef, s.domain)
		if err != nil {
			return nil, err
		}
		layers[i].Override = override
	}
	return layers, nil
}

// Set implements store.Writer.
func (s *Store) Set(ctx context.Context, name string, scopeSet theme.ScopeSet, partial composer.Config, actor theme.ActorRef) error {
	encoded := styledoc.EncodeConfig(partial)
	return s.mutate(ctx, name, scopeSet, actor, "set", func(snapshot map[string]any, normalized string) {
		snapshot[normalized] = encoded
	})
}

// Unset implements store.Writer.
func (s *Store) Unset(ctx context.Context, name string, scopeSet theme.ScopeSet, actor theme.ActorRef) error {
	return s.mutate(ctx, name, scopeSet, actor, "unset", func(snapshot map[string]any, normalized string) {
		delete(snapshot, normalized)
	})
}

func (s *Store) mutate(ctx context.Context, name string, scopeSet theme.ScopeSet, actor theme.ActorRef, operation string, apply func(map[string]any, string)) error {
	if s == nil || s.stateStore == nil {
		return s.storeRequired(name, scopeSet, operation)
	}
	normalized, err := s.normalize(name, scopeSet, operation)
	if err != nil {
		return err
	}

	ref := state.Ref{Domain: s.domain, Scope: s.scopes(store.WriteLayer(scopeSet))}
	if ref.Scope.Name == "" {
		return ferrors.WrapSentinel(ferrors.ErrScopeRequired, "optionsadapter: scope is required", storeMeta(ref.Scope, operation, s.domain))
	}

	resolver := state.Resolver[map[string]any]{Store: s.stateStore}
	_, _, err = resolver.Mutate(ctx, ref, s.meta(actor), func(snapshot *map[string]any) error {
		if snapshot == nil {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotRequired, "optionsadapter: snapshot is nil", storeMeta(ref.Scope, operation, s.domain))
		}
		if *snapshot == nil {
			*snapshot = map[string]any{}
		}
		apply(*snapshot, normalized)
		return nil
	})
	if err != nil {
		meta := storeMeta(ref.Scope, operation, s.domain)
		meta[ferrors.MetaComponent] = normalized
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "optionsadapter: "+operation+" failed", meta)
	}
	return nil
}

func (s *Store) normalize(name string, scopeSet theme.ScopeSet, operation string) (string, error) {
	normalized := theme.NormalizeName(name)
	if normalized != "" {
		return normalized, nil
	}
	return "", ferrors.WrapSentinel(ferrors.ErrInvalidName, "optionsadapter: component name required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaDomain:    s.domain,
		ferrors.MetaScope:     scopeSet,
		ferrors.MetaOperation: operation,
		ferrors.MetaComponent: strings.TrimSpace(name),
	})
}

func (s *Store) storeRequired(name string, scopeSet theme.ScopeSet, operation string) error {
	domain := ""
	if s != nil {
		domain = s.domain
	}
	return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "optionsadapter: state store is required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaDomain:    domain,
		ferrors.MetaScope:     scopeSet,
		ferrors.MetaOperation: operation,
		ferrors.MetaComponent: strings.TrimSpace(name),
	})
}

func defaultScope(layer store.Layer) opts.Scope {
	switch layer.Level {
	case store.LevelTenant:
		return scoped("tenant", "Tenant", priorityTenant, scope.MetadataTenantID, layer.ID())
	case store.LevelOrg:
		return scoped("org", "Org", priorityOrg, scope.MetadataOrgID, layer.ID())
	case store.LevelUser:
		return scoped("user", "User", priorityUser, scope.MetadataUserID, layer.ID())
	default:
		return scoped("system", "System", prioritySystem, "", "")
	}
}

func scoped(name, label string, priority int, metadataKey, metadataValue string) opts.Scope {
	var metadata map[string]any
	if metadataKey != "" && metadataValue != "" {
		metadata = map[string]any{metadataKey: metadataValue}
	}
	return opts.NewScope(
		name,
		priority,
		opts.WithScopeLabel(label),
		opts.WithScopeMetadata(metadata),
	)
}

func defaultMeta(actor theme.ActorRef) state.Meta {
	extra := map[string]string{}
	if actor.ID != "" {
		extra["actor_id"] = actor.ID
	}
	if actor.Type != "" {
		extra["actor_type"] = actor.Type
	}
	if actor.Name != "" {
		extra["actor_name"] = actor.Name
	}
	if len(extra) == 0 {
		return state.Meta{}
	}
	return state.Meta{Extra: extra}
}

func overrideFromValue(name string, value any, scopeDef opts.Scope, domain string) (store.Override, error) {
	if value == nil {
		return store.UnsetOverride(), nil
	}
	switch value.(type) {
	case map[string]any, map[any]any, styledoc.OrderedMap:
	default:
		meta := storeMeta(scopeDef, "decode", domain)
		meta[ferrors.MetaComponent] = name
		return store.MissingOverride(), ferrors.NewExternal(ferrors.TextCodeOverrideTypeInvalid, fmt.Sprintf("optionsadapter: unsupported override type %T", value), meta)
	}
	partial, err := styledoc.DecodeConfig(value)
	if err != nil {
		meta := storeMeta(scopeDef, "decode", domain)
		meta[ferrors.MetaComponent] = name
		return store.MissingOverride(), ferrors.WrapBadInput(err, ferrors.TextCodeOverrideTypeInvalid, "", meta)
	}
	return store.SetOverride(partial), nil
}

func storeMeta(scopeDef opts.Scope, operation, domain string) map[string]any {
	meta := map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaOperation: operation,
		ferrors.MetaScope:     scopeDef,
	}
	if strings.TrimSpace(domain) != "" {
		meta[ferrors.MetaDomain] = strings.TrimSpace(domain)
	}
	return meta
}

var _ store.ReadWriter = (*Store)(nil)
