package resolver

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-twcomposer/activity"
	"github.com/goliatone/go-twcomposer/cache"
	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/registry"
	"github.com/goliatone/go-twcomposer/scope"
	"github.com/goliatone/go-twcomposer/store"
	"github.com/goliatone/go-twcomposer/theme"
)

// ErrComponentNotFound signals a name missing from the registry.
var ErrComponentNotFound = ferrors.ErrComponentNotFound

// ErrStoreUnavailable signals a missing runtime override store.
var ErrStoreUnavailable = ferrors.ErrStoreUnavailable

type versioned interface {
	Version() uint64
}

// Resolver builds component composers from the registry and the stored
// scope overrides. Overrides are applied with Extend, least specific first,
// so user overrides win over org, tenant and system ones.
type Resolver struct {
	registry      registry.Registry
	overrides     store.Reader
	writer        store.Writer
	scopeResolver theme.ScopeResolver
	cache         cache.Cache
	hooks         []theme.ResolveHook
	updateHooks   []activity.Hook
	strictStore   bool

	group       singleflight.Group
	versionMu   sync.Mutex
	seenVersion uint64

	genMu   sync.Mutex
	epoch   uint64
	gens    map[string]uint64
	flights map[string]map[string]int
}

// generation identifies the state of the overrides a build read. Builds
// whose generation moved while they ran do not populate the cache.
type generation struct {
	epoch uint64
	name  uint64
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithRegistry sets the component registry.
func WithRegistry(reg registry.Registry) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.registry = reg
	}
}

// WithOverrideStore sets the runtime override reader.
func WithOverrideStore(reader store.Reader) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.overrides = reader
		if writer, ok := reader.(store.Writer); ok {
			r.writer = writer
		}
	}
}

// WithOverrideWriter sets the runtime override writer.
func WithOverrideWriter(writer store.Writer) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.writer = writer
	}
}

// WithScopeResolver overrides scope derivation.
func WithScopeResolver(resolver theme.ScopeResolver) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.scopeResolver = resolver
	}
}

// WithCache sets the cache implementation.
func WithCache(c cache.Cache) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.cache = c
	}
}

// WithResolveHook registers a resolve hook.
func WithResolveHook(hook theme.ResolveHook) Option {
	return func(r *Resolver) {
		if r == nil || hook == nil {
			return
		}
		r.hooks = append(r.hooks, hook)
	}
}

// WithActivityHook registers an update hook.
func WithActivityHook(hook activity.Hook) Option {
	return func(r *Resolver) {
		if r == nil || hook == nil {
			return
		}
		r.updateHooks = append(r.updateHooks, hook)
	}
}

// WithStrictStore fails resolution on store errors or invalid stored
// overrides instead of falling back to the registry composer.
func WithStrictStore(strict bool) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.strictStore = strict
	}
}

// New constructs a Resolver with the provided options.
func New(options ...Option) *Resolver {
	r := &Resolver{cache: cache.NoopCache{}}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.cache == nil {
		r.cache = cache.NoopCache{}
	}
	if r.scopeResolver == nil {
		r.scopeResolver = scope.Resolver{}
	}
	return r
}

// Resolve returns the composer for name in the current scope.
func (r *Resolver) Resolve(ctx context.Context, name string, opts ...theme.ResolveOption) (theme.Resolved, error) {
	resolved, _, err := r.resolve(ctx, name, opts...)
	return resolved, err
}

// ResolveWithTrace resolves name and returns trace data.
func (r *Resolver) ResolveWithTrace(ctx context.Context, name string, opts ...theme.ResolveOption) (theme.Resolved, theme.ResolveTrace, error) {
	return r.resolve(ctx, name, opts...)
}

// Composer resolves a plain component.
func (r *Resolver) Composer(ctx context.Context, name string, opts ...theme.ResolveOption) (*composer.Composer, error) {
	resolved, err := r.Resolve(ctx, name, opts...)
	if err != nil {
		return nil, err
	}
	if resolved.Composer == nil {
		return nil, kindMismatch(resolved.Name, "plain")
	}
	return resolved.Composer, nil
}

// SlotComposer resolves a slotted component.
func (r *Resolver) SlotComposer(ctx context.Context, name string, opts ...theme.ResolveOption) (*composer.SlotComposer, error) {
	resolved, err := r.Resolve(ctx, name, opts...)
	if err != nil {
		return nil, err
	}
	if resolved.Slots == nil {
		return nil, kindMismatch(resolved.Name, "slotted")
	}
	return resolved.Slots, nil
}

// Class resolves name and composes props. Slotted components return their
// base slot.
func (r *Resolver) Class(ctx context.Context, name string, props composer.Props, opts ...theme.ResolveOption) (string, error) {
	resolved, err := r.Resolve(ctx, name, opts...)
	if err != nil {
		return "", err
	}
	return resolved.Class(props), nil
}

// Slots resolves name and composes every slot.
func (r *Resolver) Slots(ctx context.Context, name string, props composer.Props, opts ...theme.ResolveOption) (composer.SlotClasses, error) {
	resolved, err := r.Resolve(ctx, name, opts...)
	if err != nil {
		return nil, err
	}
	return resolved.SlotClasses(props), nil
}

// Set stores a partial configuration for name at the most specific layer of
// scopeSet. The override is validated against the registry definition before
// it is written.
func (r *Resolver) Set(ctx context.Context, name string, scopeSet theme.ScopeSet, partial composer.Config, actor theme.ActorRef) error {
	trimmed := strings.TrimSpace(name)
	normalized := theme.NormalizeName(trimmed)
	meta := func(operation string) map[string]any {
		return map[string]any{
			ferrors.MetaComponent:     trimmed,
			ferrors.MetaComponentNorm: normalized,
			ferrors.MetaScope:         scopeSet,
			ferrors.MetaStore:         "override",
			ferrors.MetaOperation:     operation,
		}
	}
	if r.writer == nil {
		return ferrors.WrapSentinel(ferrors.ErrStoreUnavailable, "", meta("set"))
	}
	if normalized == "" {
		return ferrors.WrapSentinel(ferrors.ErrInvalidName, "", meta("set"))
	}
	base, err := r.lookup(normalized, meta("set"))
	if err != nil {
		return err
	}
	if _, err := extend(base, partial); err != nil {
		return err
	}
	if err := r.writer.Set(ctx, normalized, scopeSet, partial, actor); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "override store set failed", meta("set"))
	}
	r.invalidate(ctx, normalized)
	stored := partial.Clone()
	r.emitUpdate(ctx, activity.UpdateEvent{
		Name:           trimmed,
		NormalizedName: normalized,
		Scope:          scopeSet,
		Actor:          actor,
		Action:         activity.ActionSet,
		Config:         &stored,
	})
	return nil
}

// Unset clears the override for name at the most specific layer of scopeSet.
func (r *Resolver) Unset(ctx context.Context, name string, scopeSet theme.ScopeSet, actor theme.ActorRef) error {
	trimmed := strings.TrimSpace(name)
	normalized := theme.NormalizeName(trimmed)
	meta := map[string]any{
		ferrors.MetaComponent:     trimmed,
		ferrors.MetaComponentNorm: normalized,
		ferrors.MetaScope:         scopeSet,
		ferrors.MetaStore:         "override",
		ferrors.MetaOperation:     "unset",
	}
	if r.writer == nil {
		return ferrors.WrapSentinel(ferrors.ErrStoreUnavailable, "", meta)
	}
	if normalized == "" {
		return ferrors.WrapSentinel(ferrors.ErrInvalidName, "", meta)
	}
	if err := r.writer.Unset(ctx, normalized, scopeSet, actor); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "override store unset failed", meta)
	}
	r.invalidate(ctx, normalized)
	r.emitUpdate(ctx, activity.UpdateEvent{
		Name:           trimmed,
		NormalizedName: normalized,
		Scope:          scopeSet,
		Actor:          actor,
		Action:         activity.ActionUnset,
	})
	return nil
}

// Invalidate drops cached composers. With no names the whole cache is
// cleared.
func (r *Resolver) Invalidate(ctx context.Context, names ...string) {
	if len(names) == 0 {
		r.invalidate(ctx, "")
		return
	}
	for _, name := range names {
		if normalized := theme.NormalizeName(name); normalized != "" {
			r.invalidate(ctx, normalized)
		}
	}
}

// OnUpdate lets the resolver observe registry reloads so stale composers
// are dropped.
func (r *Resolver) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if event.Action != activity.ActionReload {
		return
	}
	r.invalidate(ctx, "")
	r.emitUpdate(ctx, event)
}

func (r *Resolver) resolve(ctx context.Context, name string, opts ...theme.ResolveOption) (theme.Resolved, theme.ResolveTrace, error) {
	trimmed := strings.TrimSpace(name)
	normalized := theme.NormalizeName(trimmed)
	trace := theme.ResolveTrace{
		Name:           trimmed,
		NormalizedName: normalized,
		Source:         theme.ResolveSourceRegistry,
	}
	if normalized == "" {
		err := ferrors.WrapSentinel(ferrors.ErrInvalidName, "", map[string]any{
			ferrors.MetaComponent:     trimmed,
			ferrors.MetaComponentNorm: normalized,
			ferrors.MetaOperation:     "resolve",
		})
		r.emitResolve(ctx, trace, err)
		return theme.Resolved{}, trace, err
	}

	scopeSet, err := r.resolveScope(ctx, opts...)
	trace.Scope = scopeSet
	if err != nil {
		err = ferrors.WrapExternal(err, ferrors.TextCodeScopeResolveFailed, "scope resolution failed", map[string]any{
			ferrors.MetaComponent:     trimmed,
			ferrors.MetaComponentNorm: normalized,
			ferrors.MetaOperation:     "resolve_scope",
		})
		r.emitResolve(ctx, trace, err)
		return theme.Resolved{}, trace, err
	}

	r.checkRegistryVersion(ctx)

	if entry, ok := r.cache.Get(ctx, normalized, scopeSet); ok {
		cached := entry.Trace
		cached.Name = trimmed
		cached.CacheHit = true
		r.emitResolve(ctx, cached, nil)
		return entry.Resolved, cached, nil
	}

	key := flightKey(normalized, scopeSet)
	r.track(normalized, key)
	value, err, _ := r.group.Do(key, func() (any, error) {
		resolved, built, buildErr := r.build(ctx, normalized, scopeSet, trace)
		return flight{resolved: resolved, trace: built}, buildErr
	})
	r.untrack(normalized, key)
	result, _ := value.(flight)
	result.trace.Name = trimmed
	r.emitResolve(ctx, result.trace, err)
	if err != nil {
		return theme.Resolved{}, result.trace, err
	}
	return result.resolved, result.trace, nil
}

type flight struct {
	resolved theme.Resolved
	trace    theme.ResolveTrace
}

func (r *Resolver) build(ctx context.Context, normalized string, scopeSet theme.ScopeSet, trace theme.ResolveTrace) (theme.Resolved, theme.ResolveTrace, error) {
	meta := map[string]any{
		ferrors.MetaComponent:     trace.Name,
		ferrors.MetaComponentNorm: normalized,
		ferrors.MetaScope:         scopeSet,
		ferrors.MetaOperation:     "resolve",
	}
	gen := r.generation(normalized)
	base, err := r.lookup(normalized, meta)
	if err != nil {
		return theme.Resolved{}, trace, err
	}
	trace.Slotted = base.Slotted()
	if r.overrides == nil {
		r.cacheEntry(ctx, normalized, scopeSet, cache.Entry{Resolved: base, Trace: trace}, gen)
		return base, trace, nil
	}

	layers, err := r.overrides.Get(ctx, normalized, scopeSet)
	if err != nil {
		storeErr := ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "override store read failed", withMeta(meta, map[string]any{
			ferrors.MetaStore: "override",
		}))
		trace.OverrideError = storeErr
		if r.strictStore {
			return theme.Resolved{}, trace, storeErr
		}
		return base, trace, nil
	}

	resolved := base
	for _, layer := range layers {
		state := layer.Override.State
		if state == "" {
			state = theme.OverrideStateMissing
		}
		trace.Layers = append(trace.Layers, theme.LayerTrace{
			Level: string(layer.Level),
			Scope: layer.Scope,
			State: state,
		})
		if !layer.Override.HasValue() {
			continue
		}
		next, extendErr := extend(resolved, layer.Override.Config)
		if extendErr != nil {
			layerErr := ferrors.Wrap(extendErr, "", ferrors.TextCodeExtendFailed, "stored override is invalid", withMeta(meta, map[string]any{
				ferrors.MetaStore: string(layer.Level),
			}))
			trace.OverrideError = layerErr
			trace.Layers[len(trace.Layers)-1].State = theme.OverrideStateMissing
			if r.strictStore {
				return theme.Resolved{}, trace, layerErr
			}
			continue
		}
		resolved = next
		trace.Source = theme.ResolveSourceOverride
	}

	if trace.OverrideError == nil {
		r.cacheEntry(ctx, normalized, scopeSet, cache.Entry{Resolved: resolved, Trace: trace}, gen)
	}
	return resolved, trace, nil
}

func (r *Resolver) lookup(normalized string, meta map[string]any) (theme.Resolved, error) {
	if r.registry == nil {
		return theme.Resolved{}, ferrors.WrapSentinel(ferrors.ErrRegistryRequired, "", meta)
	}
	resolved, ok := r.registry.Lookup(normalized)
	if !ok {
		return theme.Resolved{}, ferrors.WrapSentinel(ferrors.ErrComponentNotFound, "", meta)
	}
	return resolved, nil
}

func (r *Resolver) resolveScope(ctx context.Context, opts ...theme.ResolveOption) (theme.ScopeSet, error) {
	req := theme.ResolveRequest{}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	if req.ScopeSet != nil {
		return *req.ScopeSet, nil
	}
	return r.scopeResolver.Resolve(ctx)
}

func (r *Resolver) checkRegistryVersion(ctx context.Context) {
	source, ok := r.registry.(versioned)
	if !ok {
		return
	}
	current := source.Version()
	r.versionMu.Lock()
	changed := current != r.seenVersion
	r.seenVersion = current
	r.versionMu.Unlock()
	if changed {
		r.invalidate(ctx, "")
	}
}

func (r *Resolver) generation(name string) generation {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	return generation{epoch: r.epoch, name: r.gens[name]}
}

// invalidate moves the generation of name, or of every name when name is
// empty, forgets its in-flight builds and drops cached entries. The cache is
// touched after the bump so a build that already passed its generation check
// has its entry removed.
func (r *Resolver) invalidate(ctx context.Context, name string) {
	r.genMu.Lock()
	if name == "" {
		r.epoch++
		for _, keys := range r.flights {
			for key := range keys {
				r.group.Forget(key)
			}
		}
	} else {
		if r.gens == nil {
			r.gens = make(map[string]uint64)
		}
		r.gens[name]++
		for key := range r.flights[name] {
			r.group.Forget(key)
		}
	}
	r.genMu.Unlock()

	if name == "" {
		r.cache.Clear(ctx)
		return
	}
	r.cache.Delete(ctx, name)
}

func (r *Resolver) cacheEntry(ctx context.Context, name string, scopeSet theme.ScopeSet, entry cache.Entry, gen generation) {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	if r.epoch != gen.epoch || r.gens[name] != gen.name {
		return
	}
	r.cache.Set(ctx, name, scopeSet, entry)
}

func (r *Resolver) track(name, key string) {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	if r.flights == nil {
		r.flights = make(map[string]map[string]int)
	}
	keys := r.flights[name]
	if keys == nil {
		keys = make(map[string]int)
		r.flights[name] = keys
	}
	keys[key]++
}

func (r *Resolver) untrack(name, key string) {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	keys := r.flights[name]
	if keys == nil {
		return
	}
	keys[key]--
	if keys[key] <= 0 {
		delete(keys, key)
	}
	if len(keys) == 0 {
		delete(r.flights, name)
	}
}

func (r *Resolver) emitResolve(ctx context.Context, trace theme.ResolveTrace, err error) {
	if len(r.hooks) == 0 {
		return
	}
	event := theme.ResolveEvent{
		Name:           trace.Name,
		NormalizedName: trace.NormalizedName,
		Scope:          trace.Scope,
		Source:         trace.Source,
		Error:          err,
		Trace:          trace,
	}
	for _, hook := range r.hooks {
		if hook == nil {
			continue
		}
		hook.OnResolve(ctx, event)
	}
}

func (r *Resolver) emitUpdate(ctx context.Context, event activity.UpdateEvent) {
	for _, hook := range r.updateHooks {
		if hook == nil {
			continue
		}
		hook.OnUpdate(ctx, event)
	}
}

func extend(base theme.Resolved, partial composer.Config) (theme.Resolved, error) {
	out := theme.Resolved{Name: base.Name}
	if base.Slots != nil {
		next, err := base.Slots.Extend(partial)
		if err != nil {
			return theme.Resolved{}, err
		}
		out.Slots = next
		return out, nil
	}
	next, err := base.Composer.Extend(partial)
	if err != nil {
		return theme.Resolved{}, err
	}
	out.Composer = next
	return out, nil
}

func kindMismatch(name, want string) error {
	return ferrors.WrapSentinel(ferrors.ErrComponentKindMismatch, "", map[string]any{
		ferrors.MetaComponent: name,
		"expected":            want,
	})
}

func flightKey(name string, s theme.ScopeSet) string {
	if s.System {
		return name + "|system"
	}
	return name + "|" + s.TenantID + "|" + s.OrgID + "|" + s.UserID
}

func withMeta(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}

var (
	_ theme.TraceableThemeResolver = (*Resolver)(nil)
	_ theme.MutableThemeResolver   = (*Resolver)(nil)
	_ activity.Hook                = (*Resolver)(nil)
)
