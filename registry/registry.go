package registry

import (
	"sort"
	"sync"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/theme"
)

// Definition describes a component style for documentation, tooling and
// resolution.
type Definition struct {
	Name        string
	Description string
	Slotted     bool
	Config      composer.Config
}

// Registry exposes component definitions and their base composers.
type Registry interface {
	Get(name string) (Definition, bool)
	Lookup(name string) (theme.Resolved, bool)
	List() []Definition
}

// Option customizes a Static registry.
type Option func(*Static)

// WithComposerOptions applies options to every composer built by the registry.
func WithComposerOptions(options ...composer.Option) Option {
	return func(r *Static) {
		if r == nil {
			return
		}
		r.options = append(r.options, options...)
	}
}

type entry struct {
	def      Definition
	resolved theme.Resolved
}

// Static is an in-memory registry safe for concurrent use.
type Static struct {
	mu      sync.RWMutex
	entries map[string]entry
	options []composer.Option
	version uint64
}

// New builds an empty registry.
func New(options ...Option) *Static {
	r := &Static{entries: map[string]entry{}}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// NewStatic builds a registry from definitions. Invalid definitions fail the
// whole call.
func NewStatic(defs []Definition, options ...Option) (*Static, error) {
	r := New(options...)
	if err := r.Replace(defs); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a plain component.
func (r *Static) Register(name string, cfg composer.Config, description ...string) (*composer.Composer, error) {
	def := Definition{Name: name, Config: cfg}
	if len(description) > 0 {
		def.Description = description[0]
	}
	built, err := r.add(def)
	if err != nil {
		return nil, err
	}
	return built.resolved.Composer, nil
}

// RegisterSlots adds a slotted component.
func (r *Static) RegisterSlots(name string, cfg composer.Config, description ...string) (*composer.SlotComposer, error) {
	def := Definition{Name: name, Slotted: true, Config: cfg}
	if len(description) > 0 {
		def.Description = description[0]
	}
	built, err := r.add(def)
	if err != nil {
		return nil, err
	}
	return built.resolved.Slots, nil
}

// Add registers a definition. Names must be unique.
func (r *Static) Add(def Definition) error {
	_, err := r.add(def)
	return err
}

func (r *Static) add(def Definition) (entry, error) {
	if r == nil {
		return entry{}, ferrors.WrapSentinel(ferrors.ErrRegistryRequired, "", nil)
	}
	built, err := r.build(def)
	if err != nil {
		return entry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]entry{}
	}
	if _, exists := r.entries[built.def.Name]; exists {
		return entry{}, ferrors.WrapSentinel(ferrors.ErrComponentExists, "", map[string]any{
			ferrors.MetaComponent: built.def.Name,
		})
	}
	r.entries[built.def.Name] = built
	r.version++
	return built, nil
}

// Replace swaps every definition atomically. On error the registry is left
// unchanged.
func (r *Static) Replace(defs []Definition) error {
	if r == nil {
		return ferrors.WrapSentinel(ferrors.ErrRegistryRequired, "", nil)
	}
	next := make(map[string]entry, len(defs))
	for _, def := range defs {
		built, err := r.build(def)
		if err != nil {
			return err
		}
		if _, exists := next[built.def.Name]; exists {
			return ferrors.WrapSentinel(ferrors.ErrComponentExists, "", map[string]any{
				ferrors.MetaComponent: built.def.Name,
			})
		}
		next[built.def.Name] = built
	}
	r.mu.Lock()
	r.entries = next
	r.version++
	r.mu.Unlock()
	return nil
}

// Remove deletes a definition.
func (r *Static) Remove(name string) bool {
	if r == nil {
		return false
	}
	normalized := theme.NormalizeName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[normalized]; !ok {
		return false
	}
	delete(r.entries, normalized)
	r.version++
	return true
}

// Version increases on every change. Caches use it to detect reloads.
func (r *Static) Version() uint64 {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Get implements Registry.
func (r *Static) Get(name string) (Definition, bool) {
	item, ok := r.lookup(name)
	if !ok {
		return Definition{}, false
	}
	def := item.def
	def.Config = def.Config.Clone()
	return def, true
}

// Lookup implements Registry.
func (r *Static) Lookup(name string) (theme.Resolved, bool) {
	item, ok := r.lookup(name)
	if !ok {
		return theme.Resolved{}, false
	}
	return item.resolved, true
}

// List implements Registry. Definitions are sorted by name.
func (r *Static) List() []Definition {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Definition, 0, len(names))
	for _, name := range names {
		def := r.entries[name].def
		def.Config = def.Config.Clone()
		out = append(out, def)
	}
	return out
}

// ComposerOptions returns the options applied to registered composers.
func (r *Static) ComposerOptions() []composer.Option {
	if r == nil {
		return nil
	}
	return append([]composer.Option(nil), r.options...)
}

func (r *Static) lookup(name string) (entry, bool) {
	if r == nil {
		return entry{}, false
	}
	normalized := theme.NormalizeName(name)
	if normalized == "" {
		return entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.entries[normalized]
	return item, ok
}

func (r *Static) build(def Definition) (entry, error) {
	raw := def.Name
	def.Name = theme.NormalizeName(def.Name)
	if def.Name == "" || !theme.ValidName(def.Name) {
		return entry{}, ferrors.WrapSentinel(ferrors.ErrInvalidName, "", map[string]any{
			ferrors.MetaComponent:     raw,
			ferrors.MetaComponentNorm: def.Name,
		})
	}
	options := append([]composer.Option{composer.WithName(def.Name)}, r.options...)
	resolved := theme.Resolved{Name: def.Name}
	if def.Slotted {
		built, err := composer.NewSlots(def.Config, options...)
		if err != nil {
			return entry{}, err
		}
		resolved.Slots = built
	} else {
		built, err := composer.New(def.Config, options...)
		if err != nil {
			return entry{}, err
		}
		resolved.Composer = built
	}
	def.Config = def.Config.Clone()
	return entry{def: def, resolved: resolved}, nil
}

var _ Registry = (*Static)(nil)
