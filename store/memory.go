package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/theme"
)

// MemoryStore keeps overrides in memory for tests, examples and the CLI.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[layerKey]composer.Config
}

type layerKey struct {
	level Level
	id    string
}

// NewMemoryStore constructs an in-memory override store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]map[layerKey]composer.Config{}}
}

// Get implements Reader.
func (m *MemoryStore) Get(_ context.Context, name string, scopeSet theme.ScopeSet) ([]Layer, error) {
	if m == nil {
		return nil, ferrors.WrapSentinel(ferrors.ErrStoreRequired, "store: memory store is required", nil)
	}
	normalized, err := normalizeName(name, "get")
	if err != nil {
		return nil, err
	}
	layers := Chain(scopeSet)
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.entries[normalized]
	for i := range layers {
		cfg, ok := entries[keyFor(layers[i])]
		if !ok {
			layers[i].Override = MissingOverride()
			continue
		}
		layers[i].Override = SetOverride(cfg)
	}
	return layers, nil
}

// Set implements Writer.
func (m *MemoryStore) Set(_ context.Context, name string, scopeSet theme.ScopeSet, partial composer.Config, _ theme.ActorRef) error {
	if m == nil {
		return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "store: memory store is required", nil)
	}
	normalized, err := normalizeName(name, "set")
	if err != nil {
		return err
	}
	key := keyFor(WriteLayer(scopeSet))
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string]map[layerKey]composer.Config{}
	}
	if m.entries[normalized] == nil {
		m.entries[normalized] = map[layerKey]composer.Config{}
	}
	m.entries[normalized][key] = partial.Clone()
	return nil
}

// Unset implements Writer.
func (m *MemoryStore) Unset(_ context.Context, name string, scopeSet theme.ScopeSet, _ theme.ActorRef) error {
	if m == nil {
		return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "store: memory store is required", nil)
	}
	normalized, err := normalizeName(name, "unset")
	if err != nil {
		return err
	}
	key := keyFor(WriteLayer(scopeSet))
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.entries[normalized]
	if len(entries) == 0 {
		return nil
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(m.entries, normalized)
	}
	return nil
}

// Clear removes all stored overrides.
func (m *MemoryStore) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]map[layerKey]composer.Config{}
}

func keyFor(layer Layer) layerKey {
	return layerKey{level: layer.Level, id: layer.ID()}
}

func normalizeName(name, operation string) (string, error) {
	normalized := theme.NormalizeName(name)
	if normalized == "" {
		return "", ferrors.WrapSentinel(ferrors.ErrInvalidName, "store: component name required", map[string]any{
			ferrors.MetaComponent: name,
			ferrors.MetaOperation: operation,
			ferrors.MetaStore:     "memory",
		})
	}
	return normalized, nil
}

var _ ReadWriter = (*MemoryStore)(nil)
