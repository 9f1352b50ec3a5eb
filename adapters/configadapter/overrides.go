package configadapter

import (
	"context"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/store"
	"github.com/goliatone/go-twcomposer/styledoc"
	"github.com/goliatone/go-twcomposer/theme"
)

// Overrides serves partial configurations from config as the system layer.
// Tenant, org and user layers are always reported missing.
type Overrides struct {
	values map[string]composer.Config
}

// NewOverrides builds Overrides from a map of component name to partial
// configuration, grouped the same way NewRegistry reads components.
func NewOverrides(data map[string]any, opts ...Option) (*Overrides, error) {
	cfg := newOptions(opts)
	tree := styledoc.OrderedMap{}
	collect("", data, cfg.delimiter, &tree)

	values := make(map[string]composer.Config, len(tree))
	for _, entry := range tree {
		partial, err := styledoc.DecodeConfig(entry.Value)
		if err != nil {
			return nil, err
		}
		values[entry.Key] = partial
	}
	return &Overrides{values: values}, nil
}

// Get implements store.Reader.
func (o *Overrides) Get(_ context.Context, name string, scope theme.ScopeSet) ([]store.Layer, error) {
	layers := store.Chain(scope)
	for i := range layers {
		layers[i].Override = store.MissingOverride()
	}
	if o == nil || len(o.values) == 0 {
		return layers, nil
	}
	if partial, ok := o.values[theme.NormalizeName(name)]; ok {
		layers[0].Override = store.SetOverride(partial)
	}
	return layers, nil
}

// Names lists the components with a configured override.
func (o *Overrides) Names() []string {
	if o == nil {
		return nil
	}
	out := make([]string, 0, len(o.values))
	for name := range o.values {
		out = append(out, name)
	}
	return sortStrings(out)
}

var _ store.Reader = (*Overrides)(nil)
