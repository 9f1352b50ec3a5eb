package composer

import (
	"sort"

	"github.com/goliatone/go-twcomposer/classes"
)

// Composer resolves variant selections into a single class string.
// It is immutable after construction and safe for concurrent use.
type Composer struct {
	cfg      Config
	settings settings
	keys     []string
}

// New validates cfg and returns a non-slotted composer. The configuration is
// copied, later changes to cfg do not affect the composer.
func New(cfg Config, options ...Option) (*Composer, error) {
	s := newSettings(options)
	if err := validate(s.name, cfg, false); err != nil {
		return nil, err
	}
	owned := cfg.Clone()
	return &Composer{
		cfg:      owned,
		settings: s,
		keys:     owned.VariantKeys(),
	}, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(cfg Config, options ...Option) *Composer {
	c, err := New(cfg, options...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the label given with WithName.
func (c *Composer) Name() string {
	if c == nil {
		return ""
	}
	return c.settings.name
}

// Class returns the merged class string for props.
func (c *Composer) Class(props Props) string {
	out, _ := c.ClassWithTrace(props)
	return out
}

// ClassWithTrace returns the class string along with resolution details.
func (c *Composer) ClassWithTrace(props Props) (string, Trace) {
	if c == nil {
		return "", Trace{}
	}
	parts, trace := assemble(c.settings.name, c.cfg, props, false)
	out := c.settings.merger.Merge(classes.Join(parts.parts[BaseSlot]...))
	if len(c.settings.hooks) > 0 {
		c.settings.emit(ComposeEvent{
			Composer: c.settings.name,
			Trace:    trace,
			Output:   map[string]string{BaseSlot: out},
		})
	}
	return out, trace
}

// VariantKeys returns every declared variant name in declaration order.
func (c *Composer) VariantKeys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Config returns a deep copy of the configuration.
func (c *Composer) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg.Clone()
}

// Extend deep merges partial into a copy of the configuration and returns a
// new composer. The receiver is left untouched. Options default to the
// receiver's name, merger and hooks.
func (c *Composer) Extend(partial Config, options ...Option) (*Composer, error) {
	if c == nil {
		return New(partial, options...)
	}
	merged := Merge(c.cfg, partial)
	return New(merged, append(c.settings.options(), options...)...)
}

// Split partitions attrs into variant selections and everything else using
// the composer's variant keys.
func (c *Composer) Split(attrs map[string]any) (Values, map[string]any) {
	return SplitProps(c.VariantKeys(), attrs)
}

// SplitProps partitions attrs by keys. Keys absent from attrs are skipped.
func SplitProps(keys []string, attrs map[string]any) (Values, map[string]any) {
	variants := Values{}
	rest := map[string]any{}
	known := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		known[key] = struct{}{}
	}
	for key, value := range attrs {
		if _, ok := known[key]; ok {
			variants[key] = value
			continue
		}
		rest[key] = value
	}
	return variants, rest
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
