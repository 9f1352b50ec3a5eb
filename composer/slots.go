package composer

import "github.com/goliatone/go-twcomposer/classes"

// SlotFunc returns the composed class string for one slot. Extra values are
// merged after everything else for that call only.
type SlotFunc func(extra ...any) string

// String returns the slot classes without extras.
func (fn SlotFunc) String() string {
	if fn == nil {
		return ""
	}
	return fn()
}

// SlotClasses maps slot names to their class functions.
type SlotClasses map[string]SlotFunc

// Get returns the classes for slot, or an empty string when absent.
func (s SlotClasses) Get(slot string, extra ...any) string {
	fn, ok := s[slot]
	if !ok || fn == nil {
		return classes.MergeWith(nil, extra...)
	}
	return fn(extra...)
}

// Strings resolves every slot without extras.
func (s SlotClasses) Strings() map[string]string {
	out := make(map[string]string, len(s))
	for slot, fn := range s {
		out[slot] = fn.String()
	}
	return out
}

// SlotComposer resolves variant selections into one class string per slot.
type SlotComposer struct {
	cfg      Config
	settings settings
	keys     []string
	slots    []string
}

// NewSlots validates cfg and returns a slotted composer.
func NewSlots(cfg Config, options ...Option) (*SlotComposer, error) {
	s := newSettings(options)
	if err := validate(s.name, cfg, true); err != nil {
		return nil, err
	}
	owned := cfg.Clone()
	return &SlotComposer{
		cfg:      owned,
		settings: s,
		keys:     owned.VariantKeys(),
		slots:    owned.SlotKeys(),
	}, nil
}

// MustNewSlots is like NewSlots but panics on invalid configuration.
func MustNewSlots(cfg Config, options ...Option) *SlotComposer {
	c, err := NewSlots(cfg, options...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the label given with WithName.
func (c *SlotComposer) Name() string {
	if c == nil {
		return ""
	}
	return c.settings.name
}

// Slots composes every slot for props. Slots overridden through props but
// not declared in the configuration are returned as additional keys.
func (c *SlotComposer) Slots(props Props) SlotClasses {
	out, _ := c.SlotsWithTrace(props)
	return out
}

// SlotsWithTrace is like Slots and also returns resolution details.
func (c *SlotComposer) SlotsWithTrace(props Props) (SlotClasses, Trace) {
	if c == nil {
		return SlotClasses{}, Trace{}
	}
	parts, trace := assemble(c.settings.name, c.cfg, props, true)
	merger := c.settings.merger
	out := make(SlotClasses, len(parts.order))
	var strs map[string]string
	if len(c.settings.hooks) > 0 {
		strs = make(map[string]string, len(parts.order))
	}
	for _, slot := range parts.order {
		resolved := merger.Merge(classes.Join(parts.parts[slot]...))
		out[slot] = slotFunc(merger, resolved)
		if strs != nil {
			strs[slot] = resolved
		}
	}
	if strs != nil {
		c.settings.emit(ComposeEvent{
			Composer: c.settings.name,
			Slotted:  true,
			Trace:    trace,
			Output:   strs,
		})
	}
	return out, trace
}

// Strings composes every slot and returns plain strings.
func (c *SlotComposer) Strings(props Props) map[string]string {
	return c.Slots(props).Strings()
}

func slotFunc(merger classes.Merger, resolved string) SlotFunc {
	return func(extra ...any) string {
		if len(extra) == 0 {
			return resolved
		}
		return merger.Merge(classes.Join(resolved, extra))
	}
}

// SlotKeys returns the declared slots, base first.
func (c *SlotComposer) SlotKeys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.slots...)
}

// VariantKeys returns every declared variant name in declaration order.
func (c *SlotComposer) VariantKeys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Config returns a deep copy of the configuration.
func (c *SlotComposer) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg.Clone()
}

// Extend deep merges partial and returns a new slotted composer.
func (c *SlotComposer) Extend(partial Config, options ...Option) (*SlotComposer, error) {
	if c == nil {
		return NewSlots(partial, options...)
	}
	merged := Merge(c.cfg, partial)
	return NewSlots(merged, append(c.settings.options(), options...)...)
}

// Split partitions attrs into variant selections and everything else.
func (c *SlotComposer) Split(attrs map[string]any) (Values, map[string]any) {
	return SplitProps(c.VariantKeys(), attrs)
}
