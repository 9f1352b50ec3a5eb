package composer

// VariantSource reports which layer produced a resolved variant value.
type VariantSource string

const (
	VariantSourceInput      VariantSource = "input"
	VariantSourceDefault    VariantSource = "default"
	VariantSourceUnresolved VariantSource = "unresolved"
)

// VariantTrace describes how a single variant resolved.
type VariantTrace struct {
	Name   string
	Value  string
	Source VariantSource
	// Matched is false when the value key has no entry in the variant map.
	Matched bool
}

// Trace captures provenance for one composer invocation.
type Trace struct {
	Composer  string
	Variants  []VariantTrace
	Compounds []int
}

// Resolved returns the resolved value for a variant, if any.
func (t Trace) Resolved(name string) (string, bool) {
	for _, variant := range t.Variants {
		if variant.Name == name && variant.Source != VariantSourceUnresolved {
			return variant.Value, true
		}
	}
	return "", false
}

// ComposeEvent is emitted after every invocation.
type ComposeEvent struct {
	Composer string
	Slotted  bool
	Trace    Trace
	Output   map[string]string
}

// Hook receives compose events.
type Hook interface {
	OnCompose(event ComposeEvent)
}

// HookFunc wraps a function as a Hook.
type HookFunc func(ComposeEvent)

// OnCompose implements Hook.
func (fn HookFunc) OnCompose(event ComposeEvent) {
	if fn == nil {
		return
	}
	fn(event)
}
