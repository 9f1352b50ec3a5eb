package composer

// resolveVariant picks the effective value for a variant: explicit input
// first, then the configured default. A present input never falls back to the
// default, even when it converts to no key. Unresolved variants contribute
// nothing.
func resolveVariant(name string, input Values, defaults map[string]string) (string, VariantSource) {
	if raw, ok := input[name]; ok && present(raw) {
		value, _ := ValueKey(raw)
		return value, VariantSourceInput
	}
	if raw, ok := defaults[name]; ok {
		if value, ok := ValueKey(raw); ok {
			return value, VariantSourceDefault
		}
	}
	return "", VariantSourceUnresolved
}

// matchCompound reports whether every condition holds. A condition on an
// unresolved variant fails the rule, it is never treated as a wildcard.
// Construction rejects rules without conditions.
func matchCompound(rule CompoundVariant, resolved map[string]string) bool {
	for name, match := range rule.When {
		value, ok := resolved[name]
		if !ok {
			return false
		}
		if !match.Contains(value) {
			return false
		}
	}
	return true
}

type assembly struct {
	parts map[string][]any
	order []string
}

func newAssembly(keys []string) *assembly {
	a := &assembly{parts: make(map[string][]any, len(keys))}
	for _, key := range keys {
		a.touch(key)
	}
	return a
}

func (a *assembly) touch(slot string) {
	if _, ok := a.parts[slot]; ok {
		return
	}
	a.parts[slot] = nil
	a.order = append(a.order, slot)
}

func (a *assembly) add(slot string, value any) {
	if value == nil {
		return
	}
	a.touch(slot)
	a.parts[slot] = append(a.parts[slot], value)
}

func (a *assembly) addStyle(style Style) {
	if len(style.Class) > 0 {
		a.add(BaseSlot, []string(style.Class))
	}
	for slot, value := range style.Slots {
		if len(value) == 0 {
			continue
		}
		a.add(slot, []string(value))
	}
}

// assemble runs base, variant, compound and override stages in order and
// returns the raw class parts per slot.
func assemble(name string, cfg Config, props Props, slotted bool) (*assembly, Trace) {
	keys := []string{BaseSlot}
	if slotted {
		keys = cfg.SlotKeys()
	}
	parts := newAssembly(keys)
	trace := Trace{Composer: name}

	if len(cfg.Base) > 0 {
		parts.add(BaseSlot, []string(cfg.Base))
	}
	if slotted {
		for _, slot := range keys {
			if value := cfg.Slots[slot]; len(value) > 0 {
				parts.add(slot, []string(value))
			}
		}
	}

	resolved := make(map[string]string, len(cfg.Variants))
	for _, variant := range cfg.Variants {
		value, source := resolveVariant(variant.Name, props.Variants, cfg.DefaultVariants)
		entry := VariantTrace{Name: variant.Name, Value: value, Source: source}
		if source != VariantSourceUnresolved {
			resolved[variant.Name] = value
			if style, ok := variant.Values[value]; ok {
				entry.Matched = true
				parts.addStyle(style)
			}
		}
		trace.Variants = append(trace.Variants, entry)
	}

	for i, rule := range cfg.CompoundVariants {
		if !matchCompound(rule, resolved) {
			continue
		}
		trace.Compounds = append(trace.Compounds, i)
		parts.addStyle(rule.Style)
	}

	parts.add(BaseSlot, props.Class)
	if slotted {
		for _, slot := range sortedKeys(props.Slots) {
			parts.add(slot, props.Slots[slot])
		}
	}
	return parts, trace
}
