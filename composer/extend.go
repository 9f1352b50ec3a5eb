package composer

// Merge deep merges partial into a copy of base. Neither argument is
// modified.
//
// A non-empty partial Base replaces the base classes and each slot named in
// partial.Slots replaces that slot; other slots are kept. Variants merge by
// name then by value key, new variants are appended in partial's order, and
// classes of a value key present in both are concatenated base first.
// Defaults from partial replace same-named defaults. Compound rules keep base
// rules first.
func Merge(base, partial Config) Config {
	out := base.Clone()
	add := partial.Clone()

	if len(add.Base) > 0 {
		out.Base = add.Base
	}
	out.Slots = replaceSlots(out.Slots, add.Slots)

	for _, variant := range add.Variants {
		idx := -1
		for i := range out.Variants {
			if out.Variants[i].Name == variant.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Variants = append(out.Variants, variant)
			continue
		}
		target := out.Variants[idx]
		if target.Values == nil {
			target.Values = make(map[string]Style, len(variant.Values))
		}
		for key, style := range variant.Values {
			if existing, ok := target.Values[key]; ok {
				target.Values[key] = mergeStyle(existing, style)
				continue
			}
			target.Values[key] = style
		}
		out.Variants[idx] = target
	}

	if len(add.DefaultVariants) > 0 {
		if out.DefaultVariants == nil {
			out.DefaultVariants = make(map[string]string, len(add.DefaultVariants))
		}
		for name, value := range add.DefaultVariants {
			out.DefaultVariants[name] = value
		}
	}

	out.CompoundVariants = append(out.CompoundVariants, add.CompoundVariants...)
	return out
}

func concatClasses(base, add Classes) Classes {
	if len(add) == 0 {
		return base
	}
	if len(base) == 0 {
		return add
	}
	out := make(Classes, 0, len(base)+len(add))
	out = append(out, base...)
	return append(out, add...)
}

func mergeSlotMap(base, add map[string]Classes) map[string]Classes {
	if len(add) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]Classes, len(add))
	}
	for slot, value := range add {
		base[slot] = concatClasses(base[slot], value)
	}
	return base
}

func replaceSlots(base, add map[string]Classes) map[string]Classes {
	if len(add) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]Classes, len(add))
	}
	for slot, value := range add {
		base[slot] = value
	}
	return base
}

func mergeStyle(base, add Style) Style {
	return Style{
		Class: concatClasses(base.Class, add.Class),
		Slots: mergeSlotMap(base.Slots, add.Slots),
	}
}
