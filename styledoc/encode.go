package styledoc

import (
	"github.com/goliatone/go-twcomposer/composer"
)

// EncodeConfig converts cfg into a JSON and YAML friendly tree. Variants are
// written as a list so declaration order survives unordered decoders.
// DecodeConfig reverses it.
func EncodeConfig(cfg composer.Config) map[string]any {
	out := map[string]any{}
	if len(cfg.Base) > 0 {
		out["base"] = encodeClasses(cfg.Base)
	}
	if len(cfg.Slots) > 0 {
		out["slots"] = encodeSlots(cfg.Slots)
	}
	if len(cfg.Variants) > 0 {
		variants := make([]any, 0, len(cfg.Variants))
		for _, variant := range cfg.Variants {
			values := make(map[string]any, len(variant.Values))
			for key, style := range variant.Values {
				values[key] = encodeStyle(style)
			}
			variants = append(variants, map[string]any{
				"name":   variant.Name,
				"values": values,
			})
		}
		out["variants"] = variants
	}
	if len(cfg.DefaultVariants) > 0 {
		defaults := make(map[string]any, len(cfg.DefaultVariants))
		for key, value := range cfg.DefaultVariants {
			defaults[key] = value
		}
		out["default_variants"] = defaults
	}
	if len(cfg.CompoundVariants) > 0 {
		rules := make([]any, 0, len(cfg.CompoundVariants))
		for _, rule := range cfg.CompoundVariants {
			when := make(map[string]any, len(rule.When))
			for name, match := range rule.When {
				values := make([]any, len(match))
				for i, value := range match {
					values[i] = value
				}
				when[name] = values
			}
			encoded := encodeStyle(rule.Style)
			encoded["when"] = when
			rules = append(rules, encoded)
		}
		out["compound_variants"] = rules
	}
	return out
}

// EncodeComponent converts a component into a tree accepted by
// DecodeComponent.
func EncodeComponent(component Component) map[string]any {
	out := EncodeConfig(component.Config)
	out["name"] = component.Name
	if component.Description != "" {
		out["description"] = component.Description
	}
	if component.Slotted {
		out["slotted"] = true
	}
	return out
}

// EncodeDocument converts doc into a tree accepted by DecodeDocument.
func EncodeDocument(doc Document) map[string]any {
	components := make([]any, 0, len(doc.Components))
	for _, component := range doc.Components {
		components = append(components, EncodeComponent(component))
	}
	out := map[string]any{"components": components}
	if doc.Version != 0 {
		out["version"] = doc.Version
	}
	return out
}

func encodeStyle(style composer.Style) map[string]any {
	out := map[string]any{}
	if len(style.Class) > 0 {
		out["class"] = encodeClasses(style.Class)
	}
	if len(style.Slots) > 0 {
		out["slots"] = encodeSlots(style.Slots)
	}
	return out
}

func encodeClasses(values composer.Classes) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}

func encodeSlots(slots map[string]composer.Classes) map[string]any {
	out := make(map[string]any, len(slots))
	for slot, value := range slots {
		out[slot] = encodeClasses(value)
	}
	return out
}
