package styledoc

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/registry"
	"github.com/goliatone/go-twcomposer/theme"
)

// Component is a named style definition.
type Component struct {
	Name        string `validate:"required,component_name"`
	Description string `validate:"max=500"`
	Slotted     bool
	Config      composer.Config
}

// Document is a set of component definitions.
type Document struct {
	Version    int         `validate:"omitempty,oneof=1"`
	Components []Component `validate:"unique=Name,dive"`
}

// Definitions converts the document into registry definitions.
func (d Document) Definitions() []registry.Definition {
	out := make([]registry.Definition, 0, len(d.Components))
	for _, component := range d.Components {
		out = append(out, registry.Definition{
			Name:        component.Name,
			Description: component.Description,
			Slotted:     component.Slotted,
			Config:      component.Config.Clone(),
		})
	}
	return out
}

var (
	componentKeys = map[string]struct{}{
		"name": {}, "description": {}, "slotted": {}, "base": {}, "slots": {},
		"variants": {}, "default_variants": {}, "defaultVariants": {},
		"compound_variants": {}, "compoundVariants": {},
	}
	payloadKeys = map[string]struct{}{"class": {}, "className": {}, "slots": {}}
)

type decoder struct {
	fields goerrors.ValidationErrors
}

func (d *decoder) fail(field, message string, value any) {
	d.fields = append(d.fields, goerrors.FieldError{Field: field, Message: message, Value: value})
}

func (d *decoder) err(message string) error {
	if len(d.fields) == 0 {
		return nil
	}
	err := ferrors.WrapSentinel(ferrors.ErrDocumentInvalid, message, nil)
	err.ValidationErrors = d.fields
	return err
}

// DecodeDocument decodes a generic tree with a top level "components" key.
// Components may be a mapping of name to definition or a list of
// definitions carrying a name.
func DecodeDocument(raw any) (Document, error) {
	d := &decoder{}
	doc := Document{}
	items, ok := entries(raw)
	if !ok {
		d.fail("", "document must be a mapping", fmt.Sprintf("%T", raw))
		return doc, d.err("style document is invalid")
	}
	for _, entry := range items {
		switch entry.Key {
		case "version":
			version, ok := toInt(entry.Value)
			if !ok {
				d.fail("version", "version must be an integer", entry.Value)
				continue
			}
			doc.Version = version
		case "components":
			doc.Components = d.components(entry.Value)
		default:
			d.fail(entry.Key, "unknown key", nil)
		}
	}
	if err := d.err("style document is invalid"); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DecodeComponent decodes one named component definition.
func DecodeComponent(name string, raw any) (Component, error) {
	d := &decoder{}
	component := d.component(name, name, raw)
	if err := d.err("component definition is invalid"); err != nil {
		return Component{}, err
	}
	return component, nil
}

// DecodeConfig decodes a partial configuration such as a stored override.
// Mapping style values without class or slots keys are read as slot maps.
func DecodeConfig(raw any) (composer.Config, error) {
	d := &decoder{}
	cfg := d.config("", raw, true)
	if err := d.err("style configuration is invalid"); err != nil {
		return composer.Config{}, err
	}
	return cfg, nil
}

func (d *decoder) components(raw any) []Component {
	if items, ok := entries(raw); ok {
		out := make([]Component, 0, len(items))
		for _, entry := range items {
			out = append(out, d.component("components."+entry.Key, entry.Key, entry.Value))
		}
		return out
	}
	values, ok := list(raw)
	if !ok {
		d.fail("components", "components must be a mapping or a list", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make([]Component, 0, len(values))
	for i, value := range values {
		nameValue, _ := lookup(value, "name")
		name, _ := nameValue.(string)
		out = append(out, d.component(fmt.Sprintf("components[%d]", i), name, value))
	}
	return out
}

func (d *decoder) component(path, name string, raw any) Component {
	component := Component{Name: theme.NormalizeName(name)}
	items, ok := entries(raw)
	if !ok {
		d.fail(path, "component must be a mapping", fmt.Sprintf("%T", raw))
		return component
	}
	for _, entry := range items {
		if _, known := componentKeys[entry.Key]; !known {
			d.fail(join(path, entry.Key), "unknown key", nil)
		}
	}
	if value, ok := lookup(raw, "name"); ok {
		if text, isString := value.(string); isString && text != "" {
			component.Name = theme.NormalizeName(text)
		}
	}
	if value, ok := lookup(raw, "description"); ok {
		text, isString := value.(string)
		if !isString && value != nil {
			d.fail(join(path, "description"), "description must be a string", value)
		}
		component.Description = strings.TrimSpace(text)
	}
	_, hasSlots := lookup(raw, "slots")
	component.Slotted = hasSlots
	if value, ok := lookup(raw, "slotted"); ok {
		flag, isBool := value.(bool)
		if !isBool {
			d.fail(join(path, "slotted"), "slotted must be a boolean", value)
		}
		component.Slotted = flag
	}
	component.Config = d.config(path, raw, component.Slotted)
	return component
}

func (d *decoder) config(path string, raw any, slotted bool) composer.Config {
	cfg := composer.Config{}
	if raw == nil {
		return cfg
	}
	if !isMapping(raw) {
		d.fail(path, "configuration must be a mapping", fmt.Sprintf("%T", raw))
		return cfg
	}
	if value, ok := lookup(raw, "base"); ok {
		cfg.Base = d.classes(join(path, "base"), value)
	}
	if value, ok := lookup(raw, "slots"); ok {
		cfg.Slots = d.slotMap(join(path, "slots"), value)
	}
	if value, ok := lookup(raw, "variants"); ok {
		cfg.Variants = d.variants(join(path, "variants"), value, slotted)
	}
	if value, ok := lookup(raw, "default_variants", "defaultVariants"); ok {
		cfg.DefaultVariants = d.defaults(join(path, "default_variants"), value)
	}
	if value, ok := lookup(raw, "compound_variants", "compoundVariants"); ok {
		cfg.CompoundVariants = d.compounds(join(path, "compound_variants"), value, slotted)
	}
	return cfg
}

func (d *decoder) classes(path string, raw any) composer.Classes {
	switch typed := raw.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil
		}
		return composer.C(typed)
	case composer.Classes:
		return append(composer.Classes(nil), typed...)
	}
	values, ok := list(raw)
	if !ok {
		d.fail(path, "classes must be a string or a list of strings", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make(composer.Classes, 0, len(values))
	for i, value := range values {
		text, isString := value.(string)
		if !isString {
			d.fail(fmt.Sprintf("%s[%d]", path, i), "class entries must be strings", value)
			continue
		}
		out = append(out, text)
	}
	return out
}

func (d *decoder) slotMap(path string, raw any) map[string]composer.Classes {
	items, ok := entries(raw)
	if !ok {
		d.fail(path, "slots must be a mapping", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make(map[string]composer.Classes, len(items))
	for _, entry := range items {
		out[entry.Key] = d.classes(join(path, entry.Key), entry.Value)
	}
	return out
}

func (d *decoder) style(path string, raw any, slotted bool) composer.Style {
	items, ok := entries(raw)
	if !ok {
		return composer.Style{Class: d.classes(path, raw)}
	}
	structured := false
	for _, entry := range items {
		if _, payload := payloadKeys[entry.Key]; payload {
			structured = true
			break
		}
	}
	if !structured {
		if !slotted {
			d.fail(path, "slot mapping requires a slotted component", nil)
			return composer.Style{}
		}
		return composer.Style{Slots: d.slotMap(path, raw)}
	}
	style := composer.Style{}
	for _, entry := range items {
		switch entry.Key {
		case "class", "className":
			if isMapping(entry.Value) {
				style.Slots = mergeSlots(style.Slots, d.slotMap(join(path, entry.Key), entry.Value))
				continue
			}
			style.Class = append(style.Class, d.classes(join(path, entry.Key), entry.Value)...)
		case "slots":
			style.Slots = mergeSlots(style.Slots, d.slotMap(join(path, "slots"), entry.Value))
		default:
			d.fail(join(path, entry.Key), "unknown key", nil)
		}
	}
	return style
}

func (d *decoder) variants(path string, raw any, slotted bool) []composer.Variant {
	if items, ok := entries(raw); ok {
		out := make([]composer.Variant, 0, len(items))
		for _, entry := range items {
			out = append(out, composer.Variant{
				Name:   entry.Key,
				Values: d.variantValues(join(path, entry.Key), entry.Value, slotted),
			})
		}
		return out
	}
	values, ok := list(raw)
	if !ok {
		d.fail(path, "variants must be a mapping or a list", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make([]composer.Variant, 0, len(values))
	for i, value := range values {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		nameValue, _ := lookup(value, "name")
		name, isString := nameValue.(string)
		if !isString {
			d.fail(join(itemPath, "name"), "variant name must be a string", nameValue)
		}
		valuesRaw, _ := lookup(value, "values")
		out = append(out, composer.Variant{
			Name:   name,
			Values: d.variantValues(join(itemPath, "values"), valuesRaw, slotted),
		})
	}
	return out
}

func (d *decoder) variantValues(path string, raw any, slotted bool) map[string]composer.Style {
	if raw == nil {
		return map[string]composer.Style{}
	}
	items, ok := entries(raw)
	if !ok {
		d.fail(path, "variant values must be a mapping", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make(map[string]composer.Style, len(items))
	for _, entry := range items {
		out[entry.Key] = d.style(join(path, entry.Key), entry.Value, slotted)
	}
	return out
}

func (d *decoder) defaults(path string, raw any) map[string]string {
	items, ok := entries(raw)
	if !ok {
		d.fail(path, "default variants must be a mapping", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make(map[string]string, len(items))
	for _, entry := range items {
		if entry.Value == nil {
			continue
		}
		value, ok := composer.ValueKey(entry.Value)
		if !ok {
			d.fail(join(path, entry.Key), "default must be a string, boolean or number", entry.Value)
			continue
		}
		out[entry.Key] = value
	}
	return out
}

func (d *decoder) compounds(path string, raw any, slotted bool) []composer.CompoundVariant {
	values, ok := list(raw)
	if !ok {
		d.fail(path, "compound variants must be a list", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make([]composer.CompoundVariant, 0, len(values))
	for i, value := range values {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		items, ok := entries(value)
		if !ok {
			d.fail(itemPath, "compound rule must be a mapping", fmt.Sprintf("%T", value))
			continue
		}
		rule := composer.CompoundVariant{When: map[string]composer.Match{}}
		payload := OrderedMap{}
		conditions := items
		if when, ok := lookup(value, "when"); ok {
			conditions, ok = entries(when)
			if !ok {
				d.fail(join(itemPath, "when"), "conditions must be a mapping", fmt.Sprintf("%T", when))
			}
		}
		for _, entry := range items {
			if _, isPayload := payloadKeys[entry.Key]; isPayload {
				payload = append(payload, entry)
			}
		}
		for _, entry := range conditions {
			if _, isPayload := payloadKeys[entry.Key]; isPayload || entry.Key == "when" {
				continue
			}
			rule.When[entry.Key] = d.match(join(itemPath, entry.Key), entry.Value)
		}
		if len(payload) > 0 {
			rule.Style = d.style(itemPath, payload, slotted)
		}
		out = append(out, rule)
	}
	return out
}

func (d *decoder) match(path string, raw any) composer.Match {
	if values, ok := list(raw); ok {
		out := make(composer.Match, 0, len(values))
		for i, value := range values {
			key, ok := composer.ValueKey(value)
			if !ok {
				d.fail(fmt.Sprintf("%s[%d]", path, i), "condition values must be strings, booleans or numbers", value)
				continue
			}
			out = append(out, key)
		}
		return out
	}
	key, ok := composer.ValueKey(raw)
	if !ok {
		d.fail(path, "condition must be a string, boolean, number or a list of them", raw)
		return nil
	}
	return composer.Is(key)
}

func mergeSlots(base, add map[string]composer.Classes) map[string]composer.Classes {
	if base == nil {
		return add
	}
	for slot, value := range add {
		base[slot] = append(base[slot], value...)
	}
	return base
}

func toInt(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case uint64:
		return int(typed), true
	case float64:
		if typed == float64(int(typed)) {
			return int(typed), true
		}
	}
	return 0, false
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
