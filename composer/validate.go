package composer

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-twcomposer/ferrors"
)

// Validate checks cfg the same way New (slotted=false) or NewSlots
// (slotted=true) do.
func Validate(cfg Config, slotted bool) error {
	return validate("", cfg, slotted)
}

func validate(name string, cfg Config, slotted bool) error {
	var fields goerrors.ValidationErrors

	declared := map[string]struct{}{BaseSlot: {}}
	for slot := range cfg.Slots {
		declared[slot] = struct{}{}
	}

	checkSlots := func(field string, slots map[string]Classes) {
		for _, slot := range sortedKeys(slots) {
			if !slotted {
				fields = append(fields, goerrors.FieldError{
					Field:   field + ".slots." + slot,
					Message: "slot classes require a slotted composer",
					Value:   slot,
				})
				continue
			}
			if _, ok := declared[slot]; !ok {
				fields = append(fields, goerrors.FieldError{
					Field:   field + ".slots." + slot,
					Message: "slot is not declared",
					Value:   slot,
				})
			}
		}
	}

	if !slotted && len(cfg.Slots) > 0 {
		fields = append(fields, goerrors.FieldError{
			Field:   "slots",
			Message: "slots require a slotted composer",
			Value:   sortedKeys(cfg.Slots),
		})
	}

	seen := make(map[string]struct{}, len(cfg.Variants))
	for i, variant := range cfg.Variants {
		field := fmt.Sprintf("variants[%d]", i)
		variantName := strings.TrimSpace(variant.Name)
		if variantName == "" {
			fields = append(fields, goerrors.FieldError{Field: field + ".name", Message: "variant name is required"})
			continue
		}
		if _, ok := seen[variant.Name]; ok {
			fields = append(fields, goerrors.FieldError{Field: field + ".name", Message: "duplicate variant name", Value: variant.Name})
		}
		seen[variant.Name] = struct{}{}
		for _, key := range variant.Keys() {
			checkSlots(fmt.Sprintf("%s.values.%s", field, key), variant.Values[key].Slots)
		}
	}

	for _, variantName := range sortedKeys(cfg.DefaultVariants) {
		if _, ok := seen[variantName]; !ok {
			fields = append(fields, goerrors.FieldError{
				Field:   "default_variants." + variantName,
				Message: "default for undeclared variant",
				Value:   cfg.DefaultVariants[variantName],
			})
		}
	}

	for i, rule := range cfg.CompoundVariants {
		field := fmt.Sprintf("compound_variants[%d]", i)
		if len(rule.When) == 0 {
			fields = append(fields, goerrors.FieldError{Field: field + ".when", Message: "compound rule needs at least one condition"})
		}
		for _, variantName := range sortedKeys(rule.When) {
			if len(rule.When[variantName]) == 0 {
				fields = append(fields, goerrors.FieldError{Field: field + ".when." + variantName, Message: "condition has no accepted values"})
			}
		}
		checkSlots(field, rule.Slots)
	}

	if len(fields) == 0 {
		return nil
	}
	meta := map[string]any{}
	if name != "" {
		meta[ferrors.MetaComposer] = name
	}
	return ferrors.Invalid(fmt.Sprintf("composer configuration has %d problem(s)", len(fields)), fields, meta)
}

// CheckProps reports variant selections a composer would silently ignore:
// unknown variant names and value keys missing from the variant map.
func CheckProps(cfg Config, props Props) error {
	var fields goerrors.ValidationErrors
	for _, key := range sortedKeys(props.Variants) {
		variant, ok := cfg.Variant(key)
		if !ok {
			fields = append(fields, goerrors.FieldError{Field: key, Message: "unknown variant", Value: props.Variants[key]})
			continue
		}
		value, ok := ValueKey(props.Variants[key])
		if !ok {
			continue
		}
		if _, exists := variant.Values[value]; !exists {
			fields = append(fields, goerrors.FieldError{
				Field:   key,
				Message: fmt.Sprintf("unknown value, expected one of %s", strings.Join(variant.Keys(), ", ")),
				Value:   value,
			})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	err := ferrors.NewBadInput(ferrors.TextCodePropsInvalid, "props select unknown variants", nil)
	err.ValidationErrors = fields
	return err
}

// CheckProps reports selections this composer would ignore.
func (c *Composer) CheckProps(props Props) error {
	if c == nil {
		return nil
	}
	return CheckProps(c.cfg, props)
}

// CheckProps reports selections this composer would ignore.
func (c *SlotComposer) CheckProps(props Props) error {
	if c == nil {
		return nil
	}
	return CheckProps(c.cfg, props)
}
