package composer

import (
	"sort"
	"strings"

	"github.com/goliatone/go-twcomposer/classes"
)

// BaseSlot is the slot name that receives Base classes in a slotted composer.
const BaseSlot = "base"

// Classes is a list of class strings. Entries may hold several space
// separated classes.
type Classes []string

// String joins the classes with single spaces.
func (c Classes) String() string {
	return classes.Join([]string(c))
}

// IsEmpty reports whether the list holds no class tokens.
func (c Classes) IsEmpty() bool {
	for _, item := range c {
		if strings.TrimSpace(item) != "" {
			return false
		}
	}
	return true
}

// C builds Classes from strings.
func C(values ...string) Classes {
	return Classes(values)
}

// Style is the class payload of a variant value or compound rule.
// Class applies to the root element (the base slot for slotted composers),
// Slots target named slots.
type Style struct {
	Class Classes
	Slots map[string]Classes
}

// IsEmpty reports whether the style contributes nothing.
func (s Style) IsEmpty() bool {
	if !s.Class.IsEmpty() {
		return false
	}
	for _, value := range s.Slots {
		if !value.IsEmpty() {
			return false
		}
	}
	return true
}

// Variant is a named styling axis mapping value keys to styles.
type Variant struct {
	Name   string
	Values map[string]Style
}

// Keys returns the variant value keys in sorted order.
func (v Variant) Keys() []string {
	keys := make([]string, 0, len(v.Values))
	for key := range v.Values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsBoolean reports whether the value keys are a subset of {"true","false"}.
func (v Variant) IsBoolean() bool {
	if len(v.Values) == 0 {
		return false
	}
	for key := range v.Values {
		if key != "true" && key != "false" {
			return false
		}
	}
	return true
}

// Match is the set of accepted values for one compound condition.
// A single entry is an equality check, several entries match any of them.
type Match []string

// Is matches exactly one value.
func Is(value string) Match {
	return Match{value}
}

// OneOf matches any of the provided values.
func OneOf(values ...string) Match {
	return Match(values)
}

// Bool matches a boolean-shaped variant.
func Bool(value bool) Match {
	if value {
		return Match{"true"}
	}
	return Match{"false"}
}

// Contains reports whether value is accepted.
func (m Match) Contains(value string) bool {
	for _, candidate := range m {
		if candidate == value {
			return true
		}
	}
	return false
}

// CompoundVariant applies Style when every condition in When holds against
// the resolved variant values.
type CompoundVariant struct {
	When map[string]Match
	Style
}

// Config is the immutable configuration of a composer.
type Config struct {
	Base             Classes
	Slots            map[string]Classes
	Variants         []Variant
	DefaultVariants  map[string]string
	CompoundVariants []CompoundVariant
}

// Variant returns the variant declared with name.
func (c Config) Variant(name string) (Variant, bool) {
	for _, variant := range c.Variants {
		if variant.Name == name {
			return variant, true
		}
	}
	return Variant{}, false
}

// VariantKeys returns variant names in declaration order.
func (c Config) VariantKeys() []string {
	keys := make([]string, 0, len(c.Variants))
	for _, variant := range c.Variants {
		keys = append(keys, variant.Name)
	}
	return keys
}

// SlotKeys returns the declared slots. The base slot comes first when
// Base is set, the rest are sorted.
func (c Config) SlotKeys() []string {
	keys := make([]string, 0, len(c.Slots)+1)
	_, hasBase := c.Slots[BaseSlot]
	if !c.Base.IsEmpty() || hasBase {
		keys = append(keys, BaseSlot)
	}
	rest := make([]string, 0, len(c.Slots))
	for key := range c.Slots {
		if key == BaseSlot {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := Config{
		Base:            cloneClasses(c.Base),
		Slots:           cloneSlotMap(c.Slots),
		DefaultVariants: cloneStrings(c.DefaultVariants),
	}
	if c.Variants != nil {
		out.Variants = make([]Variant, len(c.Variants))
		for i, variant := range c.Variants {
			out.Variants[i] = Variant{Name: variant.Name, Values: cloneValues(variant.Values)}
		}
	}
	if c.CompoundVariants != nil {
		out.CompoundVariants = make([]CompoundVariant, len(c.CompoundVariants))
		for i, rule := range c.CompoundVariants {
			out.CompoundVariants[i] = cloneCompound(rule)
		}
	}
	return out
}

func cloneClasses(in Classes) Classes {
	if in == nil {
		return nil
	}
	out := make(Classes, len(in))
	copy(out, in)
	return out
}

func cloneSlotMap(in map[string]Classes) map[string]Classes {
	if in == nil {
		return nil
	}
	out := make(map[string]Classes, len(in))
	for key, value := range in {
		out[key] = cloneClasses(value)
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cloneStyle(in Style) Style {
	return Style{Class: cloneClasses(in.Class), Slots: cloneSlotMap(in.Slots)}
}

func cloneValues(in map[string]Style) map[string]Style {
	if in == nil {
		return nil
	}
	out := make(map[string]Style, len(in))
	for key, value := range in {
		out[key] = cloneStyle(value)
	}
	return out
}

func cloneCompound(in CompoundVariant) CompoundVariant {
	out := CompoundVariant{Style: cloneStyle(in.Style)}
	if in.When != nil {
		out.When = make(map[string]Match, len(in.When))
		for key, match := range in.When {
			out.When[key] = append(Match(nil), match...)
		}
	}
	return out
}
