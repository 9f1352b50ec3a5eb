package composer

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-twcomposer/ferrors"
)

func cardConfig() Config {
	return Config{
		Base: C("card"),
		Slots: map[string]Classes{
			"header": C("card-header"),
			"footer": C("card-footer"),
		},
		Variants: []Variant{
			{Name: "color", Values: map[string]Style{
				"primary": {Slots: map[string]Classes{"header": C("text-blue-500")}},
				"danger":  {Class: C("border-red-500"), Slots: map[string]Classes{"footer": C("bg-red-50")}},
			}},
			{Name: "compact", Values: map[string]Style{
				"true": {Slots: map[string]Classes{"header": C("p-1"), "footer": C("p-1")}},
			}},
		},
		CompoundVariants: []CompoundVariant{{
			When:  map[string]Match{"color": Is("danger"), "compact": Bool(true)},
			Style: Style{Slots: map[string]Classes{"header": C("font-bold")}},
		}},
	}
}

func TestSlotComposerPerSlotContributions(t *testing.T) {
	c := MustNewSlots(cardConfig(), plain())
	out := c.Slots(With(Values{"color": "primary"}))

	if got := out["header"](); !hasClass(got, "text-blue-500") {
		t.Fatalf("expected header to include text-blue-500, got %q", got)
	}
	if got := out["footer"](); hasClass(got, "text-blue-500") {
		t.Fatalf("expected footer without header classes, got %q", got)
	}
	if got := out[BaseSlot](); got != "card" {
		t.Fatalf("expected base slot %q, got %q", "card", got)
	}
}

func TestSlotComposerSlotKeys(t *testing.T) {
	c := MustNewSlots(cardConfig())
	keys := c.SlotKeys()
	if strings.Join(keys, ",") != "base,footer,header" {
		t.Fatalf("unexpected slot keys: %v", keys)
	}
	if strings.Join(c.VariantKeys(), ",") != "color,compact" {
		t.Fatalf("unexpected variant keys: %v", c.VariantKeys())
	}
}

func TestSlotComposerCompoundAndRootClass(t *testing.T) {
	c := MustNewSlots(cardConfig(), plain())
	out := c.Strings(With(Values{"color": "danger", "compact": true}))

	if out[BaseSlot] != "card border-red-500" {
		t.Fatalf("unexpected base slot: %q", out[BaseSlot])
	}
	if out["header"] != "card-header p-1 font-bold" {
		t.Fatalf("unexpected header slot: %q", out["header"])
	}
	if out["footer"] != "card-footer bg-red-50 p-1" {
		t.Fatalf("unexpected footer slot: %q", out["footer"])
	}
}

func TestSlotComposerOverridesAndExtras(t *testing.T) {
	c := MustNewSlots(Config{
		Slots: map[string]Classes{"header": C("bg-white p-2"), "footer": C("p-2")},
	})
	out := c.Slots(Props{Slots: map[string]any{"header": "bg-black"}})

	header := out["header"]()
	if !hasClass(header, "bg-black") || hasClass(header, "bg-white") {
		t.Fatalf("expected slot override to win, got %q", header)
	}
	extra := out["footer"]("p-6")
	if !hasClass(extra, "p-6") || hasClass(extra, "p-2") {
		t.Fatalf("expected call-site extra to win, got %q", extra)
	}
	if again := out["footer"](); again != "p-2" {
		t.Fatalf("expected extras to apply to one call only, got %q", again)
	}
}

func TestSlotComposerUndeclaredOverrideSlot(t *testing.T) {
	c := MustNewSlots(Config{Slots: map[string]Classes{"header": C("h")}}, plain())
	out := c.Strings(Props{Slots: map[string]any{"badge": "rounded"}})
	if out["badge"] != "rounded" {
		t.Fatalf("expected ad hoc slot output, got %v", out)
	}
	if out["header"] != "h" {
		t.Fatalf("expected declared slot kept, got %v", out)
	}
}

func TestSlotComposerEmptyConfig(t *testing.T) {
	c := MustNewSlots(Config{})
	out := c.Slots(Props{})
	if len(out) != 0 {
		t.Fatalf("expected empty slot map, got %v", out.Strings())
	}
	if got := out.Get("missing", "x"); got != "x" {
		t.Fatalf("expected Get on missing slot to return extras, got %q", got)
	}
}

func TestSlotComposerHookOutput(t *testing.T) {
	var seen ComposeEvent
	c := MustNewSlots(cardConfig(), plain(), WithName("card"), WithHook(HookFunc(func(event ComposeEvent) {
		seen = event
	})))
	c.Slots(Props{})
	if !seen.Slotted || seen.Composer != "card" {
		t.Fatalf("unexpected event: %+v", seen)
	}
	if seen.Output["header"] != "card-header" {
		t.Fatalf("unexpected header output: %v", seen.Output)
	}
}

func TestNewSlotsRejectsUndeclaredSlot(t *testing.T) {
	cfg := cardConfig()
	cfg.CompoundVariants = append(cfg.CompoundVariants, CompoundVariant{
		When:  map[string]Match{"color": Is("primary")},
		Style: Style{Slots: map[string]Classes{"body": C("p-4")}},
	})
	_, err := NewSlots(cfg)
	if !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
	rich, _ := ferrors.As(err)
	if len(rich.ValidationErrors) != 1 || rich.ValidationErrors[0].Field != "compound_variants[1].slots.body" {
		t.Fatalf("unexpected field errors: %v", rich.ValidationErrors)
	}
}
