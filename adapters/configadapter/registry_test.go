package configadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-config/config"

	"github.com/goliatone/go-twcomposer/classes"
	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/registry"
	"github.com/goliatone/go-twcomposer/theme"
)

func TestRegistryFromNestedMap(t *testing.T) {
	reg, err := NewRegistry(map[string]any{
		"forms": map[string]any{
			"input": map[string]any{
				"base": "border rounded",
				"variants": map[string]any{
					"invalid": map[string]any{"true": "border-red-500"},
				},
				"default_variants": map[string]any{
					"invalid": config.NewOptionalBool(false),
				},
			},
			"label": "text-sm font-medium",
		},
	}, WithRegistryOptions(registry.WithComposerOptions(composer.WithMerger(classes.NoopMerger{}))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input, ok := reg.Lookup("forms.input")
	if !ok {
		t.Fatalf("expected forms.input to exist")
	}
	if got := input.Class(composer.With(composer.Values{"invalid": true})); got != "border rounded border-red-500" {
		t.Fatalf("unexpected class: %q", got)
	}
	def, _ := reg.Get("forms.input")
	if def.Config.DefaultVariants["invalid"] != "false" {
		t.Fatalf("expected optional bool default, got %v", def.Config.DefaultVariants)
	}

	label, ok := reg.Lookup("forms.label")
	if !ok {
		t.Fatalf("expected shorthand label component")
	}
	if got := label.Class(composer.Props{}); got != "text-sm font-medium" {
		t.Fatalf("unexpected label class: %q", got)
	}
}

func TestRegistryUnsetOptionalBoolSkipsDefault(t *testing.T) {
	reg, err := NewRegistry(map[string]any{
		"toggle": map[string]any{
			"variants": map[string]any{
				"on": map[string]any{"true": "bg-green-500", "false": "bg-gray-200"},
			},
			"default_variants": map[string]any{"on": config.NewOptionalBoolUnset()},
		},
	}, WithDelimiter("/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def, ok := reg.Get("toggle")
	if !ok {
		t.Fatalf("expected toggle to exist")
	}
	if _, ok := def.Config.DefaultVariants["on"]; ok {
		t.Fatalf("expected unset optional bool to be skipped, got %v", def.Config.DefaultVariants)
	}
}

func TestRegistryReportsInvalidConfig(t *testing.T) {
	_, err := NewRegistry(map[string]any{
		"button": map[string]any{
			"base":             "btn",
			"default_variants": map[string]any{"size": "sm"},
		},
	})
	if !errors.Is(err, ferrors.ErrDocumentInvalid) {
		t.Fatalf("expected document error, got %v", err)
	}
}

func TestOverridesServeSystemLayer(t *testing.T) {
	overrides, err := NewOverrides(map[string]any{
		"button": map[string]any{"base": "uppercase"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	layers, err := overrides.Get(context.Background(), " Button ", theme.ScopeSet{TenantID: "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("expected system and tenant layers, got %d", len(layers))
	}
	if !layers[0].Override.HasValue() || layers[0].Override.Config.Base.String() != "uppercase" {
		t.Fatalf("expected system override, got %+v", layers[0])
	}
	if layers[1].Override.HasValue() {
		t.Fatalf("expected tenant layer to be missing")
	}
	if names := overrides.Names(); len(names) != 1 || names[0] != "button" {
		t.Fatalf("unexpected names: %v", names)
	}
}
