package composer

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-twcomposer/classes"
	"github.com/goliatone/go-twcomposer/ferrors"
)

func plain() Option {
	return WithMerger(classes.NoopMerger{})
}

func buttonConfig() Config {
	return Config{
		Base: C("btn"),
		Variants: []Variant{
			{Name: "size", Values: map[string]Style{
				"sm": {Class: C("btn-sm")},
				"lg": {Class: C("btn-lg")},
			}},
			{Name: "color", Values: map[string]Style{
				"primary":   {Class: C("btn-primary")},
				"secondary": {Class: C("btn-secondary")},
			}},
			{Name: "isDisabled", Values: map[string]Style{
				"true": {Class: C("opacity-50")},
			}},
		},
		DefaultVariants: map[string]string{"size": "sm"},
	}
}

func hasClass(out, class string) bool {
	for _, token := range strings.Fields(out) {
		if token == class {
			return true
		}
	}
	return false
}

func TestComposerDefaultAndExplicitVariant(t *testing.T) {
	c := MustNew(Config{
		Base: C("btn"),
		Variants: []Variant{{Name: "size", Values: map[string]Style{
			"sm": {Class: C("btn-sm")},
			"lg": {Class: C("btn-lg")},
		}}},
		DefaultVariants: map[string]string{"size": "sm"},
	}, plain())

	if got := c.Class(Props{}); got != "btn btn-sm" {
		t.Fatalf("expected default size, got %q", got)
	}
	if got := c.Class(With(Values{"size": "lg"})); got != "btn btn-lg" {
		t.Fatalf("expected explicit size, got %q", got)
	}
}

func TestComposerBooleanVariant(t *testing.T) {
	c := MustNew(Config{
		Variants: []Variant{{Name: "isDisabled", Values: map[string]Style{
			"true": {Class: C("opacity-50")},
		}}},
	}, plain())

	if got := c.Class(With(Values{"isDisabled": true})); !hasClass(got, "opacity-50") {
		t.Fatalf("expected opacity-50, got %q", got)
	}
	if got := c.Class(With(Values{"isDisabled": false})); hasClass(got, "opacity-50") {
		t.Fatalf("expected no opacity-50 for false, got %q", got)
	}
	if got := c.Class(Props{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestComposerCompoundUsesDefaults(t *testing.T) {
	cfg := buttonConfig()
	cfg.DefaultVariants = map[string]string{"color": "primary"}
	cfg.CompoundVariants = []CompoundVariant{{
		When:  map[string]Match{"color": Is("primary"), "size": Is("sm")},
		Style: Style{Class: C("btn-primary-sm")},
	}}
	c := MustNew(cfg, plain())

	if got := c.Class(With(Values{"size": "sm"})); !hasClass(got, "btn-primary-sm") {
		t.Fatalf("expected compound class with defaulted color, got %q", got)
	}
	if got := c.Class(With(Values{"size": "lg"})); hasClass(got, "btn-primary-sm") {
		t.Fatalf("expected compound to fail for lg, got %q", got)
	}
	if got := c.Class(With(Values{"size": "sm", "color": "secondary"})); hasClass(got, "btn-primary-sm") {
		t.Fatalf("expected compound to fail for secondary, got %q", got)
	}
}

func TestComposerCompoundUnresolvedVariantFails(t *testing.T) {
	cfg := buttonConfig()
	cfg.DefaultVariants = nil
	cfg.CompoundVariants = []CompoundVariant{
		{When: map[string]Match{"color": Is("primary"), "size": Is("sm")}, Style: Style{Class: C("both")}},
		{When: map[string]Match{"missing": Is("x")}, Style: Style{Class: C("dead")}},
	}
	c := MustNew(cfg, plain())

	got := c.Class(With(Values{"size": "sm"}))
	if hasClass(got, "both") {
		t.Fatalf("expected unresolved color to fail the rule, got %q", got)
	}
	if hasClass(got, "dead") {
		t.Fatalf("expected rule on unknown variant to never match, got %q", got)
	}
}

func TestComposerCompoundOneOfAndBool(t *testing.T) {
	cfg := buttonConfig()
	cfg.CompoundVariants = []CompoundVariant{
		{When: map[string]Match{"color": OneOf("primary", "secondary"), "isDisabled": Bool(true)}, Style: Style{Class: C("muted")}},
		{When: map[string]Match{"size": Is("sm")}, Style: Style{Class: C("first")}},
		{When: map[string]Match{"size": Is("sm")}, Style: Style{Class: C("second")}},
	}
	c := MustNew(cfg, plain())

	got, trace := c.ClassWithTrace(With(Values{"color": "secondary", "isDisabled": true}))
	if !hasClass(got, "muted") {
		t.Fatalf("expected OR match to apply, got %q", got)
	}
	if !strings.HasSuffix(got, "first second") {
		t.Fatalf("expected every matching rule in order, got %q", got)
	}
	if len(trace.Compounds) != 3 {
		t.Fatalf("expected three matched compounds, got %v", trace.Compounds)
	}
	if got := c.Class(With(Values{"color": "secondary", "isDisabled": false})); hasClass(got, "muted") {
		t.Fatalf("expected AND semantics, got %q", got)
	}
}

func TestComposerAssemblyOrder(t *testing.T) {
	cfg := buttonConfig()
	cfg.CompoundVariants = []CompoundVariant{{
		When:  map[string]Match{"size": Is("sm")},
		Style: Style{Class: C("compound")},
	}}
	c := MustNew(cfg, plain())

	got := c.Class(Props{
		Variants: Values{"color": "primary", "size": "sm"},
		Class:    "custom",
	})
	want := "btn btn-sm btn-primary compound custom"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestComposerOverrideWinsConflicts(t *testing.T) {
	c := MustNew(Config{Base: C("bg-blue-500 px-2")})

	got := c.Class(Props{Class: "bg-red-500"})
	if !hasClass(got, "bg-red-500") || hasClass(got, "bg-blue-500") {
		t.Fatalf("expected caller class to win, got %q", got)
	}
	if !hasClass(got, "px-2") {
		t.Fatalf("expected unrelated base class kept, got %q", got)
	}
}

func TestComposerCallerPrecedenceOverDefault(t *testing.T) {
	c := MustNew(Config{
		Variants: []Variant{{Name: "tone", Values: map[string]Style{
			"calm": {Class: C("text-gray-500")},
			"loud": {Class: C("font-bold")},
		}}},
		DefaultVariants: map[string]string{"tone": "calm"},
	}, plain())

	got := c.Class(With(Values{"tone": "loud"}))
	if hasClass(got, "text-gray-500") {
		t.Fatalf("expected default classes dropped, got %q", got)
	}
	if !hasClass(got, "font-bold") {
		t.Fatalf("expected explicit classes, got %q", got)
	}
}

func TestComposerExplicitNonStringInputBeatsDefault(t *testing.T) {
	c := MustNew(Config{
		Variants: []Variant{{Name: "cols", Values: map[string]Style{
			"2": {Class: C("grid-cols-2")},
			"3": {Class: C("grid-cols-3")},
		}}},
		DefaultVariants: map[string]string{"cols": "3"},
	}, plain())

	type columns int
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "float64", value: float64(2), want: "grid-cols-2"},
		{name: "float32", value: float32(2), want: "grid-cols-2"},
		{name: "uint8", value: uint8(2), want: "grid-cols-2"},
		{name: "named int", value: columns(2), want: "grid-cols-2"},
		{name: "blank string", value: "", want: ""},
		{name: "unknown float", value: 2.5, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, trace := c.ClassWithTrace(With(Values{"cols": tc.value}))
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if trace.Variants[0].Source != VariantSourceInput {
				t.Fatalf("expected input source, got %s", trace.Variants[0].Source)
			}
		})
	}

	if got := c.Class(With(Values{"cols": nil})); got != "grid-cols-3" {
		t.Fatalf("expected nil input to use default, got %q", got)
	}
	var unset *string
	if got := c.Class(With(Values{"cols": unset})); got != "grid-cols-3" {
		t.Fatalf("expected nil pointer to use default, got %q", got)
	}
}

func TestValueKeyScalars(t *testing.T) {
	cases := []struct {
		value any
		want  string
		ok    bool
	}{
		{value: 2.5, want: "2.5", ok: true},
		{value: float64(3), want: "3", ok: true},
		{value: float32(0.25), want: "0.25", ok: true},
		{value: int64(-4), want: "-4", ok: true},
		{value: " md ", want: "md", ok: true},
		{value: "  ", want: "", ok: false},
		{value: []string{"a"}, want: "", ok: false},
		{value: map[string]any{}, want: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := ValueKey(tc.value)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ValueKey(%#v) = %q, %v; want %q, %v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}

func TestComposerEmptyConfig(t *testing.T) {
	c := MustNew(Config{})
	if got := c.Class(Props{}); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if keys := c.VariantKeys(); len(keys) != 0 {
		t.Fatalf("expected no variant keys, got %v", keys)
	}
}

func TestComposerUnknownValueIsSilent(t *testing.T) {
	c := MustNew(buttonConfig(), plain())
	got, trace := c.ClassWithTrace(With(Values{"size": "xl"}))
	if got != "btn" {
		t.Fatalf("expected unknown value to contribute nothing, got %q", got)
	}
	if value, ok := trace.Resolved("size"); !ok || value != "xl" {
		t.Fatalf("expected size to resolve to xl, got %q %v", value, ok)
	}
	if trace.Variants[0].Matched {
		t.Fatalf("expected unmatched trace entry")
	}
	if err := c.CheckProps(With(Values{"size": "xl", "shape": "round"})); err == nil {
		t.Fatalf("expected CheckProps to report unknown selections")
	}
	if err := c.CheckProps(With(Values{"size": "lg"})); err != nil {
		t.Fatalf("unexpected CheckProps error: %v", err)
	}
}

func TestComposerVariantKeysDeclarationOrder(t *testing.T) {
	c := MustNew(buttonConfig())
	keys := c.VariantKeys()
	want := []string{"size", "color", "isDisabled"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	keys[0] = "mutated"
	if c.VariantKeys()[0] != "size" {
		t.Fatalf("expected VariantKeys to return a copy")
	}
}

func TestComposerIdempotent(t *testing.T) {
	c := MustNew(buttonConfig())
	props := Props{Variants: Values{"color": "primary", "isDisabled": true}, Class: []string{"mt-2", "mt-4"}}
	first := c.Class(props)
	second := c.Class(props)
	if first != second {
		t.Fatalf("expected identical output, got %q and %q", first, second)
	}
}

func TestComposerTraceSources(t *testing.T) {
	c := MustNew(buttonConfig())
	_, trace := c.ClassWithTrace(With(Values{"color": "primary"}))
	sources := map[string]VariantSource{}
	for _, entry := range trace.Variants {
		sources[entry.Name] = entry.Source
	}
	if sources["size"] != VariantSourceDefault {
		t.Fatalf("expected size from default, got %s", sources["size"])
	}
	if sources["color"] != VariantSourceInput {
		t.Fatalf("expected color from input, got %s", sources["color"])
	}
	if sources["isDisabled"] != VariantSourceUnresolved {
		t.Fatalf("expected isDisabled unresolved, got %s", sources["isDisabled"])
	}
}

func TestComposerHooks(t *testing.T) {
	var events []ComposeEvent
	c := MustNew(buttonConfig(), plain(), WithName("button"), WithHook(HookFunc(func(event ComposeEvent) {
		events = append(events, event)
	})))
	out := c.Class(Props{})
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Composer != "button" || events[0].Slotted {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if events[0].Output[BaseSlot] != out {
		t.Fatalf("expected event output %q, got %q", out, events[0].Output[BaseSlot])
	}
}

func TestComposerConfigIsCopied(t *testing.T) {
	cfg := buttonConfig()
	c := MustNew(cfg, plain())
	cfg.Base[0] = "changed"
	cfg.Variants[0].Values["sm"] = Style{Class: C("changed-sm")}

	if got := c.Class(Props{}); got != "btn btn-sm" {
		t.Fatalf("expected composer isolated from caller config, got %q", got)
	}
	snapshot := c.Config()
	snapshot.Base[0] = "again"
	if got := c.Class(Props{}); got != "btn btn-sm" {
		t.Fatalf("expected Config to return a copy, got %q", got)
	}
}

func TestComposerSplit(t *testing.T) {
	c := MustNew(buttonConfig())
	variants, rest := c.Split(map[string]any{"size": "lg", "id": "save", "aria-label": "Save"})
	if len(variants) != 1 || variants["size"] != "lg" {
		t.Fatalf("unexpected variants: %v", variants)
	}
	if len(rest) != 2 || rest["id"] != "save" {
		t.Fatalf("unexpected rest: %v", rest)
	}
}

func TestNewRejectsMalformedConfig(t *testing.T) {
	_, err := New(Config{
		Slots: map[string]Classes{"icon": C("w-4")},
		Variants: []Variant{
			{Name: ""},
			{Name: "size", Values: map[string]Style{"sm": {Slots: map[string]Classes{"icon": C("w-3")}}}},
			{Name: "size"},
		},
		DefaultVariants:  map[string]string{"tone": "calm"},
		CompoundVariants: []CompoundVariant{{Style: Style{Class: C("x")}}},
	}, WithName("broken"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
	rich, ok := ferrors.As(err)
	if !ok {
		t.Fatalf("expected rich error")
	}
	if rich.TextCode != ferrors.TextCodeConfigInvalid {
		t.Fatalf("unexpected text code %s", rich.TextCode)
	}
	if len(rich.ValidationErrors) != 6 {
		t.Fatalf("expected 6 field errors, got %d: %v", len(rich.ValidationErrors), rich.ValidationErrors)
	}
	if rich.Metadata[ferrors.MetaComposer] != "broken" {
		t.Fatalf("expected composer name in metadata")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustNew(Config{DefaultVariants: map[string]string{"size": "sm"}})
}

func TestNewRejectsCompoundWithoutConditions(t *testing.T) {
	cfg := buttonConfig()
	cfg.CompoundVariants = []CompoundVariant{{Style: Style{Class: C("always")}}}
	_, err := New(cfg)
	if !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
	rich, _ := ferrors.As(err)
	if len(rich.ValidationErrors) != 1 || rich.ValidationErrors[0].Field != "compound_variants[0].when" {
		t.Fatalf("unexpected field errors: %v", rich.ValidationErrors)
	}

	base := MustNew(buttonConfig())
	if _, err := base.Extend(Config{CompoundVariants: cfg.CompoundVariants}); !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Fatalf("expected extension with unconditioned rule to fail, got %v", err)
	}
}
