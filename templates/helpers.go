package templates

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-twcomposer/classes"
	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/logger"
	"github.com/goliatone/go-twcomposer/scope"
	"github.com/goliatone/go-twcomposer/theme"
)

const (
	TemplateContextKey  = "tw_ctx"
	TemplateScopeKey    = "tw_scope"
	TemplateSnapshotKey = "tw_snapshot"
)

// HelperConfig configures template helpers.
type HelperConfig struct {
	ContextKey             string
	ScopeKey               string
	SnapshotKey            string
	EnableStructuredErrors bool
	EnableErrorLogging     bool
	Logger                 logger.Logger
	Merger                 classes.Merger
}

// HelperOption configures template helpers.
type HelperOption func(*HelperConfig)

// DefaultHelperConfig returns the default helper configuration.
func DefaultHelperConfig() HelperConfig {
	return HelperConfig{
		ContextKey:  TemplateContextKey,
		ScopeKey:    TemplateScopeKey,
		SnapshotKey: TemplateSnapshotKey,
	}
}

// WithContextKey overrides the template context key name.
func WithContextKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ContextKey = strings.TrimSpace(key)
	}
}

// WithScopeKey overrides the template scope key name.
func WithScopeKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ScopeKey = strings.TrimSpace(key)
	}
}

// WithSnapshotKey overrides the template snapshot key name.
func WithSnapshotKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.SnapshotKey = strings.TrimSpace(key)
	}
}

// WithStructuredErrors makes failing helpers return a TemplateError instead
// of an empty class string.
func WithStructuredErrors(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableStructuredErrors = enabled
	}
}

// WithErrorLogging toggles error logging for helper failures.
func WithErrorLogging(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableErrorLogging = enabled
	}
}

// WithLogger injects a logger for helper error logging.
func WithLogger(lgr logger.Logger) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.Logger = lgr
	}
}

// WithMerger sets the merger used by tw_merge.
func WithMerger(merger classes.Merger) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.Merger = merger
	}
}

// TemplateHelpers returns a helper set suitable for WithTemplateFunc.
//
// Component helpers take the component name, an optional variant map and
// optional extra classes:
//
//	{{ tw_class("button", {"size": "lg"}, "w-full") }}
//	{{ tw_slot("card", "header", {"tone": "info"}) }}
func TemplateHelpers(resolver theme.ThemeResolver, opts ...HelperOption) map[string]any {
	cfg := DefaultHelperConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.EnableErrorLogging && cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	helpers := &helperSet{
		resolver: resolver,
		trace:    traceResolver(resolver),
		cfg:      cfg,
	}

	funcs := map[string]any{
		"tw_class":    helpers.class,
		"tw_slot":     helpers.slot,
		"tw_slots":    helpers.slots,
		"tw_variants": helpers.variants,
		"tw_merge":    helpers.merge,
	}
	if helpers.trace != nil {
		funcs["tw_trace"] = helpers.traceHelper
	}
	return funcs
}

type helperSet struct {
	resolver theme.ThemeResolver
	trace    theme.TraceableThemeResolver
	cfg      HelperConfig
}

func (h *helperSet) class(execCtx *pongo2.ExecutionContext, name any, variants any, extra ...any) any {
	resolved, err := h.resolve(execCtx, name)
	if err != nil {
		return h.errorOrFallback("tw_class", err, "")
	}
	props, err := propsFromValue(variants, extra)
	if err != nil {
		return h.errorOrFallback("tw_class", err, "")
	}
	return resolved.Class(props)
}

func (h *helperSet) slot(execCtx *pongo2.ExecutionContext, name any, slot any, variants any, extra ...any) any {
	resolved, err := h.resolve(execCtx, name)
	if err != nil {
		return h.errorOrFallback("tw_slot", err, "")
	}
	slotName, ok := parseName(slot)
	if !ok {
		return h.errorOrFallback("tw_slot", ferrors.NewBadInput(ferrors.TextCodeInvalidName, "slot name is required", map[string]any{
			ferrors.MetaComponent: resolved.Name,
			ferrors.MetaSlot:      unwrapValue(slot),
		}), "")
	}
	props, err := propsFromValue(variants, nil)
	if err != nil {
		return h.errorOrFallback("tw_slot", err, "")
	}
	return resolved.SlotClasses(props).Get(slotName, unwrapAll(extra)...)
}

func (h *helperSet) slots(execCtx *pongo2.ExecutionContext, name any, variants ...any) any {
	resolved, err := h.resolve(execCtx, name)
	if err != nil {
		return h.errorOrFallback("tw_slots", err, map[string]string{})
	}
	var raw any
	if len(variants) > 0 {
		raw = variants[0]
	}
	props, err := propsFromValue(raw, nil)
	if err != nil {
		return h.errorOrFallback("tw_slots", err, map[string]string{})
	}
	return resolved.SlotClasses(props).Strings()
}

func (h *helperSet) variants(execCtx *pongo2.ExecutionContext, name any) any {
	resolved, err := h.resolve(execCtx, name)
	if err != nil {
		return h.errorOrFallback("tw_variants", err, []string{})
	}
	return resolved.VariantKeys()
}

func (h *helperSet) merge(_ *pongo2.ExecutionContext, values ...any) string {
	return classes.MergeWith(h.cfg.Merger, unwrapAll(values)...)
}

func (h *helperSet) traceHelper(execCtx *pongo2.ExecutionContext, name any) any {
	normalized, ok := parseName(name)
	if !ok {
		return h.errorOrFallback("tw_trace", nameRequired(name), nil)
	}
	_, trace, err := h.trace.ResolveWithTrace(h.context(execCtx), normalized, h.resolveOptions(execCtx)...)
	if err != nil {
		return h.errorOrFallback("tw_trace", err, nil)
	}
	return trace
}

func (h *helperSet) resolve(execCtx *pongo2.ExecutionContext, name any) (theme.Resolved, error) {
	normalized, ok := parseName(name)
	if !ok {
		return theme.Resolved{}, nameRequired(name)
	}
	if snapshot := h.snapshot(execCtx); snapshot != nil {
		if resolved, ok := snapshotResolved(snapshot, normalized); ok {
			return resolved, nil
		}
	}
	if h.resolver == nil {
		return theme.Resolved{}, ferrors.WrapSentinel(ferrors.ErrResolverRequired, "", map[string]any{
			ferrors.MetaComponent: normalized,
		})
	}
	return h.resolver.Resolve(h.context(execCtx), normalized, h.resolveOptions(execCtx)...)
}

func (h *helperSet) resolveOptions(execCtx *pongo2.ExecutionContext) []theme.ResolveOption {
	if scopeSet := h.scope(execCtx); scopeSet != nil {
		return []theme.ResolveOption{theme.WithScopeSet(*scopeSet)}
	}
	return nil
}

func (h *helperSet) context(execCtx *pongo2.ExecutionContext) context.Context {
	raw, ok := lookup(execCtx, h.cfg.ContextKey, TemplateContextKey)
	if !ok || raw == nil {
		return context.Background()
	}
	return contextFromValue(raw)
}

func (h *helperSet) scope(execCtx *pongo2.ExecutionContext) *theme.ScopeSet {
	raw, ok := lookup(execCtx, h.cfg.ScopeKey, TemplateScopeKey)
	if !ok || raw == nil {
		return nil
	}
	scopeSet, ok := scopeFromValue(raw)
	if !ok {
		return nil
	}
	return &scopeSet
}

func (h *helperSet) snapshot(execCtx *pongo2.ExecutionContext) any {
	raw, ok := lookup(execCtx, h.cfg.SnapshotKey, TemplateSnapshotKey)
	if !ok {
		return nil
	}
	return raw
}

func (h *helperSet) errorOrFallback(helper string, err error, fallback any) any {
	if h.cfg.EnableErrorLogging {
		h.logHelperError(helper, err)
	}
	if h.cfg.EnableStructuredErrors {
		return templateError(helper, err)
	}
	return fallback
}

func (h *helperSet) logHelperError(helper string, err error) {
	if h == nil || h.cfg.Logger == nil {
		return
	}
	args := []any{
		"helper", helper,
		"error", err,
	}
	if rich, ok := ferrors.As(err); ok {
		args = append(args,
			"category", rich.Category,
			"text_code", rich.TextCode,
			"metadata", rich.Metadata,
		)
	}
	h.cfg.Logger.Error("twcomposer.helper_error", args...)
}

// TemplateError provides structured helper error output.
type TemplateError struct {
	Helper   string         `json:"helper"`
	Type     string         `json:"type,omitempty"`
	Message  string         `json:"message,omitempty"`
	Category string         `json:"category,omitempty"`
	TextCode string         `json:"text_code,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// String renders nothing so a structured error never leaks into a class
// attribute.
func (TemplateError) String() string {
	return ""
}

func templateError(helper string, err error) TemplateError {
	out := TemplateError{Helper: helper}
	if err == nil {
		return out
	}
	if rich, ok := ferrors.As(err); ok {
		out.Message = rich.Message
		out.Category = rich.Category.String()
		out.TextCode = rich.TextCode
		if len(rich.Metadata) > 0 {
			out.Metadata = rich.Metadata
		}
		if out.TextCode != "" {
			out.Type = out.TextCode
		} else if out.Category != "" {
			out.Type = out.Category
		}
		return out
	}
	out.Message = err.Error()
	out.Type = "error"
	return out
}

// SnapshotReader returns components resolved ahead of rendering.
type SnapshotReader interface {
	Resolved(name string) (theme.Resolved, bool)
}

// Snapshot holds components resolved once per request so templates do not
// hit the resolver for every element.
type Snapshot map[string]theme.Resolved

// Resolved implements SnapshotReader.
func (s Snapshot) Resolved(name string) (theme.Resolved, bool) {
	name = theme.NormalizeName(name)
	if name == "" {
		return theme.Resolved{}, false
	}
	resolved, ok := s[name]
	if !ok || (resolved.Composer == nil && resolved.Slots == nil) {
		return theme.Resolved{}, false
	}
	return resolved, true
}

// Names lists the components held by the snapshot.
func (s Snapshot) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NewSnapshot resolves names for one scope.
func NewSnapshot(ctx context.Context, resolver theme.ThemeResolver, names []string, opts ...theme.ResolveOption) (Snapshot, error) {
	if resolver == nil {
		return nil, ferrors.WrapSentinel(ferrors.ErrResolverRequired, "", nil)
	}
	out := make(Snapshot, len(names))
	for _, name := range names {
		resolved, err := resolver.Resolve(ctx, name, opts...)
		if err != nil {
			return nil, err
		}
		out[resolved.Name] = resolved
	}
	return out, nil
}

func snapshotResolved(snapshot any, name string) (theme.Resolved, bool) {
	if reader, ok := snapshot.(SnapshotReader); ok {
		return reader.Resolved(name)
	}
	if typed, ok := snapshot.(map[string]theme.Resolved); ok {
		return Snapshot(typed).Resolved(name)
	}
	return theme.Resolved{}, false
}

func propsFromValue(variants any, extra []any) (composer.Props, error) {
	props := composer.Props{}
	raw := unwrapValue(variants)
	switch typed := raw.(type) {
	case nil:
	case composer.Props:
		props = typed
	case composer.Values:
		props.Variants = typed
	case map[string]any:
		props.Variants = composer.Values(typed)
	case pongo2.Context:
		props.Variants = composer.Values(typed)
	case map[string]string:
		values := make(composer.Values, len(typed))
		for key, value := range typed {
			values[key] = value
		}
		props.Variants = values
	case string:
		// tw_class("button", "w-full") passes extra classes without variants.
		extra = append([]any{typed}, extra...)
	default:
		return composer.Props{}, ferrors.NewBadInput(ferrors.TextCodePropsInvalid, fmt.Sprintf("variants must be a map, got %T", raw), nil)
	}
	if len(extra) > 0 {
		props = props.WithClass(unwrapAll(extra))
	}
	return props, nil
}

func nameRequired(value any) error {
	return ferrors.WrapSentinel(ferrors.ErrInvalidName, "component name is required", map[string]any{
		ferrors.MetaComponent: unwrapValue(value),
	})
}

func parseName(value any) (string, bool) {
	raw := unwrapValue(value)
	switch typed := raw.(type) {
	case string:
		normalized := theme.NormalizeName(typed)
		return normalized, normalized != ""
	case fmt.Stringer:
		normalized := theme.NormalizeName(typed.String())
		return normalized, normalized != ""
	default:
		return "", false
	}
}

func unwrapAll(values []any) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, unwrapValue(value))
	}
	return out
}

func unwrapValue(value any) any {
	if value == nil {
		return nil
	}
	if pv, ok := value.(*pongo2.Value); ok && pv != nil {
		return pv.Interface()
	}
	return value
}

func lookup(execCtx *pongo2.ExecutionContext, key, fallback string) (any, bool) {
	if execCtx == nil || execCtx.Public == nil {
		return nil, false
	}
	if key == "" {
		key = fallback
	}
	raw, ok := execCtx.Public[key]
	return raw, ok
}

func contextFromValue(value any) context.Context {
	switch typed := value.(type) {
	case context.Context:
		return typed
	case interface{ Context() context.Context }:
		return typed.Context()
	default:
		return context.Background()
	}
}

func scopeFromValue(value any) (theme.ScopeSet, bool) {
	switch typed := value.(type) {
	case theme.ScopeSet:
		return typed, true
	case *theme.ScopeSet:
		if typed == nil {
			return theme.ScopeSet{}, false
		}
		return *typed, true
	case pongo2.Context:
		return scopeFromMap(typed)
	case map[string]any:
		return scopeFromMap(typed)
	case map[string]string:
		raw := make(map[string]any, len(typed))
		for key, val := range typed {
			raw[key] = val
		}
		return scopeFromMap(raw)
	default:
		return theme.ScopeSet{}, false
	}
}

func scopeFromMap(data map[string]any) (theme.ScopeSet, bool) {
	if len(data) == 0 {
		return theme.ScopeSet{}, false
	}
	scopeSet := theme.ScopeSet{}
	if val, ok := data[scope.MetadataTenantID]; ok {
		scopeSet.TenantID, _ = val.(string)
	}
	if val, ok := data[scope.MetadataOrgID]; ok {
		scopeSet.OrgID, _ = val.(string)
	}
	if val, ok := data[scope.MetadataUserID]; ok {
		scopeSet.UserID, _ = val.(string)
	}
	if val, ok := data["system"]; ok {
		if flag, ok := val.(bool); ok {
			scopeSet.System = flag
		}
	}
	if scopeSet.IsZero() {
		return theme.ScopeSet{}, false
	}
	return scopeSet, true
}

func traceResolver(resolver theme.ThemeResolver) theme.TraceableThemeResolver {
	if resolver == nil {
		return nil
	}
	traceable, ok := resolver.(theme.TraceableThemeResolver)
	if !ok {
		return nil
	}
	return traceable
}
