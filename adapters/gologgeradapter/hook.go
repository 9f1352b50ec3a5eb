package gologgeradapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-twcomposer/activity"
	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/scope"
	"github.com/goliatone/go-twcomposer/theme"
)

// Hook logs resolve, update and compose events using go-logger.
type Hook struct {
	logger         glog.Logger
	resolveLevel   string
	updateLevel    string
	composeLevel   string
	resolveMessage string
	updateMessage  string
	composeMessage string
}

// Option customizes the logger hook.
type Option func(*Hook)

// New builds a logging hook. Compose events are logged at trace level since
// they fire on every render.
func New(logger glog.Logger, opts ...Option) *Hook {
	hook := &Hook{
		logger:         logger,
		resolveLevel:   "debug",
		updateLevel:    "info",
		composeLevel:   "trace",
		resolveMessage: "twcomposer.resolve",
		updateMessage:  "twcomposer.update",
		composeMessage: "twcomposer.compose",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hook)
		}
	}
	return hook
}

// WithResolveLevel sets the log level for resolve events.
func WithResolveLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.resolveLevel = normalizeLevel(level)
	}
}

// WithUpdateLevel sets the log level for update events.
func WithUpdateLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateLevel = normalizeLevel(level)
	}
}

// WithComposeLevel sets the log level for compose events.
func WithComposeLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.composeLevel = normalizeLevel(level)
	}
}

// WithMessages overrides the resolve, update and compose log messages.
// Empty values keep the defaults.
func WithMessages(resolve, update, compose string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		if resolve != "" {
			hook.resolveMessage = resolve
		}
		if update != "" {
			hook.updateMessage = update
		}
		if compose != "" {
			hook.composeMessage = compose
		}
	}
}

// OnResolve implements theme.ResolveHook.
func (h *Hook) OnResolve(ctx context.Context, event theme.ResolveEvent) {
	if h == nil || h.logger == nil {
		return
	}
	h.log(ctx, h.resolveLevel, h.resolveMessage, ResolveFields(event))
}

// OnUpdate implements activity.Hook.
func (h *Hook) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if h == nil || h.logger == nil {
		return
	}
	h.log(ctx, h.updateLevel, h.updateMessage, UpdateFields(event))
}

// OnCompose implements composer.Hook.
func (h *Hook) OnCompose(event composer.ComposeEvent) {
	if h == nil || h.logger == nil {
		return
	}
	h.log(context.Background(), h.composeLevel, h.composeMessage, ComposeFields(event))
}

// ResolveFields builds structured fields for a resolve event.
func ResolveFields(event theme.ResolveEvent) map[string]any {
	applied := make([]string, 0, len(event.Trace.Layers))
	for _, layer := range event.Trace.Applied() {
		applied = append(applied, layer.Level)
	}
	fields := map[string]any{
		"component":          event.Name,
		"component_norm":     event.NormalizedName,
		"component_source":   event.Source,
		"component_slotted":  event.Trace.Slotted,
		"component_cache":    event.Trace.CacheHit,
		"component_overlays": strings.Join(applied, ","),
	}
	if event.Error != nil {
		fields["component_error"] = event.Error.Error()
	}
	if event.Trace.OverrideError != nil {
		fields["component_override_error"] = event.Trace.OverrideError.Error()
	}
	addScope(fields, event.Scope)
	return fields
}

// UpdateFields builds structured fields for an update event.
func UpdateFields(event activity.UpdateEvent) map[string]any {
	fields := map[string]any{
		"component":      event.Name,
		"component_norm": event.NormalizedName,
		"action":         event.Action,
		"actor_id":       event.Actor.ID,
		"actor_type":     event.Actor.Type,
		"actor_name":     event.Actor.Name,
	}
	if event.Source != "" {
		fields["source"] = event.Source
	}
	if event.Config != nil {
		fields["variants"] = strings.Join(event.Config.VariantKeys(), ",")
	}
	addScope(fields, event.Scope)
	return fields
}

// ComposeFields builds structured fields for a compose event.
func ComposeFields(event composer.ComposeEvent) map[string]any {
	variants := make([]string, 0, len(event.Trace.Variants))
	for _, variant := range event.Trace.Variants {
		if variant.Source == composer.VariantSourceUnresolved {
			continue
		}
		variants = append(variants, variant.Name+"="+variant.Value)
	}
	fields := map[string]any{
		"composer":  event.Composer,
		"slotted":   event.Slotted,
		"variants":  strings.Join(variants, ","),
		"compounds": len(event.Trace.Compounds),
	}
	if base, ok := event.Output[composer.BaseSlot]; ok {
		fields["class"] = base
	}
	return fields
}

func (h *Hook) log(ctx context.Context, level string, message string, fields map[string]any) {
	logger := h.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(glog.FieldsLogger); ok && len(fields) > 0 {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "trace":
		logger.Trace(message)
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error", "fatal":
		// fatal would exit the process from a render path.
		logger.Error(message)
	default:
		logger.Info(message)
	}
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

func addScope(fields map[string]any, scopeSet theme.ScopeSet) {
	fields[scope.MetadataTenantID] = scopeSet.TenantID
	fields[scope.MetadataOrgID] = scopeSet.OrgID
	fields[scope.MetadataUserID] = scopeSet.UserID
	fields["system"] = scopeSet.System
}

var _ theme.ResolveHook = (*Hook)(nil)
var _ activity.Hook = (*Hook)(nil)
var _ composer.Hook = (*Hook)(nil)
