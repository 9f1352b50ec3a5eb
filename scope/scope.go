package scope

import (
	"context"
	"strings"

	"github.com/goliatone/go-twcomposer/theme"
)

type contextKey string

const (
	systemKey   contextKey = "twcomposer.system"
	tenantIDKey contextKey = "twcomposer.tenant_id"
	orgIDKey    contextKey = "twcomposer.org_id"
	userIDKey   contextKey = "twcomposer.user_id"
)

// Metadata keys used when scopes are persisted by adapters.
const (
	MetadataTenantID = "tenant_id"
	MetadataOrgID    = "org_id"
	MetadataUserID   = "user_id"
)

// WithSystem marks the context as system scoped. System scope ignores
// tenant, org and user identifiers.
func WithSystem(ctx context.Context, system bool) context.Context {
	return context.WithValue(ctx, systemKey, system)
}

// WithTenantID stores a tenant identifier in context. Blank values are ignored.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return withID(ctx, tenantIDKey, tenantID)
}

// WithOrgID stores an org identifier in context. Blank values are ignored.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return withID(ctx, orgIDKey, orgID)
}

// WithUserID stores a user identifier in context. Blank values are ignored.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withID(ctx, userIDKey, userID)
}

// ClearTenantID removes the tenant identifier.
func ClearTenantID(ctx context.Context) context.Context {
	return context.WithValue(ctx, tenantIDKey, "")
}

// ClearOrgID removes the org identifier.
func ClearOrgID(ctx context.Context) context.Context {
	return context.WithValue(ctx, orgIDKey, "")
}

// ClearUserID removes the user identifier.
func ClearUserID(ctx context.Context) context.Context {
	return context.WithValue(ctx, userIDKey, "")
}

// WithScopeSet stores every identifier from s in context.
func WithScopeSet(ctx context.Context, s theme.ScopeSet) context.Context {
	if s.System {
		return WithSystem(ctx, true)
	}
	ctx = WithTenantID(ctx, s.TenantID)
	ctx = WithOrgID(ctx, s.OrgID)
	return WithUserID(ctx, s.UserID)
}

// System reports whether the context is system scoped.
func System(ctx context.Context) bool {
	value, _ := ctx.Value(systemKey).(bool)
	return value
}

// TenantID extracts the tenant identifier from context.
func TenantID(ctx context.Context) string {
	return toString(ctx.Value(tenantIDKey))
}

// OrgID extracts the org identifier from context.
func OrgID(ctx context.Context) string {
	return toString(ctx.Value(orgIDKey))
}

// UserID extracts the user identifier from context.
func UserID(ctx context.Context) string {
	return toString(ctx.Value(userIDKey))
}

// FromContext builds a ScopeSet from context values.
func FromContext(ctx context.Context) theme.ScopeSet {
	if ctx == nil {
		return theme.ScopeSet{}
	}
	if System(ctx) {
		return theme.ScopeSet{System: true}
	}
	return theme.ScopeSet{
		TenantID: TenantID(ctx),
		OrgID:    OrgID(ctx),
		UserID:   UserID(ctx),
	}
}

// Resolver derives scopes from context values.
type Resolver struct{}

// Resolve implements theme.ScopeResolver.
func (Resolver) Resolve(ctx context.Context) (theme.ScopeSet, error) {
	return FromContext(ctx), nil
}

func withID(ctx context.Context, key contextKey, value string) context.Context {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ctx
	}
	return context.WithValue(ctx, key, trimmed)
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

var _ theme.ScopeResolver = Resolver{}
