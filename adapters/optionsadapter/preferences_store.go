package optionsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-admin/admin"
	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/scope"
)

// ErrPreferencesStoreRequired indicates a missing preferences store.
var ErrPreferencesStoreRequired = ferrors.ErrPreferencesStoreRequired

// PreferencesOption customizes the PreferencesStore adapter.
type PreferencesOption func(*PreferencesStoreAdapter)

// PreferencesStoreAdapter adapts a go-admin PreferencesStore into a
// state.Store. Every component override is one preference holding the
// JSON encoded partial configuration under "<prefix>.<component>".
type PreferencesStoreAdapter struct {
	store     admin.PreferencesStore
	keyPrefix string
	names     []string
}

// NewPreferencesStoreAdapter constructs a new adapter for PreferencesStore.
func NewPreferencesStoreAdapter(store admin.PreferencesStore, options ...PreferencesOption) *PreferencesStoreAdapter {
	adapter := &PreferencesStoreAdapter{store: store}
	for _, opt := range options {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// WithKeyPrefix overrides the key prefix, which defaults to the domain.
func WithKeyPrefix(prefix string) PreferencesOption {
	return func(adapter *PreferencesStoreAdapter) {
		if adapter == nil {
			return
		}
		adapter.keyPrefix = strings.TrimSpace(prefix)
	}
}

// WithComponents restricts loads to the named components.
func WithComponents(names ...string) PreferencesOption {
	return func(adapter *PreferencesStoreAdapter) {
		if adapter == nil {
			return
		}
		cleaned := make([]string, 0, len(names))
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			cleaned = append(cleaned, name)
		}
		adapter.names = cleaned
	}
}

// Load implements state.Store.
func (a *PreferencesStoreAdapter) Load(ctx context.Context, ref state.Ref) (map[string]any, state.Meta, bool, error) {
	if a == nil || a.store == nil {
		return nil, state.Meta{}, false, ferrors.WrapSentinel(ErrPreferencesStoreRequired, "", nil)
	}
	level, prefScope, err := a.preferenceScope(ref.Scope)
	if err != nil {
		return nil, state.Meta{}, false, err
	}

	snapshot, err := a.store.Resolve(ctx, admin.PreferencesResolveInput{
		Scope:  prefScope,
		Levels: []admin.PreferenceLevel{level},
		Keys:   a.prefixedKeys(ref.Domain),
	})
	if err != nil {
		return nil, state.Meta{}, false, err
	}
	if len(snapshot.Effective) == 0 {
		return nil, state.Meta{}, false, nil
	}

	prefix := a.domainPrefix(ref.Domain)
	result := map[string]any{}
	for key, value := range snapshot.Effective {
		if prefix != "" {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			key = strings.TrimPrefix(key, prefix)
		}
		decoded, err := decodePreference(key, value)
		if err != nil {
			return nil, state.Meta{}, false, err
		}
		result[key] = decoded
	}
	if len(result) == 0 {
		return nil, state.Meta{}, false, nil
	}
	return result, state.Meta{}, true, nil
}

// Save implements state.Store. Components missing from snapshot are
// deleted from the preference level.
func (a *PreferencesStoreAdapter) Save(ctx context.Context, ref state.Ref, snapshot map[string]any, _ state.Meta) (state.Meta, error) {
	if a == nil || a.store == nil {
		return state.Meta{}, ferrors.WrapSentinel(ErrPreferencesStoreRequired, "", nil)
	}
	level, prefScope, err := a.preferenceScope(ref.Scope)
	if err != nil {
		return state.Meta{}, err
	}

	prefix := a.domainPrefix(ref.Domain)
	values := make(map[string]any, len(snapshot))
	for name, value := range snapshot {
		encoded, err := json.Marshal(value)
		if err != nil {
			return state.Meta{}, ferrors.WrapBadInput(err, ferrors.TextCodeOverrideTypeInvalid, "", map[string]any{
				ferrors.MetaComponent: name,
			})
		}
		values[prefix+name] = string(encoded)
	}

	existing, _, ok, err := a.Load(ctx, ref)
	if err != nil {
		return state.Meta{}, err
	}

	var deleteKeys []string
	if ok {
		for name := range existing {
			if _, stillPresent := values[prefix+name]; !stillPresent {
				deleteKeys = append(deleteKeys, prefix+name)
			}
		}
	}

	if len(values) > 0 {
		if _, err := a.store.Upsert(ctx, admin.PreferencesUpsertInput{
			Scope:  prefScope,
			Level:  level,
			Values: values,
		}); err != nil {
			return state.Meta{}, err
		}
	}

	if len(deleteKeys) > 0 {
		if err := a.store.Delete(ctx, admin.PreferencesDeleteInput{
			Scope: prefScope,
			Level: level,
			Keys:  deleteKeys,
		}); err != nil {
			return state.Meta{}, err
		}
	}

	return state.Meta{}, nil
}

func decodePreference(name string, value any) (any, error) {
	text, ok := value.(string)
	if !ok {
		return value, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, ferrors.WrapBadInput(err, ferrors.TextCodeOverrideTypeInvalid, "optionsadapter: preference is not valid json", map[string]any{
			ferrors.MetaComponent: name,
		})
	}
	return decoded, nil
}

func (a *PreferencesStoreAdapter) preferenceScope(scopeDef opts.Scope) (admin.PreferenceLevel, admin.PreferenceScope, error) {
	switch scopeDef.Name {
	case "system":
		return admin.PreferenceLevelSystem, admin.PreferenceScope{}, nil
	case "tenant":
		id, err := extractScopeID(scopeDef, scope.MetadataTenantID)
		if err != nil {
			return "", admin.PreferenceScope{}, err
		}
		return admin.PreferenceLevelTenant, admin.PreferenceScope{TenantID: id}, nil
	case "org":
		id, err := extractScopeID(scopeDef, scope.MetadataOrgID)
		if err != nil {
			return "", admin.PreferenceScope{}, err
		}
		return admin.PreferenceLevelOrg, admin.PreferenceScope{OrgID: id}, nil
	case "user":
		id, err := extractScopeID(scopeDef, scope.MetadataUserID)
		if err != nil {
			return "", admin.PreferenceScope{}, err
		}
		return admin.PreferenceLevelUser, admin.PreferenceScope{UserID: id}, nil
	default:
		return "", admin.PreferenceScope{}, scopeError(scopeDef, fmt.Sprintf("optionsadapter: unsupported scope %q", scopeDef.Name))
	}
}

func extractScopeID(scopeDef opts.Scope, key string) (string, error) {
	raw, ok := scopeDef.Metadata[key]
	if !ok {
		return "", scopeError(scopeDef, fmt.Sprintf("optionsadapter: missing metadata key %q for scope %q", key, scopeDef.Name))
	}
	id, ok := raw.(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", scopeError(scopeDef, fmt.Sprintf("optionsadapter: invalid metadata key %q for scope %q", key, scopeDef.Name))
	}
	return strings.TrimSpace(id), nil
}

func scopeError(scopeDef opts.Scope, message string) error {
	return ferrors.WrapSentinel(ferrors.ErrScopeRequired, message, map[string]any{
		ferrors.MetaAdapter: "preferences",
		ferrors.MetaScope:   scopeDef.Name,
	})
}

func (a *PreferencesStoreAdapter) domainPrefix(domain string) string {
	if a.keyPrefix != "" {
		return normalizePrefix(a.keyPrefix)
	}
	return normalizePrefix(domain)
}

func (a *PreferencesStoreAdapter) prefixedKeys(domain string) []string {
	if len(a.names) == 0 {
		return nil
	}
	prefix := a.domainPrefix(domain)
	keys := make([]string, 0, len(a.names))
	for _, name := range a.names {
		keys = append(keys, prefix+name)
	}
	return keys
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	return prefix
}

var _ state.Store[map[string]any] = (*PreferencesStoreAdapter)(nil)
