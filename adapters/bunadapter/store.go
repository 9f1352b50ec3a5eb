package bunadapter

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/ferrors"
	"github.com/goliatone/go-twcomposer/store"
	"github.com/goliatone/go-twcomposer/styledoc"
	"github.com/goliatone/go-twcomposer/theme"
)

// DefaultTable is the default table name for style overrides.
const DefaultTable = "style_overrides"

// ErrDBRequired indicates the underlying Bun DB is missing.
var ErrDBRequired = ferrors.ErrStoreRequired

// Store adapts Bun DB operations to style overrides. Rows are keyed by
// component, scope type and scope id; the partial configuration is kept
// in a JSON column.
type Store struct {
	db        bun.IDB
	table     string
	now       func() time.Time
	updatedBy func(theme.ActorRef) string
}

// Option customizes the Bun store adapter.
type Option func(*Store)

// NewStore constructs a new Bun-backed override store.
func NewStore(db bun.IDB, opts ...Option) *Store {
	adapter := &Store{
		db:        db,
		table:     DefaultTable,
		now:       time.Now,
		updatedBy: defaultUpdatedBy,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.table == "" {
		adapter.table = DefaultTable
	}
	if adapter.now == nil {
		adapter.now = time.Now
	}
	if adapter.updatedBy == nil {
		adapter.updatedBy = defaultUpdatedBy
	}
	return adapter
}

// WithTable sets the table name used for overrides.
func WithTable(table string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.table = strings.TrimSpace(table)
	}
}

// WithNowFunc overrides the timestamp function used for updates.
func WithNowFunc(now func() time.Time) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.now = now
	}
}

// WithUpdatedByBuilder overrides the updated_by value builder.
func WithUpdatedByBuilder(builder func(theme.ActorRef) string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.updatedBy = builder
	}
}

// StyleOverrideRecord maps to the style_overrides table. A NULL config
// records an explicit unset.
type StyleOverrideRecord struct {
	bun.BaseModel `bun:"table:style_overrides,alias:so"`
	Component     string         `bun:"component,pk"`
	ScopeType     string         `bun:"scope_type,pk"`
	ScopeID       string         `bun:"scope_id,pk"`
	Config        map[string]any `bun:"config,type:jsonb,nullzero"`
	UpdatedBy     string         `bun:"updated_by,nullzero"`
	UpdatedAt     time.Time      `bun:"updated_at,nullzero"`
}

// CreateTable creates the overrides table when it does not exist.
func (s *Store) CreateTable(ctx context.Context) error {
	if s == nil || s.db == nil {
		return s.dbRequired("create_table")
	}
	query := s.db.NewCreateTable().Model((*StyleOverrideRecord)(nil)).IfNotExists()
	if s.table != DefaultTable {
		query = query.ModelTableExpr("?", bun.Ident(s.table))
	}
	if _, err := query.Exec(ctx); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "bunadapter: create table failed", s.meta("create_table", ""))
	}
	return nil
}

// Get implements store.Reader.
func (s *Store) Get(ctx context.Context, name string, scopeSet theme.ScopeSet) ([]store.Layer, error) {
	if s == nil || s.db == nil {
		return nil, s.dbRequired("get")
	}
	normalized, err := s.normalize(name, "get")
	if err != nil {
		return nil, err
	}
	layers := store.Chain(scopeSet)
	for i := range layers {
		layers[i].Override = store.MissingOverride()
		record := StyleOverrideRecord{}
		query := s.db.NewSelect().Model(&record).
			Where("component = ?", normalized).
			Where("scope_type = ?", string(layers[i].Level)).
			Where("scope_id = ?", layers[i].ID()).
			Limit(1)
		if s.table != DefaultTable {
			query = query.ModelTableExpr("? AS so", bun.Ident(s.table))
		}
		if err := query.Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "bunadapter: load failed", s.meta("get", normalized))
		}
		override, err := overrideFromRecord(record)
		if err != nil {
			return nil, ferrors.WrapBadInput(err, ferrors.TextCodeOverrideTypeInvalid, "", s.meta("decode", normalized))
		}
		layers[i].Override = override
	}
	return layers, nil
}

// Set implements store.Writer.
func (s *Store) Set(ctx context.Context, name string, scopeSet theme.ScopeSet, partial composer.Config, actor theme.ActorRef) error {
	if s == nil || s.db == nil {
		return s.dbRequired("set")
	}
	normalized, err := s.normalize(name, "set")
	if err != nil {
		return err
	}
	return s.upsert(ctx, normalized, store.WriteLayer(scopeSet), styledoc.EncodeConfig(partial), actor)
}

// Unset implements store.Writer. The row is kept with a NULL config so the
// actor and time of the change stay recorded.
func (s *Store) Unset(ctx context.Context, name string, scopeSet theme.ScopeSet, actor theme.ActorRef) error {
	if s == nil || s.db == nil {
		return s.dbRequired("unset")
	}
	normalized, err := s.normalize(name, "unset")
	if err != nil {
		return err
	}
	return s.upsert(ctx, normalized, store.WriteLayer(scopeSet), nil, actor)
}

// Delete removes a stored override row.
func (s *Store) Delete(ctx context.Context, name string, scopeSet theme.ScopeSet) error {
	if s == nil || s.db == nil {
		return s.dbRequired("delete")
	}
	normalized, err := s.normalize(name, "delete")
	if err != nil {
		return err
	}
	layer := store.WriteLayer(scopeSet)
	query := s.db.NewDelete().Model((*StyleOverrideRecord)(nil)).
		Where("component = ?", normalized).
		Where("scope_type = ?", string(layer.Level)).
		Where("scope_id = ?", layer.ID())
	if s.table != DefaultTable {
		query = query.ModelTableExpr("? AS so", bun.Ident(s.table))
	}
	if _, err := query.Exec(ctx); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "bunadapter: delete failed", s.meta("delete", normalized))
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, name string, layer store.Layer, config map[string]any, actor theme.ActorRef) error {
	record := StyleOverrideRecord{
		Component: name,
		ScopeType: string(layer.Level),
		ScopeID:   layer.ID(),
		Config:    config,
		UpdatedBy: s.updatedBy(actor),
		UpdatedAt: s.now(),
	}
	query := s.db.NewInsert().Model(&record).
		On("CONFLICT (component, scope_type, scope_id) DO UPDATE").
		Set("config = EXCLUDED.config").
		Set("updated_by = EXCLUDED.updated_by").
		Set("updated_at = EXCLUDED.updated_at")
	if s.table != DefaultTable {
		query = query.ModelTableExpr("?", bun.Ident(s.table))
	}
	if _, err := query.Exec(ctx); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "bunadapter: upsert failed", s.meta("upsert", name))
	}
	return nil
}

func (s *Store) normalize(name, operation string) (string, error) {
	normalized := theme.NormalizeName(name)
	if normalized == "" {
		return "", ferrors.WrapSentinel(ferrors.ErrInvalidName, "bunadapter: component name required", s.meta(operation, strings.TrimSpace(name)))
	}
	return normalized, nil
}

func (s *Store) dbRequired(operation string) error {
	return ferrors.WrapSentinel(ErrDBRequired, "bunadapter: db is required", s.meta(operation, ""))
}

func (s *Store) meta(operation, component string) map[string]any {
	meta := map[string]any{
		ferrors.MetaAdapter:   "bun",
		ferrors.MetaOperation: operation,
	}
	if s != nil {
		meta[ferrors.MetaTable] = s.table
	}
	if component != "" {
		meta[ferrors.MetaComponent] = component
	}
	return meta
}

func defaultUpdatedBy(actor theme.ActorRef) string {
	if actor.ID != "" {
		return actor.ID
	}
	if actor.Name != "" {
		return actor.Name
	}
	if actor.Type != "" {
		return actor.Type
	}
	return ""
}

func overrideFromRecord(record StyleOverrideRecord) (store.Override, error) {
	if record.Config == nil {
		return store.UnsetOverride(), nil
	}
	partial, err := styledoc.DecodeConfig(record.Config)
	if err != nil {
		return store.MissingOverride(), err
	}
	return store.SetOverride(partial), nil
}

var _ store.ReadWriter = (*Store)(nil)
