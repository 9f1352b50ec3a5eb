package prometheusadapter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-twcomposer/activity"
	"github.com/goliatone/go-twcomposer/composer"
	"github.com/goliatone/go-twcomposer/theme"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "twcomposer"

// Option customizes Metrics.
type Option func(*config)

type config struct {
	namespace  string
	registerer prometheus.Registerer
}

// WithNamespace sets the metric namespace.
func WithNamespace(namespace string) Option {
	return func(cfg *config) {
		if cfg == nil || namespace == "" {
			return
		}
		cfg.namespace = namespace
	}
}

// WithRegisterer registers metrics with r instead of the default registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(cfg *config) {
		if cfg == nil || r == nil {
			return
		}
		cfg.registerer = r
	}
}

// Metrics records resolver, update and compose events. It satisfies
// theme.ResolveHook, activity.Hook and composer.Hook so one value can be
// passed to every WithHook style option.
type Metrics struct {
	resolves       *prometheus.CounterVec
	resolveErrors  *prometheus.CounterVec
	overrideErrors *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	updates        *prometheus.CounterVec
	composes       *prometheus.CounterVec
}

// New creates and registers the metrics.
func New(options ...Option) *Metrics {
	cfg := config{namespace: DefaultNamespace, registerer: prometheus.DefaultRegisterer}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	factory := promauto.With(cfg.registerer)
	return &Metrics{
		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "resolves_total",
			Help:      "Component resolutions by source",
		}, []string{"component", "source"}),
		resolveErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "resolve_errors_total",
			Help:      "Component resolutions that returned an error",
		}, []string{"component"}),
		overrideErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "override_errors_total",
			Help:      "Stored overrides skipped because they failed to apply",
		}, []string{"component"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "cache_hits_total",
			Help:      "Resolutions served from the composer cache",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "cache_misses_total",
			Help:      "Resolutions that built a composer",
		}),
		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "updates_total",
			Help:      "Override mutations and registry reloads by action",
		}, []string{"action"}),
		composes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "composes_total",
			Help:      "Composer invocations",
		}, []string{"composer", "slotted"}),
	}
}

// OnResolve implements theme.ResolveHook.
func (m *Metrics) OnResolve(_ context.Context, event theme.ResolveEvent) {
	if m == nil {
		return
	}
	name := label(event.NormalizedName)
	if event.Error != nil {
		m.resolveErrors.WithLabelValues(name).Inc()
		return
	}
	m.resolves.WithLabelValues(name, string(event.Source)).Inc()
	if event.Trace.OverrideError != nil {
		m.overrideErrors.WithLabelValues(name).Inc()
	}
	if event.Trace.CacheHit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// OnUpdate implements activity.Hook.
func (m *Metrics) OnUpdate(_ context.Context, event activity.UpdateEvent) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(string(event.Action)).Inc()
}

// OnCompose implements composer.Hook.
func (m *Metrics) OnCompose(event composer.ComposeEvent) {
	if m == nil {
		return
	}
	slotted := "false"
	if event.Slotted {
		slotted = "true"
	}
	m.composes.WithLabelValues(label(event.Composer), slotted).Inc()
}

func label(value string) string {
	if value == "" {
		return "unnamed"
	}
	return value
}

var _ theme.ResolveHook = (*Metrics)(nil)
var _ activity.Hook = (*Metrics)(nil)
var _ composer.Hook = (*Metrics)(nil)
