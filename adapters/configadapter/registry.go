package configadapter

import (
	"sort"
	"strings"

	"github.com/goliatone/go-config/config"

	"github.com/goliatone/go-twcomposer/registry"
	"github.com/goliatone/go-twcomposer/styledoc"
	"github.com/goliatone/go-twcomposer/theme"
)

type configOptions struct {
	delimiter       string
	registryOptions []registry.Option
}

// Option configures configadapter parsing.
type Option func(*configOptions)

// WithDelimiter sets the separator used to join group and component names.
func WithDelimiter(delimiter string) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		cfg.delimiter = delimiter
	}
}

// WithRegistryOptions forwards options to the registry built by NewRegistry.
func WithRegistryOptions(options ...registry.Option) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		cfg.registryOptions = append(cfg.registryOptions, options...)
	}
}

func newOptions(opts []Option) configOptions {
	cfg := configOptions{delimiter: "."}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.delimiter == "" {
		cfg.delimiter = "."
	}
	return cfg
}

// definitionKeys mark a map as a component definition rather than a group.
var definitionKeys = []string{
	"base", "slots", "variants", "default_variants", "defaultVariants",
	"compound_variants", "compoundVariants", "slotted",
}

// NewRegistry builds a registry from the components section of a go-config
// map. Nested maps without definition keys are groups and prefix the names
// of the components they contain ("forms" + "input" = "forms.input").
func NewRegistry(data map[string]any, opts ...Option) (*registry.Static, error) {
	cfg := newOptions(opts)
	doc, err := Document(data, opts...)
	if err != nil {
		return nil, err
	}
	return registry.NewStatic(doc.Definitions(), cfg.registryOptions...)
}

// Document converts a components map into a validated style document.
func Document(data map[string]any, opts ...Option) (styledoc.Document, error) {
	cfg := newOptions(opts)
	tree := styledoc.OrderedMap{}
	collect("", data, cfg.delimiter, &tree)
	return styledoc.Parse(styledoc.OrderedMap{{Key: "components", Value: tree}})
}

func collect(prefix string, data map[string]any, delim string, out *styledoc.OrderedMap) {
	keys := make([]string, 0, len(data))
	for key := range data {
		if strings.TrimSpace(key) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		path := strings.TrimSpace(key)
		if prefix != "" {
			path = prefix + delim + path
		}
		group, ok := normalize(data[key]).(map[string]any)
		if !ok {
			// Shorthand: a bare class list is a component with only a base.
			*out = append(*out, styledoc.Entry{Key: theme.NormalizeName(path), Value: map[string]any{"base": normalize(data[key])}})
			continue
		}
		if isDefinition(group) {
			*out = append(*out, styledoc.Entry{Key: theme.NormalizeName(path), Value: group})
			continue
		}
		collect(path, group, delim, out)
	}
}

func isDefinition(data map[string]any) bool {
	for _, key := range definitionKeys {
		if _, ok := data[key]; ok {
			return true
		}
	}
	return false
}

type optionalBool interface {
	IsSet() bool
	Value() bool
}

// normalize rewrites go-config specific values into the plain tree the
// style decoder reads. Unset optional booleans become nil so defaults
// built from them are skipped.
func normalize(value any) any {
	switch typed := value.(type) {
	case config.OptionalBool:
		return optionalValue(typed.IsSet(), typed.Value())
	case *config.OptionalBool:
		if typed == nil {
			return nil
		}
		return optionalValue(typed.IsSet(), typed.Value())
	case optionalBool:
		return optionalValue(typed.IsSet(), typed.Value())
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = item
		}
		return out
	case map[string]bool:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalize(item)
		}
		return out
	default:
		return value
	}
}

func sortStrings(values []string) []string {
	sort.Strings(values)
	return values
}

func optionalValue(set, value bool) any {
	if !set {
		return nil
	}
	return value
}
