package composer

import "github.com/goliatone/go-twcomposer/classes"

// Option configures a Composer or SlotComposer.
type Option func(*settings)

type settings struct {
	name   string
	merger classes.Merger
	hooks  []Hook
}

func newSettings(options []Option) settings {
	s := settings{merger: classes.DefaultMerger()}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// WithMerger sets the class merger. Defaults to classes.TailwindMerger.
func WithMerger(merger classes.Merger) Option {
	return func(s *settings) {
		if s == nil || merger == nil {
			return
		}
		s.merger = merger
	}
}

// WithHook registers a hook notified after each composition.
func WithHook(hook Hook) Option {
	return func(s *settings) {
		if s == nil || hook == nil {
			return
		}
		s.hooks = append(s.hooks, hook)
	}
}

// WithName labels the composer in traces, hooks and errors.
func WithName(name string) Option {
	return func(s *settings) {
		if s == nil {
			return
		}
		s.name = name
	}
}

func (s settings) options() []Option {
	out := []Option{WithName(s.name), WithMerger(s.merger)}
	for _, hook := range s.hooks {
		out = append(out, WithHook(hook))
	}
	return out
}

func (s settings) emit(event ComposeEvent) {
	for _, hook := range s.hooks {
		hook.OnCompose(event)
	}
}
