package classes

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// Merger resolves conflicting utility classes in a flattened class list.
// Later classes must win over earlier ones targeting the same utility.
type Merger interface {
	Merge(classes string) string
}

// MergerFunc adapts a function to Merger.
type MergerFunc func(string) string

// Merge implements Merger.
func (fn MergerFunc) Merge(classes string) string {
	if fn == nil {
		return classes
	}
	return fn(classes)
}

// TailwindMerger resolves conflicts using tailwind-merge rules.
type TailwindMerger struct{}

// Merge implements Merger.
func (TailwindMerger) Merge(classes string) string {
	if classes == "" {
		return ""
	}
	return twmerge.Merge(classes)
}

// NoopMerger only flattens and deduplicates.
type NoopMerger struct{}

// Merge implements Merger.
func (NoopMerger) Merge(classes string) string {
	return classes
}

// DefaultMerger returns the merger used when none is configured.
func DefaultMerger() Merger {
	return defaultMerger
}

// Merge flattens values and resolves utility conflicts with the default merger.
func Merge(values ...Value) string {
	return MergeWith(defaultMerger, values...)
}

// MergeWith flattens values and resolves conflicts with the provided merger.
func MergeWith(merger Merger, values ...Value) string {
	joined := Join(values...)
	if joined == "" {
		return ""
	}
	if merger == nil {
		merger = defaultMerger
	}
	return merger.Merge(joined)
}

var defaultMerger Merger = TailwindMerger{}

var _ Merger = TailwindMerger{}
var _ Merger = NoopMerger{}
var _ Merger = MergerFunc(nil)
