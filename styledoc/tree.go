package styledoc

import (
	"fmt"
	"sort"
)

// Entry is one key/value pair of an ordered mapping.
type Entry struct {
	Key   string
	Value any
}

// OrderedMap keeps mapping keys in source order. YAML documents decode to
// it so variant declaration order survives.
type OrderedMap []Entry

// Get returns the value stored under key.
func (m OrderedMap) Get(key string) (any, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// entries returns mapping entries for OrderedMap or plain maps. Plain maps
// have no order, their keys are sorted.
func entries(value any) ([]Entry, bool) {
	switch typed := value.(type) {
	case OrderedMap:
		return typed, true
	case []Entry:
		return typed, true
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make([]Entry, 0, len(keys))
		for _, key := range keys {
			out = append(out, Entry{Key: key, Value: typed[key]})
		}
		return out, true
	case map[any]any:
		keys := make([]string, 0, len(typed))
		values := make(map[string]any, len(typed))
		for key, item := range typed {
			text := fmt.Sprint(key)
			keys = append(keys, text)
			values[text] = item
		}
		sort.Strings(keys)
		out := make([]Entry, 0, len(keys))
		for _, key := range keys {
			out = append(out, Entry{Key: key, Value: values[key]})
		}
		return out, true
	case map[string]string:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make([]Entry, 0, len(keys))
		for _, key := range keys {
			out = append(out, Entry{Key: key, Value: typed[key]})
		}
		return out, true
	default:
		return nil, false
	}
}

func isMapping(value any) bool {
	_, ok := entries(value)
	return ok
}

func lookup(value any, keys ...string) (any, bool) {
	items, ok := entries(value)
	if !ok {
		return nil, false
	}
	for _, key := range keys {
		for _, entry := range items {
			if entry.Key == key {
				return entry.Value, true
			}
		}
	}
	return nil, false
}

func list(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}
