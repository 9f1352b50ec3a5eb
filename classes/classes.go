package classes

import (
	"fmt"
	"strings"
)

// Value is any input accepted by Join: string, []string, []any, Value,
// fmt.Stringer or nil. Slices may nest.
type Value = any

// Join flattens values into a single space separated class list.
// Empty tokens are dropped and exact duplicates keep their last position.
func Join(values ...Value) string {
	tokens := Tokens(values...)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, " ")
}

// Tokens flattens values into individual class tokens, deduplicated so that
// the last occurrence of a repeated class wins its position.
func Tokens(values ...Value) []string {
	var raw []string
	for _, value := range values {
		raw = appendValue(raw, value)
	}
	return dedupeKeepLast(raw)
}

func appendValue(out []string, value Value) []string {
	switch typed := value.(type) {
	case nil:
		return out
	case string:
		return append(out, strings.Fields(typed)...)
	case []string:
		for _, item := range typed {
			out = append(out, strings.Fields(item)...)
		}
		return out
	case []any:
		for _, item := range typed {
			out = appendValue(out, item)
		}
		return out
	case [][]string:
		for _, item := range typed {
			out = appendValue(out, item)
		}
		return out
	case *string:
		if typed == nil {
			return out
		}
		return append(out, strings.Fields(*typed)...)
	case fmt.Stringer:
		return append(out, strings.Fields(typed.String())...)
	default:
		return out
	}
}

func dedupeKeepLast(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	last := make(map[string]int, len(tokens))
	for i, token := range tokens {
		last[token] = i
	}
	out := make([]string, 0, len(last))
	for i, token := range tokens {
		if last[token] == i {
			out = append(out, token)
		}
	}
	return out
}
