package composer

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-twcomposer/classes"
)

// Values maps variant names to selected values. Accepted values are
// strings, booleans, numbers, fmt.Stringer implementations and other scalars.
type Values map[string]any

// Props is the caller input for a composer invocation.
type Props struct {
	Variants Values
	// Class is appended last and wins utility conflicts.
	Class classes.Value
	// Slots holds per-slot overrides for slotted composers.
	Slots map[string]classes.Value
}

// With returns Props selecting the provided variant values.
func With(values Values) Props {
	return Props{Variants: values}
}

// WithClass returns a copy of p with an additional class override.
func (p Props) WithClass(value classes.Value) Props {
	if p.Class == nil {
		p.Class = value
		return p
	}
	p.Class = []any{p.Class, value}
	return p
}

// ValueKey converts a caller or default value into the key used for lookups.
// Booleans become "true"/"false", numbers their decimal text and other
// scalars their fmt form. nil, blank strings and composite values are
// unresolved.
func ValueKey(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		trimmed := strings.TrimSpace(typed)
		return trimmed, trimmed != ""
	case bool:
		return strconv.FormatBool(typed), true
	case *bool:
		if typed == nil {
			return "", false
		}
		return strconv.FormatBool(*typed), true
	case *string:
		if typed == nil {
			return "", false
		}
		return ValueKey(*typed)
	case int:
		return strconv.Itoa(typed), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", typed), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case fmt.Stringer:
		return ValueKey(typed.String())
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return ValueKey(rv.Elem().Interface())
	case reflect.String:
		return ValueKey(rv.String())
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct,
		reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return "", false
	default:
		return fmt.Sprint(value), true
	}
}

// present reports whether a caller supplied an actual value. Present values
// are explicit selections even when they convert to no usable key.
func present(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
