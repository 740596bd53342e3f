package element

import (
	"reflect"
	"sort"
	"strings"
)

// Attrs holds attributes and event handlers of an element.
// Keys with an "on" prefix (any case) are event handlers.
type Attrs map[string]any

// Keys returns the attribute keys in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both attribute sets hold the same keys with equal
// values. Function values never compare equal.
func (a Attrs) Equal(b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !ValueEqual(av, bv) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// IsEventKey reports whether key names an event handler.
// Case-insensitive so onclick, onClick and ONCLICK all match.
func IsEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the event for a handler key: "onClick" -> "click".
func EventName(key string) string {
	if !IsEventKey(key) {
		return ""
	}
	return strings.ToLower(key[2:])
}

// ValueEqual compares two attribute values.
func ValueEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	if reflect.TypeOf(a).Kind() == reflect.Func {
		return false
	}
	return reflect.DeepEqual(a, b)
}
