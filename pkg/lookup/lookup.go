// Package lookup reads values out of decoded JSON trees whose shape is not
// guaranteed. A missing key at any depth, or a value of the wrong type, is
// reported as absent (nil) instead of an error.
package lookup

import (
	"encoding/json"
	"math"
)

// Value descends obj through keys.
func Value(obj any, keys ...string) (any, bool) {
	cur := obj
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// Object returns the object at keys, or nil.
func Object(obj any, keys ...string) map[string]any {
	v, ok := Value(obj, keys...)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// String returns the string at keys, or nil.
func String(obj any, keys ...string) *string {
	v, ok := Value(obj, keys...)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// Float returns the number at keys, or nil.
func Float(obj any, keys ...string) *float64 {
	v, ok := Value(obj, keys...)
	if !ok {
		return nil
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	return &f
}

// Int returns the number at keys as an int, or nil. Fractional values are
// truncated toward zero.
func Int(obj any, keys ...string) *int {
	v, ok := Value(obj, keys...)
	if !ok {
		return nil
	}

	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			out := int(i)
			return &out
		}
	}

	f := Float(obj, keys...)
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return nil
	}
	out := int(*f)
	return &out
}

// Bool returns the boolean at keys; ok is false when absent or not a bool.
func Bool(obj any, keys ...string) (value bool, ok bool) {
	v, found := Value(obj, keys...)
	if !found {
		return false, false
	}
	value, ok = v.(bool)
	return value, ok
}
