// Package payload reads loosely structured provider responses. Lookups never
// panic: any missing key, out-of-range index, or unexpected type yields ok=false.
package payload

import "encoding/json"

// Decode parses raw JSON into a generic tree. Invalid JSON yields ok=false.
func Decode(raw []byte) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// Get walks data along path. String elements index objects, int elements
// index arrays.
func Get(data any, path ...any) (any, bool) {
	cur := data
	for _, key := range path {
		switch k := key.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			next, ok := obj[k]
			if !ok {
				return nil, false
			}
			cur = next
		case int:
			arr, ok := cur.([]any)
			if !ok || k < 0 || k >= len(arr) {
				return nil, false
			}
			cur = arr[k]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// String is Get followed by a string assertion; empty strings count as absent.
func String(data any, path ...any) (string, bool) {
	v, ok := Get(data, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// StringFromRaw decodes raw and reads a string at path.
func StringFromRaw(raw []byte, path ...any) (string, bool) {
	data, ok := Decode(raw)
	if !ok {
		return "", false
	}
	return String(data, path...)
}
