package normalize

import "strings"

// deepGet walks a dotted path through nested map[string]any levels and
// returns (value, true), or (nil, false) when any level is absent or not a
// mapping.
func deepGet(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// deepSet writes value at a dotted path, creating intermediate maps and
// overwriting non-map intermediates.
func deepSet(data map[string]any, path string, value any) {
	current := data
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// deepCopy clones a nested input mapping so normalization never mutates the
// caller's RawInputs.
func deepCopy(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if m, ok := v.(map[string]any); ok {
			out[k] = deepCopy(m)
			continue
		}
		if s, ok := v.([]any); ok {
			out[k] = append([]any(nil), s...)
			continue
		}
		out[k] = v
	}
	return out
}
