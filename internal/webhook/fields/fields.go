// Package fields reads optional values out of loosely shaped webhook payloads.
//
// Payloads are decoded into map[string]any trees. Lookups never fail: a missing
// key or a value of the wrong shape reads as absent.
package fields

import (
	"net/url"
	"sort"
	"strings"
)

// Path addresses a value inside nested objects.
type Path []string

// Lookup walks root along path.
func Lookup(root any, path Path) (any, bool) {
	current := root
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// FirstString returns the first value along paths that is a string with
// non-whitespace content, trimmed.
func FirstString(root any, paths ...Path) string {
	for _, path := range paths {
		value, ok := Lookup(root, path)
		if !ok {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}

// Prefixed prepends prefix to each key, one path per key, preserving order.
func Prefixed(prefix Path, keys ...string) []Path {
	out := make([]Path, 0, len(keys))
	for _, key := range keys {
		path := make(Path, 0, len(prefix)+1)
		path = append(path, prefix...)
		out = append(out, append(path, key))
	}
	return out
}

// FromForm expands bracket-notation form keys into nested objects, so
// "sale[custom_fields][github]=bob" becomes {"sale":{"custom_fields":{"github":"bob"}}}.
// Only the first value of a key is kept. When a key is both a leaf and a parent,
// the nested object wins.
func FromForm(values url.Values) map[string]any {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	// Shorter keys first so parents are placed before their children overwrite them.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	root := map[string]any{}
	for _, key := range keys {
		if len(values[key]) == 0 {
			continue
		}
		path := splitFormKey(key)
		if len(path) == 0 {
			continue
		}
		node := root
		for _, segment := range path[:len(path)-1] {
			child, ok := node[segment].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[segment] = child
			}
			node = child
		}
		leaf := path[len(path)-1]
		if _, isParent := node[leaf].(map[string]any); isParent {
			continue
		}
		node[leaf] = values[key][0]
	}
	return root
}

func splitFormKey(key string) Path {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		if key == "" {
			return nil
		}
		return Path{key}
	}

	path := Path{key[:open]}
	rest := key[open:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			// Trailing garbage after a bracket group; treat the whole key as flat.
			return Path{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Path{key}
		}
		segment := rest[1:end]
		if segment == "" {
			// Array notation (a[]=x) has no stable key; keep it flat.
			return Path{key}
		}
		path = append(path, segment)
		rest = rest[end+1:]
	}
	return path
}
