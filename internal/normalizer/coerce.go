package normalizer

import (
	"fmt"
	"strconv"
	"strings"
)

// asMap returns v as a generic mapping.
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func getMap(m map[string]any, key string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	return asMap(m[key])
}

func asString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}
}

func getString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// asFloat accepts the numeric shapes the source dialects use: JSON floats,
// YAML ints and numeric strings.
func asFloat(v any) (*float64, bool) {
	switch value := v.(type) {
	case float64:
		return &value, true
	case float32:
		f := float64(value)
		return &f, true
	case int:
		f := float64(value)
		return &f, true
	case int64:
		f := float64(value)
		return &f, true
	case uint64:
		f := float64(value)
		return &f, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return &f, true
		}
	}
	return nil, false
}

func getFloat(m map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if f, numeric := asFloat(v); numeric {
				return f
			}
		}
	}
	return nil
}

// asStringList coerces a source value into a string list. Absent or null
// values become the empty list, a bare scalar becomes a one-element list.
func asStringList(v any) []string {
	switch value := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := asString(v); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

func getStringList(m map[string]any, keys ...string) []string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return asStringList(v)
		}
	}
	return []string{}
}

// unionLists appends b's items after a's, preserving order and duplicates.
// Duplicate entries are a data-quality signal the pipeline surfaces rather
// than hides.
func unionLists(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// splitTypeLabel splits a compound type string such as
// "ISTP-A (The Virtuoso)" or "5w4 (The Iconoclast)" into the code and the
// friendly name. Strings without a parenthesis keep the whole value as the
// code.
func splitTypeLabel(s string) (code, name string) {
	s = strings.TrimSpace(s)
	idx := strings.Index(s, "(")
	if idx < 0 {
		return s, ""
	}
	code = strings.TrimSpace(s[:idx])
	name = strings.TrimSpace(s[idx+1:])
	name = strings.TrimSuffix(name, ")")
	return code, strings.TrimSpace(name)
}

// asGenericMap copies a source mapping verbatim, coercing nil values to
// empty lists so pass-through sections keep the "arrays are never null"
// invariant.
func asGenericMap(v any) map[string]any {
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		if item == nil {
			out[k] = []any{}
			continue
		}
		out[k] = item
	}
	return out
}
