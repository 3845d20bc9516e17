package attribute

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// NormalizeIdentifier reduces an option object to its primitive identifier
// (id, then value, then labelId). Primitive values are returned unchanged.
func NormalizeIdentifier(value any) any {
	switch v := value.(type) {
	case model.Option:
		return v.Identifier()
	case *model.Option:
		if v == nil {
			return nil
		}
		return v.Identifier()
	case map[string]any:
		for _, key := range []string{"id", "value", "labelId"} {
			if candidate, ok := v[key]; ok && !blank(candidate) {
				return candidate
			}
		}
		return nil
	case model.Record:
		return NormalizeIdentifier(map[string]any(v))
	default:
		return value
	}
}

// NormalizeIdentifiers converts a selection into a de-duplicated list of
// primitive identifiers. Nil yields an empty list and a scalar yields a one
// element list.
func NormalizeIdentifiers(value any) []any {
	var items []any
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []map[string]any:
		for _, m := range v {
			items = append(items, m)
		}
	case []model.Option:
		for _, opt := range v {
			items = append(items, opt)
		}
	case []int:
		for _, n := range v {
			items = append(items, n)
		}
	case []float64:
		for _, n := range v {
			items = append(items, n)
		}
	default:
		items = []any{value}
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		id := NormalizeIdentifier(item)
		if blank(id) || ContainsIdentifier(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// SameIdentifier compares identifiers by their printed form so JSON numbers
// (float64) match Go integers.
func SameIdentifier(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// ContainsIdentifier reports whether list holds id.
func ContainsIdentifier(list []any, id any) bool {
	for _, item := range list {
		if SameIdentifier(item, id) {
			return true
		}
	}
	return false
}

// IsEmpty reports a missing value: nil, a blank string or an empty list.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case []map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func blank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
