package model

// Record is the mutable form data (objectIdx) keyed by tag name. Table rows
// live under their line type as []any of map[string]any.
type Record map[string]any

// Well-known record keys.
const (
	RecordCustomAttributes = "customAttributes"
	RecordAddresses        = "addresses"
)

// CustomAttribute keys.
const (
	CustomAttributeID      = "customAttributeId"
	CustomAttributeType    = "customAttributeType"
	CustomAttributeTagName = "customAttributeTagName"
	CustomAttributeName    = "customAttributeName"
	CustomAttributeValue   = "customAttributeValue"
)

// Clone returns a deep copy of the record. Nested maps and slices produced
// by JSON decoding are copied; other values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out, _ := CloneValue(map[string]any(r)).(map[string]any)
	return Record(out)
}

// CloneValue deep-copies JSON-shaped values.
func CloneValue(value any) any {
	switch v := value.(type) {
	case Record:
		return v.Clone()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = CloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return value
	}
}

// Rows returns the table rows stored under key, converting typed slices to
// []any. The second result is false when the key is missing or not a list.
func (r Record) Rows(key string) ([]any, bool) {
	if r == nil {
		return nil, false
	}
	switch rows := r[key].(type) {
	case []any:
		return rows, true
	case []map[string]any:
		out := make([]any, len(rows))
		for i, row := range rows {
			out[i] = row
		}
		return out, true
	default:
		return nil, false
	}
}

// AsMap returns value as map[string]any, accepting Record.
func AsMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Record:
		return map[string]any(v), true
	default:
		return nil, false
	}
}
