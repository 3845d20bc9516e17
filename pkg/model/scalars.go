package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a tri-state boolean that tolerates legacy string encodings.
type Flag struct {
	set   bool
	value bool
}

// NewFlag returns a set flag carrying value.
func NewFlag(value bool) Flag {
	return Flag{set: true, value: value}
}

// IsSet reports whether the payload supplied the flag at all.
func (f Flag) IsSet() bool { return f.set }

// True reports whether the flag is set and true.
func (f Flag) True() bool { return f.set && f.value }

// False reports whether the flag is set and false.
func (f Flag) False() bool { return f.set && !f.value }

// Equal reports whether both flags carry the same state.
func (f Flag) Equal(other Flag) bool {
	return f.set == other.set && f.value == other.value
}

// Or returns the flag value, or def when unset.
func (f Flag) Or(def bool) bool {
	if !f.set {
		return def
	}
	return f.value
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Flag{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: flag: %w", err)
	}
	*f = FlagFrom(raw)
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// FlagFrom converts a decoded payload value into a Flag. Strings other than
// "true"/"false" (and "Y"/"N") leave the flag unset.
func FlagFrom(raw any) Flag {
	switch v := raw.(type) {
	case bool:
		return NewFlag(v)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "y", "yes":
			return NewFlag(true)
		case "false", "n", "no":
			return NewFlag(false)
		}
	case float64:
		return NewFlag(v != 0)
	}
	return Flag{}
}

// Number is an optional numeric constraint that accepts JSON numbers and
// numeric strings.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber returns a valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: number: %w", err)
	}
	switch v := raw.(type) {
	case float64:
		*n = NewNumber(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			*n = Number{}
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			*n = Number{}
			return nil
		}
		*n = NewNumber(parsed)
	default:
		*n = Number{}
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Int returns the value truncated to int, or 0 when invalid.
func (n Number) Int() int {
	if !n.Valid {
		return 0
	}
	return int(n.Value)
}

// Label carries the display label pair used by layouts. A plain string
// payload decodes into Name.
type Label struct {
	Name          string `json:"name,omitempty"`
	ModifiedLabel string `json:"modifiedLabel,omitempty"`
}

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = Label{}
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("model: label: %w", err)
		}
		*l = Label{Name: name}
		return nil
	}
	type plain Label
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("model: label: %w", err)
	}
	*l = Label(out)
	return nil
}

// Text returns the modified label when present, otherwise the name.
func (l Label) Text() string {
	if strings.TrimSpace(l.ModifiedLabel) != "" {
		return l.ModifiedLabel
	}
	return l.Name
}

// Rule is an enable-gated rule such as caseConversion or dataTypeRule. A
// plain string payload decodes into an enabled rule of that type.
type Rule struct {
	IsEnabled Flag   `json:"isEnabled"`
	Type      string `json:"type,omitempty"`
}

func (r *Rule) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Rule{}
		return nil
	}
	if data[0] == '"' {
		var typ string
		if err := json.Unmarshal(data, &typ); err != nil {
			return fmt.Errorf("model: rule: %w", err)
		}
		*r = Rule{IsEnabled: NewFlag(strings.TrimSpace(typ) != ""), Type: typ}
		return nil
	}
	type plain Rule
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("model: rule: %w", err)
	}
	*r = Rule(out)
	return nil
}

// Active returns the rule type when the rule is enabled.
func (r Rule) Active() (string, bool) {
	if !r.IsEnabled.True() || strings.TrimSpace(r.Type) == "" {
		return "", false
	}
	return r.Type, true
}
