package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var (
	knownKeysMu sync.Mutex
	knownKeys   = map[reflect.Type]map[string]struct{}{}
)

func jsonKeys(t reflect.Type) map[string]struct{} {
	knownKeysMu.Lock()
	defer knownKeysMu.Unlock()
	if keys, ok := knownKeys[t]; ok {
		return keys
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	knownKeys[t] = keys
	return keys
}

// splitMeta returns the payload keys not modelled by the struct type t.
func splitMeta(t reflect.Type, data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	known := jsonKeys(t)
	for key := range raw {
		if _, ok := known[key]; ok {
			delete(raw, key)
		}
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// mergeMeta writes meta keys into an encoded object without overriding
// modelled keys.
func mergeMeta(encoded []byte, meta map[string]any) ([]byte, error) {
	if len(meta) == 0 {
		return encoded, nil
	}
	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	for key, value := range meta {
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = value
	}
	return json.Marshal(out)
}

type plainAttribute Attribute

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var out plainAttribute
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("model: attribute: %w", err)
	}
	meta, err := splitMeta(reflect.TypeOf(out), data)
	if err != nil {
		return fmt.Errorf("model: attribute: %w", err)
	}
	out.Meta = meta
	*a = Attribute(out)
	return nil
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(plainAttribute(a))
	if err != nil {
		return nil, err
	}
	return mergeMeta(encoded, a.Meta)
}

type plainSection Section

func (s *Section) UnmarshalJSON(data []byte) error {
	var out plainSection
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("model: section: %w", err)
	}
	meta, err := splitMeta(reflect.TypeOf(out), data)
	if err != nil {
		return fmt.Errorf("model: section: %w", err)
	}
	out.Meta = meta
	*s = Section(out)
	return nil
}

func (s Section) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(plainSection(s))
	if err != nil {
		return nil, err
	}
	return mergeMeta(encoded, s.Meta)
}
