package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

type envelope struct {
	WebLayout json.RawMessage `json:"webLayout"`
	Layout    json.RawMessage `json:"layout"`
	Sections  json.RawMessage `json:"sections"`

	ObjectID           any                        `json:"objectId"`
	ObjectIdx          map[string]any             `json:"objectIdx"`
	Mode               string                     `json:"mode"`
	PageMode           string                     `json:"pageMode"`
	DisableAllFields   model.Flag                 `json:"disableAllFields"`
	CurrencySymbolType string                     `json:"currencySymbolType"`
	DependencyAttrs    []map[string][]string      `json:"dependencyAttributes"`
	DerivedSections    map[string][]model.Section `json:"derivedSectionsMap"`
	ConfigCache        *configCache               `json:"configCache"`

	Lists
}

type configCache struct {
	CurrencySymbolType string                `json:"currencySymbolType"`
	DependencyAttrs    []map[string][]string `json:"dependencyAttributes"`
}

type rawLayout struct {
	ObjectID   any             `json:"objectId"`
	ObjectName string          `json:"objectName"`
	Sections   []model.Section `json:"sections"`
}

// Normalize converts a raw configuration payload into a canonical layout.
// See Parse for the accepted inputs.
func Normalize(raw any) (model.Layout, error) {
	cfg, err := Parse(raw)
	if err != nil {
		return model.Layout{Sections: []model.Section{}}, err
	}
	return cfg.Layout, nil
}

// Parse converts a raw configuration payload into a Config. raw may be a
// decoded object (map[string]any), JSON bytes or a JSON string. The layout is
// read from webLayout, then layout, then the payload itself when it carries
// sections; a string layout is parsed first. Parse failures return
// *ConfigParseError and a payload without any layout returns
// *MissingLayoutError; in both cases the returned layout is empty.
//
// The layout keeps section order and attribute metadata. Missing lists become
// empty lists, table sections always carry a line type and every attribute
// is canonicalized.
func Parse(raw any) (Config, error) {
	empty := Config{Layout: model.Layout{Sections: []model.Section{}}}

	data, err := payloadBytes(raw)
	if err != nil {
		return empty, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return empty, &ConfigParseError{Err: err}
	}

	layoutData, err := layoutPayload(env, data)
	if err != nil {
		return empty, err
	}

	var rl rawLayout
	if err := json.Unmarshal(layoutData, &rl); err != nil {
		return empty, &ConfigParseError{Source: "webLayout", Err: err}
	}

	cfg := Config{
		Layout: Canonicalize(model.Layout{
			ObjectID:   scalarString(rl.ObjectID),
			ObjectName: rl.ObjectName,
			Sections:   defaultSections(rl.Sections),
		}),
		ObjectID:             scalarString(env.ObjectID),
		Mode:                 model.ParseMode(env.Mode),
		PageMode:             model.ParseMode(env.PageMode),
		DisableAllFields:     env.DisableAllFields.True(),
		CurrencySymbolType:   env.CurrencySymbolType,
		DependencyAttributes: env.DependencyAttrs,
		Lists:                env.Lists,
	}
	if env.ObjectIdx != nil {
		cfg.Record = model.Record(env.ObjectIdx)
	}
	if env.ConfigCache != nil {
		if cfg.CurrencySymbolType == "" {
			cfg.CurrencySymbolType = env.ConfigCache.CurrencySymbolType
		}
		if cfg.DependencyAttributes == nil {
			cfg.DependencyAttributes = env.ConfigCache.DependencyAttrs
		}
	}
	if len(env.DerivedSections) > 0 {
		cfg.DerivedSections = make(map[string][]model.Section, len(env.DerivedSections))
		for driver, sections := range env.DerivedSections {
			canonical := Canonicalize(model.Layout{Sections: defaultSections(sections)})
			cfg.DerivedSections[driver] = canonical.Sections
		}
	}
	return cfg, nil
}

func payloadBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, &MissingLayoutError{Reason: "nil payload"}
	case []byte:
		if len(bytes.TrimSpace(v)) == 0 {
			return nil, &MissingLayoutError{Reason: "empty payload"}
		}
		if !json.Valid(v) {
			return nil, &ConfigParseError{Err: errors.New("invalid JSON payload")}
		}
		return v, nil
	case string:
		return payloadBytes([]byte(v))
	case json.RawMessage:
		return payloadBytes([]byte(v))
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, &ConfigParseError{Err: err}
		}
		if bytes.Equal(data, []byte("null")) {
			return nil, &MissingLayoutError{Reason: "nil payload"}
		}
		return data, nil
	}
}

func layoutPayload(env envelope, whole []byte) ([]byte, error) {
	for _, candidate := range []struct {
		name string
		data json.RawMessage
	}{
		{name: "webLayout", data: env.WebLayout},
		{name: "layout", data: env.Layout},
	} {
		trimmed := bytes.TrimSpace(candidate.data)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		if trimmed[0] != '"' {
			return trimmed, nil
		}
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, &ConfigParseError{Source: candidate.name, Err: err}
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return nil, &MissingLayoutError{Reason: candidate.name + " is empty"}
		}
		if !json.Valid([]byte(encoded)) {
			return nil, &ConfigParseError{Source: candidate.name, Err: errors.New("invalid JSON string layout")}
		}
		return []byte(encoded), nil
	}

	trimmed := bytes.TrimSpace(env.Sections)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		return whole, nil
	}
	return nil, &MissingLayoutError{Reason: "payload has no webLayout, layout or sections"}
}

func defaultSections(sections []model.Section) []model.Section {
	if sections == nil {
		return []model.Section{}
	}
	for i := range sections {
		section := &sections[i]
		if section.Attributes == nil {
			section.Attributes = []model.Attribute{}
		}
		if section.Columns == nil {
			section.Columns = []model.Column{}
		}
		for c := range section.Columns {
			if section.Columns[c].Attributes == nil {
				section.Columns[c].Attributes = []model.Attribute{}
			}
		}
		section.Sections = defaultSections(section.Sections)
		if section.IsTable() && strings.TrimSpace(section.LineType) == "" {
			section.LineType = section.RowKey()
		}
	}
	return sections
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
