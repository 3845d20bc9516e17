package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ExtensionKey is the vendor extension read from schemas and properties. It
// accepts label, tag, placeholder, visibleWhen, order and hidden keys.
const ExtensionKey = "x-uirenderer"

// MainSectionID holds the top-level scalar properties.
const MainSectionID = "main"

// textareaThreshold is the maxLength above which strings render as textarea.
const textareaThreshold = 255

type property struct {
	name   string
	schema *openapi3.Schema
	ext    map[string]any
	order  float64
	sorted bool
}

// buildPayload converts an operation's request schema into a raw payload
// with webLayout and objectIdx keys. Scalars land in the main section,
// nested objects in inner sections and arrays of objects in table sections.
func buildPayload(op operation) map[string]any {
	root := op.schema
	label := strings.TrimSpace(op.summary)
	if label == "" {
		label = Label(op.id)
	}

	record := map[string]any{}
	main := section(MainSectionID, label)
	sections := []any{main}
	var extra []any

	for _, prop := range properties(root) {
		if hidden(prop.ext) {
			continue
		}
		required := contains(root.Required, prop.name)
		switch {
		case isObject(prop.schema):
			inner := section(prop.name, labelOf(prop))
			inner["attributes"] = attributes(prop.name+".", prop.schema, record)
			appendList(main, "sections", inner)
		case isArray(prop.schema) && prop.schema.Items != nil && isObject(prop.schema.Items.Value):
			extra = append(extra, table(prop))
			if prop.schema.Default != nil {
				record[prop.name] = prop.schema.Default
			}
		default:
			appendList(main, "attributes", attributeFor("", prop, required, record))
		}
	}
	sections = append(sections, extra...)

	return map[string]any{
		"objectType": op.id,
		"webLayout": map[string]any{
			"objectName": label,
			"sections":   sections,
		},
		"objectIdx": record,
	}
}

func section(id, label string) map[string]any {
	return map[string]any{"id": id, "label": label, "attributes": []any{}}
}

func appendList(target map[string]any, key string, item any) {
	list, _ := target[key].([]any)
	target[key] = append(list, item)
}

func attributes(prefix string, schema *openapi3.Schema, record map[string]any) []any {
	var out []any
	for _, prop := range properties(schema) {
		if hidden(prop.ext) || isObject(prop.schema) {
			continue
		}
		out = append(out, attributeFor(prefix, prop, contains(schema.Required, prop.name), record))
	}
	return out
}

func table(prop property) map[string]any {
	items := prop.schema.Items.Value
	var columns []any
	for _, col := range properties(items) {
		if hidden(col.ext) || isObject(col.schema) {
			continue
		}
		attr := attributeFor(prop.name+".", col, contains(items.Required, col.name), nil)
		columns = append(columns, map[string]any{
			"id":         "col-" + col.name,
			"label":      attr["label"],
			"attributes": []any{attr},
		})
	}
	return map[string]any{
		"id":          prop.name,
		"label":       labelOf(prop),
		"sectionType": "table",
		"lineType":    prop.name,
		"columns":     columns,
	}
}

// attributeFor builds one attribute payload. Defaults are seeded into record
// when it is non-nil.
func attributeFor(prefix string, prop property, required bool, record map[string]any) map[string]any {
	s := prop.schema
	attr := map[string]any{
		"attributeId": prefix + prop.name,
		"tagName":     prop.name,
		"tag":         tagFor(s, prop.ext),
		"label":       labelOf(prop),
	}
	if required {
		attr["isMandatory"] = true
	}
	if s.ReadOnly {
		attr["disableField"] = true
	}
	if s.Description != "" {
		attr["helpText"] = s.Description
	}
	if placeholder := extString(prop.ext, "placeholder"); placeholder != "" {
		attr["placeholder"] = placeholder
	}
	if rule := extString(prop.ext, "visibleWhen"); rule != "" {
		attr["dependency"] = map[string]any{"visibleWhen": rule}
	}
	if s.Min != nil {
		attr["min"] = *s.Min
	}
	if s.Max != nil {
		attr["max"] = *s.Max
	}
	if s.MinLength > 0 {
		attr["minLength"] = float64(s.MinLength)
	}
	if s.MaxLength != nil {
		attr["maxLength"] = float64(*s.MaxLength)
	}
	if options := enumOptions(s); len(options) > 0 {
		attr["options"] = options
	}
	if record != nil && s.Default != nil {
		record[prop.name] = s.Default
	}
	return attr
}

// tagFor maps a schema onto a layout tag. The extension's tag wins.
func tagFor(s *openapi3.Schema, ext map[string]any) string {
	if tag := extString(ext, "tag"); tag != "" {
		return tag
	}
	switch {
	case isArray(s):
		if s.Items != nil && s.Items.Value != nil && len(s.Items.Value.Enum) > 0 {
			return "multiSelect"
		}
		return "tags"
	case len(s.Enum) > 0:
		return "select"
	case s.Type.Is(openapi3.TypeBoolean):
		return "checkbox"
	case s.Type.Is(openapi3.TypeInteger), s.Type.Is(openapi3.TypeNumber):
		switch s.Format {
		case "currency":
			return "currency"
		case "percent", "percentage":
			return "percentage"
		}
		return "number"
	}

	switch s.Format {
	case "email":
		return "email"
	case "date":
		return "date"
	case "date-time":
		return "dateTime"
	case "time":
		return "time"
	case "uri", "url":
		return "link"
	case "phone", "tel":
		return "phone"
	case "binary":
		return "fileUpload"
	case "textarea":
		return "textarea"
	}
	if s.MaxLength != nil && *s.MaxLength > textareaThreshold {
		return "textarea"
	}
	return "text"
}

func enumOptions(s *openapi3.Schema) []any {
	values := s.Enum
	if isArray(s) && s.Items != nil && s.Items.Value != nil {
		values = s.Items.Value.Enum
	}
	if len(values) == 0 {
		return nil
	}
	out := make([]any, 0, len(values))
	for _, value := range values {
		id := fmt.Sprint(value)
		out = append(out, map[string]any{"id": id, "name": Label(id)})
	}
	return out
}

// properties returns the schema's properties: those with an order key first,
// by order, then the rest by name.
func properties(s *openapi3.Schema) []property {
	if s == nil {
		return nil
	}
	out := make([]property, 0, len(s.Properties))
	for name, ref := range s.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		ext := extension(ref.Value)
		order, sorted := ext["order"].(float64)
		out = append(out, property{name: name, schema: ref.Value, ext: ext, order: order, sorted: sorted})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].sorted != out[j].sorted {
			return out[i].sorted
		}
		if out[i].order != out[j].order {
			return out[i].order < out[j].order
		}
		return out[i].name < out[j].name
	})
	return out
}

func extension(s *openapi3.Schema) map[string]any {
	merged := map[string]any{}
	for _, ref := range s.AllOf {
		if ref != nil && ref.Value != nil {
			for key, value := range extension(ref.Value) {
				merged[key] = value
			}
		}
	}
	if raw, ok := s.Extensions[ExtensionKey].(map[string]any); ok {
		for key, value := range raw {
			merged[key] = value
		}
	}
	return merged
}

func labelOf(prop property) string {
	if label := extString(prop.ext, "label"); label != "" {
		return label
	}
	if title := strings.TrimSpace(prop.schema.Title); title != "" {
		return title
	}
	return Label(prop.name)
}

func hidden(ext map[string]any) bool {
	flag, _ := ext["hidden"].(bool)
	return flag
}

func extString(ext map[string]any, key string) string {
	value, _ := ext[key].(string)
	return strings.TrimSpace(value)
}

func isObject(s *openapi3.Schema) bool {
	return s != nil && (s.Type.Is(openapi3.TypeObject) || (s.Type == nil && len(s.Properties) > 0))
}

func isArray(s *openapi3.Schema) bool {
	return s != nil && s.Type.Is(openapi3.TypeArray)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
