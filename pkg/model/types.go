package model

import (
	"fmt"
	"strings"
)

// Layout is the canonical section tree of a web layout.
type Layout struct {
	ObjectID   string    `json:"objectId,omitempty"`
	ObjectName string    `json:"objectName,omitempty"`
	Sections   []Section `json:"sections"`
}

// Section groups attributes. Table sections repeat their attribute templates
// once per row stored under record[LineType].
type Section struct {
	ID          string      `json:"id,omitempty"`
	SectionID   string      `json:"sectionId,omitempty"`
	SectionName string      `json:"sectionName,omitempty"`
	Label       string      `json:"label,omitempty"`
	SectionType string      `json:"sectionType,omitempty"`
	Type        string      `json:"type,omitempty"`
	LineType    string      `json:"lineType,omitempty"`
	Column      string      `json:"column,omitempty"`
	IsEnabled   Flag        `json:"isEnabled"`
	IsVisible   Flag        `json:"isVisible"`
	IsOpen      Flag        `json:"isOpen"`
	NoLabel     Flag        `json:"noLabel"`
	Attributes  []Attribute `json:"attributes"`
	Sections    []Section   `json:"sections"`
	Columns     []Column    `json:"columns"`

	Meta map[string]any `json:"-"`
}

// Key returns the section identifier (sectionId, then id).
func (s Section) Key() string {
	if strings.TrimSpace(s.SectionID) != "" {
		return s.SectionID
	}
	return s.ID
}

// Title returns the display title (sectionName, then label).
func (s Section) Title() string {
	if strings.TrimSpace(s.SectionName) != "" {
		return s.SectionName
	}
	return s.Label
}

// IsTable reports whether the section repeats per record row.
func (s Section) IsTable() bool {
	return s.SectionType == SectionTypeTable
}

// RowKey returns the record key holding the table rows (lineType, then id).
func (s Section) RowKey() string {
	if strings.TrimSpace(s.LineType) != "" {
		return s.LineType
	}
	return s.Key()
}

// HasContent reports whether the section has anything left to render.
func (s Section) HasContent() bool {
	return len(s.Attributes) > 0 || len(s.Sections) > 0 || len(s.Columns) > 0
}

// TableAttributes returns the row templates of a table section: column
// attributes first, then direct attributes.
func (s Section) TableAttributes() []Attribute {
	var out []Attribute
	for _, column := range s.Columns {
		out = append(out, column.Attributes...)
	}
	return append(out, s.Attributes...)
}

// Column is a table column carrying per-row attribute templates.
type Column struct {
	ID         string      `json:"id,omitempty"`
	Label      string      `json:"label,omitempty"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is one field definition.
type Attribute struct {
	AttributeID   string      `json:"attributeId,omitempty"`
	ID            string      `json:"id,omitempty"`
	AttributeName string      `json:"attributeName,omitempty"`
	Label         Label       `json:"label"`
	Tag           string      `json:"tag,omitempty"`
	AttributeTag  string      `json:"attributeTag,omitempty"`
	TagName       string      `json:"tagName,omitempty"`
	TagID         string      `json:"tagId,omitempty"`
	Type          string      `json:"type,omitempty"`
	Right         []Right     `json:"right,omitempty"`
	DisplayType   DisplayType `json:"displayType"`

	IsMandatory       Flag `json:"isMandatory"`
	DisableField      Flag `json:"disableField"`
	IsVisible         Flag `json:"isVisible"`
	IsEnabled         Flag `json:"isEnabled"`
	IsDependencyField Flag `json:"isDependencyField"`
	ShowDependency    Flag `json:"showDependency"`
	Multiple          Flag `json:"multiple"`

	Options       []Option `json:"options,omitempty"`
	MaxLength     Number   `json:"maxLength"`
	MinLength     Number   `json:"minLength"`
	Min           Number   `json:"min"`
	Max           Number   `json:"max"`
	DecimalPlaces Number   `json:"decimalPlaces"`

	CaseConversion Rule   `json:"caseConversion"`
	DataTypeRule   Rule   `json:"dataTypeRule"`
	FormulaType    string `json:"formulaType,omitempty"`
	CurrencyCode   string `json:"currencyCode,omitempty"`
	Placeholder    string `json:"placeholder,omitempty"`
	HelpText       string `json:"helpText,omitempty"`

	Dependency               *Dependency      `json:"dependency,omitempty"`
	AssociatedField          *AssociatedField `json:"associatedField,omitempty"`
	FieldDisplayDependencies any              `json:"fieldDisplayDependencies,omitempty"`

	// Canonical fields stamped by layout.Canonicalize.
	Kind             Kind   `json:"kind,omitempty"`
	CanonicalTag     string `json:"canonicalTag,omitempty"`
	LineType         string `json:"lineType,omitempty"`
	IsTableAttribute bool   `json:"isTableAttribute,omitempty"`

	Meta map[string]any `json:"-"`
}

// Key returns the attribute identifier (attributeId, then id).
func (a Attribute) Key() string {
	if strings.TrimSpace(a.AttributeID) != "" {
		return a.AttributeID
	}
	return a.ID
}

// FirstRight returns the legacy right-hand sub-definition, if any.
func (a Attribute) FirstRight() (Right, bool) {
	if len(a.Right) == 0 {
		return Right{}, false
	}
	return a.Right[0], true
}

// Right is the legacy alternate definition carried by older layouts.
type Right struct {
	Tag     string   `json:"tag,omitempty"`
	TagName string   `json:"tagName,omitempty"`
	TagID   string   `json:"tagId,omitempty"`
	Options []Option `json:"options,omitempty"`
}

// DisplayType overrides behavior resolution (e.g. "Currency").
type DisplayType struct {
	TypeName string `json:"typeName,omitempty"`
}

// Dependency describes which drivers an attribute depends on and an optional
// visibility expression evaluated against the record.
type Dependency struct {
	DependsOn   []string `json:"dependsOn,omitempty"`
	VisibleWhen string   `json:"visibleWhen,omitempty"`
}

// AssociatedField links a reference-field attribute to the attribute it
// reads from.
type AssociatedField struct {
	ReferenceAttributeID string `json:"referenceAttributeId,omitempty"`
	FieldName            string `json:"fieldName,omitempty"`
}

// Option is a value/label pair. Payloads use any of id, value or labelId as
// the identifier and label, name or code as the text.
type Option struct {
	ID        any    `json:"id,omitempty"`
	Value     any    `json:"value,omitempty"`
	LabelID   any    `json:"labelId,omitempty"`
	Label     string `json:"label,omitempty"`
	Name      string `json:"name,omitempty"`
	Code      string `json:"code,omitempty"`
	CountryID any    `json:"countryId,omitempty"`
}

// Identifier returns id, value or labelId, in that order.
func (o Option) Identifier() any {
	switch {
	case !emptyScalar(o.ID):
		return o.ID
	case !emptyScalar(o.Value):
		return o.Value
	case !emptyScalar(o.LabelID):
		return o.LabelID
	default:
		return nil
	}
}

// Text returns the option display text.
func (o Option) Text() string {
	switch {
	case strings.TrimSpace(o.Label) != "":
		return o.Label
	case strings.TrimSpace(o.Name) != "":
		return o.Name
	case strings.TrimSpace(o.Code) != "":
		return o.Code
	}
	if id := o.Identifier(); id != nil {
		return fmt.Sprint(id)
	}
	return ""
}

func emptyScalar(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
