package attribute

import (
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

var tagAliases = map[string]model.Kind{
	"input":          model.KindText,
	"text":           model.KindText,
	"label":          model.KindText,
	"button":         model.KindText,
	"term":           model.KindText,
	"qr":             model.KindText,
	"textLink":       model.KindText,
	"textarea":       model.KindTextarea,
	"simpleTextarea": model.KindTextarea,

	"number":          model.KindNumber,
	"numberwithlabel": model.KindNumber,
	"counter":         model.KindNumber,
	"currency":        model.KindCurrency,
	"percentage":      model.KindPercentage,

	"select":          model.KindSelect,
	"select_dropdown": model.KindSelect,
	"app_select":      model.KindSelect,
	"combo":           model.KindSelect,
	"select_search":   model.KindTags,
	"tags":            model.KindTags,
	"multiSelect":     model.KindMultiSelect,
	"multiObjectList": model.KindMultiSelect,

	"date":     model.KindDate,
	"dateTime": model.KindDateTime,
	"time":     model.KindTime,

	"check":    model.KindCheckbox,
	"checkbox": model.KindCheckbox,
	"radio":    model.KindRadio,
	"toggle":   model.KindToggle,
	"on_off":   model.KindToggle,

	"address":           model.KindAddress,
	"phone":             model.KindPhone,
	"fax":               model.KindPhone,
	"email":             model.KindEmail,
	"emailAutoComplete": model.KindEmail,
	"phoneEmail":        model.KindPhoneEmail,
	"salutation":        model.KindSalutation,
	"link":              model.KindLink,

	"reference":      model.KindReference,
	"finkey":         model.KindReference,
	"account":        model.KindReference,
	"conKey":         model.KindReference,
	"referenceField": model.KindReference,
	"formula":        model.KindFormula,
	"duration":       model.KindDuration,

	"fileUpload":  model.KindFileUpload,
	"upload":      model.KindFileUpload,
	"imageUpload": model.KindFileUpload,
	"image":       model.KindFileUpload,
}

// KindForTag maps a raw payload tag to a kind. Canonical kind names are
// accepted as well so canonicalized layouts classify identically.
func KindForTag(tag string) (model.Kind, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	if kind, ok := tagAliases[tag]; ok {
		return kind, true
	}
	if kind := model.Kind(tag); kind.Valid() {
		return kind, true
	}
	return "", false
}

// Classify resolves the attribute kind: right[0].tag, then the attribute's
// own attributeTag/tag/type, then formulaType, then text. It never returns an
// empty kind.
func Classify(attr model.Attribute) model.Kind {
	if attr.Kind.Valid() {
		return attr.Kind
	}
	if right, ok := attr.FirstRight(); ok {
		if kind, ok := KindForTag(right.Tag); ok {
			return kind
		}
	}
	for _, candidate := range []string{attr.AttributeTag, attr.Tag, attr.Type} {
		if kind, ok := KindForTag(candidate); ok {
			return kind
		}
	}
	if strings.TrimSpace(attr.FormulaType) != "" {
		return model.KindFormula
	}
	return model.KindText
}

// Tag returns the raw tag: right[0].tag, then attributeTag, then tag.
func Tag(attr model.Attribute) string {
	if right, ok := attr.FirstRight(); ok && strings.TrimSpace(right.Tag) != "" {
		return right.Tag
	}
	if strings.TrimSpace(attr.AttributeTag) != "" {
		return attr.AttributeTag
	}
	return attr.Tag
}

// TagName returns the record key of the attribute: right[0].tagName, then
// the attribute's own tagName. Empty when neither is set.
func TagName(attr model.Attribute) string {
	if right, ok := attr.FirstRight(); ok && strings.TrimSpace(right.TagName) != "" {
		return right.TagName
	}
	return strings.TrimSpace(attr.TagName)
}

// IsStringKind reports kinds validated against minLength/maxLength.
func IsStringKind(kind model.Kind) bool {
	switch kind {
	case model.KindText, model.KindTextarea, model.KindDate, model.KindDateTime, model.KindTime, model.KindFormula:
		return true
	default:
		return false
	}
}

// IsNumericKind reports kinds validated against min/max.
func IsNumericKind(kind model.Kind) bool {
	switch kind {
	case model.KindNumber, model.KindCurrency, model.KindPercentage:
		return true
	default:
		return false
	}
}

// IsListKind reports kinds whose stored value is a list of identifiers.
func IsListKind(kind model.Kind) bool {
	return kind == model.KindTags || kind == model.KindMultiSelect
}
