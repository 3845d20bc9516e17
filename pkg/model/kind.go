package model

import "strings"

// Kind is the closed set of field behaviors an attribute can resolve to.
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindNumber      Kind = "number"
	KindCurrency    Kind = "currency"
	KindPercentage  Kind = "percentage"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi-select"
	KindTags        Kind = "tags"
	KindDate        Kind = "date"
	KindDateTime    Kind = "date-time"
	KindTime        Kind = "time"
	KindCheckbox    Kind = "checkbox"
	KindRadio       Kind = "radio"
	KindToggle      Kind = "toggle"
	KindAddress     Kind = "address"
	KindPhone       Kind = "phone"
	KindEmail       Kind = "email"
	KindPhoneEmail  Kind = "phone-email"
	KindReference   Kind = "reference"
	KindFormula     Kind = "formula"
	KindDuration    Kind = "duration"
	KindFileUpload  Kind = "file-upload"
	KindSalutation  Kind = "salutation"
	KindLink        Kind = "link"
)

var allKinds = []Kind{
	KindText,
	KindTextarea,
	KindNumber,
	KindCurrency,
	KindPercentage,
	KindSelect,
	KindMultiSelect,
	KindTags,
	KindDate,
	KindDateTime,
	KindTime,
	KindCheckbox,
	KindRadio,
	KindToggle,
	KindAddress,
	KindPhone,
	KindEmail,
	KindPhoneEmail,
	KindReference,
	KindFormula,
	KindDuration,
	KindFileUpload,
	KindSalutation,
	KindLink,
}

// AllKinds returns every kind in declaration order.
func AllKinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

// Valid reports whether k belongs to the closed kind set.
func (k Kind) Valid() bool {
	for _, candidate := range allKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// Mode selects how a form is presented.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeView   Mode = "view"
	ModeEdit   Mode = "edit"
	ModeSearch Mode = "search"
)

// ParseMode accepts the lower and upper case spellings used by payloads
// ("CREATE", "view"). Unknown values return the empty mode.
func ParseMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "create", "new":
		return ModeCreate
	case "view":
		return ModeView
	case "edit":
		return ModeEdit
	case "search", "advanced_search":
		return ModeSearch
	default:
		return ""
	}
}

// ReadOnly reports whether fields render as formatted display values.
func (m Mode) ReadOnly() bool {
	return m == ModeView
}

// Section types.
const (
	SectionTypeForm  = "form"
	SectionTypeTable = "table"
)

// Section/attribute origin types.
const (
	TypeStandard      = "Standard"
	TypeCustom        = "Custom"
	TypeRelatedObject = "RelatedObject"
)
