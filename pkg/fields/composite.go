package fields

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Address parts in display order.
var AddressParts = []string{"street", "city", "state", "zipCode", "country"}

// DefaultCountries back the address country select when no list is given.
var DefaultCountries = []model.Option{
	{ID: "US", Name: "United States"},
	{ID: "CA", Name: "Canada"},
	{ID: "GB", Name: "United Kingdom"},
}

// StatesFor filters states to the ones whose countryId matches country.
func StatesFor(country any, states []model.Option) []model.Option {
	if country == nil || toString(country) == "" {
		return nil
	}
	out := make([]model.Option, 0, len(states))
	for _, state := range states {
		if attribute.SameIdentifier(state.CountryID, country) {
			out = append(out, state)
		}
	}
	return out
}

// SetAddressPart returns a copy of addr with part set.
func SetAddressPart(addr any, part string, value any) map[string]any {
	out := readAddress(addr)
	out[part] = toString(value)
	return out
}

func readAddress(value any) map[string]any {
	out := make(map[string]any, len(AddressParts))
	for _, part := range AddressParts {
		out[part] = ""
	}
	if m, ok := model.AsMap(value); ok {
		for key, v := range m {
			out[key] = v
		}
	}
	return out
}

type addressBehavior struct{}

func (addressBehavior) Kind() model.Kind { return model.KindAddress }

func (addressBehavior) Parse(_ model.Attribute, input any) any {
	if input == nil {
		return nil
	}
	return readAddress(input)
}

func (b addressBehavior) Normalize(attr model.Attribute, value any) any {
	return b.Parse(attr, value)
}

func (addressBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	m, ok := model.AsMap(value)
	if !ok {
		return toString(value)
	}
	parts := make([]string, 0, len(AddressParts))
	for _, part := range AddressParts {
		parts = append(parts, toString(m[part]))
	}
	return joinNonEmpty(", ", parts...)
}

func (b addressBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	addr := readAddress(value)
	c := f.control(b.Kind(), addr, mode, onChange)
	countries := fieldOptions(f)
	if len(countries) == 0 {
		countries = DefaultCountries
	}
	placeholders := map[string]string{
		"street":  "Street Address",
		"city":    "City",
		"state":   "State",
		"zipCode": "ZIP/Postal Code",
		"country": "Country",
	}
	for _, part := range AddressParts {
		child := Control{
			Kind:     model.KindText,
			Mode:     mode,
			Widget:   "text",
			Value:    toString(addr[part]),
			Disabled: c.Disabled,
			Attrs:    map[string]string{"name": part, "placeholder": placeholders[part]},
		}
		switch part {
		case "country":
			child.Kind, child.Widget, child.Options = model.KindSelect, "select", countries
		case "state":
			if states := StatesFor(addr["country"], f.States); len(states) > 0 {
				child.Kind, child.Widget, child.Options = model.KindSelect, "select", states
			}
		}
		c.Children = append(c.Children, child)
	}
	return c
}

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips everything but digits.
func Digits(value string) string {
	return nonDigits.ReplaceAllString(value, "")
}

// FormatPhone renders digits as (555) 123-4567, partially for short input.
func FormatPhone(value string) string {
	d := Digits(value)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		end := len(d)
		if end > 10 {
			end = 10
		}
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:end]
	}
}

// PhoneTypes back the phone type select.
var PhoneTypes = []model.Option{
	{ID: "mobile", Name: "Mobile"},
	{ID: "work", Name: "Work"},
	{ID: "home", Name: "Home"},
	{ID: "fax", Name: "Fax"},
}

type phoneBehavior struct{}

func (phoneBehavior) Kind() model.Kind { return model.KindPhone }

func (phoneBehavior) Parse(_ model.Attribute, input any) any {
	return Digits(toString(input))
}

func (phoneBehavior) Normalize(_ model.Attribute, value any) any {
	if value == nil {
		return ""
	}
	return Digits(toString(value))
}

func (phoneBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	return FormatPhone(toString(value))
}

func (b phoneBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	raw := toString(value)
	if mode == model.ModeView {
		c := f.view(b.Kind(), value, onChange, FormatPhone(raw))
		if raw != "" {
			c.Attrs["href"] = "tel:" + raw
		}
		return c
	}
	c := f.control(b.Kind(), raw, mode, onChange)
	c.Attrs["type"] = "tel"
	c.Attrs["maxlength"] = "15"
	if _, ok := c.Attrs["placeholder"]; !ok {
		c.Attrs["placeholder"] = "(555) 123-4567"
	}
	return c
}

// Phone-email composite keys.
const (
	PhoneNumbers   = "phoneNumbers"
	EmailAddresses = "emailAddresses"
	PhoneNumber    = "phoneNumber"
	PhoneType      = "phoneType"
	EmailAddress   = "emailAddress"
)

// PhoneEmail is the composite phone/email value.
type PhoneEmail struct {
	Phones []map[string]any
	Emails []map[string]any
}

// ReadPhoneEmail decodes the composite value.
func ReadPhoneEmail(value any) PhoneEmail {
	var out PhoneEmail
	m, ok := model.AsMap(value)
	if !ok {
		return out
	}
	for _, item := range asList(m[PhoneNumbers]) {
		entry, _ := model.AsMap(item)
		phone := map[string]any{
			PhoneNumber: Digits(toString(entry[PhoneNumber])),
			PhoneType:   toString(entry[PhoneType]),
		}
		if phone[PhoneType] == "" {
			phone[PhoneType] = "mobile"
		}
		out.Phones = append(out.Phones, phone)
	}
	for _, item := range asList(m[EmailAddresses]) {
		entry, _ := model.AsMap(item)
		out.Emails = append(out.Emails, map[string]any{
			EmailAddress: strings.TrimSpace(toString(entry[EmailAddress])),
		})
	}
	return out
}

// Map converts the composite into its record form.
func (p PhoneEmail) Map() map[string]any {
	phones := make([]any, len(p.Phones))
	for i, phone := range p.Phones {
		phones[i] = phone
	}
	emails := make([]any, len(p.Emails))
	for i, email := range p.Emails {
		emails[i] = email
	}
	return map[string]any{PhoneNumbers: phones, EmailAddresses: emails}
}

// AddPhone appends a blank mobile entry.
func (p PhoneEmail) AddPhone() PhoneEmail {
	p.Phones = append(append([]map[string]any(nil), p.Phones...), map[string]any{PhoneNumber: "", PhoneType: "mobile"})
	return p
}

// AddEmail appends a blank email entry.
func (p PhoneEmail) AddEmail() PhoneEmail {
	p.Emails = append(append([]map[string]any(nil), p.Emails...), map[string]any{EmailAddress: ""})
	return p
}

// RemovePhone drops the entry at index.
func (p PhoneEmail) RemovePhone(index int) PhoneEmail {
	p.Phones = removeAt(p.Phones, index)
	return p
}

// RemoveEmail drops the entry at index.
func (p PhoneEmail) RemoveEmail(index int) PhoneEmail {
	p.Emails = removeAt(p.Emails, index)
	return p
}

func removeAt(in []map[string]any, index int) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for i, item := range in {
		if i != index {
			out = append(out, item)
		}
	}
	return out
}

type phoneEmailBehavior struct{}

func (phoneEmailBehavior) Kind() model.Kind { return model.KindPhoneEmail }

func (phoneEmailBehavior) Parse(_ model.Attribute, input any) any {
	return ReadPhoneEmail(input).Map()
}

func (phoneEmailBehavior) Normalize(_ model.Attribute, value any) any {
	if value == nil {
		return nil
	}
	return ReadPhoneEmail(value).Map()
}

func (phoneEmailBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	composite := ReadPhoneEmail(value)
	parts := make([]string, 0, len(composite.Phones)+len(composite.Emails))
	for _, phone := range composite.Phones {
		parts = append(parts, FormatPhone(toString(phone[PhoneNumber])))
	}
	for _, email := range composite.Emails {
		parts = append(parts, toString(email[EmailAddress]))
	}
	return joinNonEmpty("; ", parts...)
}

func (b phoneEmailBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	composite := ReadPhoneEmail(value)
	c := f.control(b.Kind(), composite.Map(), mode, onChange)
	for i, phone := range composite.Phones {
		c.Children = append(c.Children, Control{
			Kind: model.KindPhone, Mode: mode, Widget: "tel", Value: phone[PhoneNumber], Disabled: c.Disabled,
			Options: PhoneTypes,
			Attrs:   map[string]string{"name": PhoneNumbers, "index": itoa(i), "phoneType": toString(phone[PhoneType])},
		})
	}
	for i, email := range composite.Emails {
		c.Children = append(c.Children, Control{
			Kind: model.KindEmail, Mode: mode, Widget: "email", Value: email[EmailAddress], Disabled: c.Disabled,
			Attrs: map[string]string{"name": EmailAddresses, "index": itoa(i)},
		})
	}
	return c
}

// ReferenceDisplay is the visible name of a reference value: the object's
// name, else its objectRefName field, else the raw value.
func ReferenceDisplay(attr model.Attribute, value any) string {
	m, ok := model.AsMap(value)
	if !ok {
		return toString(value)
	}
	if name := toString(m["name"]); name != "" {
		return name
	}
	if ref, ok := model.AsMap(attr.Meta["referenceObject"]); ok {
		if key := toString(ref["objectRefName"]); key != "" {
			return toString(m[key])
		}
	}
	return ""
}

type referenceBehavior struct{}

func (referenceBehavior) Kind() model.Kind { return model.KindReference }

func (referenceBehavior) Parse(_ model.Attribute, input any) any {
	if m, ok := model.AsMap(input); ok {
		return model.CloneValue(m)
	}
	return input
}

func (b referenceBehavior) Normalize(attr model.Attribute, value any) any {
	return b.Parse(attr, value)
}

func (referenceBehavior) Format(attr model.Attribute, value any, _ FormatOptions) string {
	return ReferenceDisplay(attr, value)
}

func (b referenceBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	display := ReferenceDisplay(f.Attribute, value)
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, display)
	}
	c := f.control(b.Kind(), value, mode, onChange)
	c.Display = display
	c.Attrs["type"] = "search"
	c.Attrs["data-min-chars"] = itoa(MinSearchChars)
	if _, ok := c.Attrs["placeholder"]; !ok {
		c.Attrs["placeholder"] = "Search..."
	}
	return c
}

// MinSearchChars is the shortest text that triggers a reference lookup.
const MinSearchChars = 2

type formulaBehavior struct{}

func (formulaBehavior) Kind() model.Kind { return model.KindFormula }

// Parse keeps the computed value; formulas are never edited.
func (formulaBehavior) Parse(_ model.Attribute, input any) any { return input }

func (formulaBehavior) Normalize(_ model.Attribute, value any) any { return value }

func (formulaBehavior) Format(attr model.Attribute, value any, opts FormatOptions) string {
	if value == nil || value == "" {
		return ""
	}
	switch strings.ToLower(attr.FormulaType) {
	case "currency":
		if v, ok := ParseDecimal(value); ok {
			return FormatCurrency(v, DefaultCurrency)
		}
	case "percentage":
		return toString(value) + "%"
	case "date":
		if t, ok := ParseTime(value); ok {
			return FormatShortDate(t, opts)
		}
	}
	return toString(value)
}

// Render is always read-only.
func (b formulaBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	c := f.view(b.Kind(), value, nil, b.Format(f.Attribute, value, f.Format))
	c.Mode = mode
	return c
}

type fileUploadBehavior struct{}

func (fileUploadBehavior) Kind() model.Kind { return model.KindFileUpload }

func (fileUploadBehavior) Parse(_ model.Attribute, input any) any {
	list := asList(input)
	out := make([]any, 0, len(list))
	for _, item := range list {
		if item == nil || item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (b fileUploadBehavior) Normalize(attr model.Attribute, value any) any {
	return b.Parse(attr, value)
}

// AddFiles appends files when multiple is set and replaces them otherwise.
func AddFiles(current any, files []any, multiple bool) []any {
	if !multiple {
		return append([]any(nil), files...)
	}
	return append(append([]any(nil), asList(current)...), files...)
}

// FileName is the display name of a stored file entry.
func FileName(file any) string {
	if m, ok := model.AsMap(file); ok {
		if name := toString(m["name"]); name != "" {
			return name
		}
		return toString(m["url"])
	}
	return toString(file)
}

func (fileUploadBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	list := asList(value)
	names := make([]string, 0, len(list))
	for _, file := range list {
		names = append(names, FileName(file))
	}
	return joinNonEmpty(", ", names...)
}

func (b fileUploadBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	c := f.control(b.Kind(), b.Parse(f.Attribute, value), mode, onChange)
	c.Attrs["type"] = "file"
	if f.Attribute.Multiple.True() {
		c.Attrs["multiple"] = "true"
	}
	if accept := toString(f.Attribute.Meta["accept"]); accept != "" {
		c.Attrs["accept"] = accept
	}
	return c
}
