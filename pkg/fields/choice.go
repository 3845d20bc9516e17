package fields

import (
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// OptionText returns the label of the option matching id, or the id itself.
func OptionText(options []model.Option, id any) string {
	for _, opt := range options {
		if attribute.SameIdentifier(opt.Identifier(), id) {
			return opt.Text()
		}
	}
	return toString(id)
}

func optionTexts(options []model.Option, ids []any) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, OptionText(options, id))
	}
	return strings.Join(labels, ", ")
}

func fieldOptions(f Field) []model.Option {
	if len(f.Options) > 0 {
		return f.Options
	}
	return f.Attribute.Options
}

type selectBehavior struct{ kind model.Kind }

func (b selectBehavior) Kind() model.Kind { return b.kind }

func (selectBehavior) Parse(_ model.Attribute, input any) any {
	if list, ok := input.([]any); ok {
		return attribute.NormalizeIdentifiers(list)
	}
	return attribute.NormalizeIdentifier(input)
}

func (b selectBehavior) Normalize(attr model.Attribute, value any) any {
	return b.Parse(attr, value)
}

func (selectBehavior) Format(attr model.Attribute, value any, _ FormatOptions) string {
	if list, ok := value.([]any); ok {
		return optionTexts(attr.Options, attribute.NormalizeIdentifiers(list))
	}
	if value == nil {
		return ""
	}
	return OptionText(attr.Options, attribute.NormalizeIdentifier(value))
}

func (b selectBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	options := fieldOptions(f)
	if mode == model.ModeView {
		attr := f.Attribute
		attr.Options = options
		return f.view(b.kind, value, onChange, b.Format(attr, value, f.Format))
	}
	if mode == model.ModeSearch {
		c := f.control(b.kind, attribute.NormalizeIdentifiers(value), mode, onChange)
		c.Widget = "search-select"
		c.Options = options
		c.Attrs["multiple"] = "true"
		return c
	}
	c := f.control(b.kind, b.Parse(f.Attribute, value), mode, onChange)
	c.Options = options
	return c
}

// AddTag appends id to the selection unless it is already selected.
func AddTag(current any, id any) []any {
	selected := attribute.NormalizeIdentifiers(current)
	id = attribute.NormalizeIdentifier(id)
	if id == nil || attribute.ContainsIdentifier(selected, id) {
		return selected
	}
	return append(selected, id)
}

// RemoveTag drops id from the selection.
func RemoveTag(current any, id any) []any {
	selected := attribute.NormalizeIdentifiers(current)
	id = attribute.NormalizeIdentifier(id)
	out := make([]any, 0, len(selected))
	for _, item := range selected {
		if !attribute.SameIdentifier(item, id) {
			out = append(out, item)
		}
	}
	return out
}

// CommitTag adds free typed text as a literal tag value. Blank text is
// ignored.
func CommitTag(current any, text string) []any {
	text = strings.TrimSpace(text)
	if text == "" {
		return attribute.NormalizeIdentifiers(current)
	}
	return AddTag(current, text)
}

type listBehavior struct{ kind model.Kind }

func (b listBehavior) Kind() model.Kind { return b.kind }

func (listBehavior) Parse(_ model.Attribute, input any) any {
	return attribute.NormalizeIdentifiers(input)
}

func (listBehavior) Normalize(_ model.Attribute, value any) any {
	return attribute.NormalizeIdentifiers(value)
}

func (listBehavior) Format(attr model.Attribute, value any, _ FormatOptions) string {
	return optionTexts(attr.Options, attribute.NormalizeIdentifiers(value))
}

func (b listBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	options := fieldOptions(f)
	selected := attribute.NormalizeIdentifiers(value)
	if mode == model.ModeView {
		return f.view(b.kind, selected, onChange, optionTexts(options, selected))
	}
	c := f.control(b.kind, selected, mode, onChange)
	c.Options = options
	c.Attrs["multiple"] = "true"
	if b.kind == model.KindTags {
		if _, ok := c.Attrs["placeholder"]; !ok {
			c.Attrs["placeholder"] = "Select or type..."
		}
	}
	return c
}

// ToggleOption checks or unchecks id in a multi-toggle checkbox value.
func ToggleOption(current any, id any, checked bool) []any {
	if checked {
		return AddTag(current, id)
	}
	return RemoveTag(current, id)
}

type checkboxBehavior struct{}

func (checkboxBehavior) Kind() model.Kind { return model.KindCheckbox }

// Parse yields a list when the attribute has options, a bool otherwise.
func (checkboxBehavior) Parse(attr model.Attribute, input any) any {
	if len(attr.Options) > 0 {
		return attribute.NormalizeIdentifiers(input)
	}
	return toBool(input)
}

func (b checkboxBehavior) Normalize(attr model.Attribute, value any) any {
	return b.Parse(attr, value)
}

func (checkboxBehavior) Format(attr model.Attribute, value any, _ FormatOptions) string {
	if len(attr.Options) > 0 {
		return optionTexts(attr.Options, attribute.NormalizeIdentifiers(value))
	}
	if toBool(value) {
		return "Yes"
	}
	return "No"
}

func (b checkboxBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	attr := f.Attribute
	attr.Options = fieldOptions(f)
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(attr, value, f.Format))
	}
	if mode == model.ModeSearch {
		c := f.control(b.Kind(), value, mode, onChange)
		c.Widget = "tri-state"
		c.Options = []model.Option{{ID: "", Name: "Any"}, {ID: true, Name: "Yes"}, {ID: false, Name: "No"}}
		return c
	}
	c := f.control(b.Kind(), b.Parse(attr, value), mode, onChange)
	c.Options = attr.Options
	c.Attrs["type"] = "checkbox"
	return c
}

type toggleBehavior struct{}

func (toggleBehavior) Kind() model.Kind { return model.KindToggle }

func (toggleBehavior) Parse(_ model.Attribute, input any) any { return toBool(input) }

func (toggleBehavior) Normalize(_ model.Attribute, value any) any { return toBool(value) }

func (toggleBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	if toBool(value) {
		return "Yes"
	}
	return "No"
}

func (b toggleBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	c := f.control(b.Kind(), toBool(value), mode, onChange)
	c.Attrs["type"] = "checkbox"
	return c
}

// Salutations are used when an attribute carries no options.
var Salutations = []model.Option{
	{ID: "Mr", Name: "Mr"},
	{ID: "Mrs", Name: "Mrs"},
	{ID: "Ms", Name: "Ms"},
	{ID: "Dr", Name: "Dr"},
	{ID: "Prof", Name: "Prof"},
}

type salutationBehavior struct{}

func (salutationBehavior) Kind() model.Kind { return model.KindSalutation }

func (salutationBehavior) Parse(_ model.Attribute, input any) any {
	return toString(attribute.NormalizeIdentifier(input))
}

func (b salutationBehavior) Normalize(attr model.Attribute, value any) any {
	return b.Parse(attr, value)
}

func (salutationBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	return toString(value)
}

func (b salutationBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, toString(value))
	}
	options := fieldOptions(f)
	if len(options) == 0 {
		options = Salutations
	}
	c := f.control(b.Kind(), toString(value), mode, onChange)
	c.Options = options
	return c
}
