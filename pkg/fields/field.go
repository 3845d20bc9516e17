package fields

import (
	"time"

	"golang.org/x/text/language"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Currency display settings.
const (
	CurrencyFormatSymbol = "CURRENCY_FORMAT_SYMBOL"
	CurrencyFormatCode   = "CURRENCY_FORMAT_CODE"
)

// ChangeFunc receives raw input from a control. Callers parse it with the
// owning behavior before storing it.
type ChangeFunc func(value any)

// Control describes what a renderer should draw for one attribute.
type Control struct {
	Kind     model.Kind
	Mode     model.Mode
	ReadOnly bool
	Disabled bool
	Widget   string
	// Value is the edit-ready value. Display is the formatted text shown in
	// read-only modes.
	Value    any
	Display  string
	Options  []model.Option
	Attrs    map[string]string
	Help     string
	Children []Control
	OnChange ChangeFunc
}

// Attr returns the named control attribute.
func (c Control) Attr(name string) string {
	if c.Attrs == nil {
		return ""
	}
	return c.Attrs[name]
}

// FormatOptions tune read-only formatting.
type FormatOptions struct {
	// Locale selects grouping separators and short date layouts. The zero
	// value formats without grouping.
	Locale         language.Tag
	CurrencyFormat string
	Location       *time.Location
}

// Behavior is the per-kind contract.
type Behavior interface {
	Kind() model.Kind
	Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control
	Parse(attr model.Attribute, input any) any
	Format(attr model.Attribute, value any, opts FormatOptions) string
	Normalize(attr model.Attribute, value any) any
}

// Field is a behavior bound to one attribute and its render context.
type Field struct {
	Attribute model.Attribute
	Behavior  Behavior
	Options   []model.Option
	// States feeds the address country -> state filter.
	States   []model.Option
	Disabled bool
	Format   FormatOptions
	Widget   string

	help helpSanitizer
}

// Kind is the resolved behavior kind.
func (f Field) Kind() model.Kind {
	if f.Behavior == nil {
		return model.KindText
	}
	return f.Behavior.Kind()
}

// Render produces the control for value in mode. Search mode degrades to
// create for kinds without a search variant.
func (f Field) Render(value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == "" {
		mode = model.ModeCreate
	}
	if mode == model.ModeSearch && !SupportsSearch(f.Kind()) {
		mode = model.ModeCreate
	}
	behavior := f.Behavior
	if behavior == nil {
		behavior = textBehavior{}
	}
	return behavior.Render(f, value, mode, onChange)
}

// Parse runs the bound behavior's input parser.
func (f Field) Parse(input any) any {
	if f.Behavior == nil {
		return input
	}
	return f.Behavior.Parse(f.Attribute, input)
}

// Display formats value with the field's format options.
func (f Field) Display(value any) string {
	if f.Behavior == nil {
		return toString(value)
	}
	return f.Behavior.Format(f.Attribute, value, f.Format)
}

// SupportsSearch reports whether kind has an advanced-search variant.
func SupportsSearch(kind model.Kind) bool {
	switch kind {
	case model.KindText, model.KindSelect, model.KindDate, model.KindNumber, model.KindCheckbox:
		return true
	default:
		return false
	}
}

func (f Field) control(kind model.Kind, value any, mode model.Mode, onChange ChangeFunc) Control {
	widget := f.Widget
	if widget == "" {
		widget = string(kind)
	}
	c := Control{
		Kind:     kind,
		Mode:     mode,
		ReadOnly: mode.ReadOnly(),
		Disabled: f.Disabled || attribute.IsDisabled(f.Attribute),
		Widget:   widget,
		Value:    value,
		Attrs:    map[string]string{"id": attribute.ID(f.Attribute)},
		OnChange: onChange,
	}
	if placeholder := f.Attribute.Placeholder; placeholder != "" {
		c.Attrs["placeholder"] = placeholder
	}
	if f.help != nil && f.Attribute.HelpText != "" {
		c.Help = f.help.Sanitize(f.Attribute.HelpText)
	}
	if c.ReadOnly {
		c.OnChange = nil
	}
	return c
}

func (f Field) view(kind model.Kind, value any, onChange ChangeFunc, display string) Control {
	c := f.control(kind, value, model.ModeView, onChange)
	c.Display = display
	return c
}

type helpSanitizer interface {
	Sanitize(string) string
}
