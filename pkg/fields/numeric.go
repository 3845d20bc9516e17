package fields

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Currency value keys.
const (
	CurrencyAmount = "amount"
	CurrencyCode   = "currencyCode"
)

// DefaultCurrency is used when neither the value nor the attribute names one.
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
}

// CurrencySymbol returns the display symbol for code, or code itself.
func CurrencySymbol(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}

// FormatCurrency renders amount as <symbol><amount to 2 decimals>.
func FormatCurrency(amount float64, code string) string {
	return CurrencySymbol(code) + fixed(amount, 2)
}

// Clamp bounds v to the attribute's min/max when they are set.
func Clamp(attr model.Attribute, v float64) float64 {
	if attr.Min.Valid && v < attr.Min.Value {
		v = attr.Min.Value
	}
	if attr.Max.Valid && v > attr.Max.Value {
		v = attr.Max.Value
	}
	return v
}

func formatDecimal(v float64, decimals int, tag language.Tag) string {
	if tag == language.Und {
		return fixed(v, decimals)
	}
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(v, number.MinFractionDigits(decimals), number.MaxFractionDigits(decimals)))
}

type numberBehavior struct{}

func (numberBehavior) Kind() model.Kind { return model.KindNumber }

// Parse returns nil for empty or non numeric input and clamps the rest.
func (numberBehavior) Parse(attr model.Attribute, input any) any {
	if s, ok := input.(string); ok && s == "" {
		return nil
	}
	v, ok := ParseDecimal(input)
	if !ok || math.IsNaN(v) {
		return nil
	}
	return Clamp(attr, v)
}

func (numberBehavior) Normalize(_ model.Attribute, value any) any {
	if v, ok := ParseDecimal(value); ok {
		return v
	}
	return nil
}

func (numberBehavior) Format(attr model.Attribute, value any, opts FormatOptions) string {
	v, ok := ParseDecimal(value)
	if !ok {
		return toString(value)
	}
	return formatDecimal(v, attr.DecimalPlaces.Int(), opts.Locale)
}

func (b numberBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	if mode == model.ModeSearch {
		c := f.control(b.Kind(), rangeValue(value, "min", "max"), mode, onChange)
		c.Widget = "number-range"
		c.Attrs["type"] = "number"
		return c
	}
	c := f.control(b.Kind(), editNumber(value), mode, onChange)
	c.Attrs["type"] = "number"
	c.Attrs["step"] = "1"
	if f.Attribute.Min.Valid {
		c.Attrs["min"] = strconv.FormatFloat(f.Attribute.Min.Value, 'f', -1, 64)
	}
	if f.Attribute.Max.Valid {
		c.Attrs["max"] = strconv.FormatFloat(f.Attribute.Max.Value, 'f', -1, 64)
	}
	return c
}

type percentageBehavior struct{}

func (percentageBehavior) Kind() model.Kind { return model.KindPercentage }

// Parse clamps to [0,100].
func (percentageBehavior) Parse(_ model.Attribute, input any) any {
	if s, ok := input.(string); ok && s == "" {
		return nil
	}
	v, ok := ParseDecimal(input)
	if !ok {
		return nil
	}
	return math.Min(100, math.Max(0, v))
}

func (percentageBehavior) Normalize(attr model.Attribute, value any) any {
	return numberBehavior{}.Normalize(attr, value)
}

func (percentageBehavior) Format(_ model.Attribute, value any, opts FormatOptions) string {
	v, ok := ParseDecimal(value)
	if !ok {
		return toString(value)
	}
	if opts.Locale == language.Und {
		return strconv.FormatFloat(v, 'f', -1, 64) + "%"
	}
	return message.NewPrinter(opts.Locale).Sprint(number.Percent(v / 100))
}

func (b percentageBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	c := f.control(b.Kind(), editNumber(value), mode, onChange)
	c.Attrs["type"] = "number"
	c.Attrs["min"] = "0"
	c.Attrs["max"] = "100"
	c.Attrs["step"] = "0.01"
	return c
}

// CurrencyValue is the amount/code pair stored for currency attributes.
type CurrencyValue struct {
	Amount *float64
	Code   string
}

// ReadCurrency extracts the pair from a stored value. Scalars are amounts in
// the attribute's currency.
func ReadCurrency(attr model.Attribute, value any) CurrencyValue {
	out := CurrencyValue{Code: attr.CurrencyCode}
	if m, ok := model.AsMap(value); ok {
		if v, ok := ParseDecimal(m[CurrencyAmount]); ok {
			out.Amount = &v
		}
		if code := toString(m[CurrencyCode]); code != "" {
			out.Code = code
		}
	} else if v, ok := ParseDecimal(value); ok {
		out.Amount = &v
	}
	if out.Code == "" {
		out.Code = DefaultCurrency
	}
	return out
}

// Map converts the pair into its record form.
func (c CurrencyValue) Map() map[string]any {
	out := map[string]any{CurrencyCode: c.Code, CurrencyAmount: nil}
	if c.Amount != nil {
		out[CurrencyAmount] = *c.Amount
	}
	return out
}

type currencyBehavior struct{}

func (currencyBehavior) Kind() model.Kind { return model.KindCurrency }

// Parse accepts a pair map or free text for the amount. Empty text is a zero
// amount; text without a leading number leaves the amount unset.
func (currencyBehavior) Parse(attr model.Attribute, input any) any {
	current := ReadCurrency(attr, nil)
	if m, ok := model.AsMap(input); ok {
		current = ReadCurrency(attr, m)
		if raw, ok := m[CurrencyAmount].(string); ok && raw == "" {
			zero := 0.0
			current.Amount = &zero
		}
		return current.Map()
	}
	if s, ok := input.(string); ok && s == "" {
		zero := 0.0
		current.Amount = &zero
		return current.Map()
	}
	if v, ok := ParseDecimal(input); ok {
		current.Amount = &v
	}
	return current.Map()
}

func (b currencyBehavior) Normalize(attr model.Attribute, value any) any {
	if value == nil {
		return nil
	}
	return ReadCurrency(attr, value).Map()
}

func (currencyBehavior) Format(attr model.Attribute, value any, opts FormatOptions) string {
	pair := ReadCurrency(attr, value)
	if pair.Amount == nil {
		if value == nil {
			return ""
		}
		if m, ok := model.AsMap(value); ok {
			return toString(m[CurrencyAmount])
		}
		return toString(value)
	}
	amount := formatDecimal(*pair.Amount, 2, opts.Locale)
	if opts.CurrencyFormat == CurrencyFormatCode {
		return pair.Code + " " + amount
	}
	return CurrencySymbol(pair.Code) + amount
}

func (b currencyBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	pair := ReadCurrency(f.Attribute, value)
	c := f.control(b.Kind(), pair.Map(), mode, onChange)
	amount := ""
	if pair.Amount != nil {
		amount = strconv.FormatFloat(*pair.Amount, 'f', -1, 64)
	}
	if _, ok := c.Attrs["placeholder"]; !ok {
		c.Attrs["placeholder"] = "0.00"
	}
	c.Children = []Control{
		{Kind: model.KindNumber, Mode: mode, Widget: "text", Value: amount, Disabled: c.Disabled,
			Attrs: map[string]string{"name": CurrencyAmount, "type": "text"}},
		{Kind: model.KindSelect, Mode: mode, Widget: "select", Value: pair.Code, Disabled: c.Disabled,
			Attrs: map[string]string{"name": CurrencyCode}, Options: currencyOptions(fieldOptions(f), pair.Code)},
	}
	return c
}

// currencyOptions lists the available currencies, falling back to USD, EUR
// and GBP. A stored code missing from the list is appended so edits keep it.
func currencyOptions(available []model.Option, current string) []model.Option {
	options := available
	if len(options) == 0 {
		options = []model.Option{
			{ID: "USD", Name: "US Dollar", Code: "$"},
			{ID: "EUR", Name: "Euro", Code: "€"},
			{ID: "GBP", Name: "British Pound", Code: "£"},
		}
	}
	if current == "" {
		return options
	}
	for _, option := range options {
		if attribute.SameIdentifier(option.Identifier(), current) {
			return options
		}
	}
	out := append([]model.Option(nil), options...)
	return append(out, model.Option{ID: current, Name: current, Code: CurrencySymbol(current)})
}

func editNumber(value any) any {
	if v, ok := ParseDecimal(value); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func rangeValue(value any, lo, hi string) map[string]any {
	out := map[string]any{lo: nil, hi: nil}
	if m, ok := model.AsMap(value); ok {
		out[lo] = m[lo]
		out[hi] = m[hi]
	}
	return out
}
