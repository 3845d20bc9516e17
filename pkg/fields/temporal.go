package fields

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

const (
	isoDate      = "2006-01-02"
	isoDateTime  = "2006-01-02T15:04"
	clockMinutes = "15:04"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	isoDateTime,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	isoDate,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

// ParseTime reads a time.Time, epoch milliseconds or an ISO-like string.
func ParseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		return time.UnixMilli(v).UTC(), true
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// shortDateLayout approximates the short locale date.
func shortDateLayout(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch base.String() {
	case "de", "ru", "pl", "tr":
		return "02.01.2006"
	case "ja", "zh", "ko", "hu":
		return "2006/01/02"
	case "en":
		if region.String() == "US" || tag == language.English || tag == language.AmericanEnglish {
			return "1/2/2006"
		}
		return "02/01/2006"
	case "fr", "es", "it", "pt", "nl":
		return "02/01/2006"
	case "und":
		return "1/2/2006"
	default:
		return isoDate
	}
}

// FormatShortDate formats t in the locale's short date style.
func FormatShortDate(t time.Time, opts FormatOptions) string {
	if opts.Location != nil {
		t = t.In(opts.Location)
	}
	return t.Format(shortDateLayout(opts.Locale))
}

func formatShortDateTime(t time.Time, opts FormatOptions) string {
	if opts.Location != nil {
		t = t.In(opts.Location)
	}
	clock := "3:04:05 PM"
	if layout := shortDateLayout(opts.Locale); layout != "1/2/2006" {
		clock = "15:04:05"
	}
	return t.Format(shortDateLayout(opts.Locale)) + ", " + t.Format(clock)
}

type dateBehavior struct{}

func (dateBehavior) Kind() model.Kind { return model.KindDate }

// Parse stores dates as YYYY-MM-DD. Unparseable input is kept verbatim so
// partially typed values survive; rendering shows it as empty.
func (dateBehavior) Parse(_ model.Attribute, input any) any {
	if t, ok := ParseTime(input); ok {
		return t.Format(isoDate)
	}
	return toString(input)
}

func (dateBehavior) Normalize(_ model.Attribute, value any) any {
	if t, ok := ParseTime(value); ok {
		return t.Format(isoDate)
	}
	return value
}

func (dateBehavior) Format(_ model.Attribute, value any, opts FormatOptions) string {
	if t, ok := ParseTime(value); ok {
		return FormatShortDate(t, opts)
	}
	return toString(value)
}

func (b dateBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	if mode == model.ModeSearch {
		c := f.control(b.Kind(), rangeValue(value, "from", "to"), mode, onChange)
		c.Widget = "date-range"
		c.Attrs["type"] = "date"
		return c
	}
	edit := ""
	if t, ok := ParseTime(value); ok {
		edit = t.Format(isoDate)
	}
	c := f.control(b.Kind(), edit, mode, onChange)
	c.Attrs["type"] = "text"
	c.Attrs["maxlength"] = "10"
	if _, ok := c.Attrs["placeholder"]; !ok {
		c.Attrs["placeholder"] = "mm/dd/yyyy"
	}
	return c
}

type dateTimeBehavior struct{}

func (dateTimeBehavior) Kind() model.Kind { return model.KindDateTime }

func (dateTimeBehavior) Parse(_ model.Attribute, input any) any {
	if t, ok := ParseTime(input); ok {
		return t.Format(isoDateTime)
	}
	return toString(input)
}

func (dateTimeBehavior) Normalize(_ model.Attribute, value any) any {
	if t, ok := ParseTime(value); ok {
		return t.Format(isoDateTime)
	}
	return value
}

func (dateTimeBehavior) Format(_ model.Attribute, value any, opts FormatOptions) string {
	if t, ok := ParseTime(value); ok {
		return formatShortDateTime(t, opts)
	}
	return toString(value)
}

func (b dateTimeBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	edit := ""
	if t, ok := ParseTime(value); ok {
		edit = t.Format(isoDateTime)
	}
	c := f.control(b.Kind(), edit, mode, onChange)
	c.Attrs["type"] = "datetime-local"
	return c
}

type timeBehavior struct{}

func (timeBehavior) Kind() model.Kind { return model.KindTime }

func clockValue(value any) string {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if strings.Contains(s, ":") {
			if len(s) > 5 {
				return s[:5]
			}
			return s
		}
	}
	if t, ok := ParseTime(value); ok {
		return t.Format(clockMinutes)
	}
	return ""
}

func (timeBehavior) Parse(_ model.Attribute, input any) any {
	return clockValue(input)
}

func (timeBehavior) Normalize(_ model.Attribute, value any) any {
	if clock := clockValue(value); clock != "" {
		return clock
	}
	return value
}

// Format renders HH:MM as a 12 hour clock.
func (timeBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	raw := toString(value)
	hours, minutes, ok := strings.Cut(raw, ":")
	if !ok {
		return raw
	}
	h, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil {
		return raw
	}
	if len(minutes) > 2 {
		minutes = minutes[:2]
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return strconv.Itoa(h12) + ":" + minutes + " " + suffix
}

func (b timeBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	c := f.control(b.Kind(), clockValue(value), mode, onChange)
	c.Attrs["type"] = "time"
	return c
}

// Duration value keys.
const (
	DurationFrom  = "from"
	DurationTo    = "to"
	DurationValue = "duration"
	DurationType  = "durationType"
)

// DurationTypes are the unit options for a duration value.
var DurationTypes = []model.Option{
	{ID: "d", Name: "Day(s)"},
	{ID: "w", Name: "Week(s)"},
	{ID: "m", Name: "Month(s)"},
	{ID: "y", Name: "Year(s)"},
}

type durationBehavior struct{}

func (durationBehavior) Kind() model.Kind { return model.KindDuration }

func (durationBehavior) Parse(_ model.Attribute, input any) any {
	m, ok := model.AsMap(input)
	if !ok {
		if input == nil {
			return nil
		}
		return map[string]any{DurationValue: toString(input)}
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

func (b durationBehavior) Normalize(attr model.Attribute, value any) any {
	return b.Parse(attr, value)
}

func (durationBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	m, ok := model.AsMap(value)
	if !ok {
		return toString(value)
	}
	from, to := toString(m[DurationFrom]), toString(m[DurationTo])
	if from != "" && to != "" {
		return from + " to " + to
	}
	amount := toString(m[DurationValue])
	if amount == "" {
		return ""
	}
	unit := toString(m[DurationType])
	for _, opt := range DurationTypes {
		if opt.ID == unit {
			unit = opt.Name
			break
		}
	}
	return joinNonEmpty(" ", amount, unit)
}

func (b durationBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, b.Format(f.Attribute, value, f.Format))
	}
	m, _ := model.AsMap(value)
	c := f.control(b.Kind(), value, mode, onChange)
	ranged := toString(f.Attribute.Meta["dateType"]) == "range" || toString(m[DurationFrom]) != "" || toString(m[DurationTo]) != ""
	if ranged {
		c.Widget = "date-range"
		c.Children = []Control{
			{Kind: model.KindDate, Mode: mode, Widget: "date", Value: toString(m[DurationFrom]), Disabled: c.Disabled,
				Attrs: map[string]string{"name": DurationFrom, "type": "date", "placeholder": "From"}},
			{Kind: model.KindDate, Mode: mode, Widget: "date", Value: toString(m[DurationTo]), Disabled: c.Disabled,
				Attrs: map[string]string{"name": DurationTo, "type": "date", "placeholder": "To"}},
		}
		return c
	}
	c.Children = []Control{
		{Kind: model.KindNumber, Mode: mode, Widget: "number", Value: toString(m[DurationValue]), Disabled: c.Disabled,
			Attrs: map[string]string{"name": DurationValue, "type": "number", "min": "0", "placeholder": "Duration"}},
		{Kind: model.KindSelect, Mode: mode, Widget: "select", Value: toString(m[DurationType]), Disabled: c.Disabled,
			Attrs: map[string]string{"name": DurationType}, Options: DurationTypes},
	}
	return c
}
