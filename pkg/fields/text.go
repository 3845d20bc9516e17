package fields

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Data type restriction rules.
const (
	DataTypeNumber       = "NUMBER"
	DataTypeAlphabet     = "ALPHABET"
	DataTypeAlphanumeric = "ALPHANUMERIC"
)

// Case conversion rules.
const (
	CaseUpper = "UPPERCASE"
	CaseLower = "lowercase"
	CaseTitle = "Title Case"
)

var (
	rejectNumber       = regexp.MustCompile(`[^0-9.-]`)
	rejectAlphabet     = regexp.MustCompile(`[^a-zA-Z\s]`)
	rejectAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	titleWord          = regexp.MustCompile(`\w\S*`)
)

var titleCasers = sync.Pool{
	New: func() any { return cases.Title(language.English) },
}

func restriction(rule string) *regexp.Regexp {
	switch rule {
	case DataTypeNumber, "Number":
		return rejectNumber
	case DataTypeAlphabet, "Alphabet":
		return rejectAlphabet
	case DataTypeAlphanumeric, "Alphanumeric":
		return rejectAlphanumeric
	default:
		return nil
	}
}

// ApplyDataType strips the characters rule does not allow. Unknown rules
// leave the text unchanged.
func ApplyDataType(text, rule string) string {
	if text == "" {
		return text
	}
	if re := restriction(rule); re != nil {
		return re.ReplaceAllString(text, "")
	}
	return text
}

// ApplyCase converts text per the case rule.
func ApplyCase(text, rule string) string {
	if text == "" {
		return text
	}
	switch rule {
	case CaseUpper:
		return strings.ToUpper(text)
	case CaseLower:
		return strings.ToLower(text)
	case CaseTitle, "TitleCase":
		caser := titleCasers.Get().(cases.Caser)
		defer titleCasers.Put(caser)
		return titleWord.ReplaceAllStringFunc(text, func(word string) string {
			caser.Reset()
			return caser.String(word)
		})
	default:
		return text
	}
}

// AllowKey reports whether a single keystroke may enter a text field carrying
// attr's data type rule. Named keys (Backspace, Tab) are always allowed.
func AllowKey(attr model.Attribute, key string) bool {
	rule, ok := attr.DataTypeRule.Active()
	if !ok || utf8.RuneCountInString(key) != 1 {
		return true
	}
	re := restriction(rule)
	if re == nil {
		return true
	}
	return !re.MatchString(key)
}

// CleanText applies restriction, then case conversion, then maxLength
// truncation.
func CleanText(attr model.Attribute, text string) string {
	if rule, ok := attr.DataTypeRule.Active(); ok {
		text = ApplyDataType(text, rule)
	}
	if rule, ok := attr.CaseConversion.Active(); ok {
		text = ApplyCase(text, rule)
	}
	if attr.MaxLength.Valid {
		if limit := attr.MaxLength.Int(); limit > 0 && utf8.RuneCountInString(text) > limit {
			text = string([]rune(text)[:limit])
		}
	}
	return text
}

type textBehavior struct{ kind model.Kind }

func (b textBehavior) Kind() model.Kind {
	if b.kind == "" {
		return model.KindText
	}
	return b.kind
}

func (b textBehavior) Parse(attr model.Attribute, input any) any {
	if input == nil {
		return ""
	}
	return CleanText(attr, toString(input))
}

func (b textBehavior) Normalize(_ model.Attribute, value any) any {
	if value == nil {
		return ""
	}
	return toString(value)
}

func (b textBehavior) Format(_ model.Attribute, value any, _ FormatOptions) string {
	return toString(value)
}

func (b textBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	text := toString(value)
	if mode == model.ModeView {
		return f.view(b.Kind(), value, onChange, text)
	}
	c := f.control(b.Kind(), text, mode, onChange)
	if mode == model.ModeSearch {
		c.Widget = "search-text"
		c.Attrs["type"] = "search"
		return c
	}
	c.Attrs["type"] = "text"
	if b.Kind() == model.KindTextarea {
		c.Attrs["rows"] = "3"
	}
	if f.Attribute.MaxLength.Valid && f.Attribute.MaxLength.Int() > 0 {
		c.Attrs["maxlength"] = strconv.Itoa(f.Attribute.MaxLength.Int())
	}
	if rule, ok := f.Attribute.DataTypeRule.Active(); ok {
		c.Attrs["data-type-rule"] = rule
	}
	if rule, ok := f.Attribute.CaseConversion.Active(); ok {
		c.Attrs["data-case"] = rule
	}
	return c
}

type emailBehavior struct{ textBehavior }

func (emailBehavior) Kind() model.Kind { return model.KindEmail }

func (emailBehavior) Parse(_ model.Attribute, input any) any {
	return strings.TrimSpace(toString(input))
}

func (b emailBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	text := toString(value)
	if mode == model.ModeView {
		c := f.view(b.Kind(), value, onChange, text)
		if text != "" {
			c.Attrs["href"] = "mailto:" + text
		}
		return c
	}
	c := f.control(b.Kind(), text, mode, onChange)
	c.Attrs["type"] = "email"
	return c
}

type linkBehavior struct{ textBehavior }

func (linkBehavior) Kind() model.Kind { return model.KindLink }

func (linkBehavior) Parse(_ model.Attribute, input any) any {
	return strings.TrimSpace(toString(input))
}

// LinkHref prefixes https:// when the value does not start with http.
func LinkHref(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "http") {
		return value
	}
	return "https://" + value
}

func (b linkBehavior) Render(f Field, value any, mode model.Mode, onChange ChangeFunc) Control {
	text := toString(value)
	if mode == model.ModeView {
		c := f.view(b.Kind(), value, onChange, text)
		if text != "" {
			c.Attrs["href"] = LinkHref(text)
			c.Attrs["target"] = "_blank"
			c.Attrs["rel"] = "noopener noreferrer"
		}
		return c
	}
	c := f.control(b.Kind(), text, mode, onChange)
	c.Attrs["type"] = "url"
	return c
}
