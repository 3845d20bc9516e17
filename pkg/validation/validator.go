package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of a form validation.
type Result struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Fields lists the invalid attribute ids, sorted.
func (r Result) Fields() []string {
	ids := make([]string, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// First returns the first message for id.
func (r Result) First(id string) string {
	if messages := r.Errors[id]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Errors: r.Errors}
}

// Error carries per-attribute messages. It blocks submission; it never
// aborts rendering.
type Error struct {
	Errors map[string][]string
}

func (e *Error) Error() string {
	ids := Result{Errors: e.Errors}.Fields()
	return fmt.Sprintf("validation: %d invalid field(s): %s", len(ids), strings.Join(ids, ", "))
}

// TableRule validates a table section as a whole. Returned messages are
// merged into the result by attribute (or section) id.
type TableRule interface {
	ValidateTable(section model.Section, rows []any, record model.Record) map[string][]string
}

// TableRuleFunc adapts a function to TableRule.
type TableRuleFunc func(section model.Section, rows []any, record model.Record) map[string][]string

// ValidateTable implements TableRule.
func (fn TableRuleFunc) ValidateTable(section model.Section, rows []any, record model.Record) map[string][]string {
	return fn(section, rows, record)
}

// Option configures a Validator.
type Option func(*Validator)

// WithTranslator localizes messages.
func WithTranslator(t Translator) Option {
	return func(v *Validator) { v.translator = t }
}

// WithLocale sets the locale passed to the translator.
func WithLocale(locale string) Option {
	return func(v *Validator) { v.locale = strings.TrimSpace(locale) }
}

// WithMissingTranslationHandler overrides the fallback used for
// untranslated keys.
func WithMissingTranslationHandler(h MissingTranslationHandler) Option {
	return func(v *Validator) {
		if h != nil {
			v.onMissing = h
		}
	}
}

// WithTableRule adds a table-level rule. Without one, tables are only
// validated cell by cell.
func WithTableRule(rule TableRule) Option {
	return func(v *Validator) {
		if rule != nil {
			v.tableRules = append(v.tableRules, rule)
		}
	}
}

// Validator checks attribute values.
type Validator struct {
	translator Translator
	locale     string
	onMissing  MissingTranslationHandler
	tableRules []TableRule
}

// New returns a validator.
func New(options ...Option) *Validator {
	v := &Validator{onMissing: fallbackMessage}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

var defaultValidator = New()

// ValidateField validates value with the default English messages.
func ValidateField(attr model.Attribute, value any, record model.Record) []string {
	return defaultValidator.ValidateField(attr, value, record)
}

// ValidateForm validates sections with the default English messages.
func ValidateForm(sections []model.Section, record model.Record) Result {
	return defaultValidator.ValidateForm(sections, record)
}

// ValidateField returns every violated constraint of attr for value.
func (v *Validator) ValidateField(attr model.Attribute, value any, _ model.Record) []string {
	var errs []string
	label := attribute.Label(attr)
	kind := fields.KindOf(attr)

	if attribute.IsMandatory(attr) && attribute.IsEmpty(value) {
		errs = append(errs, v.message(KeyRequired, label))
	}

	if kind == model.KindNumber || kind == model.KindCurrency {
		if n, ok := numericValue(attr, kind, value); ok {
			if attr.Min.Valid && n < attr.Min.Value {
				errs = append(errs, v.message(KeyMin, label, bound(attr.Min.Value)))
			}
			if attr.Max.Valid && n > attr.Max.Value {
				errs = append(errs, v.message(KeyMax, label, bound(attr.Max.Value)))
			}
		}
	}

	if text, ok := value.(string); ok && attribute.IsStringKind(kind) {
		length := utf8.RuneCountInString(text)
		if attr.MaxLength.Valid && attr.MaxLength.Int() > 0 && length > attr.MaxLength.Int() {
			errs = append(errs, v.message(KeyMaxLength, label, attr.MaxLength.Int()))
		}
		if attr.MinLength.Valid && attr.MinLength.Int() > 0 && length < attr.MinLength.Int() {
			errs = append(errs, v.message(KeyMinLength, label, attr.MinLength.Int()))
		}
	}

	if kind == model.KindEmail {
		if text := stringValue(value); text != "" && !emailPattern.MatchString(text) {
			errs = append(errs, v.message(KeyEmail, label))
		}
	}

	if kind == model.KindLink {
		if text := stringValue(value); text != "" && !validURL(text) {
			errs = append(errs, v.message(KeyURL, label))
		}
	}

	return errs
}

// ValidateForm validates every attribute reachable from sections, including
// inner sections and each row of table sections. A mandatory-only pass runs
// first; the full check replaces its entry for any attribute it flags.
func (v *Validator) ValidateForm(sections []model.Section, record model.Record) Result {
	errs := make(map[string][]string)

	v.walk(sections, record, func(attr model.Attribute, value any) {
		if !attribute.IsMandatory(attr) {
			return
		}
		if messages := v.ValidateField(attr, value, record); len(messages) > 0 {
			errs[attribute.ID(attr)] = messages
		}
	})

	full := make(map[string][]string)
	v.walk(sections, record, func(attr model.Attribute, value any) {
		if messages := v.ValidateField(attr, value, record); len(messages) > 0 {
			id := attribute.ID(attr)
			full[id] = append(full[id], messages...)
		}
	})
	for id, messages := range full {
		errs[id] = normalizeMessages(messages)
	}

	v.applyTableRules(sections, record, errs)

	result := Result{Valid: len(errs) == 0}
	if len(errs) > 0 {
		result.Errors = errs
	}
	return result
}

func (v *Validator) walk(sections []model.Section, record model.Record, fn func(attr model.Attribute, value any)) {
	for _, section := range sections {
		if section.IsTable() {
			lineType := section.RowKey()
			rows, _ := record.Rows(lineType)
			for i := range rows {
				for _, attr := range section.TableAttributes() {
					if attr.LineType == "" {
						attr.LineType = lineType
					}
					attr.IsTableAttribute = true
					fn(attr, attribute.GetValue(attr, record, i))
				}
			}
		} else {
			for _, attr := range section.Attributes {
				fn(attr, attribute.GetValue(attr, record, attribute.NoRow))
			}
		}
		v.walk(section.Sections, record, fn)
	}
}

func (v *Validator) applyTableRules(sections []model.Section, record model.Record, errs map[string][]string) {
	if len(v.tableRules) == 0 {
		return
	}
	for _, section := range sections {
		if section.IsTable() {
			rows, _ := record.Rows(section.RowKey())
			for _, rule := range v.tableRules {
				for id, messages := range rule.ValidateTable(section, rows, record) {
					if merged := normalizeMessages(append(errs[id], messages...)); len(merged) > 0 {
						errs[id] = merged
					}
				}
			}
		}
		v.applyTableRules(section.Sections, record, errs)
	}
}

func numericValue(attr model.Attribute, kind model.Kind, value any) (float64, bool) {
	if kind == model.KindCurrency {
		if pair := fields.ReadCurrency(attr, value); pair.Amount != nil {
			return *pair.Amount, true
		}
		return 0, false
	}
	return fields.ParseDecimal(value)
}

func bound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func validURL(raw string) bool {
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
