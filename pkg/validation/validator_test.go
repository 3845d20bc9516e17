package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

func field(id string, kind model.Kind, mutate ...func(*model.Attribute)) model.Attribute {
	attr := model.Attribute{
		AttributeID: id,
		TagName:     id,
		Kind:        kind,
		Label:       model.Label{Name: id},
	}
	for _, fn := range mutate {
		fn(&attr)
	}
	return attr
}

func mandatory(attr *model.Attribute) { attr.IsMandatory = model.NewFlag(true) }

func TestValidateFormMandatoryScenario(t *testing.T) {
	t.Parallel()

	sections := []model.Section{{
		ID:          "person",
		SectionType: model.SectionTypeForm,
		Attributes: []model.Attribute{
			field("firstName", model.KindText, mandatory, func(a *model.Attribute) { a.Label = model.Label{Name: "First Name"} }),
			field("lastName", model.KindText),
		},
	}}

	result := ValidateForm(sections, model.Record{})
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	want := map[string][]string{"firstName": {"First Name is required"}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	ok := ValidateForm(sections, model.Record{"firstName": "Ada"})
	if !ok.Valid || ok.Errors != nil {
		t.Fatalf("expected valid result, got %+v", ok)
	}
}

func TestValidateFieldConstraints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		attr  model.Attribute
		value any
		want  []string
	}{
		{"empty list is missing", field("tags", model.KindTags, mandatory), []any{}, []string{"tags is required"}},
		{"nil is missing", field("n", model.KindNumber, mandatory), nil, []string{"n is required"}},
		{"zero is present", field("n", model.KindNumber, mandatory), 0.0, nil},
		{"below min", field("n", model.KindNumber, func(a *model.Attribute) { a.Min = model.NewNumber(1.5) }), 1.0, []string{"n must be at least 1.5"}},
		{"above max", field("n", model.KindNumber, func(a *model.Attribute) { a.Max = model.NewNumber(10) }), "11", []string{"n must be at most 10"}},
		{"currency pair", field("c", model.KindCurrency, func(a *model.Attribute) { a.Max = model.NewNumber(100) }),
			map[string]any{"amount": 150.0, "currencyCode": "USD"}, []string{"c must be at most 100"}},
		{"too long", field("t", model.KindText, func(a *model.Attribute) { a.MaxLength = model.NewNumber(3) }), "abcd", []string{"t must be at most 3 characters"}},
		{"too short", field("t", model.KindTextarea, func(a *model.Attribute) { a.MinLength = model.NewNumber(3) }), "ab", []string{"t must be at least 3 characters"}},
		{"length ignores numbers", field("n", model.KindNumber, func(a *model.Attribute) { a.MaxLength = model.NewNumber(1) }), "123", nil},
		{"bad email", field("e", model.KindEmail), "a@b", []string{"e must be a valid email address"}},
		{"good email", field("e", model.KindEmail), "a@b.io", nil},
		{"bare domain link", field("l", model.KindLink), "example.com/path", nil},
		{"bad link", field("l", model.KindLink), "exa mple.com", []string{"l must be a valid URL"}},
		{"currency display type", field("d", model.KindText, func(a *model.Attribute) {
			a.DisplayType = model.DisplayType{TypeName: "Currency"}
			a.Min = model.NewNumber(5)
		}), 2.0, []string{"d must be at least 5"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ValidateField(tc.attr, tc.value, nil)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFullCheckSupersedesMandatoryPass(t *testing.T) {
	t.Parallel()

	sections := []model.Section{{
		ID: "contact",
		Attributes: []model.Attribute{
			field("email", model.KindEmail, mandatory, func(a *model.Attribute) { a.MinLength = model.NewNumber(10) }),
		},
	}}
	result := ValidateForm(sections, model.Record{"email": "bad"})
	want := []string{"email must be a valid email address"}
	if diff := cmp.Diff(want, result.Errors["email"]); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateFormWalksTablesAndInnerSections(t *testing.T) {
	t.Parallel()

	sections := []model.Section{{
		ID: "outer",
		Sections: []model.Section{
			{ID: "inner", Attributes: []model.Attribute{field("code", model.KindText, mandatory)}},
			{
				ID:          "phones",
				SectionType: model.SectionTypeTable,
				LineType:    "phoneNumbers",
				Attributes:  []model.Attribute{field("phoneNumber", model.KindPhone, mandatory)},
			},
		},
	}}

	record := model.Record{
		"code":         "X1",
		"phoneNumbers": []any{map[string]any{"phoneNumber": "5551234567"}, map[string]any{}},
	}
	result := ValidateForm(sections, record)
	want := map[string][]string{"phoneNumber": {"phoneNumber is required"}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	delete(record, "phoneNumbers")
	if res := ValidateForm(sections, record); !res.Valid {
		t.Fatalf("a table without rows should not be validated, got %+v", res.Errors)
	}
}

func TestTableRuleAndTranslator(t *testing.T) {
	t.Parallel()

	rule := TableRuleFunc(func(section model.Section, rows []any, _ model.Record) map[string][]string {
		if len(rows) < 1 {
			return map[string][]string{section.Key(): {"add at least one line"}}
		}
		return nil
	})
	translator := TranslatorFunc(func(locale, key string, args ...any) (string, error) {
		if locale == "fr" && key == KeyRequired {
			return args[0].(string) + " est obligatoire", nil
		}
		return "", errors.New("missing")
	})
	v := New(WithTableRule(rule), WithTranslator(translator), WithLocale("fr"))

	sections := []model.Section{
		{ID: "lines", SectionType: model.SectionTypeTable, Attributes: []model.Attribute{field("sku", model.KindText)}},
		{ID: "main", Attributes: []model.Attribute{
			field("name", model.KindText, mandatory),
			field("site", model.KindLink),
		}},
	}
	result := v.ValidateForm(sections, model.Record{"site": "bad host.com"})
	want := map[string][]string{
		"lines": {"add at least one line"},
		"name":  {"name est obligatoire"},
		"site":  {"site must be a valid URL"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	var verr *Error
	if !errors.As(result.Err(), &verr) {
		t.Fatalf("expected *Error, got %T", result.Err())
	}
	if !strings.Contains(verr.Error(), "lines, name, site") {
		t.Fatalf("unexpected error text %q", verr.Error())
	}
	if (Result{Valid: true}).Err() != nil {
		t.Fatalf("valid result must not produce an error")
	}
}
