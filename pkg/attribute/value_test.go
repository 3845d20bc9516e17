package attribute

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

func tableAttribute(lineType, tagName string) model.Attribute {
	return model.Attribute{
		AttributeID:      tagName + "Attr",
		TagName:          tagName,
		Tag:              "text",
		LineType:         lineType,
		IsTableAttribute: true,
	}
}

func TestSetValueCreatesTableRow(t *testing.T) {
	t.Parallel()

	attr := tableAttribute("phoneNumbers", "phoneNumber")
	record := SetValue(attr, model.Record{}, "5551234567", 0)

	want := model.Record{
		"phoneNumbers": []any{map[string]any{"phoneNumber": "5551234567"}},
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValueGrowsRowsToIndex(t *testing.T) {
	t.Parallel()

	attr := tableAttribute("lines", "qty")
	record := model.Record{"lines": []any{map[string]any{"qty": 1}}}

	SetValue(attr, record, 7, 3)

	rows, ok := record.Rows("lines")
	if !ok {
		t.Fatalf("expected rows under lines")
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if got := GetValue(attr, record, 3); got != 7 {
		t.Fatalf("expected row 3 value 7, got %v", got)
	}
	if got := GetValue(attr, record, 0); got != 1 {
		t.Fatalf("expected row 0 untouched, got %v", got)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		attr  model.Attribute
		value any
		row   int
	}{
		{name: "plain", attr: model.Attribute{TagName: "firstName"}, value: "Ada", row: NoRow},
		{name: "right tag name", attr: model.Attribute{Right: []model.Right{{Tag: "number", TagName: "amount"}}}, value: 12.5, row: NoRow},
		{name: "table row", attr: tableAttribute("items", "sku"), value: "A-1", row: 2},
		{name: "row ignored for plain attribute", attr: model.Attribute{TagName: "notes"}, value: "x", row: 4},
		{name: "tags identifiers", attr: model.Attribute{TagName: "labels", Tag: "tags"}, value: []any{1, 2}, row: NoRow},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			record := SetValue(tc.attr, model.Record{}, tc.value, tc.row)
			if diff := cmp.Diff(tc.value, GetValue(tc.attr, record, tc.row)); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetValueMissingInputs(t *testing.T) {
	t.Parallel()

	if got := GetValue(model.Attribute{TagName: "x"}, nil, NoRow); got != nil {
		t.Fatalf("expected nil for nil record, got %v", got)
	}
	if got := GetValue(model.Attribute{}, model.Record{"x": 1}, NoRow); got != nil {
		t.Fatalf("expected nil without tag name, got %v", got)
	}
	if got := GetValue(tableAttribute("rows", "x"), model.Record{}, 0); got != nil {
		t.Fatalf("expected nil for missing row, got %v", got)
	}
	if SetValue(model.Attribute{TagName: "x"}, nil, 1, NoRow) != nil {
		t.Fatalf("expected nil record to stay nil")
	}
}

func TestSetValueNormalizesTagObjects(t *testing.T) {
	t.Parallel()

	attr := model.Attribute{TagName: "labels", Right: []model.Right{{Tag: "select_search"}}}
	record := SetValue(attr, model.Record{}, []any{
		map[string]any{"id": 1, "name": "A"},
		map[string]any{"value": "b"},
		map[string]any{"id": 1, "name": "A again"},
	}, NoRow)

	if diff := cmp.Diff([]any{1, "b"}, record["labels"]); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyResolutionOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		attr model.Attribute
		want model.Kind
	}{
		{name: "right tag wins", attr: model.Attribute{Tag: "text", Right: []model.Right{{Tag: "currency"}}}, want: model.KindCurrency},
		{name: "unknown right falls back to own tag", attr: model.Attribute{Tag: "fax", Right: []model.Right{{Tag: "mystery"}}}, want: model.KindPhone},
		{name: "attribute tag before tag", attr: model.Attribute{AttributeTag: "on_off", Tag: "text"}, want: model.KindToggle},
		{name: "formula type", attr: model.Attribute{FormulaType: "currency"}, want: model.KindFormula},
		{name: "alias", attr: model.Attribute{Tag: "finkey"}, want: model.KindReference},
		{name: "canonical kind", attr: model.Attribute{Kind: model.KindDuration, Tag: "text"}, want: model.KindDuration},
		{name: "empty", attr: model.Attribute{}, want: model.KindText},
		{name: "unknown", attr: model.Attribute{Tag: "hologram"}, want: model.KindText},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tc.attr); got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyIsTotalOverAliases(t *testing.T) {
	t.Parallel()

	for tag := range tagAliases {
		kind := Classify(model.Attribute{Tag: tag})
		if !kind.Valid() {
			t.Fatalf("tag %q classified to invalid kind %q", tag, kind)
		}
	}
}

func TestFlagsTolerateStringPayloads(t *testing.T) {
	t.Parallel()

	var attr model.Attribute
	payload := `{"attributeId":"a1","tagName":"x","isMandatory":"true","disableField":true,"isVisible":"false","label":{"name":"First","modifiedLabel":"Given name"},"legacyKey":"kept"}`
	if err := json.Unmarshal([]byte(payload), &attr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !IsMandatory(attr) {
		t.Fatalf("expected mandatory")
	}
	if !IsDisabled(attr) {
		t.Fatalf("expected disabled")
	}
	if IsVisible(attr) {
		t.Fatalf("expected hidden")
	}
	if !IsEnabled(attr) {
		t.Fatalf("expected enabled by default")
	}
	if got := Label(attr); got != "Given name" {
		t.Fatalf("Label() = %q", got)
	}
	if got := attr.Meta["legacyKey"]; got != "kept" {
		t.Fatalf("expected unknown keys in Meta, got %v", attr.Meta)
	}
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	for _, value := range []any{nil, "", []any{}, []string{}} {
		if !IsEmpty(value) {
			t.Fatalf("expected %#v to be empty", value)
		}
	}
	for _, value := range []any{0, false, " ", []any{1}} {
		if IsEmpty(value) {
			t.Fatalf("expected %#v to be present", value)
		}
	}
}
