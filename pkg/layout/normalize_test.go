package layout

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

const contactLayout = `{
  "objectId": 2,
  "sections": [
    {
      "id": "basic",
      "label": "Basic",
      "attributes": [
        {"attributeId": "firstNameAttr", "tagName": "firstName", "tag": "input", "isMandatory": "true"},
        {"attributeId": "amountAttr", "right": [{"tag": "currency", "tagName": "amount"}]}
      ],
      "sections": [
        {"id": "inner", "attributes": [{"attributeId": "nickAttr", "tagName": "nick"}]}
      ]
    },
    {
      "id": "phones",
      "sectionType": "table",
      "lineType": "phoneNumbers",
      "columns": [
        {"id": "c1", "attributes": [{"attributeId": "phoneAttr", "tagName": "phoneNumber", "tag": "phone"}]}
      ]
    },
    {"id": "lines", "sectionType": "table", "attributes": [{"attributeId": "qtyAttr", "tagName": "qty", "tag": "number"}]}
  ]
}`

func TestNormalizeParsesStringLayout(t *testing.T) {
	t.Parallel()

	layout, err := Normalize(map[string]any{"webLayout": contactLayout})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if layout.ObjectID != "2" {
		t.Fatalf("expected object id 2, got %q", layout.ObjectID)
	}
	var ids []string
	for _, section := range layout.Sections {
		ids = append(ids, section.Key())
	}
	if diff := cmp.Diff([]string{"basic", "phones", "lines"}, ids); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}

	basic := layout.Sections[0]
	if got := basic.Attributes[1]; got.Kind != model.KindCurrency || got.TagName != "amount" {
		t.Fatalf("expected canonical currency attribute, got kind=%q tagName=%q", got.Kind, got.TagName)
	}
	if basic.Columns == nil || len(basic.Columns) != 0 {
		t.Fatalf("expected empty columns list, got %#v", basic.Columns)
	}
	if !basic.Attributes[0].IsMandatory.True() {
		t.Fatalf("expected string flag to decode")
	}

	phone := layout.Sections[1].Columns[0].Attributes[0]
	if !phone.IsTableAttribute || phone.LineType != "phoneNumbers" {
		t.Fatalf("expected column attribute bound to phoneNumbers, got %+v", phone)
	}

	lines := layout.Sections[2]
	if lines.LineType != "lines" {
		t.Fatalf("expected table line type to default to section id, got %q", lines.LineType)
	}
	if lines.Attributes[0].LineType != "lines" {
		t.Fatalf("expected table attribute line type, got %q", lines.Attributes[0].LineType)
	}
}

func TestNormalizeErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     any
		parse   bool
		missing bool
	}{
		{name: "nil payload", raw: nil, missing: true},
		{name: "no layout", raw: map[string]any{"objectId": 1}, missing: true},
		{name: "broken string layout", raw: map[string]any{"webLayout": "{sections: ["}, parse: true},
		{name: "empty string layout", raw: map[string]any{"webLayout": "  "}, missing: true},
		{name: "broken bytes", raw: []byte("{"), parse: true},
		{name: "wrong section shape", raw: map[string]any{"webLayout": map[string]any{"sections": "nope"}}, parse: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			layout, err := Normalize(tc.raw)
			if err == nil {
				t.Fatalf("expected error")
			}
			if len(layout.Sections) != 0 {
				t.Fatalf("expected empty layout on error")
			}
			var parseErr *ConfigParseError
			var missingErr *MissingLayoutError
			if tc.parse && !errors.As(err, &parseErr) {
				t.Fatalf("expected ConfigParseError, got %T: %v", err, err)
			}
			if tc.missing && !errors.As(err, &missingErr) {
				t.Fatalf("expected MissingLayoutError, got %T: %v", err, err)
			}
			if !IsConfigError(err) {
				t.Fatalf("expected config error taxonomy for %v", err)
			}
		})
	}
}

func TestParseCarriesSessionInputs(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(map[string]any{
		"webLayout": map[string]any{"sections": []any{}},
		"objectIdx": map[string]any{"firstName": "Ada"},
		"mode":      "EDIT",
		"pageMode":  "VIEW",
		"configCache": map[string]any{
			"currencySymbolType":   "CURRENCY_FORMAT_CODE",
			"dependencyAttributes": []any{map[string]any{"country": []any{"state"}}},
		},
		"statuses": []any{map[string]any{"statusId": 5, "statusName": "Open"}},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Mode != model.ModeEdit || cfg.PageMode != model.ModeView {
		t.Fatalf("unexpected modes %q/%q", cfg.Mode, cfg.PageMode)
	}
	if cfg.Record["firstName"] != "Ada" {
		t.Fatalf("expected record to carry objectIdx")
	}
	if cfg.CurrencySymbolType != "CURRENCY_FORMAT_CODE" {
		t.Fatalf("expected currency format from config cache")
	}
	if diff := cmp.Diff([]map[string][]string{{"country": {"state"}}}, cfg.DependencyAttributes); diff != "" {
		t.Fatalf("dependency attributes mismatch (-want +got):\n%s", diff)
	}

	opts := Options(model.Attribute{AttributeID: "ticketStatus"}, cfg.Lists)
	if len(opts) != 1 || opts[0].Text() != "Open" {
		t.Fatalf("expected status options from config, got %+v", opts)
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	layout, err := Normalize([]byte(`{"webLayout":` + contactLayout + `}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	again := Canonicalize(layout)
	if diff := cmp.Diff(layout, again); diff != "" {
		t.Fatalf("canonicalize changed a canonical layout (-first +second):\n%s", diff)
	}
}

func TestBuildIndexCoversInnerAndColumns(t *testing.T) {
	t.Parallel()

	layout, err := Normalize(map[string]any{"webLayout": contactLayout})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	idx := BuildIndex(layout.Sections)

	for _, id := range []string{"basic", "inner", "phones", "lines"} {
		if _, ok := idx.Section(id); !ok {
			t.Fatalf("expected section %q in index", id)
		}
	}
	want := map[string][]string{
		"firstNameAttr": {"basic"},
		"amountAttr":    {"basic"},
		"nickAttr":      {"inner"},
		"phoneAttr":     {"phones"},
		"qtyAttr":       {"lines"},
	}
	if diff := cmp.Diff(want, idx.AttributeSections); diff != "" {
		t.Fatalf("attribute sections mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsResolutionOrder(t *testing.T) {
	t.Parallel()

	lists := Lists{Priorities: []map[string]any{{"id": 1, "name": "High"}}}

	own := Options(model.Attribute{AttributeID: "priority", Options: []model.Option{{ID: "x", Name: "Own"}}}, lists)
	if own[0].Name != "Own" {
		t.Fatalf("expected attribute options first, got %+v", own)
	}
	fromList := Options(model.Attribute{AttributeID: "casePriority"}, lists)
	if fromList[0].Name != "High" {
		t.Fatalf("expected priority list, got %+v", fromList)
	}
	fromRight := Options(model.Attribute{AttributeID: "color", Right: []model.Right{{Options: []model.Option{{Value: "red"}}}}}, lists)
	if len(fromRight) != 1 || fromRight[0].Identifier() != "red" {
		t.Fatalf("expected right options, got %+v", fromRight)
	}
	if got := Options(model.Attribute{AttributeID: "color"}, lists); got != nil {
		t.Fatalf("expected no options, got %+v", got)
	}
}

func TestLoadFSReadsJSONAndYAML(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"layouts/contact.json": {Data: []byte(`{"webLayout":` + contactLayout + `}`)},
		"layouts/ticket.yaml": {Data: []byte(`
objectType: tickets
webLayout:
  sections:
    - id: main
      attributes:
        - attributeId: subjectAttr
          tagName: subject
          tag: input
          maxLength: 80
`)},
		"layouts/README.md": {Data: []byte("ignored")},
	}

	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"contact", "tickets"}, store.ObjectTypes()); diff != "" {
		t.Fatalf("object types mismatch (-want +got):\n%s", diff)
	}

	raw, err := store.FetchConfig(context.Background(), "tickets")
	if err != nil {
		t.Fatalf("FetchConfig: %v", err)
	}
	layout, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	attr := layout.Sections[0].Attributes[0]
	if attr.MaxLength.Int() != 80 || attr.Kind != model.KindText {
		t.Fatalf("unexpected YAML attribute %+v", attr)
	}

	if _, err := store.FetchConfig(context.Background(), "missing"); !IsConfigError(err) {
		t.Fatalf("expected missing layout error, got %v", err)
	}
}
