package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

const ticketPayload = `{
  "mode": "",
  "configCache": {"dependencyAttributes": [{"countryAttr": ["stateAttr", "zipAttr"]}, {"typeAttr": ["stateAttr"]}]},
  "objectIdx": {"addresses": [{"city": "Austin", "isAdded": true}]},
  "webLayout": {
    "objectId": 7,
    "sections": [
      {
        "id": "main",
        "label": "Main",
        "attributes": [
          {"attributeId": "subjectAttr", "tagName": "subject", "tag": "input", "isMandatory": true},
          {"attributeId": "dueAttr", "right": [{"tag": "date"}]},
          {"attributeId": "ownerNameAttr", "tagName": "ownerName", "associatedField": {"referenceAttributeId": "ownerAttr"}},
          {"attributeId": "stateAttr", "tagName": "state", "tag": "select", "dependency": {"dependsOn": ["regionAttr"]}}
        ],
        "sections": [
          {"id": "hiddenInner", "isVisible": "false", "attributes": [{"attributeId": "secretAttr", "tagName": "secret"}]},
          {"id": "emptyInner", "sections": [{"id": "disabledLeaf", "isEnabled": false, "attributes": [{"attributeId": "leafAttr", "tagName": "leaf"}]}]}
        ]
      },
      {
        "id": "custom",
        "type": "Custom",
        "attributes": [
          {"attributeId": "cf1", "right": [{"tag": "input", "tagName": "cf_color"}]},
          {"attributeId": "cf2", "tagName": "cf_size", "tag": "number"}
        ]
      },
      {
        "id": "lines",
        "sectionType": "table",
        "lineType": "lineItems",
        "type": "Custom",
        "columns": [{"id": "c1", "attributes": [{"attributeId": "skuAttr", "tagName": "sku", "tag": "text"}]}]
      },
      {"id": "related", "type": "RelatedObject", "attributes": [{"attributeId": "relAttr", "tagName": "rel", "type": "Custom"}]},
      {"id": "off", "isEnabled": "false", "attributes": [{"attributeId": "offAttr", "tagName": "off"}]}
    ]
  }
}`

func buildTicket(t *testing.T, options ...Option) (*Session, layout.Config) {
	t.Helper()
	cfg, err := layout.Parse([]byte(ticketPayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	options = append([]Option{WithIDGenerator(func() string { return "sess-1" })}, options...)
	sess, err := NewBuilder(options...).Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return sess, cfg
}

func sectionKeys(sections []model.Section) []string {
	var out []string
	for _, section := range sections {
		out = append(out, section.Key())
		out = append(out, sectionKeys(section.Sections)...)
	}
	return out
}

func TestBuildProducesReadySession(t *testing.T) {
	t.Parallel()

	sess, _ := buildTicket(t)

	if !sess.Ready() || sess.ID != "sess-1" {
		t.Fatalf("expected ready session sess-1, got state=%s id=%q", sess.State, sess.ID)
	}
	if sess.Mode != model.ModeCreate {
		t.Fatalf("expected default create mode, got %q", sess.Mode)
	}
	if sess.CurrencyFormat != layout.DefaultCurrencyFormat {
		t.Fatalf("expected default currency format, got %q", sess.CurrencyFormat)
	}
	if sess.ObjectID != "7" {
		t.Fatalf("expected object id from layout, got %q", sess.ObjectID)
	}

	if diff := cmp.Diff([]string{"main", "custom", "lines", "related"}, sectionKeys(sess.Layout.Sections)); diff != "" {
		t.Fatalf("filtered sections mismatch (-want +got):\n%s", diff)
	}
	if _, ok := sess.Section("off"); !ok {
		t.Fatalf("expected filtered sections to remain indexed")
	}
}

func TestBuildDependencyMaps(t *testing.T) {
	t.Parallel()

	sess, _ := buildTicket(t)

	wantDependsOn := map[string][]string{
		"stateAttr": {"countryAttr", "typeAttr", "regionAttr"},
		"zipAttr":   {"countryAttr"},
	}
	if diff := cmp.Diff(wantDependsOn, sess.DependsOn); diff != "" {
		t.Fatalf("dependsOn mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"stateAttr", "zipAttr"}, sess.DependentsOf("countryAttr")); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]string{"ownerAttr": {"ownerNameAttr"}}, sess.ReferenceFields); diff != "" {
		t.Fatalf("reference fields mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildUpgradesAndMaterializes(t *testing.T) {
	t.Parallel()

	sess, _ := buildTicket(t)

	due, ok := sess.Attribute("dueAttr")
	if !ok || due.TagName != "date_dueAttr" {
		t.Fatalf("expected generated date tag name, got %+v", due)
	}

	wantCustom := []any{
		map[string]any{
			model.CustomAttributeID:      "cf1",
			model.CustomAttributeType:    "input",
			model.CustomAttributeTagName: "cf_color",
			model.CustomAttributeName:    "cf_color",
			model.CustomAttributeValue:   "",
		},
		map[string]any{
			model.CustomAttributeID:      "cf2",
			model.CustomAttributeType:    "number",
			model.CustomAttributeTagName: "cf_size",
			model.CustomAttributeName:    "cf_size",
			model.CustomAttributeValue:   "",
		},
	}
	if diff := cmp.Diff(wantCustom, sess.Record[model.RecordCustomAttributes]); diff != "" {
		t.Fatalf("custom attributes mismatch (-want +got):\n%s", diff)
	}
	if promoted, _ := sess.Attribute("cf2"); promoted.Type != model.TypeCustom {
		t.Fatalf("expected untyped attribute in custom section to be promoted, got %q", promoted.Type)
	}
	if diff := cmp.Diff([]any{}, sess.Record["lineItems"]); diff != "" {
		t.Fatalf("expected table rows list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{map[string]any{"city": "Austin", "isAdded": false}}, sess.Record["addresses"]); diff != "" {
		t.Fatalf("expected address isAdded reset (-want +got):\n%s", diff)
	}
}

func TestBuildDoesNotMutateConfig(t *testing.T) {
	t.Parallel()

	cfg, err := layout.Parse([]byte(ticketPayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	before := cfg.Clone()

	if _, err := NewBuilder().Build(context.Background(), cfg); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff(before, cfg); diff != "" {
		t.Fatalf("config mutated by Build (-before +after):\n%s", diff)
	}
}

func TestStepsAreIdempotent(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(WithIDGenerator(func() string { return "fixed" }))
	sess, _ := buildTicket(t)

	again, err := Apply(*sess, builder.Steps()...)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff(*sess, again); diff != "" {
		t.Fatalf("second pipeline run changed the session (-first +second):\n%s", diff)
	}
}

func TestResolveMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		requested model.Mode
		page      model.Mode
		want      model.Mode
	}{
		{name: "default", want: model.ModeCreate},
		{name: "explicit", requested: model.ModeEdit, want: model.ModeEdit},
		{name: "view page inferred", page: model.ModeView, want: model.ModeView},
		{name: "explicit beats view page", requested: model.ModeEdit, page: model.ModeView, want: model.ModeEdit},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out, err := Apply(Session{RequestedMode: tc.requested, PageMode: tc.page}, ResolveMode(model.ModeCreate))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if out.Mode != tc.want {
				t.Fatalf("mode = %q, want %q", out.Mode, tc.want)
			}
		})
	}
}

func TestFilterSectionsElidesEmptyParents(t *testing.T) {
	t.Parallel()

	in := Session{Layout: model.Layout{Sections: []model.Section{
		{ID: "parent", Sections: []model.Section{{ID: "child", IsEnabled: model.NewFlag(false), Attributes: []model.Attribute{{AttributeID: "a"}}}}},
		{ID: "kept", Attributes: []model.Attribute{{AttributeID: "b"}}},
		{ID: "ruled-out", Attributes: []model.Attribute{{AttributeID: "c"}}},
	}}}
	rule := SectionRuleFunc(func(section model.Section, _ Session) bool { return section.ID != "ruled-out" })

	out, err := Apply(in, FilterSections(rule))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([]string{"kept"}, sectionKeys(out.Layout.Sections)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if len(in.Layout.Sections) != 3 {
		t.Fatalf("expected step input to stay untouched")
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewBuilder().Build(context.Background(), layout.Config{}); err == nil {
		t.Fatalf("expected missing layout error")
	} else {
		var missing *layout.MissingLayoutError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingLayoutError, got %T", err)
		}
	}

	if _, err := NewBuilder().BuildRaw(context.Background(), map[string]any{"webLayout": "{"}); !layout.IsConfigError(err) {
		t.Fatalf("expected config parse error, got %v", err)
	}

	boom := errors.New("settings unavailable")
	hook := PhoneEmailNormalizerFunc(func(Session) (model.Record, error) { return nil, boom })
	cfg, _ := layout.Parse([]byte(ticketPayload))
	if _, err := NewBuilder(WithPhoneEmailNormalizer(hook)).Build(context.Background(), cfg); !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBuilder().Build(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestHooksFeedSession(t *testing.T) {
	t.Parallel()

	normalizer := PhoneEmailNormalizerFunc(func(s Session) (model.Record, error) {
		s.Record["phoneNormalized"] = true
		return s.Record, nil
	})
	resolver := RefAppResolverFunc(func(Session) (map[string][]string, error) {
		return map[string][]string{"ownerAttr": {"contactName"}}, nil
	})

	sess, _ := buildTicket(t, WithPhoneEmailNormalizer(normalizer), WithRefAppResolver(resolver))
	if sess.Record["phoneNormalized"] != true {
		t.Fatalf("expected normalizer record to be stored")
	}
	if diff := cmp.Diff(map[string][]string{"ownerAttr": {"contactName"}}, sess.RefAppAttributes); diff != "" {
		t.Fatalf("ref app attributes mismatch (-want +got):\n%s", diff)
	}
}
