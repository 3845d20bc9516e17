package html

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/session"
	"github.com/goliatone/go-uirenderer/pkg/testsupport"
)

func TestDecodeFormMapsTemplateNames(t *testing.T) {
	t.Parallel()

	sess := testsupport.Session(t, "order", "edit")
	tree, err := render.New().Render(sess, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render tree: %v", err)
	}

	values := url.Values{
		"subject":             {"Paper jam"},
		"status":              {"open"},
		"amount.amount":       {"20"},
		"amount.currencyCode": {"USD"},
		"tags":                {"vip", ""},
		"items[0][qty]":       {"3"},
		"unknown":             {"ignored"},
	}
	got := DecodeForm(tree, values)
	want := []render.ChangeEvent{
		{AttributeID: "subjectAttr", Value: "Paper jam", Row: attribute.NoRow},
		{AttributeID: "statusAttr", Value: "open", Row: attribute.NoRow},
		{AttributeID: "amountAttr", Value: map[string]any{"amount": "20", "currencyCode": "USD"}, Row: attribute.NoRow},
		{AttributeID: "tagsAttr", Value: []any{"vip"}, Row: attribute.NoRow},
		{AttributeID: "qtyAttr", Value: "3", Row: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFormSkipsReadOnlyTrees(t *testing.T) {
	t.Parallel()

	sess := testsupport.Session(t, "order", "view")
	tree, err := render.New().Render(sess, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render tree: %v", err)
	}
	if got := DecodeForm(tree, url.Values{"subject": {"x"}}); len(got) != 0 {
		t.Fatalf("expected no events in view mode, got %+v", got)
	}
}

func TestTableRadioColumnsStayPerRow(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"mode":      "edit",
		"objectIdx": map[string]any{"lines": []any{map[string]any{"priority": "a"}, map[string]any{"priority": "b"}}},
		"webLayout": map[string]any{
			"objectName": "Task",
			"sections": []any{map[string]any{
				"id": "lines", "label": "Lines", "sectionType": "table", "lineType": "lines",
				"columns": []any{map[string]any{"id": "c1", "attributes": []any{map[string]any{
					"attributeId": "priAttr", "tagName": "priority", "tag": "radio", "label": "Priority",
					"options": []any{map[string]any{"id": "a", "name": "A"}, map[string]any{"id": "b", "name": "B"}},
				}}}},
			}},
		},
	}
	sess, err := session.NewBuilder().BuildRaw(testsupport.Context(), payload)
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	tree, err := render.New().Render(sess, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render tree: %v", err)
	}

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), tree)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	assertContains(t, string(out),
		`name="lines[0][priority]" value="a" checked`,
		`name="lines[1][priority]" value="b" checked`,
	)

	got := DecodeForm(tree, url.Values{
		"lines[0][priority]": {"a"},
		"lines[1][priority]": {"a"},
	})
	want := []render.ChangeEvent{
		{AttributeID: "priAttr", Value: "a", Row: 0},
		{AttributeID: "priAttr", Value: "a", Row: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	got = DecodeForm(tree, url.Values{"lines[1][priority]": {"a"}})
	want = []render.ChangeEvent{{AttributeID: "priAttr", Value: "a", Row: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("single-row events mismatch (-want +got):\n%s", diff)
	}
}
