package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/session"
	"github.com/goliatone/go-uirenderer/pkg/visibility"
)

const orderPayload = `{
  "mode": "%s",
  "configCache": {"dependencyAttributes": [{"statusAttr": ["reasonAttr"]}]},
  "objectIdx": {
    "subject": "Broken printer",
    "status": "closed",
    "items": [{"qty": 2}, {"qty": 5}]
  },
  "webLayout": {
    "objectId": 42,
    "sections": [
      {
        "id": "main",
        "label": "Main",
        "isOpen": false,
        "attributes": [
          {"attributeId": "subjectAttr", "tagName": "subject", "tag": "text", "isMandatory": true, "label": "Subject"},
          {"attributeId": "statusAttr", "tagName": "status", "tag": "select", "label": "Status"},
          {"attributeId": "reasonAttr", "tagName": "reason", "tag": "text", "label": "Reason",
           "dependency": {"dependsOn": ["statusAttr"], "visibleWhen": "status == 'open'"}},
          {"attributeId": "lockedAttr", "tagName": "locked", "tag": "text", "disableField": true},
          {"attributeId": "ghostAttr", "tagName": "ghost", "tag": "text", "isVisible": false}
        ]
      },
      {
        "id": "notes",
        "attributes": [{"attributeId": "noteAttr", "tagName": "note", "tag": "textarea"}]
      },
      {
        "id": "lines",
        "label": "Lines",
        "sectionType": "table",
        "lineType": "items",
        "columns": [{"id": "c1", "attributes": [{"attributeId": "qtyAttr", "tagName": "qty", "tag": "number", "label": "Qty", "min": 1, "max": 10}]}]
      },
      {
        "id": "onlyHidden",
        "label": "Only hidden",
        "attributes": [{"attributeId": "hiddenAttr", "tagName": "hidden", "tag": "text", "isVisible": false}]
      }
    ]
  }
}`

func buildOrder(t *testing.T, mode string) *session.Session {
	t.Helper()
	payload := []byte(fmt.Sprintf(orderPayload, mode))
	sess, err := session.NewBuilder(session.WithIDGenerator(func() string { return "sess-order" })).
		BuildRaw(context.Background(), payload)
	if err != nil {
		t.Fatalf("BuildRaw: %v", err)
	}
	return sess
}

func sectionIDs(sections []SectionNode) []string {
	var out []string
	for _, section := range sections {
		out = append(out, section.ID)
		out = append(out, sectionIDs(section.Sections)...)
	}
	return out
}

func nodeIDs(nodes []Node) []string {
	var out []string
	for _, node := range nodes {
		out = append(out, node.AttributeID)
	}
	return out
}

func TestRenderRejectsSessionsThatAreNotReady(t *testing.T) {
	t.Parallel()

	r := New()
	if _, err := r.Render(nil, RenderOptions{}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("nil session: expected ErrNotInitialized, got %v", err)
	}

	cause := errors.New("layout missing")
	_, err := r.Render(session.Failed(cause), RenderOptions{})
	if !errors.Is(err, ErrNotInitialized) || !errors.Is(err, cause) {
		t.Fatalf("failed session: expected both sentinels, got %v", err)
	}

	if _, err := r.Render(&session.Session{}, RenderOptions{}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("zero session: expected ErrNotInitialized, got %v", err)
	}
}

func TestRenderWalksSectionsAndElidesEmptyOnes(t *testing.T) {
	t.Parallel()

	sess := buildOrder(t, "")
	tree, err := New().Render(sess, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if diff := cmp.Diff([]string{"main", "notes", "lines"}, sectionIDs(tree.Sections)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	main := tree.Sections[0]
	if diff := cmp.Diff([]string{"subjectAttr", "statusAttr", "lockedAttr"}, nodeIDs(main.Nodes)); diff != "" {
		t.Fatalf("main nodes mismatch (-want +got):\n%s", diff)
	}
	if tree.SessionID != "sess-order" || tree.ObjectID != "42" || tree.Mode != model.ModeCreate {
		t.Fatalf("unexpected tree header: %+v", tree)
	}

	subject := main.Nodes[0]
	if !subject.Required || subject.Label != "Subject" || subject.Row != attribute.NoRow {
		t.Fatalf("unexpected subject node: %+v", subject)
	}
	if subject.Control.Value != "Broken printer" {
		t.Fatalf("expected record value bound, got %#v", subject.Control.Value)
	}
	if !main.Nodes[2].Control.Disabled {
		t.Fatalf("expected disableField attribute rendered disabled")
	}
	if diff := cmp.Diff([]string{"reasonAttr"}, main.Nodes[1].Dependents); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}

	hidden, err := New().Render(sess, RenderOptions{HideDisabled: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if diff := cmp.Diff([]string{"subjectAttr", "statusAttr"}, nodeIDs(hidden.Sections[0].Nodes)); diff != "" {
		t.Fatalf("HideDisabled nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderTableEmitsHeaderAndRows(t *testing.T) {
	t.Parallel()

	sess := buildOrder(t, "")
	tree, err := New().Render(sess, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines, ok := tree.Section("lines")
	if !ok || lines.Table == nil {
		t.Fatalf("expected table section, got %+v", lines)
	}
	want := []HeaderCell{{AttributeID: "qtyAttr", Label: "Qty"}}
	if diff := cmp.Diff(want, lines.Table.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if len(lines.Table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines.Table.Rows))
	}
	second := lines.Table.Rows[1].Cells[0]
	if second.Row != 1 || second.Control.Value != "5" {
		t.Fatalf("unexpected row cell: row=%d value=%#v", second.Row, second.Control.Value)
	}
	if got := len(tree.Nodes("qtyAttr")); got != 2 {
		t.Fatalf("expected one node per row, got %d", got)
	}
}

func TestRenderVisibleWhen(t *testing.T) {
	t.Parallel()

	sess := buildOrder(t, "")
	sess.Record["status"] = "open"
	tree, err := New().Render(sess, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(tree.Nodes("reasonAttr")) != 1 {
		t.Fatalf("expected reason visible for open status")
	}

	failing := visibility.EvaluatorFunc(func(string, string, visibility.Context) (bool, error) {
		return false, errors.New("boom")
	})
	tree, err = New(WithEvaluator(failing)).Render(buildOrder(t, ""), RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(tree.Nodes("reasonAttr")) != 1 {
		t.Fatalf("expected evaluator errors to keep the attribute visible")
	}
}

func TestRenderViewModeIsReadOnly(t *testing.T) {
	t.Parallel()

	tree, err := New().Render(buildOrder(t, "view"), RenderOptions{
		OnChange: func(ChangeEvent) { t.Fatalf("view controls must not report changes") },
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, node := range tree.Nodes("subjectAttr") {
		if !node.Control.ReadOnly || node.Control.OnChange != nil {
			t.Fatalf("expected read-only control, got %+v", node.Control)
		}
	}
}

func TestRenderWiresChangeEvents(t *testing.T) {
	t.Parallel()

	var got []ChangeEvent
	tree, err := New().Render(buildOrder(t, ""), RenderOptions{
		OnChange: func(ev ChangeEvent) { got = append(got, ev) },
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines, _ := tree.Section("lines")
	lines.Table.Rows[1].Cells[0].Control.OnChange("9")

	want := []ChangeEvent{{AttributeID: "qtyAttr", Value: "9", Row: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCollapseState(t *testing.T) {
	t.Parallel()

	sess := buildOrder(t, "")
	state := NewCollapseState()
	tree, err := New().Render(sess, RenderOptions{Collapse: state})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	main, _ := tree.Section("main")
	notes, _ := tree.Section("notes")
	if main.Expanded || !main.Collapsible {
		t.Fatalf("expected main collapsed from isOpen=false, got %+v", main)
	}
	if notes.Collapsible || !notes.Expanded {
		t.Fatalf("expected unlabeled section always expanded, got %+v", notes)
	}

	before := sess.Record.Clone()
	if expanded := state.Toggle("main", main.Expanded); !expanded {
		t.Fatalf("expected toggle to expand main")
	}
	state.Set("notes", false)

	tree, _ = New().Render(sess, RenderOptions{Collapse: state})
	main, _ = tree.Section("main")
	notes, _ = tree.Section("notes")
	if !main.Expanded || !notes.Expanded {
		t.Fatalf("unexpected collapse state: main=%v notes=%v", main.Expanded, notes.Expanded)
	}
	if diff := cmp.Diff(before, sess.Record); diff != "" {
		t.Fatalf("collapse touched the record (-want +got):\n%s", diff)
	}
}

func TestRenderSubset(t *testing.T) {
	t.Parallel()

	tree, err := New().Render(buildOrder(t, ""), RenderOptions{
		Subset: Subset{Sections: []string{"lines"}, Attributes: []string{"subject"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if diff := cmp.Diff([]string{"main", "lines"}, sectionIDs(tree.Sections)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"subjectAttr"}, nodeIDs(tree.Sections[0].Nodes)); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}

	tree, _ = New().Render(buildOrder(t, ""), RenderOptions{Subset: Subset{MandatoryOnly: true}})
	if diff := cmp.Diff([]string{"main"}, sectionIDs(tree.Sections)); diff != "" {
		t.Fatalf("mandatory-only sections mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHiddenFieldsAndErrors(t *testing.T) {
	t.Parallel()

	tree, err := New().Render(buildOrder(t, ""), RenderOptions{
		Hidden:     []HiddenField{CSRFToken("_csrf", "tok"), Hidden("", "dropped")},
		Errors:     map[string][]string{"subjectAttr": {" Subject is required ", "Subject is required"}},
		FormErrors: []string{"save failed", " "},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	wantHidden := []HiddenField{
		{Name: "_csrf", Value: "tok"},
		{Name: HiddenMode, Value: "create"},
		{Name: HiddenObjectID, Value: "42"},
		{Name: HiddenSessionID, Value: "sess-order"},
	}
	if diff := cmp.Diff(wantHidden, tree.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Subject is required"}, tree.Nodes("subjectAttr")[0].Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"save failed"}, tree.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
