package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/session"
)

const ticketPayload = `{
  "mode": "create",
  "objectIdx": {"lines": [{"qty": 1}]},
  "webLayout": {"sections": [
    {"id": "main", "label": "Ticket", "attributes": [
      {"attributeId": "subjectAttr", "tagName": "subject", "tag": "text", "label": "Subject", "isMandatory": true},
      {"attributeId": "statusAttr", "tagName": "status", "tag": "select", "label": "Status",
       "options": [{"id": "open", "name": "Open"}, {"id": "closed", "name": "Closed"}]},
      {"attributeId": "reasonAttr", "tagName": "reason", "tag": "text", "label": "Reason",
       "dependency": {"visibleWhen": "status == 'open'"}},
      {"attributeId": "urgentAttr", "tagName": "urgent", "tag": "toggle", "label": "Urgent"}
    ]},
    {"id": "lines", "sectionType": "table", "lineType": "lines", "columns": [
      {"id": "c1", "attributes": [{"attributeId": "qtyAttr", "tagName": "qty", "tag": "number", "label": "Qty", "min": 1, "max": 10}]}
    ]}
  ]}
}`

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	confirm   []bool
	textAreas []string

	messages []string
	infos    []string
}

var errNotScripted = errors.New("prompt not scripted")

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.inputs) == 0 {
		return "", errNotScripted
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.confirm) == 0 {
		return false, errNotScripted
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.selectIdx) == 0 {
		return -1, errNotScripted
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.multiIdx) == 0 {
		return nil, errNotScripted
	}
	val := s.multiIdx[0]
	s.multiIdx = s.multiIdx[1:]
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.textAreas) == 0 {
		return "", errNotScripted
	}
	val := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func newTicketController(t *testing.T, mode string) *render.Controller {
	t.Helper()
	payload := strings.Replace(ticketPayload, `"mode": "create"`, `"mode": "`+mode+`"`, 1)
	sess, err := session.NewBuilder().BuildRaw(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("BuildRaw: %v", err)
	}
	ctrl, err := render.NewController(sess)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func TestEditorWalksFormAndRevealsDependents(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"", "Printer", "jammed", "12"},
		selectIdx: []int{0},
		confirm:   []bool{true},
	}
	ctrl := newTicketController(t, "create")
	record, err := New(WithPromptDriver(driver)).Edit(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	wantMessages := []string{"Subject *", "Subject *", "Status", "Reason", "Urgent", "Qty [1]"}
	if diff := cmp.Diff(wantMessages, driver.messages); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Subject is required"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{
		"subject": "Printer",
		"status":  "open",
		"reason":  "jammed",
		"urgent":  true,
		"lines":   []any{map[string]any{"qty": float64(10)}},
	}
	if diff := cmp.Diff(want, map[string]any(record)); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if !ctrl.Dirty() {
		t.Fatalf("expected dirty session")
	}
}

func TestEditorStopsOnAbortAndReadOnly(t *testing.T) {
	t.Parallel()

	ctrl := newTicketController(t, "create")
	_, err := New(WithPromptDriver(&stubDriver{})).Edit(context.Background(), ctrl)
	if !errors.Is(err, errNotScripted) {
		t.Fatalf("expected driver error to surface, got %v", err)
	}

	view := newTicketController(t, "view")
	if _, err := New(WithPromptDriver(&stubDriver{})).Edit(context.Background(), view); !errors.Is(err, render.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestTextOutputAndSerialize(t *testing.T) {
	t.Parallel()

	ctrl := newTicketController(t, "create")
	if _, err := ctrl.Change(render.ChangeEvent{AttributeID: "subjectAttr", Value: "Printer", Row: -1}); err != nil {
		t.Fatalf("Change: %v", err)
	}
	tree, err := render.New().Render(ctrl.Session(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out, err := Text{}.Render(context.Background(), tree)
	if err != nil {
		t.Fatalf("Text.Render: %v", err)
	}
	for _, fragment := range []string{"v Ticket\n", "  Subject*: Printer\n", "  | Qty |\n", "  | 1 |\n"} {
		if !strings.Contains(string(out), fragment) {
			t.Fatalf("expected %q in\n%s", fragment, out)
		}
	}

	editor := New(WithPromptDriver(&stubDriver{}), WithOutputFormat(OutputFormatFormURLEncoded))
	payload, err := editor.Serialize(ctrl.Record())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got := string(payload); got != "lines%5B0%5D.qty=1&subject=Printer" {
		t.Fatalf("unexpected form payload %q", got)
	}
	if editor.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", editor.ContentType())
	}
}
