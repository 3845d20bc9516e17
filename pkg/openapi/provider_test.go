package openapi

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/session"
)

const ordersDocument = `
openapi: 3.0.3
info:
  title: Orders
  version: "1.0"
paths:
  /orders:
    post:
      operationId: createOrder
      summary: New order
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Order'
      responses:
        "201":
          description: created
    get:
      operationId: listOrders
      responses:
        "200":
          description: ok
components:
  schemas:
    Order:
      type: object
      required: [subject, contactEmail]
      properties:
        subject:
          type: string
          maxLength: 80
          x-uirenderer:
            order: 1
            placeholder: Short summary
        status:
          type: string
          enum: [open, on_hold]
          default: open
          x-uirenderer:
            order: 2
        reason:
          type: string
          maxLength: 1000
          x-uirenderer:
            order: 3
            visibleWhen: "status == 'on_hold'"
        contactEmail:
          type: string
          format: email
        quantity:
          type: integer
          minimum: 1
          maximum: 10
        express:
          type: boolean
        internalNote:
          type: string
          x-uirenderer:
            hidden: true
        shipTo:
          type: object
          title: Shipping
          properties:
            city:
              type: string
            dueDate:
              type: string
              format: date
        lines:
          type: array
          items:
            type: object
            required: [sku]
            properties:
              sku:
                type: string
              qty:
                type: number
                readOnly: true
`

func newProvider() *Provider {
	files := fstest.MapFS{"specs/orders.yaml": {Data: []byte(ordersDocument)}}
	return NewProvider(SourceFromFS("specs/orders.yaml"), WithFileSystem(files))
}

func TestProviderListsOperationsWithRequestBodies(t *testing.T) {
	t.Parallel()

	types, err := newProvider().ObjectTypes(context.Background())
	if err != nil {
		t.Fatalf("ObjectTypes: %v", err)
	}
	if diff := cmp.Diff([]string{"createOrder"}, types); diff != "" {
		t.Fatalf("object types mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderBuildsLayoutPayload(t *testing.T) {
	t.Parallel()

	payload, err := newProvider().FetchConfig(context.Background(), "createOrder")
	if err != nil {
		t.Fatalf("FetchConfig: %v", err)
	}

	sess, err := session.NewBuilder().BuildRaw(context.Background(), payload)
	if err != nil {
		t.Fatalf("BuildRaw: %v", err)
	}

	var got []string
	layout.Walk(sess.Layout.Sections, func(section model.Section, attr model.Attribute) {
		got = append(got, section.Key()+"/"+attribute.ID(attr)+":"+string(attribute.Classify(attr)))
	})
	want := []string{
		"main/subject:text",
		"main/status:select",
		"main/reason:textarea",
		"main/contactEmail:email",
		"main/express:checkbox",
		"main/quantity:number",
		"shipTo/shipTo.city:text",
		"shipTo/shipTo.dueDate:date",
		"lines/lines.sku:text",
		"lines/lines.qty:number",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}

	subject, _ := sess.Attribute("subject")
	if !attribute.IsMandatory(subject) || subject.MaxLength.Int() != 80 || subject.Placeholder != "Short summary" {
		t.Fatalf("unexpected subject attribute %+v", subject)
	}
	reason, _ := sess.Attribute("reason")
	if reason.Dependency == nil || reason.Dependency.VisibleWhen != "status == 'on_hold'" {
		t.Fatalf("expected visibleWhen rule on reason, got %+v", reason.Dependency)
	}
	status, _ := sess.Attribute("status")
	if diff := cmp.Diff([]string{"Open", "On Hold"}, optionNames(status.Options)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	qty, _ := sess.Attribute("lines.qty")
	if !attribute.IsDisabled(qty) || !qty.IsTableAttribute {
		t.Fatalf("expected read-only table attribute, got %+v", qty)
	}
	if _, ok := sess.Attribute("internalNote"); ok {
		t.Fatalf("hidden property should not become an attribute")
	}
	if section, _ := sess.Section("shipTo"); section.Label != "Shipping" {
		t.Fatalf("expected schema title as section label, got %q", section.Label)
	}
	if sess.Record["status"] != "open" {
		t.Fatalf("expected default seeded into record, got %v", sess.Record["status"])
	}
}

func optionNames(options []model.Option) []string {
	out := make([]string, len(options))
	for i, option := range options {
		out[i] = option.Text()
	}
	return out
}

func TestProviderErrors(t *testing.T) {
	t.Parallel()

	_, err := newProvider().FetchConfig(context.Background(), "listOrders")
	var missing *layout.MissingLayoutError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingLayoutError, got %v", err)
	}

	broken := NewProvider(SourceFromFS("nope.yaml"), WithFileSystem(fstest.MapFS{}))
	_, err = broken.FetchConfig(context.Background(), "createOrder")
	var parseErr *layout.ConfigParseError
	if !errors.As(err, &parseErr) || parseErr.Source != "nope.yaml" {
		t.Fatalf("expected ConfigParseError, got %v", err)
	}

	if _, err := SourceFromURL("::bad"); err == nil {
		t.Fatalf("expected invalid URL error")
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"shipTo_date":  "Ship To Date",
		"contactEmail": "Contact Email",
		"line2":        "Line 2",
		"on_hold":      "On Hold",
	}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Fatalf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
