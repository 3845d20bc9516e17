package html

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/testsupport"
	"github.com/goliatone/go-uirenderer/pkg/validation"
)

func renderOrder(t *testing.T, mode string, options ...Option) string {
	t.Helper()

	sess := testsupport.Session(t, "order", mode)
	tree, err := render.New().Render(sess, render.RenderOptions{
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok<en>")},
		Errors: map[string][]string{"subjectAttr": {"Subject is too vague"}},
	})
	if err != nil {
		t.Fatalf("render tree: %v", err)
	}
	renderer, err := New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), tree)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, html)
		}
	}
}

func TestRendererCreateForm(t *testing.T) {
	t.Parallel()

	html := renderOrder(t, "create", WithAction("/orders"))

	assertContains(t, html,
		`<form class="ui-form" method="post" action="/orders" data-session="sess-order" data-mode="create"`,
		`<input type="hidden" name="_csrf" value="tok&lt;en&gt;">`,
		`<input type="hidden" name="_session" value="sess-order">`,
		`id="ui-subjectAttr" name="subject" value="Broken printer"`,
		`<option value="closed" selected>Closed</option>`,
		`<select id="ui-tagsAttr" name="tags" multiple`,
		`<option value="urgent" selected>Urgent</option>`,
		`<input type="email" id="ui-contactAttr" name="contact"`,
		`name="items[1][qty]" value="5"`,
		`name="items[0][sku]" value="A-1"`,
		`<small class="ui-help"><b>Short</b> summary</small>`,
		`<p class="ui-error">Subject is too vague</p>`,
		`<button type="submit">Save</button>`,
	)
	assertNotContains(t, html, "<script>", `id="ui-reasonAttr"`)
}

func TestRendererSectionsCollapse(t *testing.T) {
	t.Parallel()

	html := renderOrder(t, "create")
	assertContains(t, html,
		`<details class="ui-section" id="section-main" data-depth="0" data-kind="form" open>`,
		`<details class="ui-section" id="section-shipping" data-depth="0" data-kind="form">`,
		`<table class="ui-table" data-line-type="items">`,
		`<th>SKU<span class="ui-required">*</span></th>`,
	)
}

func TestRendererViewModeIsReadOnly(t *testing.T) {
	t.Parallel()

	html := renderOrder(t, "view", WithSubmitLabel("Update"))
	assertContains(t, html,
		`<span class="ui-display" id="ui-subjectAttr">Broken printer</span>`,
		`data-mode="view"`,
	)
	assertNotContains(t, html, `<button type="submit">`, `<select`, `<textarea`, `type="text"`)
}

func TestRendererTheme(t *testing.T) {
	t.Parallel()

	selection := &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456", "text": "#111111"},
			Assets: theme.Assets{
				Prefix: "/assets/themes/acme",
				Files:  map[string]string{ThemeStylesheetKey: "theme.css"},
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}
	cfg, err := ThemeConfig(selection, nil)
	if err != nil {
		t.Fatalf("ThemeConfig: %v", err)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("expected variant token, got %q", cfg.CSSVars["--brand"])
	}

	html := renderOrder(t, "create", WithTheme(cfg))
	assertContains(t, html,
		`data-theme="acme" data-theme-variant="dark"`,
		"--brand: #654321;",
		`<link rel="stylesheet" href="/assets/themes/acme/theme.css">`,
	)

	if _, err := ThemeConfig(&theme.Selection{Theme: "x"}, nil); err == nil {
		t.Fatalf("expected error for selection without manifest")
	}
}

func TestRendererTemplateFuncs(t *testing.T) {
	t.Parallel()

	html := renderOrder(t, "create", WithInlineStylesheet(true))
	assertContains(t, html, "<style>.ui-form {")

	renderer, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if renderer.Name() != "html" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected identity %s %s", renderer.Name(), renderer.ContentType())
	}

	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	if _, err := registry.Get("html"); err != nil {
		t.Fatalf("registry lookup: %v", err)
	}
}

func TestRendererTranslator(t *testing.T) {
	t.Parallel()

	templates := fstest.MapFS{
		"form.html": {Data: []byte(`<h1>{{ translate(locale, "order.title") }}</h1><p>{{ current_locale(locale) }}</p>`)},
	}
	translator := validation.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if locale == "fr" && key == "order.title" {
			return "Commande", nil
		}
		return "", errors.New("missing")
	})

	html := renderOrder(t, "create", WithTemplatesFS(templates), WithLocale("fr"), WithTranslator(translator))
	assertContains(t, html, "<h1>Commande</h1>", "<p>fr</p>")

	html = renderOrder(t, "create", WithTemplatesFS(templates), WithLocale("de"), WithTranslator(translator))
	assertContains(t, html, "<h1>order.title</h1>")
}
