package render

import (
	"errors"
	"testing"

	"github.com/goliatone/go-uirenderer/pkg/validation"
)

func TestLocalizeTreeUsesKeys(t *testing.T) {
	t.Parallel()

	catalog := map[string]string{"order.main": "Principal", "order.qty": "Cantidad"}
	translator := validation.TranslatorFunc(func(_ string, key string, _ ...any) (string, error) {
		if msg, ok := catalog[key]; ok {
			return msg, nil
		}
		return "", errors.New("missing")
	})

	tree := Tree{Sections: []SectionNode{{
		ID: "main", Title: "Main", TitleKey: "order.main",
		Nodes: []Node{{AttributeID: "a", Label: "Subject", LabelKey: "order.subject"}},
		Table: &TableNode{
			Header: []HeaderCell{{AttributeID: "qty", Label: "Qty", LabelKey: "order.qty"}},
			Rows:   []RowNode{{Cells: []Node{{AttributeID: "qty", Label: "Qty", LabelKey: "order.qty"}}}},
		},
	}}}

	got := LocalizeTree(tree, "es", translator, nil)
	section := got.Sections[0]
	if section.Title != "Principal" {
		t.Fatalf("expected translated title, got %q", section.Title)
	}
	if section.Nodes[0].Label != "Subject" {
		t.Fatalf("expected fallback label, got %q", section.Nodes[0].Label)
	}
	if section.Table.Header[0].Label != "Cantidad" || section.Table.Rows[0].Cells[0].Label != "Cantidad" {
		t.Fatalf("expected translated table labels, got %+v", section.Table)
	}
	if tree.Sections[0].Table.Header[0].Label != "Qty" {
		t.Fatalf("LocalizeTree modified its input")
	}

	var missed []string
	onMissing := func(locale, key, fallback string, err error) string {
		missed = append(missed, key)
		return "[" + key + "]"
	}
	got = LocalizeTree(tree, "es", nil, onMissing)
	if got.Sections[0].Nodes[0].Label != "[order.subject]" || len(missed) != 4 {
		t.Fatalf("expected missing handler for every key, got %v", missed)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	t.Parallel()

	translator := validation.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		return locale + ":" + key, nil
	})
	funcs := TemplateI18nFuncs(translator, TemplateI18nConfig{})
	translateFn := funcs["translate"].(func(any, string, ...any) string)
	if got := translateFn(map[string]any{"locale": "fr"}, "title"); got != "fr:title" {
		t.Fatalf("unexpected translation %q", got)
	}
	currentLocale := funcs["current_locale"].(func(any) string)
	if got := currentLocale(map[string]string{"locale": "de"}); got != "de" {
		t.Fatalf("unexpected locale %q", got)
	}

	missing := TemplateI18nFuncs(nil, TemplateI18nConfig{FuncName: "t"})
	if got := missing["t"].(func(any, string, ...any) string)("en", "key"); got != "key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}
