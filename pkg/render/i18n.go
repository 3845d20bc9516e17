package render

import (
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/validation"
)

// Translator resolves message keys for a locale.
type Translator = validation.Translator

// MissingTranslationHandler decides the text used when a key cannot be
// translated.
type MissingTranslationHandler = validation.MissingTranslationHandler

// ErrMissingTranslator is reported to the missing handler when no translator
// is configured.
var ErrMissingTranslator = validation.ErrMissingTranslator

// LocalizeTree returns a copy of tree with section titles and labels carrying
// a labelKey or titleKey translated for locale. Failures fall back through
// onMissing, then the original text.
func LocalizeTree(tree Tree, locale string, t Translator, onMissing MissingTranslationHandler) Tree {
	out := tree
	out.Sections = localizeSections(tree.Sections, locale, t, onMissing)
	return out
}

func localizeSections(sections []SectionNode, locale string, t Translator, onMissing MissingTranslationHandler) []SectionNode {
	if sections == nil {
		return nil
	}
	out := make([]SectionNode, len(sections))
	for i, section := range sections {
		if section.TitleKey != "" {
			section.Title = translate(locale, section.TitleKey, section.Title, t, onMissing)
		}
		section.Nodes = localizeNodes(section.Nodes, locale, t, onMissing)
		if section.Table != nil {
			table := *section.Table
			table.Header = append([]HeaderCell(nil), table.Header...)
			for h := range table.Header {
				if table.Header[h].LabelKey != "" {
					table.Header[h].Label = translate(locale, table.Header[h].LabelKey, table.Header[h].Label, t, onMissing)
				}
			}
			rows := make([]RowNode, len(table.Rows))
			for r, row := range table.Rows {
				row.Cells = localizeNodes(row.Cells, locale, t, onMissing)
				rows[r] = row
			}
			table.Rows = rows
			section.Table = &table
		}
		section.Sections = localizeSections(section.Sections, locale, t, onMissing)
		out[i] = section
	}
	return out
}

func localizeNodes(nodes []Node, locale string, t Translator, onMissing MissingTranslationHandler) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, node := range nodes {
		if node.LabelKey != "" {
			node.Label = translate(locale, node.LabelKey, node.Label, t, onMissing)
		}
		out[i] = node
	}
	return out
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, fallback, ErrMissingTranslator)
		}
		return fallbackText(key, fallback)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, fallback, err)
	}
	return fallbackText(key, fallback)
}

func fallbackText(key, fallback string) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
