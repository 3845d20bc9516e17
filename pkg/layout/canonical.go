package layout

import (
	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Canonicalize returns a copy of l where every attribute carries a single
// resolved {Kind, CanonicalTag, TagName}, and attributes of table sections
// (direct or through columns) carry the section line type. Running it on an
// already canonical layout yields an equal layout.
func Canonicalize(l model.Layout) model.Layout {
	out := l.Clone()
	for i := range out.Sections {
		canonicalizeSection(&out.Sections[i])
	}
	return out
}

func canonicalizeSection(section *model.Section) {
	table := section.IsTable()
	lineType := ""
	if table {
		lineType = section.RowKey()
	}
	for i := range section.Attributes {
		CanonicalizeAttribute(&section.Attributes[i], lineType)
	}
	for c := range section.Columns {
		for i := range section.Columns[c].Attributes {
			CanonicalizeAttribute(&section.Columns[c].Attributes[i], lineType)
		}
	}
	for i := range section.Sections {
		canonicalizeSection(&section.Sections[i])
	}
}

// CanonicalizeAttribute stamps the canonical fields on attr. An empty
// lineType marks a non-table attribute.
func CanonicalizeAttribute(attr *model.Attribute, lineType string) {
	if attr == nil {
		return
	}
	attr.Kind = attribute.Classify(*attr)
	if tag := attribute.Tag(*attr); tag != "" {
		attr.CanonicalTag = tag
	} else if attr.CanonicalTag == "" {
		attr.CanonicalTag = string(attr.Kind)
	}
	if tagName := attribute.TagName(*attr); tagName != "" {
		attr.TagName = tagName
	}
	if lineType != "" {
		attr.LineType = lineType
		attr.IsTableAttribute = true
	}
}
