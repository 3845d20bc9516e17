package html

import (
	"net/url"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/render"
)

// DecodeForm maps a posted form back onto change events, using the names
// the templates emit for tree. Read-only and disabled controls are skipped.
// Scalars missing from values produce no event; unchecked checkboxes and
// empty multi-selects produce false and an empty list.
func DecodeForm(tree render.Tree, values url.Values) []render.ChangeEvent {
	var events []render.ChangeEvent
	var walk func(sections []render.SectionNode)
	walk = func(sections []render.SectionNode) {
		for _, section := range sections {
			for _, node := range section.Nodes {
				if ev, ok := decodeNode(node, "", values); ok {
					events = append(events, ev)
				}
			}
			if section.Table != nil {
				for _, row := range section.Table.Rows {
					for _, cell := range row.Cells {
						if ev, ok := decodeNode(cell, section.Table.LineType, values); ok {
							events = append(events, ev)
						}
					}
				}
			}
			walk(section.Sections)
		}
	}
	walk(tree.Sections)
	return events
}

func decodeNode(node render.Node, lineType string, values url.Values) (render.ChangeEvent, bool) {
	c := node.Control
	if c.ReadOnly || c.Disabled {
		return render.ChangeEvent{}, false
	}
	name, _ := fieldName(node, lineType)
	value, ok := decodeControl(c, name, values)
	if !ok {
		return render.ChangeEvent{}, false
	}
	return render.ChangeEvent{AttributeID: node.AttributeID, Value: value, Row: node.Row}, true
}

func decodeControl(c fields.Control, name string, values url.Values) (any, bool) {
	if len(c.Children) > 0 {
		out := map[string]any{}
		for _, child := range c.Children {
			childName := child.Attr("name")
			if childName == "" {
				continue
			}
			if value, ok := decodeControl(child, name+"."+childName, values); ok {
				out[childName] = value
			}
		}
		return out, len(out) > 0
	}

	switch {
	case c.Kind == model.KindCheckbox && len(c.Options) > 0 && c.Widget != "tri-state",
		attribute.IsListKind(c.Kind):
		picked := values[name]
		out := make([]any, 0, len(picked))
		for _, v := range picked {
			if v != "" {
				out = append(out, v)
			}
		}
		return out, true
	case (c.Kind == model.KindCheckbox || c.Kind == model.KindToggle) && c.Widget != "tri-state":
		_, checked := values[name]
		return checked, true
	default:
		return scalarValue(values, name)
	}
}

func scalarValue(values url.Values, name string) (any, bool) {
	if _, ok := values[name]; !ok {
		return nil, false
	}
	return values.Get(name), true
}
