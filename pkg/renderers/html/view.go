package html

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/render"
)

type formView struct {
	SessionID  string
	Mode       string
	Action     string
	Submit     string
	Hidden     []render.HiddenField
	FormErrors []string
	Sections   []sectionView
}

type sectionView struct {
	ID       string
	Title    string
	Kind     string
	Depth    int
	Expanded bool
	Fields   []fieldView
	Table    *tableView
}

type tableView struct {
	LineType string
	Header   []render.HeaderCell
	Rows     []rowView
}

type rowView struct {
	Index int
	Cells []fieldView
}

type fieldView struct {
	ControlID string
	Label     string
	Required  bool
	Kind      string
	Widget    string
	Help      string
	Errors    []string
	Control   controlView
}

type controlView struct {
	Element  string
	Type     string
	ID       string
	Name     string
	Value    string
	Display  string
	Href     string
	Checked  bool
	Multiple bool
	Disabled bool
	Required bool
	Attrs    []attrView
	Options  []optionView
	Children []controlView
}

type attrView struct {
	Name  string
	Value string
}

type optionView struct {
	Value    string
	Text     string
	Selected bool
}

// reserved control attributes rendered explicitly by the templates.
var reservedAttrs = map[string]struct{}{"id": {}, "name": {}, "type": {}, "href": {}, "multiple": {}}

func buildForm(tree render.Tree, action, submit string) formView {
	view := formView{
		SessionID:  tree.SessionID,
		Mode:       string(tree.Mode),
		Action:     action,
		Submit:     submit,
		Hidden:     tree.Hidden,
		FormErrors: tree.FormErrors,
	}
	if model.Mode(view.Mode).ReadOnly() {
		view.Submit = ""
	}
	flattenSections(tree.Sections, 0, &view.Sections)
	return view
}

func flattenSections(sections []render.SectionNode, depth int, out *[]sectionView) {
	for _, section := range sections {
		view := sectionView{
			ID:       section.ID,
			Title:    section.Title,
			Kind:     section.Kind,
			Depth:    depth,
			Expanded: section.Expanded,
		}
		for _, node := range section.Nodes {
			view.Fields = append(view.Fields, buildField(node, ""))
		}
		if section.Table != nil {
			table := &tableView{LineType: section.Table.LineType, Header: section.Table.Header}
			for _, row := range section.Table.Rows {
				rv := rowView{Index: row.Index}
				for _, cell := range row.Cells {
					field := buildField(cell, section.Table.LineType)
					field.Label = ""
					rv.Cells = append(rv.Cells, field)
				}
				table.Rows = append(table.Rows, rv)
			}
			view.Table = table
		}
		*out = append(*out, view)
		flattenSections(section.Sections, depth+1, out)
	}
}

// fieldName is the form control name and element id of node. Table cells
// are named lineType[row][tagName].
func fieldName(node render.Node, lineType string) (name, id string) {
	name = node.TagName
	if name == "" {
		name = node.AttributeID
	}
	id = "ui-" + node.AttributeID
	if lineType != "" && node.Row != attribute.NoRow {
		name = fmt.Sprintf("%s[%d][%s]", lineType, node.Row, name)
		id = fmt.Sprintf("%s-%d", id, node.Row)
	}
	return name, id
}

func buildField(node render.Node, lineType string) fieldView {
	name, id := fieldName(node, lineType)
	control := buildControl(node.Control, id, name)
	control.Required = node.Required && !node.Control.ReadOnly
	return fieldView{
		ControlID: id,
		Label:     node.Label,
		Required:  node.Required,
		Kind:      string(node.Control.Kind),
		Widget:    node.Control.Widget,
		Help:      node.Control.Help,
		Errors:    node.Errors,
		Control:   control,
	}
}

func buildControl(c fields.Control, id, name string) controlView {
	view := controlView{
		ID:       id,
		Name:     name,
		Type:     c.Attr("type"),
		Disabled: c.Disabled,
		Href:     c.Attr("href"),
		Attrs:    controlAttrs(c.Attrs),
	}
	if view.Type == "" {
		view.Type = "text"
	}

	if c.ReadOnly {
		view.Element = "display"
		view.Display = c.Display
		if view.Display == "" {
			view.Display = scalar(c.Value)
		}
		return view
	}

	for _, child := range c.Children {
		childName := child.Attr("name")
		view.Children = append(view.Children, buildControl(child, id+"-"+childName, name+"."+childName))
	}
	if len(view.Children) > 0 {
		return view
	}

	switch {
	case c.Kind == model.KindRadio:
		view.Element, view.Type = "group", "radio"
		view.Options = optionViews(c.Options, c.Value)
	case c.Kind == model.KindCheckbox && len(c.Options) > 0 && c.Widget != "tri-state":
		view.Element, view.Type = "group", "checkbox"
		view.Options = optionViews(c.Options, c.Value)
	case c.Kind == model.KindCheckbox || c.Kind == model.KindToggle:
		if c.Widget == "tri-state" {
			view.Element = "select"
			view.Options = optionViews(c.Options, c.Value)
			break
		}
		view.Element = "checkbox"
		view.Checked, _ = c.Value.(bool)
	case c.Kind == model.KindTextarea:
		view.Element = "textarea"
		view.Value = scalar(c.Value)
	case attribute.IsListKind(c.Kind):
		view.Element, view.Multiple = "select", true
		view.Options = optionViews(c.Options, c.Value)
	case len(c.Options) > 0:
		view.Element = "select"
		view.Options = optionViews(c.Options, c.Value)
	default:
		view.Element = "input"
		view.Value = scalar(c.Value)
	}
	return view
}

func controlAttrs(attrs map[string]string) []attrView {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if _, skip := reservedAttrs[name]; skip {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]attrView, 0, len(names))
	for _, name := range names {
		out = append(out, attrView{Name: name, Value: attrs[name]})
	}
	return out
}

func optionViews(options []model.Option, value any) []optionView {
	selected := attribute.NormalizeIdentifiers(value)
	out := make([]optionView, 0, len(options))
	for _, option := range options {
		id := option.Identifier()
		out = append(out, optionView{
			Value:    scalar(id),
			Text:     option.Text(),
			Selected: attribute.ContainsIdentifier(selected, id),
		})
	}
	return out
}

func scalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
