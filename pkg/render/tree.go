package render

import (
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Tree is the rendered form.
type Tree struct {
	SessionID  string
	ObjectID   string
	Mode       model.Mode
	Sections   []SectionNode
	FormErrors []string
	Hidden     []HiddenField
}

// SectionNode is one rendered section.
type SectionNode struct {
	ID          string
	Title       string
	TitleKey    string
	Kind        string
	Collapsible bool
	Expanded    bool
	Nodes       []Node
	Table       *TableNode
	Sections    []SectionNode
}

// Node is one rendered attribute, bound to a table row when Row is not
// attribute.NoRow.
type Node struct {
	AttributeID string
	TagName     string
	Label       string
	LabelKey    string
	Required    bool
	Row         int
	Control     fields.Control
	Errors      []string
	Dependents  []string
}

// TableNode is the header and rows of a table section.
type TableNode struct {
	LineType string
	Header   []HeaderCell
	Rows     []RowNode
}

// HeaderCell labels one table column.
type HeaderCell struct {
	AttributeID string
	Label       string
	LabelKey    string
	Required    bool
}

// RowNode is one record row of a table.
type RowNode struct {
	Index int
	Cells []Node
}

// Empty reports whether the tree has nothing to draw.
func (t Tree) Empty() bool {
	return len(t.Sections) == 0
}

// Nodes returns every node rendered for attributeID, including table cells.
func (t Tree) Nodes(attributeID string) []Node {
	var out []Node
	walkNodes(t.Sections, func(n Node) {
		if n.AttributeID == attributeID {
			out = append(out, n)
		}
	})
	return out
}

// Section finds a section node by id.
func (t Tree) Section(id string) (SectionNode, bool) {
	return findSection(t.Sections, id)
}

func findSection(sections []SectionNode, id string) (SectionNode, bool) {
	for _, section := range sections {
		if section.ID == id {
			return section, true
		}
		if found, ok := findSection(section.Sections, id); ok {
			return found, true
		}
	}
	return SectionNode{}, false
}

func walkNodes(sections []SectionNode, fn func(Node)) {
	for _, section := range sections {
		for _, node := range section.Nodes {
			fn(node)
		}
		if section.Table != nil {
			for _, row := range section.Table.Rows {
				for _, cell := range row.Cells {
					fn(cell)
				}
			}
		}
		walkNodes(section.Sections, fn)
	}
}
