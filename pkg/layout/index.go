package layout

import "github.com/goliatone/go-uirenderer/pkg/model"

// Index provides constant-time lookups over a layout tree.
type Index struct {
	Sections          map[string]model.Section
	Attributes        map[string]model.Attribute
	AttributeSections map[string][]string
}

// NewIndex returns an empty index.
func NewIndex() Index {
	return Index{
		Sections:          map[string]model.Section{},
		Attributes:        map[string]model.Attribute{},
		AttributeSections: map[string][]string{},
	}
}

// BuildIndex indexes sections, attributes and attribute owners in one pass.
// Inner sections and table columns are included.
func BuildIndex(sections []model.Section) Index {
	idx := NewIndex()
	idx.Add(sections)
	return idx
}

// Add indexes additional sections (e.g. derived sections) into idx.
func (idx Index) Add(sections []model.Section) {
	for _, section := range sections {
		sectionID := section.Key()
		if sectionID != "" {
			idx.Sections[sectionID] = section
		}
		for _, attr := range section.Attributes {
			idx.addAttribute(attr, sectionID)
		}
		idx.Add(section.Sections)
		if section.IsTable() {
			for _, column := range section.Columns {
				for _, attr := range column.Attributes {
					idx.addAttribute(attr, sectionID)
				}
			}
		}
	}
}

func (idx Index) addAttribute(attr model.Attribute, sectionID string) {
	id := attr.Key()
	if id == "" {
		return
	}
	idx.Attributes[id] = attr
	idx.AttributeSections[id] = append(idx.AttributeSections[id], sectionID)
}

// Attribute returns the indexed attribute.
func (idx Index) Attribute(id string) (model.Attribute, bool) {
	attr, ok := idx.Attributes[id]
	return attr, ok
}

// Section returns the indexed section.
func (idx Index) Section(id string) (model.Section, bool) {
	section, ok := idx.Sections[id]
	return section, ok
}

// Walk visits every attribute of sections (form attributes, inner sections
// and table columns) in layout order together with its owning section.
func Walk(sections []model.Section, fn func(section model.Section, attr model.Attribute)) {
	for _, section := range sections {
		for _, column := range section.Columns {
			for _, attr := range column.Attributes {
				fn(section, attr)
			}
		}
		for _, attr := range section.Attributes {
			fn(section, attr)
		}
		Walk(section.Sections, fn)
	}
}
