package model

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	out := l
	out.Sections = cloneSections(l.Sections)
	return out
}

// Clone returns a deep copy of the section tree rooted at s.
func (s Section) Clone() Section {
	out := s
	out.Attributes = cloneAttributes(s.Attributes)
	out.Sections = cloneSections(s.Sections)
	if s.Columns != nil {
		out.Columns = make([]Column, len(s.Columns))
		for i, column := range s.Columns {
			column.Attributes = cloneAttributes(column.Attributes)
			out.Columns[i] = column
		}
	}
	out.Meta = cloneMeta(s.Meta)
	return out
}

// Clone returns a deep copy of the attribute.
func (a Attribute) Clone() Attribute {
	out := a
	if a.Right != nil {
		out.Right = make([]Right, len(a.Right))
		for i, right := range a.Right {
			right.Options = append([]Option(nil), right.Options...)
			out.Right[i] = right
		}
	}
	if a.Options != nil {
		out.Options = append([]Option(nil), a.Options...)
	}
	if a.Dependency != nil {
		dep := *a.Dependency
		dep.DependsOn = append([]string(nil), a.Dependency.DependsOn...)
		out.Dependency = &dep
	}
	if a.AssociatedField != nil {
		assoc := *a.AssociatedField
		out.AssociatedField = &assoc
	}
	out.FieldDisplayDependencies = CloneValue(a.FieldDisplayDependencies)
	out.Meta = cloneMeta(a.Meta)
	return out
}

func cloneSections(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i, section := range in {
		out[i] = section.Clone()
	}
	return out
}

func cloneAttributes(in []Attribute) []Attribute {
	if in == nil {
		return nil
	}
	out := make([]Attribute, len(in))
	for i, attr := range in {
		out[i] = attr.Clone()
	}
	return out
}

func cloneMeta(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out, _ := CloneValue(in).(map[string]any)
	return out
}
