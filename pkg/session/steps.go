package session

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Step is one pure pipeline transformation.
type Step struct {
	Name string
	Run  func(Session) (Session, error)
}

// Apply runs steps in order over s and returns the final session.
func Apply(s Session, steps ...Step) (Session, error) {
	for _, step := range steps {
		if step.Run == nil {
			continue
		}
		next, err := step.Run(s)
		if err != nil {
			return s, fmt.Errorf("session: %s: %w", step.Name, err)
		}
		s = next
	}
	return s, nil
}

// ResolveMode picks the effective mode: an explicit mode wins, a view page
// infers view, anything else falls back to def. The currency format defaults
// to layout.DefaultCurrencyFormat.
func ResolveMode(def model.Mode) Step {
	if def == "" {
		def = model.ModeCreate
	}
	return Step{Name: "resolve-mode", Run: func(s Session) (Session, error) {
		switch {
		case s.RequestedMode != "":
			s.Mode = s.RequestedMode
		case s.PageMode == model.ModeView:
			s.Mode = model.ModeView
		default:
			s.Mode = def
		}
		if strings.TrimSpace(s.CurrencyFormat) == "" {
			s.CurrencyFormat = layout.DefaultCurrencyFormat
		}
		return s, nil
	}}
}

// SeedRecord starts from an empty record when none was supplied, fills the
// object id from the layout and maps table address attributes.
func SeedRecord() Step {
	return Step{Name: "seed-record", Run: func(s Session) (Session, error) {
		next := s.Clone()
		if next.Record == nil {
			next.Record = model.Record{}
		}
		if next.ObjectID == "" {
			next.ObjectID = next.Source.ObjectID
		}
		next.TableAddressAttributes = map[string]string{}
		layout.Walk(next.Source.Sections, func(section model.Section, attr model.Attribute) {
			if section.IsTable() && attr.Kind == model.KindAddress && attr.Key() != "" {
				next.TableAddressAttributes[attr.Key()] = section.RowKey()
			}
		})
		return next, nil
	}}
}

// BuildIndexes indexes sections, attributes and owning sections, including
// derived sections.
func BuildIndexes() Step {
	return Step{Name: "build-indexes", Run: func(s Session) (Session, error) {
		next := s.Clone()
		next.Index = indexFor(next)
		return next, nil
	}}
}

func indexFor(s Session) layout.Index {
	idx := layout.BuildIndex(s.Source.Sections)
	for _, driver := range sortedKeys(s.DerivedSections) {
		idx.Add(s.DerivedSections[driver])
	}
	return idx
}

// BuildDependsOn builds the dependency maps from the configured dependency
// groups and attribute-level dependency descriptors.
func BuildDependsOn() Step {
	return Step{Name: "build-depends-on", Run: func(s Session) (Session, error) {
		next := s.Clone()
		dependsOn := map[string][]string{}
		dependents := map[string][]string{}
		link := func(driver, dependent string) {
			driver = strings.TrimSpace(driver)
			dependent = strings.TrimSpace(dependent)
			if driver == "" || dependent == "" {
				return
			}
			dependsOn[dependent] = appendUnique(dependsOn[dependent], driver)
			dependents[driver] = appendUnique(dependents[driver], dependent)
		}

		for _, group := range next.DependencyGroups {
			for _, driver := range sortedKeys(group) {
				for _, dependent := range group[driver] {
					link(driver, dependent)
				}
			}
		}
		for _, id := range sortedKeys(next.Index.Attributes) {
			attr := next.Index.Attributes[id]
			if attr.Dependency == nil {
				continue
			}
			for _, driver := range attr.Dependency.DependsOn {
				link(driver, id)
			}
		}

		next.DependsOn = dependsOn
		next.Dependents = dependents
		return next, nil
	}}
}

// UpgradeLayout gives date and date-time attributes a tag name and seeds
// the customAttributes list when the layout has custom attributes.
func UpgradeLayout() Step {
	return Step{Name: "upgrade-layout", Run: func(s Session) (Session, error) {
		next := s.Clone()
		hasCustom := false
		upgrade := func(_ *model.Section, attr *model.Attribute) {
			if attr.Kind == model.KindDate || attr.Kind == model.KindDateTime {
				if attribute.TagName(*attr) == "" && attr.Key() != "" {
					attr.TagName = "date_" + attr.Key()
					if len(attr.Right) > 0 {
						attr.Right[0].TagName = attr.TagName
					}
				}
			}
			if attribute.IsCustom(*attr) {
				hasCustom = true
			}
		}
		eachAttribute(next.Source.Sections, upgrade)
		eachAttribute(next.Layout.Sections, upgrade)
		if hasCustom {
			if _, ok := next.Record.Rows(model.RecordCustomAttributes); !ok {
				next.Record[model.RecordCustomAttributes] = []any{}
			}
		}
		next.Index = indexFor(next)
		return next, nil
	}}
}

// FilterSections drops disabled, hidden, rule-rejected and empty sections.
// Address rows get their isAdded flag reset first.
func FilterSections(rule SectionRule) Step {
	if rule == nil {
		rule = allowAll{}
	}
	return Step{Name: "filter-sections", Run: func(s Session) (Session, error) {
		next := s.Clone()
		if rows, ok := next.Record.Rows(model.RecordAddresses); ok {
			for _, row := range rows {
				if address, ok := model.AsMap(row); ok {
					address["isAdded"] = false
				}
			}
		}
		next.Layout.Sections = filterSections(next.Layout.Sections, rule, next)
		return next, nil
	}}
}

func filterSections(sections []model.Section, rule SectionRule, s Session) []model.Section {
	valid := make([]model.Section, 0, len(sections))
	for _, section := range sections {
		if section.IsEnabled.False() || section.IsVisible.False() {
			continue
		}
		if !rule.Allow(section, s) {
			continue
		}
		section.Sections = filterSections(section.Sections, rule, s)
		if !section.HasContent() {
			continue
		}
		valid = append(valid, section)
	}
	return valid
}

// MaterializeCustomAttributes ensures every custom attribute has an entry in
// the record's customAttributes list (per row for table sections) and that
// every table section has its row list.
func MaterializeCustomAttributes() Step {
	return Step{Name: "materialize-custom-attributes", Run: func(s Session) (Session, error) {
		next := s.Clone()
		materializeSections(next.Layout.Sections, next.Record)
		overlayIndex(next.Index, next.Layout.Sections)
		return next, nil
	}}
}

// overlayIndex refreshes index entries for the sections and attributes of
// sections without dropping entries of filtered sections.
func overlayIndex(idx layout.Index, sections []model.Section) {
	if idx.Sections == nil || idx.Attributes == nil {
		return
	}
	overlaySections(idx, sections)
	layout.Walk(sections, func(_ model.Section, attr model.Attribute) {
		if id := attr.Key(); id != "" {
			idx.Attributes[id] = attr
		}
	})
}

func overlaySections(idx layout.Index, sections []model.Section) {
	for _, section := range sections {
		if key := section.Key(); key != "" {
			idx.Sections[key] = section
		}
		overlaySections(idx, section.Sections)
	}
}

func materializeSections(sections []model.Section, record model.Record) {
	for i := range sections {
		section := &sections[i]
		if section.Type == model.TypeRelatedObject {
			continue
		}
		if section.IsTable() {
			materializeTable(section, record)
			continue
		}
		promoteCustom(section.Attributes, section.Type)
		if hasCustomAttributes(section.Attributes) {
			entries, _ := record.Rows(model.RecordCustomAttributes)
			record[model.RecordCustomAttributes] = ensureCustomEntries(section.Attributes, entries)
		}
		materializeSections(section.Sections, record)
	}
}

func materializeTable(section *model.Section, record model.Record) {
	key := section.RowKey()
	rows, ok := record.Rows(key)
	if !ok {
		rows = []any{}
	}
	for c := range section.Columns {
		promoteCustom(section.Columns[c].Attributes, section.Type)
	}
	promoteCustom(section.Attributes, section.Type)

	templates := section.TableAttributes()
	if hasCustomAttributes(templates) {
		for r, raw := range rows {
			row, ok := model.AsMap(raw)
			if !ok || row == nil {
				row = map[string]any{}
			}
			entries, _ := model.Record(row).Rows(model.RecordCustomAttributes)
			row[model.RecordCustomAttributes] = ensureCustomEntries(templates, entries)
			rows[r] = row
		}
	}
	record[key] = rows
}

func promoteCustom(attrs []model.Attribute, sectionType string) {
	if sectionType != model.TypeCustom {
		return
	}
	for i := range attrs {
		if strings.TrimSpace(attrs[i].Type) == "" || attrs[i].Type == "undefined" {
			attrs[i].Type = model.TypeCustom
		}
	}
}

func hasCustomAttributes(attrs []model.Attribute) bool {
	for _, attr := range attrs {
		if attribute.IsCustom(attr) {
			return true
		}
	}
	return false
}

func ensureCustomEntries(attrs []model.Attribute, entries []any) []any {
	if entries == nil {
		entries = []any{}
	}
	for _, attr := range attrs {
		if !attribute.IsCustom(attr) {
			continue
		}
		tagName := attribute.TagName(attr)
		if entry := findCustomEntry(entries, attr.Key(), tagName); entry != nil {
			if blankValue(entry[model.CustomAttributeTagName]) && tagName != "" {
				entry[model.CustomAttributeTagName] = tagName
				entry[model.CustomAttributeName] = tagName
			}
			continue
		}
		entries = append(entries, map[string]any{
			model.CustomAttributeID:      attr.Key(),
			model.CustomAttributeType:    attr.CanonicalTag,
			model.CustomAttributeTagName: tagName,
			model.CustomAttributeName:    tagName,
			model.CustomAttributeValue:   "",
		})
	}
	return entries
}

func findCustomEntry(entries []any, id, tagName string) map[string]any {
	for _, raw := range entries {
		entry, ok := model.AsMap(raw)
		if !ok {
			continue
		}
		current := fmt.Sprint(entry[model.CustomAttributeID])
		if (id != "" && current == id) || (tagName != "" && current == tagName) {
			return entry
		}
	}
	return nil
}

func blankValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// NormalizePhoneEmail applies the phone/email normalization hook. A nil hook
// is a no-op.
func NormalizePhoneEmail(hook PhoneEmailNormalizer) Step {
	return Step{Name: "normalize-phone-email", Run: func(s Session) (Session, error) {
		if hook == nil {
			return s, nil
		}
		record, err := hook.NormalizePhoneEmail(s.Clone())
		if err != nil {
			return s, err
		}
		next := s.Clone()
		if record != nil {
			next.Record = record
		}
		return next, nil
	}}
}

// BuildReferenceFields indexes reference-field attributes by the attribute
// they reference.
func BuildReferenceFields() Step {
	return Step{Name: "build-reference-fields", Run: func(s Session) (Session, error) {
		next := s.Clone()
		refs := map[string][]string{}
		layout.Walk(next.Layout.Sections, func(_ model.Section, attr model.Attribute) {
			if attr.AssociatedField == nil {
				return
			}
			ref := strings.TrimSpace(attr.AssociatedField.ReferenceAttributeID)
			if ref == "" || attr.Key() == "" {
				return
			}
			refs[ref] = appendUnique(refs[ref], attr.Key())
		})
		next.ReferenceFields = refs
		return next, nil
	}}
}

// BuildRefAppAttributes resolves cross-object attributes through hook. A nil
// hook yields an empty map.
func BuildRefAppAttributes(hook RefAppResolver) Step {
	return Step{Name: "build-ref-app-attributes", Run: func(s Session) (Session, error) {
		next := s.Clone()
		next.RefAppAttributes = map[string][]string{}
		if hook == nil {
			return next, nil
		}
		resolved, err := hook.ResolveRefAppAttributes(s.Clone())
		if err != nil {
			return s, err
		}
		for key, ids := range resolved {
			next.RefAppAttributes[key] = append([]string(nil), ids...)
		}
		return next, nil
	}}
}

func eachAttribute(sections []model.Section, fn func(section *model.Section, attr *model.Attribute)) {
	for i := range sections {
		section := &sections[i]
		for c := range section.Columns {
			for a := range section.Columns[c].Attributes {
				fn(section, &section.Columns[c].Attributes[a])
			}
		}
		for a := range section.Attributes {
			fn(section, &section.Attributes[a])
		}
		eachAttribute(section.Sections, fn)
	}
}
