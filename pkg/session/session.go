package session

import (
	"sort"

	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// State is the lifecycle of a session as observed by renderers.
type State int

const (
	// StateNotInitialized is the zero state: nothing may be rendered.
	StateNotInitialized State = iota
	// StateReady marks a session produced by a successful Build.
	StateReady
	// StateFailed marks a session whose initialization failed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "not-initialized"
	}
}

// Session is the initialized working state of one form instance.
type Session struct {
	ID    string
	State State
	Err   error

	Mode             model.Mode
	RequestedMode    model.Mode
	PageMode         model.Mode
	CurrencyFormat   string
	ObjectID         string
	DisableAllFields bool
	Dirty            bool

	// Source is the full canonical layout before section filtering; the
	// indexes are built from it. Layout is the filtered working layout.
	Source model.Layout
	Layout model.Layout
	Record model.Record
	Lists  layout.Lists

	Index           layout.Index
	DerivedSections map[string][]model.Section

	// DependsOn maps a dependent attribute id to the drivers it depends on.
	DependsOn map[string][]string
	// Dependents maps a driver attribute id to the attributes depending on it.
	Dependents map[string][]string
	// ReferenceFields maps a referenced attribute id to the reference-field
	// attributes reading from it.
	ReferenceFields map[string][]string
	// RefAppAttributes maps attribute ids to cross-object attribute ids.
	RefAppAttributes map[string][]string
	// TableAddressAttributes maps address attribute ids inside table sections
	// to their line type.
	TableAddressAttributes map[string]string

	// DependencyGroups are the configured driver -> dependents groups.
	DependencyGroups []map[string][]string
}

// Failed returns a session in the failed state carrying err.
func Failed(err error) *Session {
	return &Session{State: StateFailed, Err: err}
}

// Ready reports whether the session may be rendered.
func (s *Session) Ready() bool {
	return s != nil && s.State == StateReady
}

// Attribute returns the indexed attribute with id.
func (s *Session) Attribute(id string) (model.Attribute, bool) {
	if s == nil {
		return model.Attribute{}, false
	}
	return s.Index.Attribute(id)
}

// Section returns the indexed section with id.
func (s *Session) Section(id string) (model.Section, bool) {
	if s == nil {
		return model.Section{}, false
	}
	return s.Index.Section(id)
}

// DependentsOf returns the attributes depending on driver, sorted.
func (s *Session) DependentsOf(driver string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.Dependents[driver]...)
}

// Clone returns a deep copy of the session. Steps clone before changing
// anything so their input stays untouched.
func (s Session) Clone() Session {
	out := s
	out.Source = s.Source.Clone()
	out.Layout = s.Layout.Clone()
	out.Record = s.Record.Clone()
	out.Index = cloneIndex(s.Index)
	out.DerivedSections = cloneSectionMap(s.DerivedSections)
	out.DependsOn = cloneStrings(s.DependsOn)
	out.Dependents = cloneStrings(s.Dependents)
	out.ReferenceFields = cloneStrings(s.ReferenceFields)
	out.RefAppAttributes = cloneStrings(s.RefAppAttributes)
	if s.TableAddressAttributes != nil {
		out.TableAddressAttributes = make(map[string]string, len(s.TableAddressAttributes))
		for k, v := range s.TableAddressAttributes {
			out.TableAddressAttributes[k] = v
		}
	}
	return out
}

func cloneIndex(idx layout.Index) layout.Index {
	if idx.Sections == nil && idx.Attributes == nil && idx.AttributeSections == nil {
		return idx
	}
	out := layout.NewIndex()
	for id, section := range idx.Sections {
		out.Sections[id] = section.Clone()
	}
	for id, attr := range idx.Attributes {
		out.Attributes[id] = attr.Clone()
	}
	for id, owners := range idx.AttributeSections {
		out.AttributeSections[id] = append([]string(nil), owners...)
	}
	return out
}

func cloneSectionMap(in map[string][]model.Section) map[string][]model.Section {
	if in == nil {
		return nil
	}
	out := make(map[string][]model.Section, len(in))
	for key, sections := range in {
		copied := make([]model.Section, len(sections))
		for i, section := range sections {
			copied[i] = section.Clone()
		}
		out[key] = copied
	}
	return out
}

func cloneStrings(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for key, values := range in {
		out[key] = append([]string(nil), values...)
	}
	return out
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
