package layout

import (
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// DefaultCurrencyFormat is used when a payload does not choose one.
const DefaultCurrencyFormat = "CURRENCY_FORMAT_SYMBOL"

// Config is a parsed configuration payload: the canonical layout plus the
// session inputs that travel with it.
type Config struct {
	Layout model.Layout

	ObjectID           string
	Record             model.Record
	Mode               model.Mode
	PageMode           model.Mode
	DisableAllFields   bool
	CurrencySymbolType string

	// DependencyAttributes lists driver -> dependents groups.
	DependencyAttributes []map[string][]string
	// DerivedSections holds sections keyed by their driving attribute.
	DerivedSections map[string][]model.Section

	Lists Lists
}

// Lists carries the reference data shipped with a configuration.
type Lists struct {
	PhoneTypes   []map[string]any `json:"phoneTypes,omitempty"`
	EmailTypes   []map[string]any `json:"emailTypes,omitempty"`
	AddressTypes []map[string]any `json:"addressTypes,omitempty"`
	Statuses     []map[string]any `json:"statuses,omitempty"`
	Priorities   []map[string]any `json:"priorities,omitempty"`
	Types        []map[string]any `json:"types,omitempty"`
}

// Clone returns a copy whose layout, record and maps can be modified without
// touching c.
func (c Config) Clone() Config {
	out := c
	out.Layout = c.Layout.Clone()
	out.Record = c.Record.Clone()
	if c.DependencyAttributes != nil {
		out.DependencyAttributes = make([]map[string][]string, len(c.DependencyAttributes))
		for i, group := range c.DependencyAttributes {
			copied := make(map[string][]string, len(group))
			for driver, dependents := range group {
				copied[driver] = append([]string(nil), dependents...)
			}
			out.DependencyAttributes[i] = copied
		}
	}
	if c.DerivedSections != nil {
		out.DerivedSections = make(map[string][]model.Section, len(c.DerivedSections))
		for key, sections := range c.DerivedSections {
			copied := make([]model.Section, len(sections))
			for i, section := range sections {
				copied[i] = section.Clone()
			}
			out.DerivedSections[key] = copied
		}
	}
	return out
}
