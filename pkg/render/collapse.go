package render

import (
	"sync"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// CollapseState tracks which sections the user collapsed. It is view state
// only and never touches the record.
type CollapseState struct {
	mu        sync.RWMutex
	collapsed map[string]bool
}

// NewCollapseState returns an empty state.
func NewCollapseState() *CollapseState {
	return &CollapseState{collapsed: make(map[string]bool)}
}

// Toggle flips a section and returns whether it is now expanded.
func (c *CollapseState) Toggle(sectionID string, current bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collapsed == nil {
		c.collapsed = make(map[string]bool)
	}
	c.collapsed[sectionID] = current
	return !current
}

// Set records the expanded state of a section.
func (c *CollapseState) Set(sectionID string, expanded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collapsed == nil {
		c.collapsed = make(map[string]bool)
	}
	c.collapsed[sectionID] = !expanded
}

// Expanded reports whether section is drawn open. Sections without a title
// are always expanded; otherwise user state wins over the section's isOpen
// default.
func (c *CollapseState) Expanded(section model.Section) bool {
	if !collapsible(section) {
		return true
	}
	if c != nil {
		c.mu.RLock()
		collapsed, ok := c.collapsed[section.Key()]
		c.mu.RUnlock()
		if ok {
			return !collapsed
		}
	}
	return section.IsOpen.Or(true)
}

func collapsible(section model.Section) bool {
	return section.Title() != "" && !section.NoLabel.True()
}
