package render

import (
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Subset limits rendering to a part of the layout. Listed sections render
// with everything inside them; listed attributes render even when their
// section is not listed. The zero value renders the whole form.
type Subset struct {
	Sections      []string
	Attributes    []string
	MandatoryOnly bool
}

type subsetMatcher struct {
	sections      map[string]struct{}
	attributes    map[string]struct{}
	mandatoryOnly bool
}

func (s Subset) matcher() *subsetMatcher {
	return &subsetMatcher{
		sections:      normaliseTokens(s.Sections),
		attributes:    normaliseTokens(s.Attributes),
		mandatoryOnly: s.MandatoryOnly,
	}
}

func (m *subsetMatcher) filtered() bool {
	return len(m.sections) > 0 || len(m.attributes) > 0
}

func (m *subsetMatcher) section(id string) bool {
	if !m.filtered() {
		return true
	}
	_, ok := m.sections[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// explicitAttribute matches by attribute id or tag name.
func (m *subsetMatcher) explicitAttribute(attr model.Attribute) bool {
	if len(m.attributes) == 0 {
		return false
	}
	for _, token := range []string{attribute.ID(attr), attribute.TagName(attr)} {
		if token == "" {
			continue
		}
		if _, ok := m.attributes[strings.ToLower(token)]; ok {
			return true
		}
	}
	return false
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		token := strings.ToLower(strings.TrimSpace(value))
		if token == "" {
			continue
		}
		out[token] = struct{}{}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
