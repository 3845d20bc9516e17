package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle        = "toggle"
	WidgetSelect        = "select"
	WidgetChips         = "chips"
	WidgetCheckboxGroup = "checkbox-group"
	WidgetMultiSelect   = "multi-select"
	WidgetTextarea      = "textarea"
)

// Attribute metadata keys holding an explicit widget choice.
const (
	MetaWidget   = "widget"
	MetaUIWidget = "uiWidget"
)

// longTextThreshold is the maxLength above which text renders as a textarea.
const longTextThreshold = 255

// Matcher decides whether a widget should draw the attribute.
type Matcher func(attr model.Attribute) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry picks the widget drawing an attribute from explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without matchers; only explicit
// metadata resolves.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a matcher. The latest registration of a duplicate name is
// still evaluated in priority order.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for attr.
func (r *Registry) Resolve(attr model.Attribute) (string, bool) {
	if explicit := explicitWidget(attr); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(attr) {
			return entry.name, true
		}
	}
	return "", false
}

func explicitWidget(attr model.Attribute) string {
	for _, key := range []string{MetaWidget, MetaUIWidget} {
		if widget, ok := attr.Meta[key].(string); ok && strings.TrimSpace(widget) != "" {
			return strings.TrimSpace(widget)
		}
	}
	return ""
}

func kindOf(attr model.Attribute) model.Kind {
	return attribute.Classify(attr)
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, func(attr model.Attribute) bool {
		kind := kindOf(attr)
		return kind == model.KindToggle || (kind == model.KindCheckbox && len(attr.Options) == 0)
	})

	r.Register(WidgetChips, 80, func(attr model.Attribute) bool {
		return kindOf(attr) == model.KindTags
	})

	r.Register(WidgetCheckboxGroup, 75, func(attr model.Attribute) bool {
		return kindOf(attr) == model.KindCheckbox && len(attr.Options) > 0
	})

	r.Register(WidgetSelect, 70, func(attr model.Attribute) bool {
		switch kindOf(attr) {
		case model.KindSelect, model.KindSalutation:
			return true
		default:
			return false
		}
	})

	r.Register(WidgetMultiSelect, 65, func(attr model.Attribute) bool {
		return kindOf(attr) == model.KindMultiSelect
	})

	r.Register(WidgetTextarea, 60, func(attr model.Attribute) bool {
		switch kindOf(attr) {
		case model.KindTextarea:
			return true
		case model.KindText:
			return attr.MaxLength.Valid && attr.MaxLength.Int() > longTextThreshold
		default:
			return false
		}
	})
}
