package fields

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/widgets"
)

// DisplayTypeCurrency forces the currency behavior regardless of tag.
const DisplayTypeCurrency = "Currency"

// Option configures a Registry.
type Option func(*Registry)

// WithWidgets overrides the widget resolver used for Control.Widget.
func WithWidgets(reg *widgets.Registry) Option {
	return func(r *Registry) {
		if reg != nil {
			r.widgets = reg
		}
	}
}

// WithHelpPolicy overrides the sanitizer applied to attribute help text.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(r *Registry) {
		if policy != nil {
			r.help = policy
		}
	}
}

// WithBehavior replaces the behavior of its kind.
func WithBehavior(b Behavior) Option {
	return func(r *Registry) {
		if b != nil {
			r.behaviors[b.Kind()] = b
		}
	}
}

// WithLogger sets the logger used for resolution fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry is the kind -> behavior table.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[model.Kind]Behavior
	widgets   *widgets.Registry
	help      *bluemonday.Policy
	logger    *slog.Logger
}

// NewRegistry returns a registry holding a behavior for every kind.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		behaviors: make(map[model.Kind]Behavior, len(model.AllKinds())),
		widgets:   widgets.NewRegistry(),
		help:      bluemonday.UGCPolicy(),
		logger:    discardLogger(),
	}
	for _, kind := range model.AllKinds() {
		if b := builtin(kind); b != nil {
			r.behaviors[kind] = b
		}
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// builtin is the exhaustive dispatch table over model.Kind.
func builtin(kind model.Kind) Behavior {
	switch kind {
	case model.KindText:
		return textBehavior{kind: model.KindText}
	case model.KindTextarea:
		return textBehavior{kind: model.KindTextarea}
	case model.KindEmail:
		return emailBehavior{}
	case model.KindLink:
		return linkBehavior{}
	case model.KindNumber:
		return numberBehavior{}
	case model.KindPercentage:
		return percentageBehavior{}
	case model.KindCurrency:
		return currencyBehavior{}
	case model.KindSelect:
		return selectBehavior{kind: model.KindSelect}
	case model.KindRadio:
		return selectBehavior{kind: model.KindRadio}
	case model.KindMultiSelect:
		return listBehavior{kind: model.KindMultiSelect}
	case model.KindTags:
		return listBehavior{kind: model.KindTags}
	case model.KindCheckbox:
		return checkboxBehavior{}
	case model.KindToggle:
		return toggleBehavior{}
	case model.KindSalutation:
		return salutationBehavior{}
	case model.KindDate:
		return dateBehavior{}
	case model.KindDateTime:
		return dateTimeBehavior{}
	case model.KindTime:
		return timeBehavior{}
	case model.KindDuration:
		return durationBehavior{}
	case model.KindAddress:
		return addressBehavior{}
	case model.KindPhone:
		return phoneBehavior{}
	case model.KindPhoneEmail:
		return phoneEmailBehavior{}
	case model.KindReference:
		return referenceBehavior{}
	case model.KindFormula:
		return formulaBehavior{}
	case model.KindFileUpload:
		return fileUploadBehavior{}
	default:
		return nil
	}
}

// Register adds or replaces a behavior.
func (r *Registry) Register(b Behavior) error {
	if b == nil {
		return fmt.Errorf("fields: behavior is required")
	}
	if !b.Kind().Valid() {
		return fmt.Errorf("fields: unknown kind %q", b.Kind())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[b.Kind()] = b
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(b Behavior) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Get returns the behavior registered for kind.
func (r *Registry) Get(kind model.Kind) (Behavior, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.behaviors[kind]
	return b, ok
}

// Kinds lists the registered kinds, sorted.
func (r *Registry) Kinds() []model.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Kind, 0, len(r.behaviors))
	for kind := range r.behaviors {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Check reports kinds without a behavior.
func (r *Registry) Check() error {
	var missing []string
	for _, kind := range model.AllKinds() {
		if _, ok := r.Get(kind); !ok {
			missing = append(missing, string(kind))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("fields: no behavior for kinds: %s", strings.Join(missing, ", "))
	}
	return nil
}

// KindOf resolves the behavior kind of attr: a Currency display type first,
// then classification.
func KindOf(attr model.Attribute) model.Kind {
	if strings.EqualFold(strings.TrimSpace(attr.DisplayType.TypeName), DisplayTypeCurrency) {
		return model.KindCurrency
	}
	return attribute.Classify(attr)
}

// Resolve returns the behavior for attr. Unregistered kinds fall back to
// text.
func (r *Registry) Resolve(attr model.Attribute) Behavior {
	kind := KindOf(attr)
	if b, ok := r.Get(kind); ok {
		return b
	}
	r.logger.Debug("fields: no behavior registered, using text", "kind", kind, "attribute", attribute.ID(attr))
	if b, ok := r.Get(model.KindText); ok {
		return b
	}
	return textBehavior{kind: model.KindText}
}

// BindOption customizes a bound Field.
type BindOption func(*Field)

// WithOptions sets the option list offered by the control.
func WithOptions(options []model.Option) BindOption {
	return func(f *Field) { f.Options = options }
}

// WithStates sets the state list filtered by the address country.
func WithStates(states []model.Option) BindOption {
	return func(f *Field) { f.States = states }
}

// WithDisabled forces the control disabled.
func WithDisabled(disabled bool) BindOption {
	return func(f *Field) { f.Disabled = f.Disabled || disabled }
}

// WithFormat sets the display format options.
func WithFormat(opts FormatOptions) BindOption {
	return func(f *Field) { f.Format = opts }
}

// Bind resolves attr and returns it bound with its render context.
func (r *Registry) Bind(attr model.Attribute, options ...BindOption) Field {
	f := Field{
		Attribute: attr,
		Behavior:  r.Resolve(attr),
		help:      r.help,
	}
	if widget, ok := r.widgets.Resolve(attr); ok {
		f.Widget = widget
	}
	for _, opt := range options {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}
