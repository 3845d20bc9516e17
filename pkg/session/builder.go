package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger routes step timings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDefaultMode sets the mode used when neither an explicit mode nor a
// view page is supplied.
func WithDefaultMode(mode model.Mode) Option {
	return func(b *Builder) {
		if mode != "" {
			b.defaultMode = mode
		}
	}
}

// WithPhoneEmailNormalizer installs the phone/email normalization hook.
func WithPhoneEmailNormalizer(hook PhoneEmailNormalizer) Option {
	return func(b *Builder) {
		b.phoneEmail = hook
	}
}

// WithRefAppResolver installs the cross-object attribute resolver.
func WithRefAppResolver(hook RefAppResolver) Option {
	return func(b *Builder) {
		b.refApp = hook
	}
}

// WithSectionRule installs the section validity rule used while filtering.
func WithSectionRule(rule SectionRule) Option {
	return func(b *Builder) {
		b.sectionRule = rule
	}
}

// WithIDGenerator overrides the session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(b *Builder) {
		if fn != nil {
			b.newID = fn
		}
	}
}

// Builder runs the initialization pipeline. A Builder is immutable after
// construction and safe for concurrent use.
type Builder struct {
	logger      *slog.Logger
	defaultMode model.Mode
	phoneEmail  PhoneEmailNormalizer
	refApp      RefAppResolver
	sectionRule SectionRule
	newID       func() string
}

// NewBuilder constructs a Builder.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultMode: model.ModeCreate,
		newID:       uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Steps returns the ordered pipeline.
func (b *Builder) Steps() []Step {
	return []Step{
		ResolveMode(b.defaultMode),
		SeedRecord(),
		BuildIndexes(),
		BuildDependsOn(),
		UpgradeLayout(),
		FilterSections(b.sectionRule),
		MaterializeCustomAttributes(),
		NormalizePhoneEmail(b.phoneEmail),
		BuildReferenceFields(),
		BuildRefAppAttributes(b.refApp),
	}
}

// Build creates a ready session from cfg. cfg is not modified. A layout
// without sections is valid; a configuration error from the normalizer
// should be reported by the caller before Build is reached, so Build only
// fails on a missing layout, a cancelled context or a failing hook.
func (b *Builder) Build(ctx context.Context, cfg layout.Config) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Layout.Sections == nil {
		return nil, &layout.MissingLayoutError{Reason: "config has no sections"}
	}

	s := newSession(cfg)
	s.ID = b.newID()

	started := time.Now()
	for _, step := range b.Steps() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("session: build: %w", err)
		}
		stepStarted := time.Now()
		next, err := Apply(s, step)
		if err != nil {
			b.logger.Warn("session step failed", "session", s.ID, "step", step.Name, "error", err)
			return nil, err
		}
		s = next
		b.logger.Debug("session step", "session", s.ID, "step", step.Name, "elapsed", time.Since(stepStarted))
	}
	s.State = StateReady
	b.logger.Debug("session ready", "session", s.ID, "mode", s.Mode, "elapsed", time.Since(started))
	return &s, nil
}

// BuildRaw normalizes raw and builds a session. Configuration errors are
// returned as *layout.ConfigParseError or *layout.MissingLayoutError.
func (b *Builder) BuildRaw(ctx context.Context, raw any) (*Session, error) {
	cfg, err := layout.Parse(raw)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, cfg)
}

func newSession(cfg layout.Config) Session {
	cfg = cfg.Clone()
	return Session{
		State:            StateNotInitialized,
		RequestedMode:    cfg.Mode,
		PageMode:         cfg.PageMode,
		CurrencyFormat:   cfg.CurrencySymbolType,
		ObjectID:         cfg.ObjectID,
		DisableAllFields: cfg.DisableAllFields,
		Source:           cfg.Layout,
		Layout:           cfg.Layout.Clone(),
		Record:           cfg.Record,
		Lists:            cfg.Lists,
		DerivedSections:  cfg.DerivedSections,
		DependencyGroups: cfg.DependencyAttributes,
	}
}
