// Package uirenderer wires the form engine together: configuration comes
// from a collab.ConfigProvider, sessions are built by the initialization
// pipeline, and trees are rendered, edited, validated and submitted through
// one Engine.
package uirenderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-uirenderer/pkg/collab"
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/renderers/html"
	"github.com/goliatone/go-uirenderer/pkg/renderers/tui"
	"github.com/goliatone/go-uirenderer/pkg/session"
	"github.com/goliatone/go-uirenderer/pkg/validation"
	"github.com/goliatone/go-uirenderer/pkg/visibility"
)

const defaultOutputName = "html"

// ErrNoConfigProvider is returned by Open when the engine has no provider.
var ErrNoConfigProvider = errors.New("uirenderer: config provider is not configured")

// ErrNoSaveCollaborator is returned by Submit when the engine has no saver.
var ErrNoSaveCollaborator = errors.New("uirenderer: save collaborator is not configured")

// RenderOptions aliases render.RenderOptions for callers of the facade.
type RenderOptions = render.RenderOptions

// Option customises the engine.
type Option func(*Engine)

// WithConfigProvider sets where Open fetches payloads.
func WithConfigProvider(provider collab.ConfigProvider) Option {
	return func(e *Engine) {
		e.provider = provider
	}
}

// WithConfigCache memoizes the configured provider per object type.
func WithConfigCache() Option {
	return func(e *Engine) {
		e.cacheConfig = true
	}
}

// WithFieldRegistry replaces the field type registry.
func WithFieldRegistry(reg *fields.Registry) Option {
	return func(e *Engine) {
		e.fields = reg
	}
}

// WithEvaluator replaces the visibleWhen evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = evaluator
	}
}

// WithValidator replaces the validator used by controllers and Submit.
func WithValidator(v *validation.Validator) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithSessionOptions forwards options to the session builder.
func WithSessionOptions(options ...session.Option) Option {
	return func(e *Engine) {
		e.sessionOptions = append(e.sessionOptions, options...)
	}
}

// WithOutputs replaces the output registry.
func WithOutputs(reg *render.Registry) Option {
	return func(e *Engine) {
		e.outputs = reg
	}
}

// WithOutput registers an additional output.
func WithOutput(output render.Output) Option {
	return func(e *Engine) {
		if output != nil {
			e.extraOutputs = append(e.extraOutputs, output)
		}
	}
}

// WithDefaultOutput names the output used when Render receives none.
func WithDefaultOutput(name string) Option {
	return func(e *Engine) {
		e.defaultOutput = strings.TrimSpace(name)
	}
}

// WithSaveCollaborator sets the saver used by Submit.
func WithSaveCollaborator(saver collab.SaveCollaborator) Option {
	return func(e *Engine) {
		e.saver = saver
	}
}

// WithSearchProvider enables Search and Searcher.
func WithSearchProvider(provider collab.SearchProvider, options ...collab.SearcherOption) Option {
	return func(e *Engine) {
		e.searchProvider = provider
		e.searchOptions = options
	}
}

// WithLogger routes engine, pipeline and renderer logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine coordinates the pipeline from configuration payload to rendered
// output. Missing dependencies get the built-in implementations.
type Engine struct {
	provider       collab.ConfigProvider
	cacheConfig    bool
	fields         *fields.Registry
	evaluator      visibility.Evaluator
	validator      *validation.Validator
	sessionOptions []session.Option
	outputs        *render.Registry
	extraOutputs   []render.Output
	defaultOutput  string
	saver          collab.SaveCollaborator
	searchProvider collab.SearchProvider
	searchOptions  []collab.SearcherOption
	logger         *slog.Logger

	builder  *session.Builder
	renderer *render.Renderer
	searcher *collab.Searcher
	initErr  error
}

// New constructs an Engine. Construction errors (a failing default output)
// surface from the first call that needs them.
func New(options ...Option) *Engine {
	e := &Engine{defaultOutput: defaultOutputName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.applyDefaults()
	return e
}

func (e *Engine) applyDefaults() {
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.fields == nil {
		e.fields = fields.NewRegistry()
	}
	if e.validator == nil {
		e.validator = validation.New()
	}
	if e.cacheConfig && e.provider != nil {
		e.provider = collab.NewCachedConfigProvider(e.provider)
	}
	if e.defaultOutput == "" {
		e.defaultOutput = defaultOutputName
	}

	builderOptions := append([]session.Option{session.WithLogger(e.logger)}, e.sessionOptions...)
	e.builder = session.NewBuilder(builderOptions...)

	rendererOptions := []render.Option{render.WithRegistry(e.fields), render.WithLogger(e.logger)}
	if e.evaluator != nil {
		rendererOptions = append(rendererOptions, render.WithEvaluator(e.evaluator))
	}
	e.renderer = render.New(rendererOptions...)

	if e.searchProvider != nil {
		searchOptions := append([]collab.SearcherOption{collab.WithSearchLogger(e.logger)}, e.searchOptions...)
		e.searcher = collab.NewSearcher(e.searchProvider, searchOptions...)
	}

	if e.outputs == nil {
		e.outputs = render.NewRegistry()
		htmlOutput, err := html.New()
		if err != nil {
			e.initErr = fmt.Errorf("uirenderer: init html output: %w", err)
		} else {
			e.outputs.MustRegister(htmlOutput)
		}
		e.outputs.MustRegister(tui.Text{})
	}
	for _, output := range e.extraOutputs {
		if err := e.outputs.Register(output); err != nil && e.initErr == nil {
			e.initErr = fmt.Errorf("uirenderer: register output: %w", err)
		}
	}
}

// Request selects what Open builds.
type Request struct {
	// ObjectType is passed to the ConfigProvider.
	ObjectType string
	// Mode overrides the payload's mode when set.
	Mode model.Mode
	// Record replaces the payload's record when non-nil.
	Record model.Record
}

// Open fetches the configuration for req.ObjectType and builds a session.
// Pipeline failures return the error together with a failed session.
func (e *Engine) Open(ctx context.Context, req Request) (*session.Session, error) {
	if ctx == nil {
		return nil, errors.New("uirenderer: context is required")
	}
	if e.provider == nil {
		return nil, ErrNoConfigProvider
	}
	objectType := strings.TrimSpace(req.ObjectType)
	if objectType == "" {
		return nil, errors.New("uirenderer: object type is required")
	}

	start := time.Now()
	payload, err := e.provider.FetchConfig(ctx, objectType)
	if err != nil {
		e.logger.Warn("uirenderer: fetch config failed", "objectType", objectType, "error", err)
		return nil, fmt.Errorf("uirenderer: fetch config %q: %w", objectType, err)
	}

	raw := make(map[string]any, len(payload)+2)
	for key, value := range payload {
		raw[key] = value
	}
	if req.Mode != "" {
		raw["mode"] = string(req.Mode)
	}
	if req.Record != nil {
		raw["objectIdx"] = map[string]any(req.Record.Clone())
	}

	sess, err := e.builder.BuildRaw(ctx, raw)
	e.logger.Debug("uirenderer: session opened", "objectType", objectType, "duration", time.Since(start), "error", err)
	if err != nil && sess == nil {
		sess = session.Failed(err)
	}
	return sess, err
}

// Session builds a session from a raw payload (map, JSON or YAML bytes).
func (e *Engine) Session(ctx context.Context, raw any) (*session.Session, error) {
	return e.builder.BuildRaw(ctx, raw)
}

// Controller returns a change controller bound to the engine's fields and
// validator.
func (e *Engine) Controller(sess *session.Session) (*render.Controller, error) {
	return render.NewController(sess,
		render.WithControllerFields(e.fields),
		render.WithControllerValidator(e.validator),
	)
}

// Tree renders the session into a render tree.
func (e *Engine) Tree(sess *session.Session, opts RenderOptions) (render.Tree, error) {
	return e.renderer.Render(sess, opts)
}

// Render produces the named output (the default when empty) and its content
// type.
func (e *Engine) Render(ctx context.Context, sess *session.Session, output string, opts RenderOptions) ([]byte, string, error) {
	if ctx == nil {
		return nil, "", errors.New("uirenderer: context is required")
	}
	if e.initErr != nil {
		return nil, "", e.initErr
	}
	name := strings.TrimSpace(output)
	if name == "" {
		name = e.defaultOutput
	}
	out, err := e.outputs.Get(name)
	if err != nil {
		return nil, "", err
	}
	tree, err := e.renderer.Render(sess, opts)
	if err != nil {
		return nil, "", err
	}
	data, err := out.Render(ctx, tree)
	if err != nil {
		return nil, "", fmt.Errorf("uirenderer: render %s: %w", name, err)
	}
	return data, out.ContentType(), nil
}

// Validate runs form validation over the session's record.
func (e *Engine) Validate(sess *session.Session) (validation.Result, error) {
	if sess == nil || !sess.Ready() {
		return validation.Result{}, render.ErrNotInitialized
	}
	return e.validator.ValidateForm(sess.Layout.Sections, sess.Record), nil
}

// Submit validates and saves the session's record.
func (e *Engine) Submit(ctx context.Context, sess *session.Session) (collab.SaveResult, error) {
	if e.saver == nil {
		return collab.SaveResult{}, ErrNoSaveCollaborator
	}
	res, err := collab.Submit(ctx, sess, e.validator, e.saver)
	if err != nil {
		e.logger.Warn("uirenderer: submit failed", "session", sessionID(sess), "error", err)
	}
	return res, err
}

// SaveErrors maps a rejected save onto the session's attributes. It reports
// false when err does not carry a *collab.RejectedError.
func (e *Engine) SaveErrors(sess *session.Session, err error) (render.ErrorMapping, bool) {
	var rejected *collab.RejectedError
	if !errors.As(err, &rejected) {
		return render.ErrorMapping{}, false
	}
	mapping := render.MapErrorPayload(sess, rejected.Fields)
	mapping.Form = render.MergeFormErrors(mapping.Form, rejected.Message)
	return mapping, true
}

// Searcher returns the debounced search coordinator, nil without a search
// provider.
func (e *Engine) Searcher() *collab.Searcher {
	return e.searcher
}

// Outputs exposes the output registry.
func (e *Engine) Outputs() *render.Registry {
	return e.outputs
}

// Fields exposes the field type registry.
func (e *Engine) Fields() *fields.Registry {
	return e.fields
}

func sessionID(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.ID
}
