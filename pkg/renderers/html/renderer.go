package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-uirenderer/pkg/render"
)

// FormPartialKey selects an alternate root template through theme partials.
const FormPartialKey = "uirenderer.form"

const defaultTemplate = "form.html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	theme      *theme.RendererConfig
	policy     *bluemonday.Policy
	funcs      map[string]any
	action     string
	submit     string
	locale     string
	inlineCSS  bool
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(dir) == "" {
			return
		}
		cfg.templateFS = os.DirFS(dir)
	}
}

// WithTheme applies resolved theme tokens, CSS variables and partials.
func WithTheme(t *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = t
	}
}

// WithHelpPolicy overrides the sanitizer applied to help text.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithTemplateFuncs exposes helpers (for example render.TemplateI18nFuncs)
// to templates.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			if name = strings.TrimSpace(name); name != "" {
				cfg.funcs[name] = fn
			}
		}
	}
}

// WithTranslator exposes translate and current_locale to templates.
func WithTranslator(t render.Translator) Option {
	return WithTemplateFuncs(render.TemplateI18nFuncs(t, render.TemplateI18nConfig{}))
}

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
	}
}

// WithSubmitLabel sets the submit button label. Read-only forms never show
// the button.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		cfg.submit = label
	}
}

// WithLocale is passed to templates as `locale`.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		cfg.locale = locale
	}
}

// WithInlineStylesheet embeds the default stylesheet in the output.
func WithInlineStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineCSS = enabled
	}
}

// Renderer writes a render.Tree as an HTML form.
type Renderer struct {
	cfg   config
	set   *pongo2.TemplateSet
	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submit: "Save"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}
	if cfg.templateFS == nil {
		return nil, fmt.Errorf("html renderer: templates are required")
	}
	return &Renderer{
		cfg:   cfg,
		set:   pongo2.NewSet("uirenderer", pongo2.NewFSLoader(cfg.templateFS)),
		cache: make(map[string]*pongo2.Template),
	}, nil
}

// Name implements render.Output.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType implements render.Output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements render.Output.
func (r *Renderer) Render(ctx context.Context, tree render.Tree) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := defaultTemplate
	if r.cfg.theme != nil {
		if partial := strings.TrimSpace(r.cfg.theme.Partials[FormPartialKey]); partial != "" {
			name = partial
		}
	}
	tpl, err := r.template(name)
	if err != nil {
		return nil, err
	}

	form := buildForm(tree, r.cfg.action, r.cfg.submit)
	r.sanitize(&form)

	data := pongo2.Context{
		"form":   form,
		"theme":  buildThemeContext(r.cfg.theme),
		"locale": r.cfg.locale,
	}
	if r.cfg.inlineCSS {
		data["stylesheet"] = defaultStylesheet()
	}
	for name, fn := range r.cfg.funcs {
		data[name] = fn
	}

	out, err := tpl.ExecuteBytes(data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render %s: %w", name, err)
	}
	return out, nil
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[name]; ok {
		return tpl, nil
	}
	tpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("html renderer: load %s: %w", name, err)
	}
	r.cache[name] = tpl
	return tpl, nil
}

// sanitize re-applies the help policy; help is emitted unescaped.
func (r *Renderer) sanitize(form *formView) {
	for s := range form.Sections {
		section := &form.Sections[s]
		for f := range section.Fields {
			section.Fields[f].Help = r.cfg.policy.Sanitize(section.Fields[f].Help)
		}
		if section.Table == nil {
			continue
		}
		for row := range section.Table.Rows {
			cells := section.Table.Rows[row].Cells
			for c := range cells {
				cells[c].Help = r.cfg.policy.Sanitize(cells[c].Help)
			}
		}
	}
}
