package tui

import (
	"github.com/goliatone/go-uirenderer/pkg/render"
)

// OutputFormat controls how the edited record is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithRenderer sets the tree renderer used between prompts.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Editor) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithOutputFormat selects the serialization used by Serialize.
func WithOutputFormat(format OutputFormat) Option {
	return func(e *Editor) {
		if format != "" {
			e.format = format
		}
	}
}

// WithMaxPasses bounds how often invalid fields are asked again.
func WithMaxPasses(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}
