package html

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeStylesheetKey is the asset key resolved for a theme stylesheet.
const ThemeStylesheetKey = "uirenderer.stylesheet"

type rendererTheme struct {
	Name          string
	Variant       string
	Partials      map[string]string
	Tokens        map[string]string
	CSSVars       map[string]string
	CSSVarsStyle  string
	StylesheetURL string
	JSON          string
}

// ThemeConfig derives renderer configuration from a theme selection: the
// manifest tokens and templates with the selected variant layered on top,
// CSS variables named after the tokens and an asset resolver rooted at the
// manifest prefix.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("html renderer: theme selection has no manifest")
	}
	manifest := selection.Manifest

	partials := copyStringMap(fallbacks)
	tokens := copyStringMap(manifest.Tokens)
	files := copyStringMap(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	partials = mergeStrings(partials, manifest.Templates)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:     cfg.Theme,
		Variant:  cfg.Variant,
		Partials: copyStringMap(cfg.Partials),
		Tokens:   copyStringMap(cfg.Tokens),
		CSSVars:  copyStringMap(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.StylesheetURL = cfg.AssetURL(ThemeStylesheetKey)
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	ctx.JSON = themeJSON(ctx)
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(overlay))
	}
	for key, value := range overlay {
		base[key] = value
	}
	return base
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(".ui-form {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func themeJSON(cfg rendererTheme) string {
	payload := struct {
		Name    string            `json:"name,omitempty"`
		Variant string            `json:"variant,omitempty"`
		Tokens  map[string]string `json:"tokens,omitempty"`
		CSSVars map[string]string `json:"cssVars,omitempty"`
	}{cfg.Name, cfg.Variant, cfg.Tokens, cfg.CSSVars}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}
