package render

import (
	"fmt"
	"strings"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey is read when templates pass a map instead of a locale
	// string. Defaults to "locale".
	LocaleKey string
	// FuncName names the translate helper. Defaults to "translate".
	FuncName  string
	OnMissing MissingTranslationHandler
}

// LocaleSource is implemented by template data that knows its locale.
type LocaleSource interface {
	Locale() string
}

// TemplateI18nFuncs returns helpers for template contexts:
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
//
// localeSrc is a locale string, a map holding LocaleKey or a LocaleSource.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	key := strings.TrimSpace(cfg.LocaleKey)
	if key == "" {
		key = "locale"
	}
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	missing := cfg.OnMissing
	if missing == nil {
		missing = func(_, msgKey, _ string, _ error) string { return msgKey }
	}
	locale := func(src any) string { return localeOf(src, key) }

	return map[string]any{
		name: func(src any, msgKey string, params ...any) string {
			msgKey = strings.TrimSpace(msgKey)
			if msgKey == "" {
				return ""
			}
			loc := locale(src)
			if t == nil {
				return missing(loc, msgKey, "", ErrMissingTranslator)
			}
			msg, err := t.Translate(loc, msgKey, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return missing(loc, msgKey, "", err)
			}
			return msg
		},
		"current_locale": locale,
	}
}

func localeOf(src any, key string) string {
	switch v := src.(type) {
	case string:
		return strings.TrimSpace(v)
	case LocaleSource:
		return strings.TrimSpace(v.Locale())
	case map[string]string:
		return strings.TrimSpace(v[key])
	case map[string]any:
		if raw, ok := v[key]; ok && raw != nil {
			return strings.TrimSpace(fmt.Sprint(raw))
		}
	}
	return ""
}
