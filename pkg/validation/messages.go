package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Message keys passed to a Translator. Arguments are the attribute label
// followed by the bound, when there is one.
const (
	KeyRequired  = "validation.required"
	KeyMin       = "validation.min"
	KeyMax       = "validation.max"
	KeyMinLength = "validation.minLength"
	KeyMaxLength = "validation.maxLength"
	KeyEmail     = "validation.email"
	KeyURL       = "validation.url"
)

var defaultMessages = map[string]string{
	KeyRequired:  "%s is required",
	KeyMin:       "%s must be at least %v",
	KeyMax:       "%s must be at most %v",
	KeyMinLength: "%s must be at least %v characters",
	KeyMaxLength: "%s must be at most %v characters",
	KeyEmail:     "%s must be a valid email address",
	KeyURL:       "%s must be a valid URL",
}

// ErrMissingTranslator is passed to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("validation: translator not configured")

// Translator localizes message keys.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text used when a key cannot be
// translated. fallback is the English message.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

func fallbackMessage(_ string, _ string, fallback string, _ error) string {
	return fallback
}

func (v *Validator) message(key string, args ...any) string {
	fallback := fmt.Sprintf(defaultMessages[key], args...)
	if v.translator == nil {
		return v.onMissing(v.locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := v.translator.Translate(v.locale, key, args...)
	if err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	return v.onMissing(v.locale, key, fallback, err)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
