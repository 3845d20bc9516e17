package session

import "github.com/goliatone/go-uirenderer/pkg/model"

// PhoneEmailNormalizer rewrites phone/email values of a record according to
// account settings. Implementations must not mutate the session they
// receive; they return the record to store.
type PhoneEmailNormalizer interface {
	NormalizePhoneEmail(s Session) (model.Record, error)
}

// PhoneEmailNormalizerFunc adapts a function into a PhoneEmailNormalizer.
type PhoneEmailNormalizerFunc func(s Session) (model.Record, error)

// NormalizePhoneEmail delegates to the underlying function.
func (fn PhoneEmailNormalizerFunc) NormalizePhoneEmail(s Session) (model.Record, error) {
	return fn(s)
}

// RefAppResolver resolves cross-object (reference app) attributes.
type RefAppResolver interface {
	ResolveRefAppAttributes(s Session) (map[string][]string, error)
}

// RefAppResolverFunc adapts a function into a RefAppResolver.
type RefAppResolverFunc func(s Session) (map[string][]string, error)

// ResolveRefAppAttributes delegates to the underlying function.
func (fn RefAppResolverFunc) ResolveRefAppAttributes(s Session) (map[string][]string, error) {
	return fn(s)
}

// SectionRule decides whether an enabled, visible section is valid for the
// session mode. The default rule accepts every section.
type SectionRule interface {
	Allow(section model.Section, s Session) bool
}

// SectionRuleFunc adapts a function into a SectionRule.
type SectionRuleFunc func(section model.Section, s Session) bool

// Allow delegates to the underlying function.
func (fn SectionRuleFunc) Allow(section model.Section, s Session) bool {
	return fn(section, s)
}

type allowAll struct{}

func (allowAll) Allow(model.Section, Session) bool { return true }
