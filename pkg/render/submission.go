package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/session"
)

// Hidden field names carrying session context on submit.
const (
	HiddenSessionID = "_session"
	HiddenObjectID  = "_objectId"
	HiddenMode      = "_mode"
)

// HiddenField is a hidden input emitted alongside the form.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken carries an anti-forgery token under the backend's input name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SessionFields returns the hidden fields identifying sess on submit.
func SessionFields(sess *session.Session) []HiddenField {
	if sess == nil {
		return nil
	}
	var out []HiddenField
	if sess.ID != "" {
		out = append(out, Hidden(HiddenSessionID, sess.ID))
	}
	if sess.ObjectID != "" {
		out = append(out, Hidden(HiddenObjectID, sess.ObjectID))
	}
	if sess.Mode != "" {
		out = append(out, Hidden(HiddenMode, string(sess.Mode)))
	}
	return out
}

// MergeHiddenFields folds fields into a sorted, de-duplicated list. Empty
// names are dropped and later fields win on collisions.
func MergeHiddenFields(base []HiddenField, extra ...HiddenField) []HiddenField {
	values := make(map[string]string, len(base)+len(extra))
	for _, field := range append(append([]HiddenField(nil), base...), extra...) {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		values[name] = field.Value
	}
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: values[name]})
	}
	return out
}
