package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/session"
)

// ErrorMapping splits a server error payload into attribute-level messages
// keyed by attribute id and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors appends extras to existing, trimming blanks and dropping
// repeats while keeping the first occurrence.
func MergeFormErrors(existing []string, extras ...string) []string {
	return normalizeMessages(append(append([]string(nil), existing...), extras...))
}

// MergeFieldErrors merges two attribute error maps.
func MergeFieldErrors(base, extra map[string][]string) map[string][]string {
	out := make(map[string][]string, len(base)+len(extra))
	for _, src := range []map[string][]string{base, extra} {
		for id, messages := range src {
			if merged := normalizeMessages(append(out[id], messages...)); len(merged) > 0 {
				out[id] = merged
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MapErrorPayload resolves server error paths (attribute ids, tag names,
// lineType.tagName or JSON pointers such as /record/items/0/qty) to
// attribute ids of sess. Paths that match nothing become form-level errors.
func MapErrorPayload(sess *session.Session, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	paths := errorPaths(sess)
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		id, ok := resolveErrorPath(key, paths)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[id] = normalizeMessages(append(mapping.Fields[id], messages...))
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		if _, dup := seen[message]; dup {
			continue
		}
		seen[message] = struct{}{}
		out = append(out, message)
	}
	return out
}

// envelopeSegments are leading path segments that wrap the record in server
// payloads.
var envelopeSegments = map[string]bool{
	"body": true, "request": true, "payload": true, "data": true,
	"attributes": true, "record": true, "objectidx": true,
}

// resolveErrorPath tries the raw segments, the segments without envelope
// prefixes and both without row indexes, keeping the longest prefix that
// names a known path.
func resolveErrorPath(raw string, paths map[string]string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return "", false
	}
	segments := splitErrorPath(raw)
	unwrapped := segments
	for len(unwrapped) > 0 && envelopeSegments[strings.ToLower(unwrapped[0])] {
		unwrapped = unwrapped[1:]
	}

	best, bestLen := "", 0
	for _, candidate := range [][]string{segments, unwrapped, withoutIndexes(segments), withoutIndexes(unwrapped)} {
		for n := len(candidate); n > bestLen; n-- {
			if id, ok := paths[strings.Join(candidate[:n], ".")]; ok {
				best, bestLen = id, n
				break
			}
		}
	}
	return best, best != ""
}

func splitErrorPath(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case '.', '/', '[', ']', '#', '$':
			return true
		}
		return false
	})
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~"))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func withoutIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err != nil {
			out = append(out, segment)
		}
	}
	return out
}

// errorPaths maps every addressable path (id, tag name, lineType.tagName) to
// its attribute id. Ids win over tag names that collide with them.
func errorPaths(sess *session.Session) map[string]string {
	paths := make(map[string]string)
	if sess == nil {
		return paths
	}
	layout.Walk(sess.Source.Sections, func(_ model.Section, attr model.Attribute) {
		id := attribute.ID(attr)
		if id == "" {
			return
		}
		paths[id] = id
		tag := attribute.TagName(attr)
		switch {
		case tag == "":
		case attr.IsTableAttribute && attr.LineType != "":
			paths[attr.LineType+"."+tag] = id
		default:
			if _, taken := paths[tag]; !taken {
				paths[tag] = id
			}
		}
	})
	return paths
}
