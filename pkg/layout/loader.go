package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds raw configuration payloads keyed by object type.
type Store struct {
	configs map[string]map[string]any
}

// LoadFS walks fsys and parses every JSON/YAML layout document. The object
// type of a document is its `objectType` key, falling back to the file name
// without extension. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{configs: make(map[string]map[string]any)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isLayoutFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("layout: read %s: %w", p, err)
		}
		doc, err := ParseDocument(data, p)
		if err != nil {
			return err
		}

		objectType := strings.TrimSpace(scalarString(doc["objectType"]))
		if objectType == "" {
			base := path.Base(p)
			objectType = strings.TrimSuffix(base, path.Ext(base))
		}
		if _, exists := store.configs[objectType]; exists {
			return fmt.Errorf("layout: duplicate object type %q (file %s)", objectType, p)
		}
		store.configs[objectType] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ParseDocument decodes a JSON or YAML document into a generic payload.
// JSON is attempted first.
func ParseDocument(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &ConfigParseError{Source: source, Err: fmt.Errorf("file is empty")}
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	var node map[string]any
	if err := yaml.Unmarshal(data, &node); err == nil && node != nil {
		return normalizeYAML(node).(map[string]any), nil
	}

	return nil, &ConfigParseError{Source: source, Err: fmt.Errorf("invalid JSON or YAML")}
}

// FetchConfig returns a copy of the payload registered for objectType.
func (s *Store) FetchConfig(_ context.Context, objectType string) (map[string]any, error) {
	if s == nil {
		return nil, &MissingLayoutError{Reason: "no layouts loaded"}
	}
	doc, ok := s.configs[strings.TrimSpace(objectType)]
	if !ok {
		return nil, &MissingLayoutError{Reason: fmt.Sprintf("no layout for object type %q", objectType)}
	}
	return normalizeYAML(doc).(map[string]any), nil
}

// ObjectTypes lists the loaded object types in sorted order.
func (s *Store) ObjectTypes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.configs))
	for key := range s.configs {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// normalizeYAML copies a decoded document, converting YAML-only shapes
// (map[any]any, ints) into their JSON equivalents.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeYAML(item)
		}
		return out
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return value
	}
}

func isLayoutFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
