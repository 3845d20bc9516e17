package layout

import (
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Options resolves the selectable options of attr: its own options, then a
// config list matched by attribute id (status, priority, type), then the
// options of its right-hand definition.
func Options(attr model.Attribute, lists Lists) []model.Option {
	if len(attr.Options) > 0 {
		return append([]model.Option(nil), attr.Options...)
	}

	id := strings.ToLower(attr.AttributeID)
	switch {
	case strings.Contains(id, "status"):
		return listOptions(lists.Statuses, "statusId", "statusName", "statusCode")
	case strings.Contains(id, "priority"):
		return listOptions(lists.Priorities, "id", "name", "code")
	case strings.Contains(id, "type"):
		return listOptions(lists.Types, "typeId", "typeName", "typeCode")
	}

	if right, ok := attr.FirstRight(); ok && len(right.Options) > 0 {
		return append([]model.Option(nil), right.Options...)
	}
	return nil
}

func listOptions(items []map[string]any, idKey, nameKey, codeKey string) []model.Option {
	if len(items) == 0 {
		return []model.Option{}
	}
	out := make([]model.Option, 0, len(items))
	for _, item := range items {
		out = append(out, model.Option{
			ID:   firstPresent(item, idKey, "id"),
			Name: scalarString(firstPresent(item, nameKey, "name")),
			Code: scalarString(firstPresent(item, codeKey, "code")),
		})
	}
	return out
}

func firstPresent(item map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := item[key]; ok && value != nil && value != "" {
			return value
		}
	}
	return nil
}
