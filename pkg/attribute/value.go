package attribute

import (
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// NoRow addresses the top-level record instead of a table row.
const NoRow = -1

// GetValue reads the attribute value from record. Table attributes read
// record[lineType][row][tagName] when row >= 0; everything else reads
// record[tagName]. Returns nil when the tag name cannot be resolved, the
// record is nil or the row does not exist.
func GetValue(attr model.Attribute, record model.Record, row int) any {
	if record == nil {
		return nil
	}
	tagName := TagName(attr)
	if tagName == "" {
		return nil
	}
	if row >= 0 && attr.IsTableAttribute && attr.LineType != "" {
		rows, ok := record.Rows(attr.LineType)
		if !ok || row >= len(rows) {
			return nil
		}
		cells, ok := model.AsMap(rows[row])
		if !ok {
			return nil
		}
		return cells[tagName]
	}
	return record[tagName]
}

// SetValue writes value into record and returns it. Table attributes write
// record[lineType][row][tagName], growing the row list to exactly row+1
// entries and creating row maps as needed. Values of tags and multi-select
// attributes are reduced to identifier lists first. A nil record or an
// unresolvable tag name leaves the record untouched.
func SetValue(attr model.Attribute, record model.Record, value any, row int) model.Record {
	if record == nil {
		return record
	}
	tagName := TagName(attr)
	if tagName == "" {
		return record
	}
	if IsListKind(Classify(attr)) {
		value = NormalizeIdentifiers(value)
	}

	if row >= 0 && attr.IsTableAttribute && attr.LineType != "" {
		rows, _ := record.Rows(attr.LineType)
		for len(rows) <= row {
			rows = append(rows, map[string]any{})
		}
		cells, ok := model.AsMap(rows[row])
		if !ok || cells == nil {
			cells = map[string]any{}
		}
		cells[tagName] = value
		rows[row] = cells
		record[attr.LineType] = rows
		return record
	}

	record[tagName] = value
	return record
}
