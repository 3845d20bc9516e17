package attribute

import (
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// IsMandatory reports whether the attribute must hold a value.
func IsMandatory(attr model.Attribute) bool {
	return attr.IsMandatory.True()
}

// IsDisabled reports whether the attribute is read-only.
func IsDisabled(attr model.Attribute) bool {
	return attr.DisableField.True()
}

// IsVisible reports whether the attribute is visible. Unset means visible.
func IsVisible(attr model.Attribute) bool {
	return attr.IsVisible.Or(true)
}

// IsEnabled reports whether the attribute is enabled. Unset means enabled.
func IsEnabled(attr model.Attribute) bool {
	return attr.IsEnabled.Or(true)
}

// IsDependencyHidden reports a dependency field whose dependency display is
// switched off.
func IsDependencyHidden(attr model.Attribute) bool {
	return attr.IsDependencyField.True() && attr.ShowDependency.False()
}

// IsCustom reports dynamically configured attributes.
func IsCustom(attr model.Attribute) bool {
	return attr.Type == model.TypeCustom
}

// Label returns modifiedLabel, then label name, then attributeName.
func Label(attr model.Attribute) string {
	if text := strings.TrimSpace(attr.Label.Text()); text != "" {
		return text
	}
	return attr.AttributeName
}

// ID returns attributeId, then id.
func ID(attr model.Attribute) string {
	return attr.Key()
}
