package render

import (
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

// ChangeEvent is the single edit notification: attribute, new raw value and
// the table row (attribute.NoRow outside tables).
type ChangeEvent struct {
	AttributeID string
	Value       any
	Row         int
}

// RenderOptions describe per-call data that does not belong to the session.
type RenderOptions struct {
	// HideDisabled drops attributes flagged disableField instead of drawing
	// them disabled.
	HideDisabled bool
	// Errors attaches validation messages by attribute id.
	Errors map[string][]string
	// FormErrors are messages not bound to an attribute.
	FormErrors []string
	// Collapse carries the user's section collapse state.
	Collapse *CollapseState
	// Format tunes read-only formatting. The session's currency format is
	// used when Format.CurrencyFormat is empty.
	Format fields.FormatOptions
	// States feeds address state selects.
	States []model.Option
	// OnChange receives edits from rendered controls.
	OnChange func(ChangeEvent)
	// Subset limits the rendered sections and attributes.
	Subset Subset
	// Hidden fields emitted alongside the form.
	Hidden []HiddenField

	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
