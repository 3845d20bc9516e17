package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/session"
	"github.com/goliatone/go-uirenderer/pkg/validation"
)

var (
	// ErrUnknownAttribute is returned for edits naming no indexed attribute.
	ErrUnknownAttribute = errors.New("render: unknown attribute")
	// ErrReadOnly is returned for edits against a view-mode session.
	ErrReadOnly = errors.New("render: session is read-only")
	// ErrInvalidRow is returned for table edits without a row index.
	ErrInvalidRow = errors.New("render: table attribute requires a row")
)

// ChangeResult reports what an edit touched.
type ChangeResult struct {
	AttributeID string
	// Value is the parsed value stored in the record.
	Value any
	// Dependents are attributes whose visibility or options depend on the
	// edited one. References are reference fields reading from it.
	Dependents []string
	References []string
	Errors     []string
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithControllerFields sets the field registry used to parse input.
func WithControllerFields(reg *fields.Registry) ControllerOption {
	return func(c *Controller) {
		if reg != nil {
			c.fields = reg
		}
	}
}

// WithControllerValidator sets the validator used for inline errors.
func WithControllerValidator(v *validation.Validator) ControllerOption {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// Controller applies edits to a session. It serialises access so controls
// may report changes from several goroutines.
type Controller struct {
	mu        sync.Mutex
	sess      *session.Session
	fields    *fields.Registry
	validator *validation.Validator
}

// NewController binds a ready session.
func NewController(sess *session.Session, options ...ControllerOption) (*Controller, error) {
	if !sess.Ready() {
		return nil, ErrNotInitialized
	}
	c := &Controller{sess: sess}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.fields == nil {
		c.fields = fields.NewRegistry()
	}
	if c.validator == nil {
		c.validator = validation.New()
	}
	return c, nil
}

// Change parses ev.Value with the attribute's behavior and stores it.
func (c *Controller) Change(ev ChangeEvent) (ChangeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	attr, ok := c.sess.Attribute(ev.AttributeID)
	if !ok {
		return ChangeResult{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, ev.AttributeID)
	}
	if c.sess.Mode.ReadOnly() {
		return ChangeResult{}, ErrReadOnly
	}
	row := ev.Row
	switch {
	case !attr.IsTableAttribute:
		row = attribute.NoRow
	case row < 0:
		return ChangeResult{}, fmt.Errorf("%w: %q row %d", ErrInvalidRow, ev.AttributeID, row)
	}

	field := c.fields.Bind(attr, fields.WithOptions(layout.Options(attr, c.sess.Lists)))
	value := field.Parse(ev.Value)
	if c.sess.Record == nil {
		c.sess.Record = model.Record{}
	}
	c.sess.Record = attribute.SetValue(attr, c.sess.Record, value, row)
	if c.sess.Mode == model.ModeCreate {
		c.sess.Dirty = true
	}

	return ChangeResult{
		AttributeID: ev.AttributeID,
		Value:       attribute.GetValue(attr, c.sess.Record, row),
		Dependents:  c.sess.DependentsOf(ev.AttributeID),
		References:  append([]string(nil), c.sess.ReferenceFields[ev.AttributeID]...),
		Errors:      c.validator.ValidateField(attr, value, c.sess.Record),
	}, nil
}

// AddRow appends an empty row to a table section and returns its index.
func (c *Controller) AddRow(sectionID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	section, err := c.table(sectionID)
	if err != nil {
		return 0, err
	}
	if c.sess.Record == nil {
		c.sess.Record = model.Record{}
	}
	rows, _ := c.sess.Record.Rows(section.RowKey())
	rows = append(rows, map[string]any{})
	c.sess.Record[section.RowKey()] = rows
	c.markDirty()
	return len(rows) - 1, nil
}

// RemoveRow deletes row index from a table section.
func (c *Controller) RemoveRow(sectionID string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	section, err := c.table(sectionID)
	if err != nil {
		return err
	}
	rows, _ := c.sess.Record.Rows(section.RowKey())
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("render: table %q has no row %d", sectionID, index)
	}
	c.sess.Record[section.RowKey()] = append(rows[:index:index], rows[index+1:]...)
	c.markDirty()
	return nil
}

// Validate runs form validation over the current record.
func (c *Controller) Validate() validation.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validator.ValidateForm(c.sess.Layout.Sections, c.sess.Record)
}

// Record returns a copy of the current record.
func (c *Controller) Record() model.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Record.Clone()
}

// Dirty reports whether the session has unsaved edits.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Dirty
}

// Session returns the bound session. Callers must not edit it while the
// controller is in use.
func (c *Controller) Session() *session.Session {
	return c.sess
}

func (c *Controller) table(sectionID string) (model.Section, error) {
	if c.sess.Mode.ReadOnly() {
		return model.Section{}, ErrReadOnly
	}
	section, ok := c.sess.Section(sectionID)
	if !ok || !section.IsTable() {
		return model.Section{}, fmt.Errorf("render: %q is not a table section", sectionID)
	}
	return section, nil
}

func (c *Controller) markDirty() {
	if c.sess.Mode == model.ModeCreate {
		c.sess.Dirty = true
	}
}
