package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/layout"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/session"
	"github.com/goliatone/go-uirenderer/pkg/visibility"
	"github.com/goliatone/go-uirenderer/pkg/visibility/expr"
)

var (
	// ErrNotInitialized is returned when rendering a session that is not
	// ready. Failed sessions wrap their initialization error as well.
	ErrNotInitialized = errors.New("render: session not initialized")

	metaLabelKey = "labelKey"
	metaTitleKey = "titleKey"
)

// Option customises a Renderer.
type Option func(*Renderer)

// WithRegistry sets the field registry used to bind attributes.
func WithRegistry(reg *fields.Registry) Option {
	return func(r *Renderer) {
		if reg != nil {
			r.fields = reg
		}
	}
}

// WithEvaluator sets the visibleWhen evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(r *Renderer) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer turns a ready session into a Tree.
type Renderer struct {
	fields    *fields.Registry
	evaluator visibility.Evaluator
	logger    *slog.Logger
}

// New constructs a Renderer with the builtin field registry and expression
// evaluator.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.fields == nil {
		r.fields = fields.NewRegistry(fields.WithLogger(r.logger))
	}
	if r.evaluator == nil {
		r.evaluator = expr.New()
	}
	return r
}

// Fields exposes the field registry.
func (r *Renderer) Fields() *fields.Registry {
	return r.fields
}

// Render walks the session layout. Sections left without renderable content
// are omitted.
func (r *Renderer) Render(sess *session.Session, opts RenderOptions) (Tree, error) {
	if !sess.Ready() {
		if sess != nil && sess.Err != nil {
			return Tree{}, fmt.Errorf("%w: %w", ErrNotInitialized, sess.Err)
		}
		return Tree{}, ErrNotInitialized
	}

	w := walker{
		renderer: r,
		sess:     sess,
		opts:     opts,
		format:   opts.Format,
		subset:   opts.Subset.matcher(),
	}
	if w.format.CurrencyFormat == "" {
		w.format.CurrencyFormat = sess.CurrencyFormat
	}

	tree := Tree{
		SessionID:  sess.ID,
		ObjectID:   sess.ObjectID,
		Mode:       sess.Mode,
		Sections:   w.sections(sess.Layout.Sections, false),
		FormErrors: normalizeMessages(opts.FormErrors),
		Hidden:     MergeHiddenFields(SessionFields(sess), opts.Hidden...),
	}
	if opts.Translator != nil {
		tree = LocalizeTree(tree, opts.Locale, opts.Translator, opts.OnMissing)
	}
	return tree, nil
}

type walker struct {
	renderer *Renderer
	sess     *session.Session
	opts     RenderOptions
	format   fields.FormatOptions
	subset   *subsetMatcher
}

func (w *walker) sections(sections []model.Section, parentSelected bool) []SectionNode {
	var out []SectionNode
	for _, section := range sections {
		if node, ok := w.section(section, parentSelected); ok {
			out = append(out, node)
		}
	}
	return out
}

func (w *walker) section(section model.Section, parentSelected bool) (SectionNode, bool) {
	if section.IsVisible.False() || section.IsEnabled.False() {
		return SectionNode{}, false
	}
	node := SectionNode{
		ID:          section.Key(),
		Title:       section.Title(),
		TitleKey:    metaString(section.Meta, metaTitleKey),
		Kind:        section.SectionType,
		Collapsible: collapsible(section),
		Expanded:    w.opts.Collapse.Expanded(section),
	}
	if node.Kind == "" {
		node.Kind = model.SectionTypeForm
	}
	sectionSelected := parentSelected || w.subset.section(section.Key())

	if section.IsTable() {
		if sectionSelected {
			node.Table = w.table(section)
		}
	} else {
		for _, attr := range section.Attributes {
			if !sectionSelected && !w.subset.explicitAttribute(attr) {
				continue
			}
			if n, ok := w.node(attr, attribute.NoRow, nil); ok {
				node.Nodes = append(node.Nodes, n)
			}
		}
	}
	node.Sections = w.sections(section.Sections, sectionSelected)

	if len(node.Nodes) == 0 && node.Table == nil && len(node.Sections) == 0 {
		return SectionNode{}, false
	}
	return node, true
}

func (w *walker) table(section model.Section) *TableNode {
	lineType := section.RowKey()
	var columns []model.Attribute
	for _, attr := range section.TableAttributes() {
		if attr.LineType == "" {
			attr.LineType = lineType
		}
		attr.IsTableAttribute = true
		if !w.columnVisible(attr) || (w.subset.mandatoryOnly && !attribute.IsMandatory(attr)) {
			continue
		}
		columns = append(columns, attr)
	}
	if len(columns) == 0 {
		return nil
	}

	table := &TableNode{LineType: lineType}
	for _, attr := range columns {
		table.Header = append(table.Header, HeaderCell{
			AttributeID: attribute.ID(attr),
			Label:       attribute.Label(attr),
			LabelKey:    metaString(attr.Meta, metaLabelKey),
			Required:    attribute.IsMandatory(attr),
		})
	}

	rows, _ := w.sess.Record.Rows(lineType)
	for i, raw := range rows {
		rowValues, _ := model.AsMap(raw)
		row := RowNode{Index: i}
		for _, attr := range columns {
			if n, ok := w.node(attr, i, rowValues); ok {
				row.Cells = append(row.Cells, n)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (w *walker) columnVisible(attr model.Attribute) bool {
	if !attribute.IsVisible(attr) || !attribute.IsEnabled(attr) || attribute.IsDependencyHidden(attr) {
		return false
	}
	return !(w.opts.HideDisabled && attribute.IsDisabled(attr))
}

func (w *walker) node(attr model.Attribute, row int, rowValues map[string]any) (Node, bool) {
	if !w.columnVisible(attr) {
		return Node{}, false
	}
	if w.subset.mandatoryOnly && !attribute.IsMandatory(attr) {
		return Node{}, false
	}
	id := attribute.ID(attr)
	if !w.visible(id, attr, rowValues) {
		return Node{}, false
	}

	field := w.renderer.fields.Bind(attr,
		fields.WithOptions(layout.Options(attr, w.sess.Lists)),
		fields.WithStates(w.opts.States),
		fields.WithDisabled(w.sess.DisableAllFields),
		fields.WithFormat(w.format),
	)

	var onChange fields.ChangeFunc
	if w.opts.OnChange != nil {
		notify := w.opts.OnChange
		onChange = func(value any) {
			notify(ChangeEvent{AttributeID: id, Value: value, Row: row})
		}
	}

	value := attribute.GetValue(attr, w.sess.Record, row)
	return Node{
		AttributeID: id,
		TagName:     attribute.TagName(attr),
		Label:       attribute.Label(attr),
		LabelKey:    metaString(attr.Meta, metaLabelKey),
		Required:    attribute.IsMandatory(attr),
		Row:         row,
		Control:     field.Render(value, w.sess.Mode, onChange),
		Errors:      normalizeMessages(w.opts.Errors[id]),
		Dependents:  w.sess.DependentsOf(id),
	}, true
}

func (w *walker) visible(id string, attr model.Attribute, rowValues map[string]any) bool {
	if attr.Dependency == nil || strings.TrimSpace(attr.Dependency.VisibleWhen) == "" {
		return true
	}
	ok, err := w.renderer.evaluator.Eval(id, attr.Dependency.VisibleWhen, visibility.Context{
		Values: w.sess.Record,
		Row:    rowValues,
		Extras: map[string]any{"mode": string(w.sess.Mode)},
	})
	if err != nil {
		w.renderer.logger.Warn("visibility rule failed",
			slog.String("attribute", id),
			slog.String("rule", attr.Dependency.VisibleWhen),
			slog.Any("error", err),
		)
		return true
	}
	return ok
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if s, ok := meta[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
