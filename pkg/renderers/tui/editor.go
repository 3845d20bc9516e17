package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/render"
	"github.com/goliatone/go-uirenderer/pkg/validation"
)

// Editor walks a session's rendered tree in the terminal and applies every
// answer through a render.Controller. The tree is re-rendered after each
// answer so attributes revealed by a dependency are asked as well.
type Editor struct {
	driver    PromptDriver
	renderer  *render.Renderer
	format    OutputFormat
	maxPasses int
	theme     Theme
	plain     *bluemonday.Policy
}

// New constructs an Editor with the survey driver and JSON output.
func New(options ...Option) *Editor {
	e := &Editor{
		format:    OutputFormatJSON,
		maxPasses: 3,
		plain:     bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	if e.renderer == nil {
		e.renderer = render.New()
	}
	return e
}

// Edit prompts for every editable attribute and returns the resulting
// record. Fields failing validation are asked again up to the configured
// number of passes.
func (e *Editor) Edit(ctx context.Context, ctrl *render.Controller) (model.Record, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if ctrl == nil {
		return nil, render.ErrNotInitialized
	}
	if ctrl.Session().Mode.ReadOnly() {
		return nil, render.ErrReadOnly
	}

	var errs map[string][]string
	var result validation.Result
	for pass := 0; pass < e.maxPasses; pass++ {
		if err := e.pass(ctx, ctrl, errs); err != nil {
			return nil, err
		}
		result = ctrl.Validate()
		if result.Valid {
			return ctrl.Record(), nil
		}
		errs = result.Errors
		for _, id := range result.Fields() {
			_ = e.info(ctx, e.theme.ErrorPrefix, result.First(id))
		}
	}
	return ctrl.Record(), fmt.Errorf("%w: %w", ErrStillInvalid, result.Err())
}

// pass asks each editable node once. With only set, just nodes carrying an
// error are asked.
func (e *Editor) pass(ctx context.Context, ctrl *render.Controller, only map[string][]string) error {
	asked := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tree, err := e.renderer.Render(ctrl.Session(), render.RenderOptions{Errors: only})
		if err != nil {
			return err
		}
		node, ok := nextNode(tree, asked, only)
		if !ok {
			return nil
		}
		asked[nodeKey(node)] = struct{}{}
		if err := e.ask(ctx, ctrl, node); err != nil {
			return err
		}
	}
}

func nextNode(tree render.Tree, asked map[string]struct{}, only map[string][]string) (render.Node, bool) {
	var found render.Node
	var ok bool
	walk(tree.Sections, func(n render.Node) bool {
		if n.Control.ReadOnly || n.Control.Disabled {
			return true
		}
		if _, done := asked[nodeKey(n)]; done {
			return true
		}
		if only != nil && len(only[n.AttributeID]) == 0 {
			return true
		}
		found, ok = n, true
		return false
	})
	return found, ok
}

func walk(sections []render.SectionNode, fn func(render.Node) bool) bool {
	for _, section := range sections {
		for _, node := range section.Nodes {
			if !fn(node) {
				return false
			}
		}
		if section.Table != nil {
			for _, row := range section.Table.Rows {
				for _, cell := range row.Cells {
					if !fn(cell) {
						return false
					}
				}
			}
		}
		if !walk(section.Sections, fn) {
			return false
		}
	}
	return true
}

func nodeKey(n render.Node) string {
	return fmt.Sprintf("%s#%d", n.AttributeID, n.Row)
}

// ask prompts until the controller accepts the answer without inline errors.
func (e *Editor) ask(ctx context.Context, ctrl *render.Controller, node render.Node) error {
	for {
		value, err := e.prompt(ctx, node)
		if err != nil {
			return err
		}
		result, err := ctrl.Change(render.ChangeEvent{AttributeID: node.AttributeID, Value: value, Row: node.Row})
		if err != nil {
			return err
		}
		if len(result.Errors) == 0 {
			return nil
		}
		for _, message := range result.Errors {
			_ = e.info(ctx, e.theme.ErrorPrefix, message)
		}
		node.Control.Value = result.Value
	}
}

func (e *Editor) prompt(ctx context.Context, node render.Node) (any, error) {
	c := node.Control
	message := e.message(node)
	help := strings.TrimSpace(e.plain.Sanitize(c.Help))

	if len(c.Children) > 0 {
		return e.promptComposite(ctx, node, message)
	}

	switch {
	case (c.Kind == model.KindCheckbox && len(c.Options) == 0) || c.Kind == model.KindToggle:
		checked, _ := c.Value.(bool)
		return e.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked, Help: help})
	case attribute.IsListKind(c.Kind) || c.Kind == model.KindCheckbox:
		options := optionLabels(c.Options)
		selected := attribute.NormalizeIdentifiers(c.Value)
		var defaults []int
		for i, option := range c.Options {
			if attribute.ContainsIdentifier(selected, option.Identifier()) {
				defaults = append(defaults, i)
			}
		}
		picked, err := e.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: options, Defaults: defaults, Help: help})
		if err != nil {
			return nil, err
		}
		sort.Ints(picked)
		out := make([]any, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(c.Options) {
				out = append(out, c.Options[idx].Identifier())
			}
		}
		return out, nil
	case len(c.Options) > 0:
		return e.promptSelect(ctx, message, help, c.Options, c.Value)
	case c.Kind == model.KindTextarea:
		return e.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: text(c.Value), Help: help})
	default:
		return e.driver.Input(ctx, InputConfig{Message: message, Default: text(c.Value), Help: help})
	}
}

func (e *Editor) promptSelect(ctx context.Context, message, help string, options []model.Option, value any) (any, error) {
	defaultIndex := -1
	for i, option := range options {
		if attribute.SameIdentifier(option.Identifier(), attribute.NormalizeIdentifier(value)) {
			defaultIndex = i
			break
		}
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: message, Options: optionLabels(options), DefaultIndex: defaultIndex, Help: help})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(options) {
		return nil, nil
	}
	return options[idx].Identifier(), nil
}

// promptComposite asks each child and folds the answers into a sub-record
// keyed by the child names (address parts, currency amount and code).
func (e *Editor) promptComposite(ctx context.Context, node render.Node, message string) (any, error) {
	out := make(map[string]any, len(node.Control.Children))
	if current, ok := model.AsMap(node.Control.Value); ok {
		for key, value := range current {
			out[key] = value
		}
	}
	for _, child := range node.Control.Children {
		name := child.Attr("name")
		if name == "" {
			continue
		}
		label := message + " / " + labelFor(child, name)
		var (
			value any
			err   error
		)
		if len(child.Options) > 0 {
			value, err = e.promptSelect(ctx, label, "", child.Options, child.Value)
		} else {
			value, err = e.driver.Input(ctx, InputConfig{Message: label, Default: text(child.Value)})
		}
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}

func (e *Editor) message(node render.Node) string {
	label := node.Label
	if label == "" {
		label = node.AttributeID
	}
	if node.Row != attribute.NoRow {
		label = fmt.Sprintf("%s [%d]", label, node.Row+1)
	}
	if node.Required {
		label += " *"
	}
	return e.theme.PromptPrefix + label
}

func (e *Editor) info(ctx context.Context, prefix, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	if prefix == "" {
		prefix = e.theme.InfoPrefix
	}
	return e.driver.Info(ctx, prefix+msg)
}

func labelFor(c fields.Control, name string) string {
	if placeholder := c.Attr("placeholder"); placeholder != "" {
		return placeholder
	}
	return name
}

func optionLabels(options []model.Option) []string {
	out := make([]string, len(options))
	for i, option := range options {
		out[i] = option.Text()
		if out[i] == "" {
			out[i] = text(option.Identifier())
		}
	}
	return out
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
