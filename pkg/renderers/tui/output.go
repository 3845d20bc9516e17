package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/model"
	"github.com/goliatone/go-uirenderer/pkg/render"
)

// Text prints a render.Tree as indented plain text. It implements
// render.Output.
type Text struct{}

// Name implements render.Output.
func (Text) Name() string { return "text" }

// ContentType implements render.Output.
func (Text) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements render.Output.
func (Text) Render(ctx context.Context, tree render.Tree) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, message := range tree.FormErrors {
		fmt.Fprintf(&b, "! %s\n", message)
	}
	writeSections(&b, tree.Sections, 0)
	return []byte(b.String()), nil
}

func writeSections(b *strings.Builder, sections []render.SectionNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, section := range sections {
		if section.Title != "" {
			marker := "v"
			if !section.Expanded {
				marker = ">"
			}
			fmt.Fprintf(b, "%s%s %s\n", indent, marker, section.Title)
		}
		if !section.Expanded {
			continue
		}
		for _, node := range section.Nodes {
			writeNode(b, indent+"  ", node)
		}
		if section.Table != nil {
			labels := make([]string, len(section.Table.Header))
			for i, cell := range section.Table.Header {
				labels[i] = cell.Label
			}
			fmt.Fprintf(b, "%s  | %s |\n", indent, strings.Join(labels, " | "))
			for _, row := range section.Table.Rows {
				cells := make([]string, len(row.Cells))
				for i, cell := range row.Cells {
					cells[i] = nodeText(cell)
				}
				fmt.Fprintf(b, "%s  | %s |\n", indent, strings.Join(cells, " | "))
			}
		}
		writeSections(b, section.Sections, depth+1)
	}
}

func writeNode(b *strings.Builder, indent string, node render.Node) {
	label := node.Label
	if node.Required {
		label += "*"
	}
	fmt.Fprintf(b, "%s%s: %s\n", indent, label, nodeText(node))
	for _, message := range node.Errors {
		fmt.Fprintf(b, "%s  ! %s\n", indent, message)
	}
}

func nodeText(node render.Node) string {
	if node.Control.Display != "" {
		return node.Control.Display
	}
	switch v := node.Control.Value.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = text(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		pretty := strings.TrimSpace(prettyPrint(v))
		return strings.ReplaceAll(pretty, "\n", "; ")
	default:
		return text(v)
	}
}

// Serialize encodes record in the editor's output format.
func (e *Editor) Serialize(record model.Record) ([]byte, error) {
	values := map[string]any(record)
	switch e.format {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

// ContentType reports the media type produced by Serialize.
func (e *Editor) ContentType() string {
	switch e.format {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for i, val := range v {
			if _, nested := val.(map[string]any); nested {
				flatten(fmt.Sprintf("%s[%d]", prefix, i), val, out)
				continue
			}
			out.Add(prefix+"[]", text(val))
		}
	default:
		out.Set(prefix, text(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
