// Package render walks a ready session's layout into a Tree of sections,
// attribute nodes and table rows, and applies field edits through the
// Controller. Output formats (HTML, terminal) consume the Tree.
package render
