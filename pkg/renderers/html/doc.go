// Package html renders a render.Tree as a server-side HTML form using pongo2
// templates, optional go-theme tokens and sanitized help text.
package html
