package uirenderer

import (
	"io/fs"

	"github.com/goliatone/go-uirenderer/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or override them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet shipped with the HTML renderer.
//
// Typical mount:
//
//	mux.Handle("/uirenderer/",
//	  http.StripPrefix("/uirenderer/",
//	    http.FileServerFS(uirenderer.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
