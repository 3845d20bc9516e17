package regions

import (
	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Component bundles the regions options, data and router.
type Component struct {
	opts Options
}

// New constructs a component with default options plus overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts.normalized()
}

// Data returns the configured lists, falling back to the embedded data.
func (c *Component) Data() (Data, error) {
	if c != nil && c.opts.Data != nil {
		return c.opts.Data.Clone(), nil
	}
	return DefaultData()
}

// Countries feeds address country selects.
func (c *Component) Countries() []model.Option {
	data, err := c.Data()
	if err != nil {
		return nil
	}
	return data.Countries
}

// States feeds render.RenderOptions.States; address fields filter it by the
// selected country.
func (c *Component) States() []model.Option {
	data, err := c.Data()
	if err != nil {
		return nil
	}
	return data.States
}

// Router returns the component router.
func (c *Component) Router() chi.Router {
	return RouterWithOptions(c.Options())
}

// RegisterRoutes mounts the router under basePath.
func (c *Component) RegisterRoutes(r chi.Router, basePath string) (string, error) {
	return RegisterRoutesWithOptions(r, basePath, c.Options())
}
