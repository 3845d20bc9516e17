package regions

import (
	"net/http"
	"strings"
)

// EmptySearchMode decides what a lookup without a query returns.
type EmptySearchMode string

const (
	// EmptySearchNone returns no options until the user types.
	EmptySearchNone EmptySearchMode = "none"
	// EmptySearchAll returns the first page of options.
	EmptySearchAll EmptySearchMode = "all"
)

// GuardFunc authorizes a lookup request. Errors implementing HTTPError pick
// the status code; anything else is a 403.
type GuardFunc func(r *http.Request) error

// Options configure the lookup endpoints.
type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	// Data replaces the embedded lists when non-nil.
	Data *Data
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions serves /api/regions with ?q= and ?limit= (100, capped at
// 500) and lists everything on an empty query.
func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/regions",
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    100,
		MaxLimit:        500,
		EmptySearchMode: EmptySearchAll,
	}
}

// NewOptions applies fns over DefaultOptions, restoring defaults for zeroed
// fields.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	return opts.normalized()
}

func (o Options) normalized() Options {
	defaults := DefaultOptions()
	o.RoutePath = orDefault(o.RoutePath, defaults.RoutePath)
	o.SearchParam = orDefault(o.SearchParam, defaults.SearchParam)
	o.LimitParam = orDefault(o.LimitParam, defaults.LimitParam)
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = defaults.DefaultLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = defaults.MaxLimit
	}
	if o.EmptySearchMode != EmptySearchNone {
		o.EmptySearchMode = EmptySearchAll
	}
	if o.Data != nil {
		data := o.Data.Clone()
		o.Data = &data
	}
	return o
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

// WithLimits sets the page size used without ?limit= and the hard cap.
func WithLimits(defaultLimit, maxLimit int) OptionFn {
	return func(o *Options) {
		o.DefaultLimit, o.MaxLimit = defaultLimit, maxLimit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) { o.EmptySearchMode = mode }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithData serves data instead of the embedded country and state lists.
func WithData(data Data) OptionFn {
	return func(o *Options) { o.Data = &data }
}

// pageSize resolves a requested limit: 0 means the default, negatives mean
// nothing.
func (o Options) pageSize(requested int) int {
	switch {
	case requested < 0:
		return 0
	case requested == 0:
		return o.DefaultLimit
	case o.MaxLimit > 0 && requested > o.MaxLimit:
		return o.MaxLimit
	}
	return requested
}
