package regions

import (
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
)

// MountPath returns the full mount path for the router under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes mounts the regions router under basePath on r.
func RegisterRoutes(r chi.Router, basePath string, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(r, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions mounts a router built from opts.
func RegisterRoutesWithOptions(r chi.Router, basePath string, opts Options) (string, error) {
	if r == nil {
		return "", fmt.Errorf("regions: missing router")
	}
	opts = opts.normalized()
	pattern := mountPath(basePath, opts.RoutePath)
	r.Mount(pattern, RouterWithOptions(opts))
	return pattern, nil
}

// mountPath joins basePath and routePath into a rooted pattern.
func mountPath(basePath, routePath string) string {
	route := "/" + strings.Trim(strings.TrimSpace(routePath), "/")
	base := strings.Trim(strings.TrimSpace(basePath), "/")
	if base == "" {
		return route
	}
	return "/" + base + strings.TrimSuffix(route, "/")
}
