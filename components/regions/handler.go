package regions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// HTTPError lets guard errors choose the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a ready-made HTTPError.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode())
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// NewRouter builds the regions router with default options plus overrides.
func NewRouter(fns ...OptionFn) chi.Router {
	return RouterWithOptions(NewOptions(fns...))
}

// RouterWithOptions builds the router relative to its mount point: it
// serves /countries and /countries/{country}/states for GET and HEAD.
func RouterWithOptions(opts Options) chi.Router {
	h := &handler{opts: opts.normalized()}

	r := chi.NewRouter()
	if h.opts.Guard != nil {
		r.Use(h.guard)
	}
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		r.MethodFunc(method, "/countries", h.countries)
		r.MethodFunc(method, "/countries/{country}/states", h.states)
	}
	return r
}

type handler struct {
	opts Options
}

func (h *handler) data() (Data, error) {
	if h.opts.Data != nil {
		return *h.opts.Data, nil
	}
	return DefaultData()
}

func (h *handler) countries(w http.ResponseWriter, r *http.Request) {
	data, err := h.data()
	if err != nil {
		writeStatus(w, http.StatusInternalServerError)
		return
	}
	h.write(w, r, data.Countries)
}

func (h *handler) states(w http.ResponseWriter, r *http.Request) {
	data, err := h.data()
	if err != nil {
		writeStatus(w, http.StatusInternalServerError)
		return
	}
	country := strings.TrimSpace(chi.URLParam(r, "country"))
	if !data.HasCountry(country) {
		writeStatus(w, http.StatusNotFound)
		return
	}
	h.write(w, r, data.StatesOf(country))
}

func (h *handler) write(w http.ResponseWriter, r *http.Request, options []model.Option) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get(h.opts.LimitParam))
	results := SearchOptions(options, query.Get(h.opts.SearchParam), limit, h.opts)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(struct {
		Data []Option `json:"data"`
	}{Data: results})
}

func (h *handler) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h.opts.Guard(r)
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}
		code := http.StatusForbidden
		var httpErr HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode() > 0 {
			code = httpErr.StatusCode()
		}
		writeStatus(w, code)
	})
}

func writeStatus(w http.ResponseWriter, code int) {
	http.Error(w, http.StatusText(code), code)
}
