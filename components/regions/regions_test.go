package regions

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uirenderer/pkg/fields"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

func TestDefaultDataCoversDefaultCountries(t *testing.T) {
	data, err := DefaultData()
	if err != nil {
		t.Fatalf("DefaultData: %v", err)
	}
	for _, country := range fields.DefaultCountries {
		code := country.ID.(string)
		if !data.HasCountry(code) {
			t.Fatalf("missing default country %s", code)
		}
		if len(data.StatesOf(code)) == 0 {
			t.Fatalf("expected states for %s", code)
		}
	}
	if got := len(data.StatesOf("us")); got != 51 {
		t.Fatalf("expected 51 US states incl. DC, got %d", got)
	}

	states := fields.StatesFor("CA", data.States)
	if states[0].Name != "Alberta" {
		t.Fatalf("expected states sorted by name, got %q first", states[0].Name)
	}
}

func TestLoadRejectsMalformedLines(t *testing.T) {
	if _, err := Load(strings.NewReader("US,United States\n")); err == nil {
		t.Fatalf("expected error for two-column line")
	}
	data, err := Load(strings.NewReader("# comment\n\nus,,United States\nUS,,Duplicate\nus,ny,New York\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Data{
		Countries: []model.Option{{ID: "US", Name: "United States"}},
		States:    []model.Option{{ID: "NY", Name: "New York", CountryID: "US"}},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchRanksCodeThenPrefixThenSubstring(t *testing.T) {
	options := []model.Option{
		{ID: "NM", Name: "New Mexico"},
		{ID: "NY", Name: "New York"},
		{ID: "ME", Name: "Maine"},
		{ID: "DE", Name: "Delaware"},
	}
	got := Search(options, "me", 0, DefaultOptions())
	names := make([]string, len(got))
	for i, option := range got {
		names[i] = option.Name
	}
	if diff := cmp.Diff([]string{"Maine", "New Mexico"}, names); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}

	if got := Search(options, "", 0, NewOptions(WithEmptySearchMode(EmptySearchNone))); got != nil {
		t.Fatalf("expected no results for empty query, got %v", got)
	}
	if got := Search(options, "", 2, DefaultOptions()); len(got) != 2 {
		t.Fatalf("expected limit to apply to empty query, got %d", len(got))
	}
}

func TestRouterServesCountriesAndStates(t *testing.T) {
	r := chi.NewRouter()
	pattern, err := RegisterRoutes(r, "/admin")
	if err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	if pattern != "/admin/api/regions" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, pattern+"/countries?q=can", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]Option{{Value: "CA", Label: "Canada"}}, payload.Data); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, pattern+"/countries/gb/states?limit=2", nil))
	payload = handlerResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Option{
		{Value: "ENG", Label: "England", Country: "GB"},
		{Value: "NIR", Label: "Northern Ireland", Country: "GB"},
	}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, pattern+"/countries/zz/states", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown country, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, pattern+"/countries", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestGuardAndComponent(t *testing.T) {
	denied := StatusError{Code: http.StatusUnauthorized, Err: errors.New("login required")}
	component := New(
		WithGuard(func(r *http.Request) error {
			if r.Header.Get("X-User") == "" {
				return denied
			}
			return nil
		}),
		WithData(Data{Countries: []model.Option{{ID: "US", Name: "United States"}}}),
	)

	router := component.Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/countries", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodHead, "/countries", nil)
	req.Header.Set("X-User", "ada")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200 for HEAD, got %d with %d bytes", rec.Code, rec.Body.Len())
	}

	if got := len(component.Countries()); got != 1 {
		t.Fatalf("expected configured data, got %d countries", got)
	}
	if got := component.States(); len(got) != 0 {
		t.Fatalf("expected no states, got %v", got)
	}
}
