package collab

import (
	"context"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// DefaultNumRecords is the page size used when a search request leaves
// NumRecords unset.
const DefaultNumRecords = 30

// ConfigProvider returns the raw configuration payload (layout, record,
// reference lists) for an object type. layout.Store satisfies it.
type ConfigProvider interface {
	FetchConfig(ctx context.Context, objectType string) (map[string]any, error)
}

// ConfigProviderFunc adapts a function to ConfigProvider.
type ConfigProviderFunc func(ctx context.Context, objectType string) (map[string]any, error)

// FetchConfig implements ConfigProvider.
func (fn ConfigProviderFunc) FetchConfig(ctx context.Context, objectType string) (map[string]any, error) {
	return fn(ctx, objectType)
}

// Criterion narrows an advanced search.
type Criterion struct {
	Field    string `json:"field"`
	Operator string `json:"operator,omitempty"`
	Value    any    `json:"value"`
}

// SearchRequest asks for candidates for a reference or lookup attribute.
type SearchRequest struct {
	ObjectType string          `json:"objectType,omitempty"`
	Attribute  model.Attribute `json:"-"`
	Text       string          `json:"text"`
	Criteria   []Criterion     `json:"criteria,omitempty"`
	StartIndex int             `json:"startIndex"`
	NumRecords int             `json:"numRecords"`
}

// SearchResult is one page of candidates.
type SearchResult struct {
	Data           []map[string]any `json:"data"`
	CountOfRecords int              `json:"countOfRecords"`
	HasMore        bool             `json:"hasMore"`
}

// SearchProvider runs searches.
type SearchProvider interface {
	Search(ctx context.Context, req SearchRequest) (SearchResult, error)
}

// SearchProviderFunc adapts a function to SearchProvider.
type SearchProviderFunc func(ctx context.Context, req SearchRequest) (SearchResult, error)

// Search implements SearchProvider.
func (fn SearchProviderFunc) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	return fn(ctx, req)
}

// SaveRequest carries a snapshot of the record being saved.
type SaveRequest struct {
	SessionID string       `json:"sessionId,omitempty"`
	ObjectID  string       `json:"objectId,omitempty"`
	Mode      model.Mode   `json:"mode"`
	Record    model.Record `json:"record"`
}

// SaveResult reports what the backend stored.
type SaveResult struct {
	ObjectID string       `json:"objectId,omitempty"`
	Record   model.Record `json:"record,omitempty"`
}

// SaveCollaborator persists records.
type SaveCollaborator interface {
	Save(ctx context.Context, req SaveRequest) (SaveResult, error)
}

// SaveFunc adapts a function to SaveCollaborator.
type SaveFunc func(ctx context.Context, req SaveRequest) (SaveResult, error)

// Save implements SaveCollaborator.
func (fn SaveFunc) Save(ctx context.Context, req SaveRequest) (SaveResult, error) {
	return fn(ctx, req)
}

// ListRequest pages through records of an object type.
type ListRequest struct {
	ObjectType string      `json:"objectType"`
	Criteria   []Criterion `json:"criteria,omitempty"`
	StartIndex int         `json:"startIndex"`
	NumRecords int         `json:"numRecords"`
}

// ListResult is one page of records.
type ListResult struct {
	Records        []model.Record `json:"records"`
	CountOfRecords int            `json:"countOfRecords"`
	HasMore        bool           `json:"hasMore"`
}

// ListProvider lists records. The engine never calls it; list pages are
// outside the form.
type ListProvider interface {
	List(ctx context.Context, req ListRequest) (ListResult, error)
}

// normalizeSearch applies paging defaults.
func normalizeSearch(req SearchRequest) SearchRequest {
	if req.StartIndex < 0 {
		req.StartIndex = 0
	}
	if req.NumRecords <= 0 {
		req.NumRecords = DefaultNumRecords
	}
	return req
}

// completeResult derives HasMore from the count when the provider left it
// unset.
func completeResult(req SearchRequest, res SearchResult) SearchResult {
	if !res.HasMore && res.CountOfRecords > 0 {
		res.HasMore = req.StartIndex+len(res.Data) < res.CountOfRecords
	}
	return res
}
