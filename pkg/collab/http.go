package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPConfigProvider fetches configuration payloads with GET
// <BaseURL>/<objectType>.
type HTTPConfigProvider struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// HTTPOption configures an HTTPConfigProvider.
type HTTPOption func(*HTTPConfigProvider)

// WithHTTPClient injects the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(p *HTTPConfigProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithRequestTimeout caps each fetch.
func WithRequestTimeout(timeout time.Duration) HTTPOption {
	return func(p *HTTPConfigProvider) {
		p.timeout = timeout
	}
}

// NewHTTPConfigProvider builds a provider rooted at baseURL.
func NewHTTPConfigProvider(baseURL string, options ...HTTPOption) *HTTPConfigProvider {
	p := &HTTPConfigProvider{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// FetchConfig implements ConfigProvider.
func (p *HTTPConfigProvider) FetchConfig(ctx context.Context, objectType string) (map[string]any, error) {
	objectType = strings.TrimSpace(objectType)
	if objectType == "" {
		return nil, errors.New("collab: object type is required")
	}
	if p.baseURL == "" {
		return nil, errors.New("collab: base url is required")
	}

	reqCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	endpoint := p.baseURL + "/" + url.PathEscape(objectType)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &CollaboratorError{Op: "fetch config", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CollaboratorError{Op: "fetch config", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CollaboratorError{Op: "fetch config", Err: err}
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &CollaboratorError{Op: "fetch config", Err: fmt.Errorf("decode %s: %w", objectType, err)}
	}
	return payload, nil
}
