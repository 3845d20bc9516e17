package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// SourceKind enumerates where a document is read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies an OpenAPI document.
type Source interface {
	Kind() SourceKind
	Location() string
}

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }

// SourceFromFile points at a file on disk.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS points at a file inside the provider's fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL points at an HTTP(S) document. Invalid URLs are rejected.
func SourceFromURL(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	return source{kind: SourceKindURL, location: raw}, nil
}

func (p *Provider) read(ctx context.Context) ([]byte, error) {
	if p.source == nil {
		return nil, errors.New("openapi: source is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch p.source.Kind() {
	case SourceKindFile:
		return os.ReadFile(p.source.Location())
	case SourceKindFS:
		if p.fs == nil {
			return nil, errors.New("openapi: filesystem is not configured")
		}
		return fs.ReadFile(p.fs, p.source.Location())
	case SourceKindURL:
		if p.client == nil {
			return nil, errors.New("openapi: http support disabled")
		}
		return readHTTP(ctx, p.client, p.source.Location(), p.timeout)
	default:
		return nil, fmt.Errorf("openapi: unsupported source kind %q", p.source.Kind())
	}
}

func readHTTP(ctx context.Context, client *http.Client, location string, timeout time.Duration) ([]byte, error) {
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("openapi: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
