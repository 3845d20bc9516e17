package openapi

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-uirenderer/pkg/layout"
)

// Option configures a Provider.
type Option func(*Provider)

// WithFileSystem resolves SourceFromFS locations.
func WithFileSystem(files fs.FS) Option {
	return func(p *Provider) {
		p.fs = files
	}
}

// WithHTTPClient enables URL sources with client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// WithHTTPFallback enables URL sources with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) Option {
	return func(p *Provider) {
		if p.client == nil {
			p.client = &http.Client{}
		}
		p.timeout = timeout
	}
}

// WithExternalRefs lets the document reference other files or URLs.
func WithExternalRefs(enabled bool) Option {
	return func(p *Provider) {
		p.externalRefs = enabled
	}
}

// WithValidation validates the document after loading.
func WithValidation(enabled bool) Option {
	return func(p *Provider) {
		p.validate = enabled
	}
}

// WithLogger routes load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Provider serves layout payloads built from the request bodies of an
// OpenAPI document. The document is loaded once on first use.
type Provider struct {
	source       Source
	fs           fs.FS
	client       *http.Client
	timeout      time.Duration
	externalRefs bool
	validate     bool
	logger       *slog.Logger

	mu         sync.Mutex
	operations map[string]operation
}

type operation struct {
	id      string
	method  string
	path    string
	summary string
	schema  *openapi3.Schema
}

// NewProvider reads the document identified by src.
func NewProvider(src Source, options ...Option) *Provider {
	p := &Provider{
		source: src,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ObjectTypes lists the operation ids that carry a request body, sorted.
func (p *Provider) ObjectTypes(ctx context.Context) ([]string, error) {
	ops, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ops))
	for id := range ops {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// FetchConfig implements collab.ConfigProvider. objectType is an operation id
// or "method:path" for operations without one.
func (p *Provider) FetchConfig(ctx context.Context, objectType string) (map[string]any, error) {
	ops, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	op, ok := ops[strings.TrimSpace(objectType)]
	if !ok {
		return nil, &layout.MissingLayoutError{Reason: fmt.Sprintf("no request body for operation %q", objectType)}
	}
	return buildPayload(op), nil
}

func (p *Provider) load(ctx context.Context) (map[string]operation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.operations != nil {
		return p.operations, nil
	}

	location := ""
	if p.source != nil {
		location = p.source.Location()
	}
	raw, err := p.read(ctx)
	if err != nil {
		return nil, &layout.ConfigParseError{Source: location, Err: err}
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = p.externalRefs
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, &layout.ConfigParseError{Source: location, Err: fmt.Errorf("load document: %w", err)}
	}
	if p.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, &layout.ConfigParseError{Source: location, Err: fmt.Errorf("validate: %w", err)}
		}
	}

	ops := make(map[string]operation)
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if collected, ok := collect(method, path, op); ok {
					ops[collected.id] = collected
				}
			}
		}
	}
	p.logger.Debug("openapi: document loaded", "source", location, "operations", len(ops))
	p.operations = ops
	return ops, nil
}

func collect(method, path string, op *openapi3.Operation) (operation, bool) {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return operation{}, false
	}
	schema := requestSchema(op.RequestBody.Value.Content)
	if schema == nil {
		return operation{}, false
	}
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	return operation{id: id, method: method, path: path, summary: op.Summary, schema: schema}, true
}

func requestSchema(content openapi3.Content) *openapi3.Schema {
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
