package collab

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-uirenderer/pkg/attribute"
	"github.com/goliatone/go-uirenderer/pkg/model"
)

const (
	// DefaultDebounce is the quiet period before a search is issued.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultMinChars is the shortest text a reference lookup searches for.
	DefaultMinChars = 2
)

// SearchResponse is delivered for the latest request of a field only.
type SearchResponse struct {
	AttributeID string
	Token       uint64
	RequestID   string
	Request     SearchRequest
	Result      SearchResult
	Err         error
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithDebounce sets the quiet period. Zero issues requests immediately.
func WithDebounce(d time.Duration) SearcherOption {
	return func(s *Searcher) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithMinChars sets the minimum reference lookup length.
func WithMinChars(n int) SearcherOption {
	return func(s *Searcher) {
		if n >= 0 {
			s.minChars = n
		}
	}
}

// WithSearchLogger routes request logging.
func WithSearchLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(fn func() string) SearcherOption {
	return func(s *Searcher) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Searcher coordinates searches per field: input is debounced, each request
// carries a sequence token, at most one request per field is in flight and
// responses whose token is no longer current are dropped.
type Searcher struct {
	provider SearchProvider
	debounce time.Duration
	minChars int
	logger   *slog.Logger
	newID    func() string

	mu     sync.Mutex
	fields map[string]*searchState
	closed bool
}

type searchState struct {
	seq      uint64
	timer    *time.Timer
	inflight map[uint64]context.CancelFunc
}

// NewSearcher wraps provider.
func NewSearcher(provider SearchProvider, options ...SearcherOption) *Searcher {
	s := &Searcher{
		provider: provider,
		debounce: DefaultDebounce,
		minChars: DefaultMinChars,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:    uuid.NewString,
		fields:   make(map[string]*searchState),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Search runs one request synchronously with paging defaults applied.
// Provider failures come back as *CollaboratorError.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	req = normalizeSearch(req)
	res, err := s.provider.Search(ctx, req)
	if err != nil {
		return SearchResult{}, &CollaboratorError{Op: "search", Err: err}
	}
	return completeResult(req, res), nil
}

// Query schedules a debounced search for the request's attribute and returns
// its token. Any pending or in-flight request for the same attribute is
// superseded: its response is dropped by token, but an in-flight request
// keeps running to completion. Reference lookups shorter than the minimum length are not
// issued and report ok=false. deliver runs on a background goroutine.
func (s *Searcher) Query(ctx context.Context, req SearchRequest, deliver func(SearchResponse)) (token uint64, ok bool) {
	id := attribute.ID(req.Attribute)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false
	}

	st := s.fields[id]
	if st == nil {
		st = &searchState{}
		s.fields[id] = st
	}
	st.seq++
	token = st.seq
	st.stopTimer()

	if s.tooShort(req) {
		return token, false
	}

	st.timer = time.AfterFunc(s.debounce, func() {
		s.run(ctx, id, token, normalizeSearch(req), deliver)
	})
	return token, true
}

// Cancel drops any pending search for attributeID and cancels the contexts
// of its in-flight requests.
func (s *Searcher) Cancel(attributeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.fields[attributeID]; st != nil {
		st.seq++
		st.stop()
	}
}

// Close cancels every search; later queries are ignored.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, st := range s.fields {
		st.seq++
		st.stop()
	}
}

func (s *Searcher) tooShort(req SearchRequest) bool {
	if req.Attribute.Kind != model.KindReference && attribute.Classify(req.Attribute) != model.KindReference {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(req.Text)) < s.minChars
}

func (s *Searcher) run(ctx context.Context, id string, token uint64, req SearchRequest, deliver func(SearchResponse)) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	st := s.fields[id]
	if st == nil || st.seq != token || s.closed {
		s.mu.Unlock()
		return
	}
	if st.inflight == nil {
		st.inflight = make(map[uint64]context.CancelFunc)
	}
	st.inflight[token] = cancel
	s.mu.Unlock()

	requestID := s.newID()
	start := time.Now()
	res, err := s.Search(reqCtx, req)

	s.mu.Lock()
	delete(st.inflight, token)
	current := st.seq == token && !s.closed
	s.mu.Unlock()

	if !current {
		s.logger.Debug("collab: stale search dropped", "attribute", id, "request", requestID, "token", token)
		return
	}
	if err != nil {
		s.logger.Warn("collab: search failed", "attribute", id, "request", requestID, "error", err)
	} else {
		s.logger.Debug("collab: search complete", "attribute", id, "request", requestID,
			"results", len(res.Data), "duration", time.Since(start))
	}
	if deliver != nil {
		deliver(SearchResponse{AttributeID: id, Token: token, RequestID: requestID, Request: req, Result: res, Err: err})
	}
}

func (st *searchState) stopTimer() {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
}

func (st *searchState) stop() {
	st.stopTimer()
	for token, cancel := range st.inflight {
		cancel()
		delete(st.inflight, token)
	}
}
