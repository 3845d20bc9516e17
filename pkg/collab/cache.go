package collab

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// CachedConfigProvider memoizes a ConfigProvider per object type. Failed
// fetches are not cached. Callers receive copies so a cached payload is never
// mutated through a session.
type CachedConfigProvider struct {
	next ConfigProvider

	mu      sync.RWMutex
	entries map[string]map[string]any
}

// NewCachedConfigProvider wraps next.
func NewCachedConfigProvider(next ConfigProvider) *CachedConfigProvider {
	return &CachedConfigProvider{next: next, entries: make(map[string]map[string]any)}
}

// FetchConfig implements ConfigProvider.
func (c *CachedConfigProvider) FetchConfig(ctx context.Context, objectType string) (map[string]any, error) {
	key := strings.TrimSpace(objectType)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return model.Record(cached).Clone(), nil
	}

	payload, err := c.next.FetchConfig(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = model.Record(payload).Clone()
	c.mu.Unlock()
	return payload, nil
}

// Invalidate drops the cached payload for objectType, or everything when
// objectType is empty.
func (c *CachedConfigProvider) Invalidate(objectType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.TrimSpace(objectType)
	if key == "" {
		c.entries = make(map[string]map[string]any)
		return
	}
	delete(c.entries, key)
}
