package search

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/studystack/paperdex"
)

// ResultCache is a TTL-bounded cache of search results keyed by payload. The
// executor itself stays stateless; callers that want caching own one of
// these and consult it before calling Execute.
type ResultCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result   paperdex.SearchResult
	storedAt time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *ResultCache) Get(payload paperdex.SearchPayload) (paperdex.SearchResult, bool) {
	key := cacheKey(payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return paperdex.SearchResult{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return paperdex.SearchResult{}, false
	}
	return entry.result, true
}

func (c *ResultCache) Put(payload paperdex.SearchPayload, result paperdex.SearchResult) {
	key := cacheKey(payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
}

func cacheKey(payload paperdex.SearchPayload) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return payload.Query
	}
	return string(data)
}
