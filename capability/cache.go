package capability

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long lookup results stay fresh.
const DefaultCacheTTL = time.Hour

type cacheEntry[T any] struct {
	value   T
	expires time.Time
}

type ttlCache[T any] struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]cacheEntry[T]
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ttlCache[T]{ttl: ttl, now: time.Now, m: make(map[string]cacheEntry[T])}
}

func (c *ttlCache[T]) get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok || c.now().After(e.expires) {
		delete(c.m, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *ttlCache[T]) put(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cacheEntry[T]{value: v, expires: c.now().Add(c.ttl)}
}

// CachedNewsSearcher memoizes news lookups by query for a TTL. Errors are not
// cached; only successful results are.
type CachedNewsSearcher struct {
	inner NewsSearcher
	cache *ttlCache[[]Article]
}

// NewCachedNewsSearcher wraps inner with a TTL cache. A non-positive ttl uses
// DefaultCacheTTL.
func NewCachedNewsSearcher(inner NewsSearcher, ttl time.Duration) *CachedNewsSearcher {
	return &CachedNewsSearcher{inner: inner, cache: newTTLCache[[]Article](ttl)}
}

func (c *CachedNewsSearcher) SearchNews(ctx context.Context, query string) ([]Article, error) {
	if v, ok := c.cache.get(query); ok {
		return v, nil
	}
	v, err := c.inner.SearchNews(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.put(query, v)
	return v, nil
}

// CachedFactChecker memoizes fact-check lookups by query for a TTL.
type CachedFactChecker struct {
	inner FactChecker
	cache *ttlCache[[]FactCheck]
}

// NewCachedFactChecker wraps inner with a TTL cache. A non-positive ttl uses
// DefaultCacheTTL.
func NewCachedFactChecker(inner FactChecker, ttl time.Duration) *CachedFactChecker {
	return &CachedFactChecker{inner: inner, cache: newTTLCache[[]FactCheck](ttl)}
}

func (c *CachedFactChecker) SearchFactChecks(ctx context.Context, query string) ([]FactCheck, error) {
	if v, ok := c.cache.get(query); ok {
		return v, nil
	}
	v, err := c.inner.SearchFactChecks(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.put(query, v)
	return v, nil
}
