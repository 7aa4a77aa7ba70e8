package scorer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/qna-scoring/backend/internal/models"
)

// EstimateCache stores difficulty estimates keyed by pair content, so
// re-scoring an unchanged pair (diversity shifts whenever batch membership
// changes) does not repeat the expensive judge calls.
type EstimateCache interface {
	Get(key string) (Estimate, bool)
	Set(key string, est Estimate)
}

// CacheKey derives a content key from the pair's question and answer. The
// source text is excluded: it never influences the difficulty estimate.
func CacheKey(pair models.Pair) string {
	h := sha256.New()
	h.Write([]byte(pair.Question))
	h.Write([]byte{0})
	h.Write([]byte(pair.Answer))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// CachedEstimator wraps an estimator with an injected cache. Only judged
// estimates are stored: a heuristic result means the judge was unavailable,
// and pinning that would keep serving the degraded estimate after the
// outage ends.
type CachedEstimator struct {
	inner DifficultyEstimator
	cache EstimateCache
}

func NewCachedEstimator(inner DifficultyEstimator, cache EstimateCache) *CachedEstimator {
	return &CachedEstimator{inner: inner, cache: cache}
}

func (c *CachedEstimator) EstimateDifficulty(ctx context.Context, pair models.Pair) Estimate {
	key := CacheKey(pair)
	if est, ok := c.cache.Get(key); ok {
		return est
	}

	est := c.inner.EstimateDifficulty(ctx, pair)
	if est.Method == models.MethodJudged {
		c.cache.Set(key, est)
	}
	return est
}

// ── MemoryCache — in-process TTL cache ─────────────────────

type cacheEntry struct {
	est     Estimate
	expires time.Time
}

// MemoryCache is a mutex-guarded map with lazy TTL eviction: expired
// entries are dropped when read, and the whole map is swept once it grows
// past maxEntries.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
}

const defaultMaxCacheEntries = 4096

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: defaultMaxCacheEntries,
		entries:    make(map[string]cacheEntry),
	}
}

func (c *MemoryCache) Get(key string) (Estimate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Estimate{}, false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, key)
		return Estimate{}, false
	}
	return entry.est, true
}

func (c *MemoryCache) Set(key string, est Estimate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.sweepLocked()
	}

	c.entries[key] = cacheEntry{est: est, expires: time.Now().Add(c.ttl)}
}

func (c *MemoryCache) sweepLocked() {
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	// Still full of live entries: drop arbitrary ones rather than grow.
	for k := range c.entries {
		if len(c.entries) < c.maxEntries {
			break
		}
		delete(c.entries, k)
	}
}

// Len reports the number of stored entries, expired included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// NoOpCache never stores anything (for tests and cache-disabled runs).
type NoOpCache struct{}

func (NoOpCache) Get(key string) (Estimate, bool) { return Estimate{}, false }

func (NoOpCache) Set(key string, est Estimate) {}
