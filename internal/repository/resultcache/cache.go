// Package resultcache caches finished search responses in the key-value
// store, keyed by tenant, snapshot version, and normalized query. Rebuilding
// a snapshot bumps the version, so stale entries simply stop being addressed;
// explicit invalidation removes them by tenant prefix.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/db"
	"github.com/sixthdegree/contactsearch/internal/domain"
	"github.com/sixthdegree/contactsearch/internal/domain/search"
	"github.com/sixthdegree/contactsearch/internal/metrics"
)

// Entry is the persisted form of a cacheable search outcome.
type Entry struct {
	Results     []domain.ScoredCandidate `json:"results"`
	ParsedQuery domain.ParsedQuery       `json:"parsed_query"`
	Tier        search.Tier              `json:"tier"`
	CreatedAt   time.Time                `json:"created_at"`
}

// Stats counts cache activity since process start.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cache stores search responses. Concurrent writers for the same key follow
// last-writer-wins; both entries are valid answers for the same snapshot.
type Cache struct {
	kv     db.KVStore
	prefix string
	ttl    time.Duration // 0 = no expiry
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a result cache with the given key prefix and TTL.
func New(kv db.KVStore, keyPrefix string, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{kv: kv, prefix: keyPrefix, ttl: ttl, logger: log}
}

// Get returns the cached entry for the query, or ok=false on a miss. Store
// errors and corrupt entries count as misses: the pipeline recomputes.
func (c *Cache) Get(ctx context.Context, tenant string, version int64, normalizedQuery string) (Entry, bool) {
	raw, err := c.kv.Get(ctx, c.key(tenant, version, normalizedQuery))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("result cache read failed", zap.String("tenant", tenant), zap.Error(err))
		}
		c.miss()
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("result cache entry corrupt", zap.String("tenant", tenant), zap.Error(err))
		c.miss()
		return Entry{}, false
	}

	c.hits.Add(1)
	metrics.ResultCacheTotal.WithLabelValues("hit").Inc()
	return entry, true
}

// Set stores an entry. Failures are logged and swallowed: caching is an
// optimization, never a pipeline error.
func (c *Cache) Set(ctx context.Context, tenant string, version int64, normalizedQuery string, entry Entry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("result cache encode failed", zap.String("tenant", tenant), zap.Error(err))
		return
	}

	key := c.key(tenant, version, normalizedQuery)
	if c.ttl > 0 {
		err = c.kv.SetWithTTL(ctx, key, raw, c.ttl)
	} else {
		err = c.kv.Set(ctx, key, raw)
	}
	if err != nil {
		c.logger.Warn("result cache write failed", zap.String("tenant", tenant), zap.Error(err))
	}
}

// Invalidate removes every cached entry for the tenant.
func (c *Cache) Invalidate(ctx context.Context, tenant string) (int, error) {
	keys, err := c.kv.Scan(ctx, c.prefix+"results:"+tenant+":*")
	if err != nil {
		return 0, fmt.Errorf("scan cache keys: %w", err)
	}
	deleted := 0
	for _, k := range keys {
		if err := c.kv.Del(ctx, k); err != nil {
			return deleted, fmt.Errorf("delete cache key: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

// Stats returns hit/miss counters for this process.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *Cache) miss() {
	c.misses.Add(1)
	metrics.ResultCacheTotal.WithLabelValues("miss").Inc()
}

// key hashes version and normalized query so arbitrary query text never
// leaks into key space, while the tenant stays scannable for invalidation.
func (c *Cache) key(tenant string, version int64, normalizedQuery string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d:%s", version, normalizedQuery))
	return c.prefix + "results:" + tenant + ":" + hex.EncodeToString(sum[:])
}
