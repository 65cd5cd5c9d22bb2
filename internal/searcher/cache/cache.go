// Package cache is a Redis-backed cache for resolved query results, with
// singleflight collapsing of concurrent identical queries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/femitubosun/codygo-task/pkg/config"
	pkgredis "github.com/femitubosun/codygo-task/pkg/redis"
)

const keyPrefix = "search:"

// QueryCache caches the resolved document list per query word set.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached document list for the word set, if present. Cache
// errors are logged and reported as misses.
func (c *QueryCache) Get(ctx context.Context, words []string) ([]string, bool) {
	key := c.buildKey(words)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var docs []string
	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return docs, true
}

// Set stores the document list for the word set with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, words []string, docs []string) {
	key := c.buildKey(words)
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and caches it, with
// concurrent identical queries collapsed into one computation.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	words []string,
	computeFn func() ([]string, error),
) ([]string, bool, error) {
	if docs, ok := c.Get(ctx, words); ok {
		return docs, true, nil
	}
	key := c.buildKey(words)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if docs, ok := c.Get(ctx, words); ok {
			return docs, nil
		}
		docs, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, words, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]string), false, nil
}

// Invalidate removes all cached query results.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counts since startup.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the sorted word set. Sorting is safe because the union
// result does not depend on word order; words are NOT case-folded, matching
// the resolver's exact-match lookup.
func (c *QueryCache) buildKey(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)
	hash := sha256.Sum256([]byte(strings.Join(sorted, ",")))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
