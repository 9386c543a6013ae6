// Package cache provides the optional Redis read-through cache for share
// token resolution. The service degrades to plain database lookups when no
// Redis client is configured.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wallpix/backend/internal/services"
)

type ShareViewCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewShareViewCache wraps a Redis client. If ttl is 0 it defaults to 5
// minutes; an empty namespace defaults to "shareview".
func NewShareViewCache(rdb *redis.Client, ttl time.Duration, namespace string) *ShareViewCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "shareview"
	}
	return &ShareViewCache{rdb: rdb, ttl: ttl, namespace: namespace}
}

func (c *ShareViewCache) key(token string) string {
	return c.namespace + ":" + token
}

func (c *ShareViewCache) Get(ctx context.Context, token string) (*services.ShareView, bool) {
	if c.rdb == nil {
		return nil, false
	}

	b, err := c.rdb.Get(ctx, c.key(token)).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}

	var view services.ShareView
	if err := json.Unmarshal(b, &view); err != nil {
		// Corrupted entry: drop it and fall back to the database.
		_ = c.rdb.Del(ctx, c.key(token)).Err()
		return nil, false
	}
	return &view, true
}

func (c *ShareViewCache) Set(ctx context.Context, token string, view *services.ShareView) {
	if c.rdb == nil || view == nil {
		return
	}
	if b, err := json.Marshal(view); err == nil {
		// Best effort: a failed cache write never fails the resolve.
		_ = c.rdb.Set(ctx, c.key(token), b, c.ttl).Err()
	}
}

func (c *ShareViewCache) Invalidate(ctx context.Context, token string) {
	if c.rdb == nil || token == "" {
		return
	}
	_ = c.rdb.Del(ctx, c.key(token)).Err()
}
