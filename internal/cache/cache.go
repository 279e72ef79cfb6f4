// Package cache holds an optional Redis-backed store for geocoding results.
// Geocoding output is stable for a given query string, so cached coordinates
// can be reused across invocations without changing what a run observes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"weather-cli/internal/model"
)

const keyPrefix = "geocode:"

// Cache stores resolved coordinates keyed by the geocoding query string. A
// nil *Cache is valid and behaves as a permanent miss, so callers never
// branch on whether caching is configured. Every failure degrades to a miss;
// the cache can never fail a run.
type Cache struct {
	client *redisv9.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// New returns a cache backed by the Redis instance at addr, or nil when addr
// is empty (caching disabled).
func New(addr string, ttl time.Duration, log *zap.SugaredLogger) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		client: redisv9.NewClient(&redisv9.Options{Addr: addr}),
		ttl:    ttl,
		log:    log,
	}
}

// GetCoordinates returns the cached coordinates for the query, if any.
func (c *Cache) GetCoordinates(ctx context.Context, query string) (model.Coordinates, bool) {
	if c == nil {
		return model.Coordinates{}, false
	}
	val, err := c.client.Get(ctx, keyPrefix+query).Result()
	if err != nil {
		if !errors.Is(err, redisv9.Nil) {
			c.log.Debugw("geocode cache read failed", "query", query, "error", err)
		}
		return model.Coordinates{}, false
	}
	var coords model.Coordinates
	if err := json.Unmarshal([]byte(val), &coords); err != nil {
		c.log.Debugw("geocode cache entry corrupt", "query", query, "error", err)
		return model.Coordinates{}, false
	}
	return coords, true
}

// SetCoordinates stores coordinates for the query, best effort.
func (c *Cache) SetCoordinates(ctx context.Context, query string, coords model.Coordinates) {
	if c == nil {
		return
	}
	b, err := json.Marshal(coords)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+query, b, c.ttl).Err(); err != nil {
		c.log.Debugw("geocode cache write failed", "query", query, "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
