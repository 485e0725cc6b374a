// Package cache keeps recent insights in Redis so repeated dashboard
// searches do not hit the flight providers again.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// InsightsCache stores analyzed insights per query, expiring after ttl.
type InsightsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis at addr and pings it before returning.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*InsightsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache.New: ping %s: %w", addr, err)
	}

	return &InsightsCache{client: client, ttl: ttl, logger: logger}, nil
}

// Close releases the connection pool.
func (c *InsightsCache) Close() error {
	return c.client.Close()
}

// Get returns the cached insights for q. The bool is false on a miss.
func (c *InsightsCache) Get(ctx context.Context, q domain.Query) (domain.Insights, bool, error) {
	key := Key(q)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Insights{}, false, nil
	}
	if err != nil {
		return domain.Insights{}, false, fmt.Errorf("cache.InsightsCache.Get: %w", err)
	}

	var data domain.Insights
	if err := json.Unmarshal(val, &data); err != nil {
		return domain.Insights{}, false, fmt.Errorf("cache.InsightsCache.Get: decode: %w", err)
	}

	c.logger.DebugContext(ctx, "insights cache hit", "key", key)
	return data, true, nil
}

// Set stores data for q.
func (c *InsightsCache) Set(ctx context.Context, q domain.Query, data domain.Insights) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache.InsightsCache.Set: encode: %w", err)
	}

	key := Key(q)
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache.InsightsCache.Set: %w", err)
	}

	c.logger.DebugContext(ctx, "insights cached", "key", key, "ttl", c.ttl)
	return nil
}

// Key is the Redis key for q: insights:<ORIGIN>:<DESTINATION>:<day>.
// Airport codes are case-insensitive, so they are upper-cased.
func Key(q domain.Query) string {
	return "insights:" + strings.ToUpper(q.Origin) + ":" + strings.ToUpper(q.Destination) + ":" + q.Day()
}
