// Package cache provides Redis-backed caching for read-heavy endpoints.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Client wraps a Redis connection together with the logger and metrics it
// reports through. The cache is best-effort: every failure is logged and
// counted, never surfaced to callers as a request error.
type Client struct {
	rdb     *redis.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New connects to Redis. The address may be a redis:// URL or a bare
// host:port. A ping failure is returned so the caller can decide whether to
// run without a cache.
func New(addr string, logger *slog.Logger, metrics *observability.Metrics) (*Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb, logger: logger, metrics: metrics}, nil
}

// NewFromClient wraps an existing Redis client. Used by tests with miniredis.
func NewFromClient(rdb *redis.Client, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{rdb: rdb, logger: logger, metrics: metrics}
}

// Get returns the raw cached value, or ("", false) on miss or error.
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.fail(ctx, "get", key, err)
		return "", false
	}
	return val, true
}

// Set stores a value with a TTL. Errors are logged and swallowed.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.fail(ctx, "set", key, err)
	}
}

// Delete removes one or more keys.
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.fail(ctx, "del", keys[0], err)
	}
}

// DeletePattern removes every key matching a glob pattern, scanning in
// batches so large keyspaces do not block the server.
func (c *Client) DeletePattern(ctx context.Context, pattern string) {
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.fail(ctx, "scan", pattern, err)
		return
	}
	c.Delete(ctx, keys...)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) fail(ctx context.Context, op, key string, err error) {
	if c.metrics != nil {
		c.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
	c.logger.WarnContext(ctx, "redis operation failed",
		slog.String("operation", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
