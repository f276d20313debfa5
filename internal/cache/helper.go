package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON loads and unmarshals a cached value into dest. Returns false on
// miss or on a decode error, in which case dest is untouched by the caller's
// contract (they must treat it as a miss).
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.fail(ctx, "decode", key, err)
		c.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON marshals and stores a value. Marshal failures are logged and the
// entry is simply not cached.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.fail(ctx, "encode", key, err)
		return
	}
	c.Set(ctx, key, string(raw), ttl)
}

// Aside implements the cache-aside pattern: serve from cache when present,
// otherwise load from the source and populate the cache. A nil client or any
// cache failure degrades to calling load directly.
func Aside[T any](ctx context.Context, c *Client, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c != nil {
		var cached T
		if c.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if c != nil {
		c.SetJSON(ctx, key, value, ttl)
	}
	return value, nil
}
