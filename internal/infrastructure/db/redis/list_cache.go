package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wsapp/storefront/internal/core/ports"
)

const (
	defaultListTTL = 30 * time.Second
	keyPrefix      = "storefront:list:"
	genPrefix      = "storefront:gen:"
)

var _ ports.ListCache = (*ListCache)(nil)

// ListCache keeps JSON-encoded list results under
// storefront:list:<entity>:<gen>, where gen is the counter at
// storefront:gen:<entity>. Invalidate bumps the counter; entries under an
// old generation are never read again and expire after ttl.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache wraps client. A non-positive ttl falls back to 30s.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = defaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get decodes the entry for the current generation into dst. A miss is
// (false, gen, nil).
func (c *ListCache) Get(ctx context.Context, key string, dst any) (bool, int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return false, 0, fmt.Errorf("list cache generation %s: %w", key, err)
	}

	raw, err := c.client.Get(ctx, c.key(key, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, gen, nil
	}
	if err != nil {
		return false, gen, fmt.Errorf("list cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, gen, fmt.Errorf("list cache decode %s: %w", key, err)
	}
	return true, gen, nil
}

func (c *ListCache) Set(ctx context.Context, key string, gen int64, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("list cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key, gen), raw, c.ttl).Err()
}

func (c *ListCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Incr(ctx, c.genKey(key)).Err()
}

func (c *ListCache) key(entity string, gen int64) string {
	return keyPrefix + entity + ":" + strconv.FormatInt(gen, 10)
}

func (c *ListCache) genKey(entity string) string {
	return genPrefix + entity
}
