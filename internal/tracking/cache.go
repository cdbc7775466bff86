package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps recent tracking lookups in Redis. The public endpoint is the
// only unauthenticated surface and the one a client is likely to poll, so a
// short TTL takes most of that read load off PostgreSQL. A nil cache (no
// Redis configured) degrades to loading directly.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(code string) string {
	return "tracking:" + code
}

// Fetch loads a cached lookup or populates it from the loader. Only
// successful lookups are cached; not-found and transient errors always pass
// through.
func (c *Cache) Fetch(ctx context.Context, code string, loader func(context.Context) (*Result, error)) (*Result, error) {
	if loader == nil {
		return nil, errors.New("tracking: loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	key := cacheKey(code)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var res Result
		if err := json.Unmarshal(payload, &res); err == nil {
			return &res, nil
		}
		// Corrupt entry: fall through and rebuild it.
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	res, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Invalidate drops the cached entry for a code, for callers that mutate the
// underlying repair and want the next poll to see it immediately.
func (c *Cache) Invalidate(ctx context.Context, code string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey(code)).Err()
}
