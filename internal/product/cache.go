// AngelaMos | 2026
// cache.go

package product

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "product:"

// Cache holds products read by id. Failures are misses, never errors.
type Cache interface {
	Get(ctx context.Context, id string) (*Product, bool)
	Set(ctx context.Context, p *Product)
	Invalidate(ctx context.Context, id string)
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*Product, bool) { return nil, false }
func (noCache) Set(context.Context, *Product)                {}
func (noCache) Invalidate(context.Context, string)           {}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, id string) (*Product, bool) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "product cache read failed", "id", id, "error", err)
		}
		return nil, false
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		slog.WarnContext(ctx, "product cache entry corrupt", "id", id, "error", err)
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &p, true
}

func (c *RedisCache) Set(ctx context.Context, p *Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+p.ID, raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "product cache write failed", "id", p.ID, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, cacheKeyPrefix+id).Err(); err != nil {
		slog.WarnContext(ctx, "product cache invalidate failed", "id", id, "error", err)
	}
}
