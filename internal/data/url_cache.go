package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"linkstats/internal/biz"
	"linkstats/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const urlCachePrefix = "url:"

// URLCache caches short URL records by code.
// Implementations report a miss as nil, nil and never fail the caller.
type URLCache interface {
	Get(ctx context.Context, code string) (*biz.ShortURL, error)
	Set(ctx context.Context, u *biz.ShortURL) error
}

var (
	_ URLCache = (*RedisURLCache)(nil)
	_ URLCache = (*noopURLCache)(nil)
)

// RedisURLCache implements URLCache using Redis.
type RedisURLCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *log.Helper
}

// NewURLCache returns a Redis cache, or a no-op cache when Redis is not
// configured.
func NewURLCache(c *conf.Data, data *Data, logger log.Logger) URLCache {
	if data.rdb == nil {
		return &noopURLCache{}
	}
	return &RedisURLCache{
		rdb: data.rdb,
		ttl: c.Redis.CacheTTL.AsDuration(),
		log: log.NewHelper(log.With(logger, "module", "data/cache")),
	}
}

func cacheKey(code string) string {
	return urlCachePrefix + code
}

// Get retrieves a URL from Redis. Errors are treated as misses.
func (c *RedisURLCache) Get(ctx context.Context, code string) (*biz.ShortURL, error) {
	data, err := c.rdb.Get(ctx, cacheKey(code)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithContext(ctx).Warnf("failed to get %s from cache: %v", code, err)
		}
		return nil, nil
	}

	var u biz.ShortURL
	if err := json.Unmarshal(data, &u); err != nil {
		c.log.WithContext(ctx).Warnf("failed to unmarshal cached URL %s: %v", code, err)
		return nil, nil
	}
	return &u, nil
}

// Set stores a URL in Redis.
func (c *RedisURLCache) Set(ctx context.Context, u *biz.ShortURL) error {
	data, err := json.Marshal(u)
	if err != nil {
		c.log.WithContext(ctx).Warnf("failed to marshal URL %s for cache: %v", u.Code, err)
		return nil
	}

	if err := c.rdb.Set(ctx, cacheKey(u.Code), data, c.ttl).Err(); err != nil {
		c.log.WithContext(ctx).Warnf("failed to cache URL %s: %v", u.Code, err)
	}
	return nil
}

// noopURLCache is used when Redis is not configured.
type noopURLCache struct{}

func (c *noopURLCache) Get(context.Context, string) (*biz.ShortURL, error) {
	return nil, nil
}

func (c *noopURLCache) Set(context.Context, *biz.ShortURL) error {
	return nil
}
