package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the byte-level cache CachedSource reads through.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache connects to addr and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, prefix: "storefront:catalog:"}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedSource is a read-through cache in front of another Source.
// Not-found results are never cached; cache failures fall through to the source.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps source with cache entries that live for ttl.
func NewCachedSource(source Source, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedSource) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	return readThrough(ctx, c, "page:"+slug, func() (Page, error) {
		return c.source.GetPageBySlug(ctx, slug)
	})
}

func (c *CachedSource) GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	return readThrough(ctx, c, "products:"+strings.Join(ids, ","), func() ([]Product, error) {
		return c.source.GetProductsByIDs(ctx, ids)
	})
}

func (c *CachedSource) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return readThrough(ctx, c, "product:"+slug, func() (Product, error) {
		return c.source.GetProductBySlug(ctx, slug)
	})
}

func (c *CachedSource) GetActiveVariations(ctx context.Context, productID string) ([]Variation, error) {
	return readThrough(ctx, c, "variations:"+productID, func() ([]Variation, error) {
		return c.source.GetActiveVariations(ctx, productID)
	})
}

func readThrough[T any](ctx context.Context, c *CachedSource, key string, load func() (T, error)) (T, error) {
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("catalog cache entry corrupt", "key", key)
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return value, nil
}

func (c *CachedSource) ListBanners(ctx context.Context) ([]Banner, error) {
	return readThrough(ctx, c, "banners", func() ([]Banner, error) {
		return c.source.ListBanners(ctx)
	})
}

func (c *CachedSource) ListCategories(ctx context.Context) ([]Category, error) {
	return readThrough(ctx, c, "categories", func() ([]Category, error) {
		return c.source.ListCategories(ctx)
	})
}

func (c *CachedSource) ListFeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	return readThrough(ctx, c, "featured:"+strconv.Itoa(limit), func() ([]Product, error) {
		return c.source.ListFeaturedProducts(ctx, limit)
	})
}

func (c *CachedSource) ListNewArrivals(ctx context.Context, limit int) ([]Product, error) {
	return readThrough(ctx, c, "arrivals:"+strconv.Itoa(limit), func() ([]Product, error) {
		return c.source.ListNewArrivals(ctx, limit)
	})
}
