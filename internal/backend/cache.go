package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	categoriesKey = "catalog:categories"
	productsKey   = "catalog:products"

	DefaultCatalogTTL = 5 * time.Minute
)

// RedisClient is the subset of go-redis used by the cache.
// Satisfied by *redis.Client; narrow interface for testability.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CatalogSource lists the branch-independent catalog.
// Satisfied by *Client.
type CatalogSource interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

// CatalogCache keeps categories and products in redis. Cache failures are
// logged and fall through to the backend.
type CatalogCache struct {
	rdb RedisClient
	ttl time.Duration
}

// NewCatalogCache returns nil when rdb is nil, which Bind treats as "no cache".
func NewCatalogCache(rdb RedisClient, ttl time.Duration) *CatalogCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

// Bind decorates src with the cache.
func (c *CatalogCache) Bind(src CatalogSource) CatalogSource {
	if c == nil {
		return src
	}
	return &cachedCatalog{cache: c, src: src}
}

// Invalidate drops both catalog keys.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, categoriesKey, productsKey).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

type cachedCatalog struct {
	cache *CatalogCache
	src   CatalogSource
}

func (cc *cachedCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return cached(ctx, cc.cache, categoriesKey, cc.src.ListCategories)
}

func (cc *cachedCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return cached(ctx, cc.cache, productsKey, cc.src.ListProducts)
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	log := logger.FromContext(ctx).WithComponent("catalog_cache")

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
			return out, nil
		}
		log.Warnw("discarding undecodable cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		log.Warnw("cache read failed", "key", key, "error", err)
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warnw("cache write failed", "key", key, "error", err)
	}
	return out, nil
}

// CachedClient is a Client whose catalog reads go through the cache.
type CachedClient struct {
	*Client
	cat CatalogSource
}

// Wrap binds the cache to a user's client.
func (c *CatalogCache) Wrap(cl *Client) *CachedClient {
	return &CachedClient{Client: cl, cat: c.Bind(cl)}
}

func (cc *CachedClient) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return cc.cat.ListCategories(ctx)
}

func (cc *CachedClient) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return cc.cat.ListProducts(ctx)
}
