package backend

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.readErr != nil {
		return redis.NewStringResult("", f.readErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type countingSource struct {
	categories int
	products   int
	err        error
}

func (s *countingSource) ListCategories(context.Context) ([]catalog.Category, error) {
	s.categories++
	if s.err != nil {
		return nil, s.err
	}
	return []catalog.Category{{ID: "c1", Name: "Cakes"}}, nil
}

func (s *countingSource) ListProducts(context.Context) ([]catalog.Product, error) {
	s.products++
	if s.err != nil {
		return nil, s.err
	}
	return []catalog.Product{{ID: "p1", Name: "Black Forest", Category: catalog.CategoryRef{ID: "c1"}}}, nil
}

func TestCatalogCache_MissThenHit(t *testing.T) {
	rdb := newFakeRedis()
	src := &countingSource{}
	cat := NewCatalogCache(rdb, time.Minute).Bind(src)

	for i := 0; i < 3; i++ {
		products, err := cat.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "c1", products[0].Category.ID)
	}
	assert.Equal(t, 1, src.products)
	assert.Equal(t, time.Minute, rdb.ttls[productsKey])

	_, err := cat.ListCategories(context.Background())
	require.NoError(t, err)
	_, err = cat.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.categories)
}

func TestCatalogCache_RedisDownFallsThrough(t *testing.T) {
	rdb := newFakeRedis()
	rdb.readErr = errors.New("connection refused")
	src := &countingSource{}
	cat := NewCatalogCache(rdb, 0).Bind(src)

	_, err := cat.ListCategories(context.Background())
	require.NoError(t, err)
	_, err = cat.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.categories)
	assert.Equal(t, DefaultCatalogTTL, rdb.ttls[categoriesKey])
}

func TestCatalogCache_SourceErrorNotCached(t *testing.T) {
	rdb := newFakeRedis()
	src := &countingSource{err: errors.New("backend down")}
	cat := NewCatalogCache(rdb, time.Minute).Bind(src)

	_, err := cat.ListProducts(context.Background())
	require.Error(t, err)
	assert.Empty(t, rdb.data)
}

func TestCatalogCache_CorruptEntryReloads(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data[categoriesKey] = "not json"
	src := &countingSource{}
	cat := NewCatalogCache(rdb, time.Minute).Bind(src)

	cats, err := cat.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.Equal(t, 1, src.categories)
}

func TestCatalogCache_NilIsPassThrough(t *testing.T) {
	cache := NewCatalogCache(nil, time.Minute)
	src := &countingSource{}
	assert.Same(t, src, cache.Bind(src))
	assert.NoError(t, cache.Invalidate(context.Background()))
}

func TestCatalogCache_Invalidate(t *testing.T) {
	rdb := newFakeRedis()
	src := &countingSource{}
	cache := NewCatalogCache(rdb, time.Minute)
	cat := cache.Bind(src)

	_, _ = cat.ListProducts(context.Background())
	require.NoError(t, cache.Invalidate(context.Background()))
	_, _ = cat.ListProducts(context.Background())
	assert.Equal(t, 2, src.products)
}

func TestCachedClient_UsesCacheForCatalogOnly(t *testing.T) {
	hits := map[string]int{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		switch r.URL.Path {
		case "/api/products":
			_, _ = w.Write([]byte(`[{"_id":"p1","name":"Puff","category":"c1"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})
	cc := NewCatalogCache(newFakeRedis(), time.Minute).Wrap(c)

	for i := 0; i < 2; i++ {
		_, err := cc.ListProducts(context.Background())
		require.NoError(t, err)
		_, err = cc.Inventory(context.Background(), "B1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, hits["/api/products"])
	assert.Equal(t, 2, hits["/api/inventory"])
}

func TestCachedClient_NilCache(t *testing.T) {
	var cache *CatalogCache
	cc := cache.Wrap(NewClient("http://backend", time.Second))
	assert.NotNil(t, cc.Client)
}
