package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/logging"
)

func TestFallbackSource(t *testing.T) {
	ctx := context.Background()
	primary := &DemoProvider{pages: map[string]Page{}, products: map[string]Product{}, variations: map[string][]Variation{}}
	primary.AddProduct(Product{ID: "real", Name: "Real", Slug: "real", Price: 100})
	src := NewFallbackSource(primary, NewDemoProvider(), logging.Discard())

	page, err := src.GetPageBySlug(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo-page", page.ID)

	products, err := src.GetProductsByIDs(ctx, []string{"demo-1", "real", "ghost"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "demo-1", products[0].ID)
	assert.Equal(t, "real", products[1].ID)

	product, err := src.GetProductBySlug(ctx, "slim-fit-denim-jeans")
	require.NoError(t, err)
	assert.Equal(t, "demo-2", product.ID)

	variations, err := src.GetActiveVariations(ctx, "demo-1")
	require.NoError(t, err)
	assert.Len(t, variations, 4)

	_, err = src.GetPageBySlug(ctx, "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackSourceHomeLists(t *testing.T) {
	ctx := context.Background()
	empty := &DemoProvider{pages: map[string]Page{}, products: map[string]Product{}, variations: map[string][]Variation{}}
	src := NewFallbackSource(empty, NewDemoProvider(), logging.Discard())

	banners, err := src.ListBanners(ctx)
	require.NoError(t, err)
	assert.Len(t, banners, 3)
	categories, err := src.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 6)
	featured, err := src.ListFeaturedProducts(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, featured, 8)
	arrivals, err := src.ListNewArrivals(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-1", "demo-3", "demo-7"}, productIDs(arrivals))

	t.Run("primary rows borrow demo images", func(t *testing.T) {
		primary := &DemoProvider{pages: map[string]Page{}, products: map[string]Product{}, variations: map[string][]Variation{}}
		primary.AddProduct(Product{ID: "real", Name: "Real", Slug: "real", Price: 100})
		primary.AddProduct(Product{ID: "shot", Name: "Shot", Slug: "shot", Price: 100, Images: []string{"own.jpg"}})
		primary.categories = []Category{
			{ID: "c1", Name: "Jeans", Slug: "jeans"},
			{ID: "c2", Name: "Caps", Slug: "caps"},
			{ID: "c3", Name: "Polo", Slug: "polo", ImageURL: "polo.jpg"},
		}
		demo := NewDemoProvider()
		src := NewFallbackSource(primary, demo, logging.Discard())

		categories, err := src.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Contains(t, categories[0].ImageURL, "photo-1542272454315-4c01d7abdf4a")
		assert.Contains(t, categories[1].ImageURL, "photo-1521572163474-6864f9cf17ab")
		assert.Equal(t, "polo.jpg", categories[2].ImageURL)

		featured, err := src.ListFeaturedProducts(ctx, 0)
		require.NoError(t, err)
		require.Len(t, featured, 2)
		assert.Equal(t, []string{demo.products["demo-1"].Images[0]}, featured[0].Images)
		assert.Equal(t, []string{"own.jpg"}, featured[1].Images)

		banners, err := src.ListBanners(ctx)
		require.NoError(t, err)
		assert.Equal(t, "demo-banner-1", banners[0].ID)
	})
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errors.New("connection refused")
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

type countingSource struct {
	Source
	pageCalls int
}

func (c *countingSource) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	c.pageCalls++
	return c.Source.GetPageBySlug(ctx, slug)
}

func TestCachedSourceReadsThrough(t *testing.T) {
	ctx := context.Background()
	counting := &countingSource{Source: NewDemoProvider()}
	cache := &memoryCache{entries: map[string][]byte{}}
	src := NewCachedSource(counting, cache, time.Minute, logging.Discard())

	first, err := src.GetPageBySlug(ctx, "demo")
	require.NoError(t, err)
	second, err := src.GetPageBySlug(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.JSONEq(t, string(first.Sections), string(second.Sections))
	assert.Equal(t, 1, counting.pageCalls)

	_, err = src.GetPageBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = src.GetPageBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, counting.pageCalls, "not-found results are not cached")

	variations, err := src.GetActiveVariations(ctx, "demo-2")
	require.NoError(t, err)
	assert.Len(t, variations, 4)
	assert.Contains(t, cache.entries, "variations:demo-2")

	featured, err := src.ListFeaturedProducts(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, featured, 8)
	assert.Contains(t, cache.entries, "featured:8")
}

func TestCachedSourceSurvivesCacheFailure(t *testing.T) {
	ctx := context.Background()
	cache := &memoryCache{entries: map[string][]byte{}, failGet: true}
	src := NewCachedSource(NewDemoProvider(), cache, time.Minute, logging.Discard())

	products, err := src.GetProductsByIDs(ctx, []string{"demo-1"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 650.0, products[0].Price)
}
