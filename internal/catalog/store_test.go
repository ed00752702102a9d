package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/sqliteutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqliteutil.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestGetPageBySlugFiltersUnpublishedAndInactive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SavePage(ctx, Page{ID: "p1", Slug: "draft", Sections: json.RawMessage(`[]`), IsPublished: false, IsActive: true}))
	require.NoError(t, store.SavePage(ctx, Page{ID: "p2", Slug: "archived", IsPublished: true, IsActive: false}))
	require.NoError(t, store.SavePage(ctx, Page{
		ID:            "p3",
		Slug:          "eid-sale",
		Title:         "Eid sale",
		MetaTitle:     "Eid Sale | Shop",
		CustomCSS:     "body{margin:0}",
		Sections:      json.RawMessage(`[{"id":"s1","type":"spacer","order":0,"settings":{"height":40}}]`),
		ThemeSettings: json.RawMessage(`{"primaryColor":"#111111"}`),
		ProductIDs:    []string{"prod-1"},
		IsPublished:   true,
		IsActive:      true,
	}))

	_, err := store.GetPageBySlug(ctx, "draft")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetPageBySlug(ctx, "archived")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetPageBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	page, err := store.GetPageBySlug(ctx, "eid-sale")
	require.NoError(t, err)
	assert.Equal(t, "Eid Sale | Shop", page.MetaTitle)
	assert.Equal(t, "body{margin:0}", page.CustomCSS)
	assert.JSONEq(t, `{"primaryColor":"#111111"}`, string(page.ThemeSettings))
	assert.Equal(t, []string{"prod-1"}, page.ProductIDs)
	assert.Contains(t, string(page.Sections), `"spacer"`)
}

func TestGetPageBySlugRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SavePage(ctx, Page{ID: "a", Slug: "dup", IsPublished: true, IsActive: true}))
	require.NoError(t, store.SavePage(ctx, Page{ID: "b", Slug: "dup", IsPublished: true, IsActive: true}))

	_, err := store.GetPageBySlug(ctx, "dup")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductsAndVariations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveProduct(ctx, Product{ID: "p1", Name: "Tee", Slug: "tee", Price: 650, OriginalPrice: Price(850), Images: []string{"a.jpg", "b.jpg"}}))
	require.NoError(t, store.SaveProduct(ctx, Product{ID: "p2", Name: "Jeans", Slug: "jeans", Price: 1450}))
	require.NoError(t, store.SaveVariation(ctx, Variation{ID: "v-xl", ProductID: "p1", Name: "XL", Price: 700, SortOrder: 3, IsActive: true}))
	require.NoError(t, store.SaveVariation(ctx, Variation{ID: "v-m", ProductID: "p1", Name: "M", Price: 650, SortOrder: 1, IsActive: true}))
	require.NoError(t, store.SaveVariation(ctx, Variation{ID: "v-l", ProductID: "p1", Name: "L", Price: 650, SortOrder: 2, IsActive: false}))

	products, err := store.GetProductsByIDs(ctx, []string{"p2", "unknown", "p1"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p2", products[0].ID)
	assert.Equal(t, []string{}, products[0].Images)
	assert.Nil(t, products[0].OriginalPrice)
	assert.Equal(t, "p1", products[1].ID)
	require.NotNil(t, products[1].OriginalPrice)
	assert.Equal(t, 850.0, *products[1].OriginalPrice)

	variations, err := store.GetActiveVariations(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, variations, 2)
	assert.Equal(t, "v-m", variations[0].ID)
	assert.Equal(t, "v-xl", variations[1].ID)

	product, err := store.GetProductBySlug(ctx, "tee")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	_, err = store.GetProductBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	empty, err := store.GetProductsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDemoSeed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, NewDemoProvider().Seed(ctx, store))

	page, err := store.GetPageBySlug(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-2"}, page.ProductIDs)

	variations, err := store.GetActiveVariations(ctx, "demo-2")
	require.NoError(t, err)
	require.Len(t, variations, 4)
	assert.Equal(t, "30", variations[0].Name)

	banners, err := store.ListBanners(ctx)
	require.NoError(t, err)
	assert.Len(t, banners, 3)
	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 6)

	featured, err := store.ListFeaturedProducts(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-2", "demo-6"}, productIDs(featured))

	arrivals, err := store.ListNewArrivals(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo-8", "demo-7", "demo-6", "demo-5"}, productIDs(arrivals))
}

func TestHomeLists(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveBanner(ctx, Banner{ID: "b2", Title: "Second", ImageURL: "b2.jpg", SortOrder: 2, IsActive: true}))
	require.NoError(t, store.SaveBanner(ctx, Banner{ID: "b1", Title: "First", ImageURL: "b1.jpg", LinkURL: "/sale", SortOrder: 1, IsActive: true}))
	require.NoError(t, store.SaveBanner(ctx, Banner{ID: "off", Title: "Hidden", ImageURL: "x.jpg", IsActive: false}))
	banners, err := store.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 2)
	assert.Equal(t, "b1", banners[0].ID)
	assert.Equal(t, "/sale", banners[0].LinkURL)
	assert.Empty(t, banners[1].Subtitle)

	require.NoError(t, store.SaveCategory(ctx, Category{ID: "c1", Name: "Jeans", Slug: "jeans", SortOrder: 2}))
	require.NoError(t, store.SaveCategory(ctx, Category{ID: "c2", Name: "Polo", Slug: "polo", ImageURL: "polo.jpg", SortOrder: 1}))
	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "polo", categories[0].Slug)
	assert.Empty(t, categories[1].ImageURL)

	for i, featured := range []bool{false, true, true} {
		require.NoError(t, store.SaveProduct(ctx, Product{
			ID: fmt.Sprintf("p%d", i), Name: "P", Slug: fmt.Sprintf("p-%d", i), Price: 100, CategoryID: "c1", IsFeatured: featured,
		}))
	}
	featured, err := store.ListFeaturedProducts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, productIDs(featured))
	assert.Equal(t, "c1", featured[0].CategoryID)
	assert.True(t, featured[0].IsFeatured)

	arrivals, err := store.ListNewArrivals(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, productIDs(arrivals))
}

func productIDs(products []Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
