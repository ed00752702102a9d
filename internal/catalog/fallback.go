package catalog

import (
	"context"
	"errors"
	"log/slog"
)

// FallbackSource answers from primary and consults fallback only when the
// primary has nothing: a not-found page/product or an empty list.
type FallbackSource struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
}

// NewFallbackSource wires a primary source with a fallback provider.
func NewFallbackSource(primary, fallback Source, logger *slog.Logger) *FallbackSource {
	return &FallbackSource{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackSource) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	page, err := f.primary.GetPageBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		f.logger.Debug("page served from fallback", "slug", slug)
		return f.fallback.GetPageBySlug(ctx, slug)
	}
	return page, err
}

func (f *FallbackSource) GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	products, err := f.primary.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) == len(ids) {
		return products, nil
	}
	found := make(map[string]Product, len(products))
	for _, p := range products {
		found[p.ID] = p
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return products, nil
	}
	extra, err := f.fallback.GetProductsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range extra {
		found[p.ID] = p
	}
	out := make([]Product, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, p)
			delete(found, id)
		}
	}
	return out, nil
}

func (f *FallbackSource) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	product, err := f.primary.GetProductBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return f.fallback.GetProductBySlug(ctx, slug)
	}
	return product, err
}

func (f *FallbackSource) GetActiveVariations(ctx context.Context, productID string) ([]Variation, error) {
	variations, err := f.primary.GetActiveVariations(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(variations) > 0 {
		return variations, nil
	}
	return f.fallback.GetActiveVariations(ctx, productID)
}

func (f *FallbackSource) ListBanners(ctx context.Context) ([]Banner, error) {
	banners, err := f.primary.ListBanners(ctx)
	if err != nil || len(banners) > 0 {
		return banners, err
	}
	f.logger.Debug("banners served from fallback")
	return f.fallback.ListBanners(ctx)
}

// ListCategories falls back to the demo categories when the primary has
// none. Primary categories without an image borrow the demo image with the
// same slug, else the first demo image.
func (f *FallbackSource) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := f.primary.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	demo, err := f.fallback.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		f.logger.Debug("categories served from fallback")
		return demo, nil
	}
	for i := range categories {
		if categories[i].ImageURL == "" {
			categories[i].ImageURL = categoryImage(demo, categories[i].Slug)
		}
	}
	return categories, nil
}

func categoryImage(demo []Category, slug string) string {
	for _, c := range demo {
		if c.Slug == slug && c.ImageURL != "" {
			return c.ImageURL
		}
	}
	if len(demo) > 0 {
		return demo[0].ImageURL
	}
	return ""
}

func (f *FallbackSource) ListFeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	return f.listProducts(ctx, "featured", limit, f.primary.ListFeaturedProducts, f.fallback.ListFeaturedProducts)
}

func (f *FallbackSource) ListNewArrivals(ctx context.Context, limit int) ([]Product, error) {
	return f.listProducts(ctx, "new arrivals", limit, f.primary.ListNewArrivals, f.fallback.ListNewArrivals)
}

// listProducts answers from primary, or from fallback when primary is empty.
// Primary products without images take the image of the fallback showcase
// product at the same position.
func (f *FallbackSource) listProducts(ctx context.Context, list string, limit int, primary, fallback func(context.Context, int) ([]Product, error)) ([]Product, error) {
	products, err := primary(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		f.logger.Debug("product list served from fallback", "list", list)
		return fallback(ctx, limit)
	}
	showcase, err := f.fallback.ListFeaturedProducts(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if len(products[i].Images) > 0 || len(showcase) == 0 {
			continue
		}
		if images := showcase[i%len(showcase)].Images; len(images) > 0 {
			products[i].Images = []string{images[0]}
		}
	}
	return products, nil
}
