package landing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/media"
)

// ProductNotFoundMessage is shown when a product page cannot be resolved.
const ProductNotFoundMessage = "প্রোডাক্ট পাওয়া যায়নি"

const maxGalleryImages = 6

// ProductCheckoutID is the section id of the single checkout on a
// product page.
const ProductCheckoutID = "checkout"

// ProductHeroID is the section id of the product page image carousel.
const ProductHeroID = "hero"

// ProductPage is a single-product landing page: a hero, a gallery, the
// description and a single-select checkout with phone validation.
type ProductPage struct {
	Slug    string
	Product checkout.Product
}

// LoadProductPage resolves slug to a product. A landing page with that
// slug wins when it names products; otherwise slug is a product slug.
// Variations are loaded active-only and de-duplicated by name.
func LoadProductPage(ctx context.Context, src catalog.Source, slug string) (*ProductPage, error) {
	product, err := resolveProduct(ctx, src, slug)
	if err != nil {
		return nil, err
	}
	variations, err := src.GetActiveVariations(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("load variations for %s: %w", product.ID, err)
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	return &ProductPage{
		Slug:    slug,
		Product: checkout.Product{Product: product, Variations: DedupeVariations(variations)},
	}, nil
}

func resolveProduct(ctx context.Context, src catalog.Source, slug string) (catalog.Product, error) {
	page, err := src.GetPageBySlug(ctx, slug)
	switch {
	case err == nil && len(page.ProductIDs) > 0:
		products, err := src.GetProductsByIDs(ctx, page.ProductIDs[:1])
		if err != nil {
			return catalog.Product{}, fmt.Errorf("load page product: %w", err)
		}
		if len(products) > 0 {
			return products[0], nil
		}
	case err != nil && !errors.Is(err, catalog.ErrNotFound):
		return catalog.Product{}, fmt.Errorf("load page %s: %w", slug, err)
	}
	product, err := src.GetProductBySlug(ctx, slug)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("load product %s: %w", slug, err)
	}
	return product, nil
}

// DedupeVariations keeps the first variation per case-insensitive name and
// drops unnamed ones.
func DedupeVariations(in []catalog.Variation) []catalog.Variation {
	seen := make(map[string]bool, len(in))
	out := make([]catalog.Variation, 0, len(in))
	for _, v := range in {
		key := strings.ToLower(strings.TrimSpace(v.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// CheckoutOptions are the engine options for the product page checkout.
func (p *ProductPage) CheckoutOptions() checkout.Options {
	return checkout.Options{ValidatePhone: true, Slug: p.Slug}
}

// ProductPageView is the render tree of a product page.
type ProductPageView struct {
	Slug            string         `json:"slug"`
	ProductID       string         `json:"productId"`
	Name            string         `json:"name"`
	Images          []string       `json:"images"`
	Carousel        CarouselState  `json:"carousel"`
	Gallery         []string       `json:"gallery,omitempty"`
	Description     []string       `json:"description,omitempty"`
	Price           float64        `json:"price"`
	OriginalPrice   *float64       `json:"originalPrice,omitempty"`
	DiscountPercent int            `json:"discountPercent,omitempty"`
	Savings         float64        `json:"savings,omitempty"`
	Checkout        *checkout.View `json:"checkout,omitempty"`
}

// Render builds the view. The hero carousel and checkout come from state
// when the page is mounted.
func (p *ProductPage) Render(rc RenderContext) ProductPageView {
	prod := p.Product
	v := ProductPageView{
		Slug:          p.Slug,
		ProductID:     prod.ID,
		Name:          prod.Name,
		Images:        rc.images(prod.Images, media.AspectSquare),
		Description:   DescriptionLines(prod.Description),
		Price:         prod.Price,
		OriginalPrice: prod.OriginalPrice,
	}
	if c := rc.carousel(ProductHeroID); c != nil {
		v.Carousel = c.State()
	} else {
		v.Carousel = NewWrapCarousel(len(v.Images)).State()
	}
	if len(v.Images) >= 2 {
		v.Gallery = v.Images[:min(len(v.Images), maxGalleryImages)]
	}
	if prod.OriginalPrice != nil {
		v.DiscountPercent = checkout.DiscountPercent(prod.Price, *prod.OriginalPrice)
		v.Savings = checkout.Savings(prod.Price, *prod.OriginalPrice)
	}
	if rc.State != nil {
		if e := rc.State.Checkout(ProductCheckoutID); e != nil {
			state := e.View()
			v.Checkout = &state
		}
	}
	return v
}
