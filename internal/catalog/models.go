package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a page or product lookup has no single match.
var ErrNotFound = errors.New("not found")

// Page is a landing page row. Sections and ThemeSettings stay raw here;
// the landing package decodes them once when a page is mounted.
type Page struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	MetaTitle     string          `json:"meta_title,omitempty"`
	CustomCSS     string          `json:"custom_css,omitempty"`
	Sections      json.RawMessage `json:"sections"`
	ThemeSettings json.RawMessage `json:"theme_settings,omitempty"`
	ProductIDs    []string        `json:"product_ids,omitempty"`
	IsPublished   bool            `json:"is_published"`
	IsActive      bool            `json:"is_active"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Product carries the fields the checkout and product pages consume.
// Images[0] is the thumbnail; Images[i] doubles as the swatch of color i.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Images        []string `json:"images"`
	CategoryID    string   `json:"category_id,omitempty"`
	IsFeatured    bool     `json:"is_featured,omitempty"`
}

// Banner is a home page hero slide.
type Banner struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	ImageURL  string `json:"image_url"`
	LinkURL   string `json:"link_url,omitempty"`
	Badge     string `json:"badge,omitempty"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

// Category is a product category tile on the home page.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// Variation is a purchasable size/weight option of a product.
type Variation struct {
	ID            string   `json:"id"`
	ProductID     string   `json:"product_id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Stock         int      `json:"stock"`
	SortOrder     int      `json:"sort_order"`
	IsActive      bool     `json:"is_active"`
}

// Source is the read contract the landing engine needs from a backing store.
// List methods treat a limit <= 0 as no limit.
type Source interface {
	GetPageBySlug(ctx context.Context, slug string) (Page, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	GetActiveVariations(ctx context.Context, productID string) ([]Variation, error)

	// ListBanners returns active banners by sort order.
	ListBanners(ctx context.Context) ([]Banner, error)
	// ListCategories returns all categories by sort order.
	ListCategories(ctx context.Context) ([]Category, error)
	ListFeaturedProducts(ctx context.Context, limit int) ([]Product, error)
	// ListNewArrivals returns the most recently added products first.
	ListNewArrivals(ctx context.Context, limit int) ([]Product, error)
}

// Price returns a float pointer, handy for optional original prices.
func Price(v float64) *float64 {
	return &v
}
