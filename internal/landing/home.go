package landing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/media"
)

// BannerInterval is the auto-rotate period of the home banners.
const BannerInterval = 5 * time.Second

// HomeBannersID is the carousel id of the home banners.
const HomeBannersID = "banners"

// HomeSlug is the slug a mounted home page reports.
const HomeSlug = "home"

const (
	homeFeaturedLimit    = 8
	homeNewArrivalsLimit = 4

	defaultBannerBadge = "নতুন"
	defaultBannerLink  = "/products"
)

// HomePage is the storefront home: rotating banners, category tiles and
// two product rails.
type HomePage struct {
	Banners     []catalog.Banner
	Categories  []catalog.Category
	Featured    []catalog.Product
	NewArrivals []catalog.Product
}

// LoadHomePage loads the four home lists concurrently.
func LoadHomePage(ctx context.Context, src catalog.Source) (*HomePage, error) {
	var h HomePage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if h.Banners, err = src.ListBanners(gctx); err != nil {
			return fmt.Errorf("list banners: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if h.Categories, err = src.ListCategories(gctx); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if h.Featured, err = src.ListFeaturedProducts(gctx, homeFeaturedLimit); err != nil {
			return fmt.Errorf("list featured products: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if h.NewArrivals, err = src.ListNewArrivals(gctx, homeNewArrivalsLimit); err != nil {
			return fmt.Errorf("list new arrivals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &h, nil
}

type BannerView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	Link     string `json:"link"`
	Badge    string `json:"badge"`
}

type CategoryView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
	Link  string `json:"link"`
}

// ProductCardView is a product tile in a home rail.
type ProductCardView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Link            string   `json:"link"`
	Image           string   `json:"image,omitempty"`
	Price           float64  `json:"price"`
	OriginalPrice   *float64 `json:"originalPrice,omitempty"`
	DiscountPercent int      `json:"discountPercent,omitempty"`
}

// HomeView is the render tree of the home page.
type HomeView struct {
	Slug        string            `json:"slug"`
	Banners     []BannerView      `json:"banners"`
	Carousel    CarouselState     `json:"carousel"`
	Categories  []CategoryView    `json:"categories"`
	Featured    []ProductCardView `json:"featured"`
	NewArrivals []ProductCardView `json:"newArrivals"`
}

// Render builds the view. The banner position comes from state when the
// page is mounted.
func (h *HomePage) Render(rc RenderContext) HomeView {
	v := HomeView{
		Slug:        HomeSlug,
		Banners:     make([]BannerView, 0, len(h.Banners)),
		Categories:  make([]CategoryView, 0, len(h.Categories)),
		Featured:    productCards(h.Featured, rc),
		NewArrivals: productCards(h.NewArrivals, rc),
	}
	for _, b := range h.Banners {
		v.Banners = append(v.Banners, BannerView{
			ID:       b.ID,
			Title:    b.Title,
			Subtitle: b.Subtitle,
			Image:    rc.image(b.ImageURL, media.AspectLandscape),
			Link:     orDefault(b.LinkURL, defaultBannerLink),
			Badge:    orDefault(b.Badge, defaultBannerBadge),
		})
	}
	if c := rc.carousel(HomeBannersID); c != nil {
		v.Carousel = c.State()
	} else {
		v.Carousel = NewWrapCarousel(len(v.Banners)).State()
	}
	for _, c := range h.Categories {
		cv := CategoryView{ID: c.ID, Name: c.Name, Slug: c.Slug, Link: "/products?category=" + c.Slug}
		if c.ImageURL != "" {
			cv.Image = rc.image(c.ImageURL, media.AspectSquare)
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}

func productCards(products []catalog.Product, rc RenderContext) []ProductCardView {
	out := make([]ProductCardView, 0, len(products))
	for _, p := range products {
		card := ProductCardView{
			ID:            p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			Link:          "/product/" + p.Slug,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
		}
		if len(p.Images) > 0 {
			card.Image = rc.image(p.Images[0], media.AspectSquare)
		}
		if p.OriginalPrice != nil {
			card.DiscountPercent = checkout.DiscountPercent(p.Price, *p.OriginalPrice)
		}
		out = append(out, card)
	}
	return out
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
