package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// DemoProvider is an in-memory catalog used as the fallback when the
// primary store has nothing for a lookup, and as seed data for new databases.
// Its featured list is the whole showcase in insertion order.
type DemoProvider struct {
	mu         sync.RWMutex
	pages      map[string]Page
	products   map[string]Product
	variations map[string][]Variation
	order      []string
	arrivals   []string
	banners    []Banner
	categories []Category
}

// NewDemoProvider returns a provider preloaded with the demo fashion catalog.
func NewDemoProvider() *DemoProvider {
	d := &DemoProvider{
		pages:      make(map[string]Page),
		products:   make(map[string]Product),
		variations: make(map[string][]Variation),
	}
	for _, p := range demoProducts() {
		d.AddProduct(p.product, p.variations...)
		if p.isNew {
			d.arrivals = append(d.arrivals, p.product.ID)
		}
	}
	d.AddPage(demoPage())
	d.banners = demoBanners()
	d.categories = demoCategories()
	return d
}

// AddProduct registers a product and its variations.
func (d *DemoProvider) AddProduct(p Product, variations ...Variation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.products[p.ID]; !ok {
		d.order = append(d.order, p.ID)
	}
	d.products[p.ID] = p
	d.variations[p.ID] = append([]Variation(nil), variations...)
}

// AddPage registers a page under its slug.
func (d *DemoProvider) AddPage(p Page) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[p.Slug] = p
}

func (d *DemoProvider) GetPageBySlug(_ context.Context, slug string) (Page, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.pages[slug]
	if !ok || !p.IsPublished || !p.IsActive {
		return Page{}, fmt.Errorf("demo page %q: %w", slug, ErrNotFound)
	}
	return p, nil
}

func (d *DemoProvider) GetProductsByIDs(_ context.Context, ids []string) ([]Product, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Product
	for _, id := range ids {
		if p, ok := d.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *DemoProvider) GetProductBySlug(_ context.Context, slug string) (Product, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("demo product %q: %w", slug, ErrNotFound)
}

func (d *DemoProvider) GetActiveVariations(_ context.Context, productID string) ([]Variation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Variation
	for _, v := range d.variations[productID] {
		if v.IsActive {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (d *DemoProvider) ListBanners(_ context.Context) ([]Banner, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Banner
	for _, b := range d.banners {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (d *DemoProvider) ListCategories(_ context.Context) ([]Category, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Category(nil), d.categories...), nil
}

func (d *DemoProvider) ListFeaturedProducts(_ context.Context, limit int) ([]Product, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.productsLocked(d.order, limit), nil
}

func (d *DemoProvider) ListNewArrivals(_ context.Context, limit int) ([]Product, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.productsLocked(d.arrivals, limit), nil
}

func (d *DemoProvider) productsLocked(ids []string, limit int) []Product {
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := d.products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Seed copies every demo page, product, variation, banner and category into
// the store. Products are written in showcase order.
func (d *DemoProvider) Seed(ctx context.Context, store *Store) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, id := range d.order {
		p := d.products[id]
		if err := store.SaveProduct(ctx, p); err != nil {
			return err
		}
		for _, v := range d.variations[p.ID] {
			if err := store.SaveVariation(ctx, v); err != nil {
				return err
			}
		}
	}
	for _, p := range d.pages {
		if err := store.SavePage(ctx, p); err != nil {
			return err
		}
	}
	for _, b := range d.banners {
		if err := store.SaveBanner(ctx, b); err != nil {
			return err
		}
	}
	for _, c := range d.categories {
		if err := store.SaveCategory(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

type demoProduct struct {
	product    Product
	variations []Variation
	isNew      bool
}

func demoProducts() []demoProduct {
	sizes := func(productID string, names []string, price, original float64) []Variation {
		out := make([]Variation, 0, len(names))
		for i, name := range names {
			out = append(out, Variation{
				ID:            fmt.Sprintf("%s-%s", productID, name),
				ProductID:     productID,
				Name:          name,
				Price:         price,
				OriginalPrice: Price(original),
				Stock:         10,
				SortOrder:     i + 1,
				IsActive:      true,
			})
		}
		return out
	}
	return []demoProduct{
		{
			product: Product{
				ID:            "demo-1",
				Name:          "প্রিমিয়াম কটন টি-শার্ট - নেভি ব্লু",
				Slug:          "premium-cotton-tshirt-navy",
				CategoryID:    "demo-cat-1",
				Description:   "✅ ১০০% প্রিমিয়াম কটন\n✅ ব্রিদেবল ফ্যাব্রিক\n✅ মেশিন ওয়াশেবল",
				Price:         650,
				OriginalPrice: Price(850),
				Images: []string{
					"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800&q=80",
					"https://images.unsplash.com/photo-1583743814966-8936f5b7be1a?w=800&q=80",
					"https://images.unsplash.com/photo-1562157873-818bc0726f68?w=800&q=80",
				},
			},
			variations: sizes("demo-1", []string{"M", "L", "XL", "XXL"}, 650, 850),
			isNew:      true,
		},
		{
			product: Product{
				ID:            "demo-2",
				Name:          "স্লিম ফিট ডেনিম জিন্স",
				Slug:          "slim-fit-denim-jeans",
				CategoryID:    "demo-cat-2",
				IsFeatured:    true,
				Description:   "• স্ট্রেচ ডেনিম\n• স্লিম ফিট\n• ফ্যাশনেবল লুক",
				Price:         1450,
				OriginalPrice: Price(1850),
				Images: []string{
					"https://images.unsplash.com/photo-1542272454315-4c01d7abdf4a?w=800&q=80",
					"https://images.unsplash.com/photo-1541099649105-f69ad21f3246?w=800&q=80",
				},
			},
			variations: sizes("demo-2", []string{"30", "32", "34", "36"}, 1450, 1850),
		},
		showcase("demo-3", "ক্লাসিক পোলো শার্ট - হোয়াইট", "classic-polo-white", "demo-cat-3", 850, 1100, "photo-1625910513413-5fc6e2bc6b12", false, true),
		showcase("demo-4", "ফর্মাল অফিস শার্ট - স্কাই ব্লু", "formal-office-shirt-blue", "demo-cat-4", 950, 1200, "photo-1602810318383-e386cc2a3ccf", false, false),
		showcase("demo-5", "কম্ফোর্ট ফিট চিনো প্যান্ট", "comfort-fit-chino", "demo-cat-5", 1250, 1500, "photo-1624378439575-d8705ad7ae80", false, false),
		showcase("demo-6", "উইন্টার লেদার জ্যাকেট", "winter-leather-jacket", "demo-cat-6", 3500, 4500, "photo-1551028719-00167b16eac5", true, false),
		showcase("demo-7", "স্পোর্টস ট্র্যাক প্যান্ট", "sports-track-pants", "demo-cat-5", 750, 950, "photo-1556906781-9a412961c28c", false, true),
		showcase("demo-8", "গ্রাফিক প্রিন্ট টি-শার্ট", "graphic-print-tshirt", "demo-cat-1", 550, 750, "photo-1576566588028-4147f3842f27", false, false),
	}
}

// showcase builds a home page product without variations.
func showcase(id, name, slug, categoryID string, price, original float64, photo string, featured, isNew bool) demoProduct {
	return demoProduct{
		product: Product{
			ID:            id,
			Name:          name,
			Slug:          slug,
			Price:         price,
			OriginalPrice: Price(original),
			Images:        []string{unsplash(photo, 800)},
			CategoryID:    categoryID,
			IsFeatured:    featured,
		},
		isNew: isNew,
	}
}

func unsplash(photo string, width int) string {
	return fmt.Sprintf("https://images.unsplash.com/%s?w=%d&q=80", photo, width)
}

func demoCategories() []Category {
	items := []struct{ name, slug, photo string }{
		{"টি-শার্ট", "t-shirt", "photo-1521572163474-6864f9cf17ab"},
		{"জিন্স", "jeans", "photo-1542272454315-4c01d7abdf4a"},
		{"পোলো শার্ট", "polo", "photo-1625910513413-5fc6e2bc6b12"},
		{"ফর্মাল শার্ট", "formal-shirt", "photo-1602810318383-e386cc2a3ccf"},
		{"প্যান্ট", "pants", "photo-1624378439575-d8705ad7ae80"},
		{"জ্যাকেট", "jacket", "photo-1551028719-00167b16eac5"},
	}
	out := make([]Category, 0, len(items))
	for i, item := range items {
		out = append(out, Category{
			ID:        fmt.Sprintf("demo-cat-%d", i+1),
			Name:      item.name,
			Slug:      item.slug,
			ImageURL:  unsplash(item.photo, 400),
			SortOrder: i + 1,
		})
	}
	return out
}

func demoBanners() []Banner {
	return []Banner{
		{
			ID:        "demo-banner-1",
			Title:     "সামার কালেকশন ২০২৬",
			Subtitle:  "টি-শার্ট, পোলো এবং ক্যাজুয়াল ওয়্যারে ৪০% পর্যন্ত ছাড়",
			ImageURL:  unsplash("photo-1490114538077-0a7f8cb49891", 1920),
			LinkURL:   "/products?category=t-shirt",
			Badge:     "৪০% ছাড়",
			SortOrder: 1,
			IsActive:  true,
		},
		{
			ID:        "demo-banner-2",
			Title:     "প্রিমিয়াম জিন্স কালেকশন",
			Subtitle:  "স্লিম ফিট, রেগুলার ফিট - সব স্টাইলে",
			ImageURL:  unsplash("photo-1507680434567-5739c80be1ac", 1920),
			LinkURL:   "/products?category=jeans",
			Badge:     "নতুন",
			SortOrder: 2,
			IsActive:  true,
		},
		{
			ID:        "demo-banner-3",
			Title:     "ফর্মাল কালেকশন",
			Subtitle:  "অফিস এবং পার্টির জন্য পারফেক্ট",
			ImageURL:  unsplash("photo-1617137968427-85924c800a22", 1920),
			LinkURL:   "/products?category=formal-shirt",
			Badge:     "ট্রেন্ডিং",
			SortOrder: 3,
			IsActive:  true,
		},
	}
}

func demoPage() Page {
	sections := []map[string]any{
		{"id": "hero", "type": "hero-product", "order": 0, "settings": map[string]any{
			"title":         "স্লিম ফিট ডেনিম জিন্স",
			"price":         "1450",
			"originalPrice": "1850",
			"buttonText":    "অর্ডার করুন",
			"buttonLink":    "#checkout",
			"images": []string{
				"https://images.unsplash.com/photo-1542272454315-4c01d7abdf4a?w=800&q=80",
				"https://images.unsplash.com/photo-1541099649105-f69ad21f3246?w=800&q=80",
			},
		}},
		{"id": "offer", "type": "countdown", "order": 1, "settings": map[string]any{
			"title":   "অফার শেষ হতে বাকি",
			"endDate": "2030-01-01T00:00:00Z",
		}},
		{"id": "checkout", "type": "checkout-form", "order": 2, "settings": map[string]any{
			"title":       "অর্ডার করতে নিচের ফর্মটি পূরণ করুন",
			"productIds":  []string{"demo-2"},
			"cartMode":    true,
			"bundlePrice": 2600,
			"bundleQty":   2,
		}},
	}
	raw, _ := json.Marshal(sections)
	return Page{
		ID:          "demo-page",
		Slug:        "demo",
		Title:       "Demo landing page",
		MetaTitle:   "স্লিম ফিট ডেনিম জিন্স",
		Sections:    raw,
		ProductIDs:  []string{"demo-2"},
		IsPublished: true,
		IsActive:    true,
	}
}
