package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"example.com/storefront/internal/sqliteutil"
)

// Store reads and writes catalog rows in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore constructs a catalog data access object.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init applies the landing page, product, variation, banner and category schema.
func (s *Store) Init(ctx context.Context) error {
	return sqliteutil.Migrate(ctx, s.db, "catalog", []string{
		`CREATE TABLE IF NOT EXISTS landing_pages (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			meta_title TEXT,
			custom_css TEXT,
			sections TEXT NOT NULL DEFAULT '[]',
			theme_settings TEXT,
			product_ids TEXT NOT NULL DEFAULT '[]',
			is_published INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_landing_pages_slug ON landing_pages(slug);`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			price REAL NOT NULL,
			original_price REAL,
			images TEXT NOT NULL DEFAULT '[]',
			category_id TEXT,
			is_featured INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_products_created ON products(created_at);`,
		`CREATE TABLE IF NOT EXISTS product_variations (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			price REAL NOT NULL,
			original_price REAL,
			stock INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE INDEX IF NOT EXISTS idx_variations_product ON product_variations(product_id, sort_order);`,
		`CREATE TABLE IF NOT EXISTS banners (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			subtitle TEXT,
			image_url TEXT NOT NULL,
			link_url TEXT,
			badge TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			image_url TEXT,
			description TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0
		);`,
	})
}

// SavePage inserts or replaces a landing page.
func (s *Store) SavePage(ctx context.Context, p Page) error {
	sections := p.Sections
	if len(sections) == 0 {
		sections = json.RawMessage("[]")
	}
	productIDs, err := json.Marshal(nonNil(p.ProductIDs))
	if err != nil {
		return fmt.Errorf("encode product ids: %w", err)
	}
	var theme any
	if len(p.ThemeSettings) > 0 {
		theme = string(p.ThemeSettings)
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO landing_pages(id, slug, title, meta_title, custom_css, sections, theme_settings, product_ids, is_published, is_active, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET slug = excluded.slug, title = excluded.title,
			meta_title = excluded.meta_title, custom_css = excluded.custom_css,
			sections = excluded.sections, theme_settings = excluded.theme_settings,
			product_ids = excluded.product_ids, is_published = excluded.is_published,
			is_active = excluded.is_active, updated_at = excluded.updated_at`,
		p.ID, p.Slug, p.Title, nullString(p.MetaTitle), nullString(p.CustomCSS), string(sections), theme,
		string(productIDs), sqliteutil.BoolInt(p.IsPublished), sqliteutil.BoolInt(p.IsActive), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	return nil
}

// SaveProduct inserts or replaces a product.
func (s *Store) SaveProduct(ctx context.Context, p Product) error {
	images, err := json.Marshal(nonNil(p.Images))
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products(id, name, slug, description, price, original_price, images, category_id, is_featured)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug,
			description = excluded.description, price = excluded.price,
			original_price = excluded.original_price, images = excluded.images,
			category_id = excluded.category_id, is_featured = excluded.is_featured`,
		p.ID, p.Name, p.Slug, nullString(p.Description), p.Price, p.OriginalPrice, string(images),
		nullString(p.CategoryID), sqliteutil.BoolInt(p.IsFeatured),
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// SaveVariation inserts or replaces a product variation.
func (s *Store) SaveVariation(ctx context.Context, v Variation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product_variations(id, product_id, name, price, original_price, stock, sort_order, is_active)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET product_id = excluded.product_id, name = excluded.name,
			price = excluded.price, original_price = excluded.original_price, stock = excluded.stock,
			sort_order = excluded.sort_order, is_active = excluded.is_active`,
		v.ID, v.ProductID, v.Name, v.Price, v.OriginalPrice, v.Stock, v.SortOrder, sqliteutil.BoolInt(v.IsActive),
	)
	if err != nil {
		return fmt.Errorf("save variation: %w", err)
	}
	return nil
}

// GetPageBySlug returns the single published, active page with the slug.
// Zero or several matches are both reported as ErrNotFound.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, title, meta_title, custom_css, sections, theme_settings, product_ids, is_published, is_active, updated_at
		 FROM landing_pages WHERE slug = ? AND is_published = 1 AND is_active = 1 LIMIT 2`, slug)
	if err != nil {
		return Page{}, fmt.Errorf("query page: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var (
			p                           Page
			metaTitle, customCSS, theme sql.NullString
			sections, productIDs        string
			published, active           int
		)
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &metaTitle, &customCSS, &sections, &theme, &productIDs, &published, &active, &p.UpdatedAt); err != nil {
			return Page{}, fmt.Errorf("scan page: %w", err)
		}
		p.MetaTitle = metaTitle.String
		p.CustomCSS = customCSS.String
		p.Sections = json.RawMessage(sections)
		if theme.Valid && theme.String != "" {
			p.ThemeSettings = json.RawMessage(theme.String)
		}
		if err := json.Unmarshal([]byte(productIDs), &p.ProductIDs); err != nil {
			p.ProductIDs = nil
		}
		p.IsPublished = published == 1
		p.IsActive = active == 1
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("iterate pages: %w", err)
	}
	if len(pages) != 1 {
		return Page{}, fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}
	return pages[0], nil
}

// GetProductsByIDs loads the products with the given ids. Unknown ids are
// skipped; the result follows the order of ids.
func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	out := make([]Product, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out, nil
}

// GetProductBySlug loads one product by its slug.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, fmt.Errorf("product %q: %w", slug, ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

// GetActiveVariations lists active variations for a product by sort_order.
func (s *Store) GetActiveVariations(ctx context.Context, productID string) ([]Variation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, name, price, original_price, stock, sort_order, is_active
		 FROM product_variations WHERE product_id = ? AND is_active = 1 ORDER BY sort_order ASC, id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("query variations: %w", err)
	}
	defer rows.Close()

	var out []Variation
	for rows.Next() {
		var (
			v        Variation
			original sql.NullFloat64
			active   int
		)
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &original, &v.Stock, &v.SortOrder, &active); err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		if original.Valid {
			v.OriginalPrice = Price(original.Float64)
		}
		v.IsActive = active == 1
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variations: %w", err)
	}
	return out, nil
}

// ListBanners returns active banners by sort_order.
func (s *Store) ListBanners(ctx context.Context) ([]Banner, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subtitle, image_url, link_url, badge, sort_order, is_active
		 FROM banners WHERE is_active = 1 ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query banners: %w", err)
	}
	defer rows.Close()

	var out []Banner
	for rows.Next() {
		var (
			b                     Banner
			subtitle, link, badge sql.NullString
			active                int
		)
		if err := rows.Scan(&b.ID, &b.Title, &subtitle, &b.ImageURL, &link, &badge, &b.SortOrder, &active); err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		b.Subtitle = subtitle.String
		b.LinkURL = link.String
		b.Badge = badge.String
		b.IsActive = active == 1
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banners: %w", err)
	}
	return out, nil
}

// ListCategories returns every category by sort_order.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, image_url, description, sort_order FROM categories ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var (
			c                  Category
			image, description sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &image, &description, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ImageURL = image.String
		c.Description = description.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// ListFeaturedProducts returns featured products in insertion order.
func (s *Store) ListFeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	return s.listProducts(ctx, `WHERE is_featured = 1 ORDER BY rowid ASC`, limit)
}

// ListNewArrivals returns the newest products first.
func (s *Store) ListNewArrivals(ctx context.Context, limit int) ([]Product, error) {
	return s.listProducts(ctx, `ORDER BY created_at DESC, rowid DESC`, limit)
}

func (s *Store) listProducts(ctx context.Context, clause string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products `+clause+` LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// SaveBanner inserts or replaces a home page banner.
func (s *Store) SaveBanner(ctx context.Context, b Banner) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO banners(id, title, subtitle, image_url, link_url, badge, sort_order, is_active)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, subtitle = excluded.subtitle,
			image_url = excluded.image_url, link_url = excluded.link_url, badge = excluded.badge,
			sort_order = excluded.sort_order, is_active = excluded.is_active`,
		b.ID, b.Title, nullString(b.Subtitle), b.ImageURL, nullString(b.LinkURL), nullString(b.Badge),
		b.SortOrder, sqliteutil.BoolInt(b.IsActive),
	)
	if err != nil {
		return fmt.Errorf("save banner: %w", err)
	}
	return nil
}

// SaveCategory inserts or replaces a category.
func (s *Store) SaveCategory(ctx context.Context, c Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories(id, name, slug, image_url, description, sort_order)
		 VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug,
			image_url = excluded.image_url, description = excluded.description, sort_order = excluded.sort_order`,
		c.ID, c.Name, c.Slug, nullString(c.ImageURL), nullString(c.Description), c.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

const productColumns = `id, name, slug, description, price, original_price, images, category_id, is_featured`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var (
		p                     Product
		description, category sql.NullString
		original              sql.NullFloat64
		images                string
		featured              int
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &description, &p.Price, &original, &images, &category, &featured); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.Description = description.String
	p.CategoryID = category.String
	p.IsFeatured = featured == 1
	if original.Valid {
		p.OriginalPrice = Price(original.Float64)
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil || p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
