package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/sqliteutil"
)

// Order is a priced, persisted landing page order. Amounts are exact
// decimals and are stored as text.
type Order struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"order_number"`
	Source       string          `json:"source"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Zone         checkout.Zone   `json:"shipping_zone"`
	Notes        string          `json:"notes,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	Items        []Item          `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Item is one priced order line.
type Item struct {
	ProductID     string          `json:"product_id"`
	VariationID   string          `json:"variation_id,omitempty"`
	ProductName   string          `json:"product_name"`
	VariationName string          `json:"variation_name,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	ProductImage  string          `json:"product_image,omitempty"`
	ColorName     string          `json:"color_name,omitempty"`
}

// Store persists orders in SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init applies the orders schema.
func (s *Store) Init(ctx context.Context) error {
	return sqliteutil.Migrate(ctx, s.db, "orders", []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL,
			shipping_zone TEXT NOT NULL,
			notes TEXT,
			subtotal TEXT NOT NULL,
			shipping TEXT NOT NULL,
			discount TEXT NOT NULL DEFAULT '0',
			total TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_phone ON orders(phone);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			line INTEGER NOT NULL,
			product_id TEXT NOT NULL,
			variation_id TEXT,
			product_name TEXT NOT NULL,
			variation_name TEXT,
			price TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			product_image TEXT,
			color_name TEXT,
			PRIMARY KEY(order_id, line)
		);`,
	})
}

// SaveOrder writes the order and its items in one transaction. Saving an
// order id that already exists is a no-op so retried activities stay safe.
func (s *Store) SaveOrder(ctx context.Context, o Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save order: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, source, customer_name, phone, address, shipping_zone, notes, subtotal, shipping, discount, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		o.ID, o.OrderNumber, o.Source, o.CustomerName, o.Phone, o.Address, string(o.Zone), o.Notes,
		o.Subtotal, o.Shipping, o.Discount, o.Total, o.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	for i, item := range o.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, line, product_id, variation_id, product_name, variation_name, price, quantity, product_image, color_name)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, i, item.ProductID, item.VariationID, item.ProductName, item.VariationName,
			item.Price, item.Quantity, item.ProductImage, item.ColorName); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// GetOrder loads an order with its items.
func (s *Store) GetOrder(ctx context.Context, id string) (Order, error) {
	var o Order
	var zone string
	var notes sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, order_number, source, customer_name, phone, address, shipping_zone, notes, subtotal, shipping, discount, total, created_at
		FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.OrderNumber, &o.Source, &o.CustomerName, &o.Phone, &o.Address, &zone, &notes,
			&o.Subtotal, &o.Shipping, &o.Discount, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, catalog.ErrNotFound
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Zone = checkout.Zone(zone)
	o.Notes = notes.String

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, variation_id, product_name, variation_name, price, quantity, product_image, color_name
		FROM order_items WHERE order_id = ? ORDER BY line`, id)
	if err != nil {
		return Order{}, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item Item
		var variationID, variationName, image, color sql.NullString
		if err := rows.Scan(&item.ProductID, &variationID, &item.ProductName, &variationName,
			&item.Price, &item.Quantity, &image, &color); err != nil {
			return Order{}, fmt.Errorf("scan order item: %w", err)
		}
		item.VariationID = variationID.String
		item.VariationName = variationName.String
		item.ProductImage = image.String
		item.ColorName = color.String
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Order{}, fmt.Errorf("iterate order items: %w", err)
	}
	return o, nil
}
