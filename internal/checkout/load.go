package checkout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"example.com/storefront/internal/catalog"
)

// Product is a catalog product with its active variations.
type Product struct {
	catalog.Product
	Variations []catalog.Variation `json:"variations"`
}

// ProductSource is the part of the catalog read contract checkout needs.
type ProductSource interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
	GetActiveVariations(ctx context.Context, productID string) ([]catalog.Variation, error)
}

// LoadProducts fetches products and their variations concurrently. The
// result follows the order the source returned the products in.
func LoadProducts(ctx context.Context, src ProductSource, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	products, err := src.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make([]Product, len(products))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range products {
		g.Go(func() error {
			variations, err := src.GetActiveVariations(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("load variations for %s: %w", p.ID, err)
			}
			if p.Images == nil {
				p.Images = []string{}
			}
			if variations == nil {
				variations = []catalog.Variation{}
			}
			out[i] = Product{Product: p, Variations: variations}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
