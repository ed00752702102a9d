package landing

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/logging"
)

func TestLoadProductPageBySlug(t *testing.T) {
	page, err := LoadProductPage(context.Background(), catalog.NewDemoProvider(), "slim-fit-denim-jeans")
	require.NoError(t, err)
	assert.Equal(t, "demo-2", page.Product.ID)
	assert.Len(t, page.Product.Variations, 4)
}

func TestLoadProductPageViaLandingPage(t *testing.T) {
	provider := catalog.NewDemoProvider()
	provider.AddPage(catalog.Page{Slug: "eid-offer", Sections: json.RawMessage(`[]`), ProductIDs: []string{"demo-1", "demo-2"}, IsPublished: true, IsActive: true})

	page, err := LoadProductPage(context.Background(), provider, "eid-offer")
	require.NoError(t, err)
	assert.Equal(t, "demo-1", page.Product.ID)
	assert.Equal(t, "eid-offer", page.Slug)
}

func TestLoadProductPageNotFound(t *testing.T) {
	_, err := LoadProductPage(context.Background(), catalog.NewDemoProvider(), "nothing-here")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDedupeVariations(t *testing.T) {
	in := []catalog.Variation{{ID: "1", Name: "M"}, {ID: "2", Name: " m "}, {ID: "3", Name: ""}, {ID: "4", Name: "L"}}
	out := DedupeVariations(in)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "4", out[1].ID)
}

func TestMountProduct(t *testing.T) {
	page, err := LoadProductPage(context.Background(), catalog.NewDemoProvider(), "premium-cotton-tshirt-navy")
	require.NoError(t, err)

	inst := MountProduct(context.Background(), page, MountOptions{Logger: logging.Discard()})
	defer inst.Close()

	view := inst.Render().(ProductPageView)
	assert.Equal(t, "demo-1", view.ProductID)
	assert.Len(t, view.Gallery, 3)
	assert.Equal(t, 24, view.DiscountPercent)
	assert.Equal(t, 200.0, view.Savings)
	assert.Equal(t, []string{"১০০% প্রিমিয়াম কটন", "ব্রিদেবল ফ্যাব্রিক", "মেশিন ওয়াশেবল"}, view.Description)
	require.NotNil(t, view.Checkout)
	assert.False(t, view.Checkout.CartMode)
	assert.Equal(t, "demo-1-M", view.Checkout.SelectedVariationID)

	engine := inst.Checkout(ProductCheckoutID)
	name, phone, address := "Rahim", "12345", "Dhaka"
	require.NoError(t, engine.UpdateForm(checkout.FormUpdate{Name: &name, Phone: &phone, Address: &address}))
	_, err = engine.Submit(context.Background(), &recordingPlacer{})
	assert.ErrorIs(t, err, checkout.ErrInvalidPhone)
}

func TestProductGalleryNeedsTwoImages(t *testing.T) {
	p := &ProductPage{Slug: "x", Product: checkout.Product{Product: catalog.Product{ID: "x", Images: []string{"only.jpg"}}}}
	view := p.Render(RenderContext{})
	assert.Nil(t, view.Gallery)
	assert.Nil(t, view.Checkout)

	many := make([]string, 9)
	for i := range many {
		many[i] = string(rune('a' + i))
	}
	p.Product.Images = many
	assert.Len(t, p.Render(RenderContext{}).Gallery, maxGalleryImages)
}
