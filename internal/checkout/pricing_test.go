package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 24, DiscountPercent(650, 850))
	assert.Equal(t, 22, DiscountPercent(3500, 4500))
	assert.Equal(t, 22, DiscountPercent(1450, 1850))
	assert.Equal(t, 0, DiscountPercent(900, 850))
	assert.Equal(t, 0, DiscountPercent(100, 0))
	assert.Equal(t, 200.0, Savings(650, 850))
	assert.Equal(t, 0.0, Savings(900, 850))
}

func TestShippingCost(t *testing.T) {
	assert.Equal(t, 80.0, ShippingCost(InsideDhaka, false))
	assert.Equal(t, 130.0, ShippingCost(OutsideDhaka, false))
	assert.Equal(t, 0.0, ShippingCost(OutsideDhaka, true))
	assert.False(t, Zone("mars").Valid())
}

func TestPriceLinesBundle(t *testing.T) {
	bundle := Bundle{Price: 2600, Qty: 2}
	cases := []struct {
		name     string
		lines    []Line
		subtotal float64
		raw      float64
	}{
		{"below threshold", []Line{{Price: 1450, Quantity: 1}}, 1450, 1450},
		{"exact bundle", []Line{{Price: 1450, Quantity: 2}}, 2600, 2900},
		{"bundle plus remainder", []Line{{Price: 1450, Quantity: 3}}, 4050, 4350},
		{"two bundles across lines", []Line{{Price: 1450, Quantity: 1}, {Price: 1450, Quantity: 3}}, 5200, 5800},
		// remainder uses the first line's price even if later lines differ
		{"mixed prices", []Line{{Price: 1000, Quantity: 1}, {Price: 1500, Quantity: 2}}, 3600, 4000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := PriceLines(tc.lines, bundle)
			assert.Equal(t, tc.subtotal, totals.Subtotal)
			assert.Equal(t, tc.raw, totals.RawTotal)
			assert.Equal(t, tc.raw-tc.subtotal, totals.Savings)
			assert.GreaterOrEqual(t, totals.Savings, 0.0)
		})
	}
}

func TestPriceLinesProperty(t *testing.T) {
	for q := 1; q <= 4; q++ {
		bundle := Bundle{Price: 900 * float64(q), Qty: q}
		for total := q; total <= 12; total++ {
			lines := []Line{{Price: 1000, Quantity: total}}
			got := PriceLines(lines, bundle)
			want := float64(total/q)*bundle.Price + float64(total%q)*1000
			assert.Equal(t, want, got.Subtotal, "q=%d total=%d", q, total)
			assert.GreaterOrEqual(t, got.Savings, 0.0)
		}
	}
}

func TestPriceLinesWithoutBundle(t *testing.T) {
	totals := PriceLines([]Line{{Price: 650, Quantity: 2}, {Price: 700, Quantity: 1}}, Bundle{}).WithShipping(80)
	assert.Equal(t, 3, totals.TotalQty)
	assert.Equal(t, 2000.0, totals.Subtotal)
	assert.Equal(t, 2080.0, totals.Total)
	assert.False(t, totals.BundleHit)
}

func TestPriceLinesFractionalPricesAreExact(t *testing.T) {
	totals := PriceLines([]Line{{Price: 0.1, Quantity: 3}, {Price: 99.9, Quantity: 3}}, Bundle{}).WithShipping(0.2)
	assert.Equal(t, 300.0, totals.Subtotal)
	assert.Equal(t, 300.2, totals.Total)

	bundled := PriceLines([]Line{{Price: 99.9, Quantity: 3}}, Bundle{Price: 150.3, Qty: 2})
	assert.Equal(t, 250.2, bundled.Subtotal)
	assert.Equal(t, 49.5, bundled.Savings)
}

func TestPalette(t *testing.T) {
	assert.Equal(t, "Ash", ColorName(0))
	assert.Equal(t, "Maroon", ColorName(5))
	assert.Equal(t, "Color 7", ColorName(6))

	images := []string{"a", "b"}
	assert.Equal(t, "b", ColorImage(images, 1))
	assert.Equal(t, "a", ColorImage(images, 4))
	assert.Equal(t, "", ColorImage(nil, 0))

	assert.Nil(t, ColorOptions([]string{"only"}))
	assert.Len(t, ColorOptions(images), 2)
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("01712345678"))
	assert.True(t, ValidPhone("017 1234 5678"))
	assert.False(t, ValidPhone("01212345678"))
	assert.False(t, ValidPhone("0171234567"))
	assert.False(t, ValidPhone("+8801712345678"))
}

func TestSizeLabel(t *testing.T) {
	assert.Equal(t, "XL", SizeLabel("Size XL"))
	assert.Equal(t, "500g", SizeLabel("Weight: 500g"))
	assert.Equal(t, "32", SizeLabel(" 32 "))
}
