package checkout

import "github.com/shopspring/decimal"

// Zone is a delivery-cost tier.
type Zone string

const (
	InsideDhaka  Zone = "inside_dhaka"
	OutsideDhaka Zone = "outside_dhaka"
)

// DefaultZone is preselected on every checkout form.
const DefaultZone = OutsideDhaka

// ShippingRates is the fixed delivery cost per zone, in taka.
var ShippingRates = map[Zone]float64{
	InsideDhaka:  80,
	OutsideDhaka: 130,
}

// Valid reports whether z has a shipping rate.
func (z Zone) Valid() bool {
	_, ok := ShippingRates[z]
	return ok
}

// ShippingCost returns 0 for free delivery, else the zone rate.
func ShippingCost(zone Zone, freeDelivery bool) float64 {
	if freeDelivery {
		return 0
	}
	return ShippingRates[zone]
}

// DiscountPercent is round((original-price)/original*100), or 0 when there
// is no markdown.
func DiscountPercent(price, original float64) int {
	if original <= 0 || original <= price {
		return 0
	}
	o := amount(original)
	return int(o.Sub(amount(price)).Div(o).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// Savings is original-price, or 0 when there is no markdown.
func Savings(price, original float64) float64 {
	if original <= price {
		return 0
	}
	return amount(original).Sub(amount(price)).InexactFloat64()
}

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Bundle is an "N pieces for X" offer.
type Bundle struct {
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Active reports whether the offer is configured.
func (b Bundle) Active() bool {
	return b.Price > 0 && b.Qty > 0
}

// Totals is the priced state of a cart.
type Totals struct {
	TotalQty  int     `json:"totalQty"`
	RawTotal  float64 `json:"rawTotal"`
	Subtotal  float64 `json:"subtotal"`
	Savings   float64 `json:"savings"`
	Shipping  float64 `json:"shipping"`
	Total     float64 `json:"total"`
	BundleHit bool    `json:"bundleApplied"`
}

// PriceLines applies bundle pricing to cart lines. When the total quantity
// reaches the bundle size, full bundles cost the bundle price and the
// remainder is charged at the first line's unit price. Sums are exact
// decimals; Totals carries them as plain numbers for the view.
func PriceLines(lines []Line, bundle Bundle) Totals {
	var t Totals
	raw := decimal.Zero
	for _, l := range lines {
		t.TotalQty += l.Quantity
		raw = raw.Add(amount(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal := raw
	if bundle.Active() && len(lines) > 0 && t.TotalQty >= bundle.Qty {
		fullBundles := decimal.NewFromInt(int64(t.TotalQty / bundle.Qty))
		remainder := decimal.NewFromInt(int64(t.TotalQty % bundle.Qty))
		subtotal = fullBundles.Mul(amount(bundle.Price)).Add(remainder.Mul(amount(lines[0].Price)))
		t.BundleHit = true
	}
	t.RawTotal = raw.InexactFloat64()
	t.Subtotal = subtotal.InexactFloat64()
	t.Savings = raw.Sub(subtotal).InexactFloat64()
	return t
}

// WithShipping fills shipping and total.
func (t Totals) WithShipping(shipping float64) Totals {
	t.Shipping = shipping
	t.Total = amount(t.Subtotal).Add(amount(shipping)).InexactFloat64()
	return t
}
