package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"example.com/storefront/internal/catalog"
)

// Options configures one checkout section instance.
type Options struct {
	// CartMode enables the multi-line cart with bundle pricing. Without it
	// the form orders a single variation in a chosen quantity.
	CartMode      bool
	FreeDelivery  bool
	BundlePrice   float64
	BundleQty     int
	ValidatePhone bool
	Slug          string
}

// Line is one distinct (product, color, variation) selection in the cart.
type Line struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	ColorIdx    int     `json:"colorIdx"`
	ColorName   string  `json:"colorName"`
	VariationID string  `json:"variationId"`
	SizeName    string  `json:"sizeName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// Form holds the customer contact fields.
type Form struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// FormUpdate carries a partial form edit; nil fields are left alone.
type FormUpdate struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	ShippingZone *Zone   `json:"shippingZone"`
}

// Engine is the state of one checkout section: loaded products, the
// pending color/size selection, the cart, the order form and the
// submission latch. It is safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger

	products []Product
	loaded   bool

	tempColor *int
	tempSize  string
	cart      []Line

	selectedVariationID string
	selectedColor       int
	quantity            int

	form       Form
	zone       Zone
	submitting bool
}

// NewEngine builds an empty engine.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	return &Engine{
		opts:     opts,
		logger:   logger,
		quantity: 1,
		zone:     DefaultZone,
	}
}

// Options returns the configuration the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Load fetches the products and installs them unless ctx was cancelled
// while loading, in which case the result is discarded.
func (e *Engine) Load(ctx context.Context, src ProductSource, ids []string) error {
	products, err := LoadProducts(ctx, src, ids)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.SetProducts(products)
	return nil
}

// SetProducts installs products. In single-select mode the first
// variation of the first product is preselected.
func (e *Engine) SetProducts(products []Product) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.products = products
	e.loaded = true
	if !e.opts.CartMode && e.selectedVariationID == "" && len(products) > 0 && len(products[0].Variations) > 0 {
		e.selectedVariationID = products[0].Variations[0].ID
	}
}

// SelectColor picks the color (image index) for the next cart line, or
// the ordered color in single-select mode.
func (e *Engine) SelectColor(idx int) error {
	if idx < 0 {
		return invalid(ErrSelectColor)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.opts.CartMode {
		e.tempColor = &idx
	} else {
		e.selectedColor = idx
	}
	return nil
}

// SelectSize picks a variation by id.
func (e *Engine) SelectSize(variationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, _, ok := e.findVariationLocked(variationID); !ok {
		return invalid(ErrSelectSize)
	}
	if e.opts.CartMode {
		e.tempSize = variationID
	} else {
		e.selectedVariationID = variationID
	}
	return nil
}

// AddToCart turns the pending selection into a cart line for productID.
// A matching (product, color, variation) line has its quantity bumped.
func (e *Engine) AddToCart(productID string) (Line, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	product, ok := e.findProductLocked(productID)
	if !ok {
		return Line{}, invalid(ErrSelectProduct)
	}
	if len(product.Images) > 1 && e.tempColor == nil {
		return Line{}, invalid(ErrSelectColor)
	}
	var variation *catalog.Variation
	if len(product.Variations) > 0 {
		if e.tempSize == "" {
			return Line{}, invalid(ErrSelectSize)
		}
		for i := range product.Variations {
			if product.Variations[i].ID == e.tempSize {
				variation = &product.Variations[i]
				break
			}
		}
		if variation == nil {
			return Line{}, invalid(ErrSelectSize)
		}
	}

	colorIdx := 0
	if e.tempColor != nil {
		colorIdx = *e.tempColor
	}
	line := Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		ColorIdx:    colorIdx,
		ColorName:   ColorName(colorIdx),
		Quantity:    1,
		Price:       product.Price,
		Image:       ColorImage(product.Images, colorIdx),
	}
	if variation != nil {
		line.VariationID = variation.ID
		line.SizeName = SizeLabel(variation.Name)
		line.Price = variation.Price
	}

	e.tempColor = nil
	e.tempSize = ""

	for i := range e.cart {
		existing := &e.cart[i]
		if existing.ProductID == line.ProductID && existing.ColorIdx == line.ColorIdx && existing.VariationID == line.VariationID {
			existing.Quantity++
			RecordOperation("add_to_cart", true)
			return *existing, nil
		}
	}
	line.ID = uuid.NewString()
	e.cart = append(e.cart, line)
	RecordOperation("add_to_cart", true)
	return line, nil
}

// AdjustQuantity changes a line's quantity by delta. A change that would
// drop below 1 is ignored; use RemoveLine to delete.
func (e *Engine) AdjustQuantity(lineID string, delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.cart {
		if e.cart[i].ID != lineID {
			continue
		}
		if next := e.cart[i].Quantity + delta; next >= 1 {
			e.cart[i].Quantity = next
		}
		return nil
	}
	return ErrLineNotFound
}

// RemoveLine deletes a line regardless of its quantity.
func (e *Engine) RemoveLine(lineID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.cart {
		if e.cart[i].ID == lineID {
			e.cart = append(e.cart[:i], e.cart[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// ChangeQuantity adjusts the single-select quantity, never below 1.
func (e *Engine) ChangeQuantity(delta int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quantity = max(1, e.quantity+delta)
	return e.quantity
}

// UpdateForm applies a partial edit of the contact fields and zone.
func (e *Engine) UpdateForm(u FormUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u.ShippingZone != nil {
		if !u.ShippingZone.Valid() {
			return ErrUnknownZone
		}
		e.zone = *u.ShippingZone
	}
	if u.Name != nil {
		e.form.Name = *u.Name
	}
	if u.Phone != nil {
		e.form.Phone = *u.Phone
	}
	if u.Address != nil {
		e.form.Address = *u.Address
	}
	return nil
}

// Totals prices the current state including shipping.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalsLocked()
}

func (e *Engine) totalsLocked() Totals {
	var t Totals
	if e.opts.CartMode {
		t = PriceLines(e.cart, e.bundle())
	} else if product, variation, ok := e.selectionLocked(); ok {
		t = PriceLines([]Line{{Quantity: e.quantity, Price: unitPrice(product, variation)}}, Bundle{})
	}
	return t.WithShipping(ShippingCost(e.zone, e.opts.FreeDelivery))
}

func (e *Engine) bundle() Bundle {
	return Bundle{Price: e.opts.BundlePrice, Qty: e.opts.BundleQty}
}

// Submit validates the form, calls the order function once and returns the
// confirmation summary. The submission latch is held for the duration of
// the call and released on every path. Cart and form survive failures.
func (e *Engine) Submit(ctx context.Context, placer Placer) (Confirmation, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return Confirmation{}, invalid(ErrSubmitting)
	}
	req, conf, err := e.prepareLocked()
	if err != nil {
		e.mu.Unlock()
		RecordOperation("submit_validation", false)
		return Confirmation{}, err
	}
	e.submitting = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	result, err := invoke(ctx, placer, req)
	if err != nil {
		e.logger.Error("order submission failed", "slug", e.opts.Slug, "error", err)
		RecordOperation("submit", false)
		return Confirmation{}, &OrderError{Message: MsgOrderFailed, Cause: err}
	}
	if result.Error != "" {
		e.logger.Warn("order rejected", "slug", e.opts.Slug, "error", result.Error, "error_code", result.ErrorCode)
		RecordOperation("submit", false)
		return Confirmation{}, &OrderError{Message: result.Error, Code: result.ErrorCode}
	}
	if result.OrderID == "" {
		e.logger.Error("order submission failed", "slug", e.opts.Slug, "error", "order was not created")
		RecordOperation("submit", false)
		return Confirmation{}, &OrderError{Message: MsgOrderFailed, Cause: errors.New("order was not created")}
	}

	conf.OrderNumber = result.OrderNumber
	if conf.OrderNumber == "" {
		conf.OrderNumber = result.OrderID
	}
	e.mu.Lock()
	if e.opts.CartMode {
		e.cart = nil
	}
	e.mu.Unlock()

	RecordOperation("submit", true)
	orderTotals.Observe(conf.Total)
	e.logger.Info("order placed", "slug", e.opts.Slug, "order_id", result.OrderID, "order_number", conf.OrderNumber, "total", conf.Total)
	return conf, nil
}

// invoke converts a panicking placer into an error so the latch is released.
func invoke(ctx context.Context, placer Placer, req OrderRequest) (result OrderResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("order placer panicked: %v", r)
		}
	}()
	return placer.PlaceOrder(ctx, req)
}

func (e *Engine) prepareLocked() (OrderRequest, Confirmation, error) {
	form := Form{
		Name:    strings.TrimSpace(e.form.Name),
		Phone:   strings.TrimSpace(e.form.Phone),
		Address: strings.TrimSpace(e.form.Address),
	}
	if form.Name == "" || form.Phone == "" || form.Address == "" {
		return OrderRequest{}, Confirmation{}, invalid(ErrMissingFields)
	}
	if e.opts.ValidatePhone && !ValidPhone(form.Phone) {
		return OrderRequest{}, Confirmation{}, invalid(ErrInvalidPhone)
	}

	var lines []Line
	var notes string
	if e.opts.CartMode {
		if len(e.cart) == 0 {
			return OrderRequest{}, Confirmation{}, invalid(ErrEmptyCart)
		}
		lines = append(lines, e.cart...)
		parts := make([]string, 0, len(lines))
		for _, l := range lines {
			parts = append(parts, fmt.Sprintf("%s (%s, %s) x%d", l.ProductName, l.ColorName, l.SizeName, l.Quantity))
		}
		notes = fmt.Sprintf("LP:%s | %s", e.opts.Slug, strings.Join(parts, "; "))
	} else {
		product, variation, ok := e.selectionLocked()
		if !ok {
			return OrderRequest{}, Confirmation{}, invalid(ErrSelectProduct)
		}
		line := Line{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    e.quantity,
			Price:       unitPrice(product, variation),
			Image:       ColorImage(product.Images, 0),
		}
		if variation != nil {
			line.VariationID = variation.ID
			line.SizeName = SizeLabel(variation.Name)
		}
		notes = "LP:" + e.opts.Slug
		if len(product.Images) > 1 {
			line.ColorIdx = e.selectedColor
			line.ColorName = ColorName(e.selectedColor)
			line.Image = ColorImage(product.Images, e.selectedColor)
			notes += " | Color: " + line.ColorName
		}
		lines = []Line{line}
	}

	bundle := Bundle{}
	if e.opts.CartMode {
		bundle = e.bundle()
	}
	totals := PriceLines(lines, bundle).WithShipping(ShippingCost(e.zone, e.opts.FreeDelivery))

	req := OrderRequest{
		Shipping:     Shipping(form),
		ShippingZone: e.zone,
		OrderSource:  OrderSourceLandingPage,
		Notes:        notes,
		FreeDelivery: e.opts.FreeDelivery,
	}
	if totals.Savings > 0 {
		req.Discount = totals.Savings
	}
	conf := Confirmation{
		CustomerName:    form.Name,
		Phone:           form.Phone,
		Total:           totals.Total,
		NumItems:        totals.TotalQty,
		FromLandingPage: true,
		LandingPageSlug: e.opts.Slug,
	}
	for _, l := range lines {
		item := OrderItem{
			ProductID:   l.ProductID,
			VariationID: l.VariationID,
			Quantity:    l.Quantity,
			ColorName:   l.ColorName,
		}
		if l.Image != "" {
			img := l.Image
			item.ProductImage = &img
		}
		req.Items = append(req.Items, item)
		conf.Items = append(conf.Items, ConfirmationItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
	}
	return req, conf, nil
}

// selectionLocked resolves the single-select product and variation. A
// product without variations is orderable at its own price.
func (e *Engine) selectionLocked() (Product, *catalog.Variation, bool) {
	if e.selectedVariationID != "" {
		if p, v, ok := e.findVariationLocked(e.selectedVariationID); ok {
			return p, v, true
		}
	}
	if len(e.products) > 0 && len(e.products[0].Variations) == 0 {
		return e.products[0], nil, true
	}
	return Product{}, nil, false
}

func (e *Engine) findProductLocked(productID string) (Product, bool) {
	for _, p := range e.products {
		if p.ID == productID {
			return p, true
		}
	}
	return Product{}, false
}

func (e *Engine) findVariationLocked(variationID string) (Product, *catalog.Variation, bool) {
	for _, p := range e.products {
		for i := range p.Variations {
			if p.Variations[i].ID == variationID {
				return p, &p.Variations[i], true
			}
		}
	}
	return Product{}, nil, false
}

func unitPrice(p Product, v *catalog.Variation) float64 {
	if v != nil {
		return v.Price
	}
	return p.Price
}
