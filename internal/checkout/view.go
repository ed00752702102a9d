package checkout

import "maps"

// VariationView is a size option as shown on the form.
type VariationView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Label         string   `json:"label"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Stock         int      `json:"stock"`
}

// ProductView is a product as shown on the form.
type ProductView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           float64         `json:"price"`
	OriginalPrice   *float64        `json:"originalPrice,omitempty"`
	DiscountPercent int             `json:"discountPercent,omitempty"`
	Images          []string        `json:"images"`
	Colors          []ColorOption   `json:"colors,omitempty"`
	Variations      []VariationView `json:"variations"`
}

// View is a snapshot of the engine state for rendering.
type View struct {
	CartMode            bool             `json:"cartMode"`
	Loaded              bool             `json:"loaded"`
	Products            []ProductView    `json:"products"`
	TempColor           *int             `json:"tempColor,omitempty"`
	TempSize            string           `json:"tempSize,omitempty"`
	SelectedVariationID string           `json:"selectedVariationId,omitempty"`
	SelectedColor       int              `json:"selectedColor"`
	Quantity            int              `json:"quantity"`
	Cart                []Line           `json:"cart"`
	Form                Form             `json:"form"`
	ShippingZone        Zone             `json:"shippingZone"`
	ShippingRates       map[Zone]float64 `json:"shippingRates"`
	FreeDelivery        bool             `json:"freeDelivery"`
	Bundle              *Bundle          `json:"bundle,omitempty"`
	Totals              Totals           `json:"totals"`
	Submitting          bool             `json:"submitting"`
}

// View snapshots the engine.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		CartMode:            e.opts.CartMode,
		Loaded:              e.loaded,
		Products:            make([]ProductView, 0, len(e.products)),
		TempSize:            e.tempSize,
		SelectedVariationID: e.selectedVariationID,
		SelectedColor:       e.selectedColor,
		Quantity:            e.quantity,
		Cart:                append([]Line{}, e.cart...),
		Form:                e.form,
		ShippingZone:        e.zone,
		ShippingRates:       maps.Clone(ShippingRates),
		FreeDelivery:        e.opts.FreeDelivery,
		Totals:              e.totalsLocked(),
		Submitting:          e.submitting,
	}
	if e.tempColor != nil {
		c := *e.tempColor
		v.TempColor = &c
	}
	if b := e.bundle(); e.opts.CartMode && b.Active() {
		v.Bundle = &b
	}
	for _, p := range e.products {
		pv := ProductView{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Images:        p.Images,
			Colors:        ColorOptions(p.Images),
			Variations:    make([]VariationView, 0, len(p.Variations)),
		}
		if p.OriginalPrice != nil {
			pv.DiscountPercent = DiscountPercent(p.Price, *p.OriginalPrice)
		}
		for _, vr := range p.Variations {
			pv.Variations = append(pv.Variations, VariationView{
				ID:            vr.ID,
				Name:          vr.Name,
				Label:         SizeLabel(vr.Name),
				Price:         vr.Price,
				OriginalPrice: vr.OriginalPrice,
				Stock:         vr.Stock,
			})
		}
		v.Products = append(v.Products, pv)
	}
	return v
}
