package checkout

import "context"

// OrderSourceLandingPage tags orders that came from a landing page.
const OrderSourceLandingPage = "landing_page"

// OrderItem is one line of an order placement request.
type OrderItem struct {
	ProductID    string  `json:"productId"`
	VariationID  string  `json:"variationId,omitempty"`
	Quantity     int     `json:"quantity"`
	ProductImage *string `json:"productImage"`
	ColorName    string  `json:"colorName,omitempty"`
}

// Shipping is the customer contact block.
type Shipping struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderRequest is the payload of the place-order function. UserID is
// always null: landing page orders are guest checkouts.
type OrderRequest struct {
	UserID       *string     `json:"userId"`
	Items        []OrderItem `json:"items"`
	Shipping     Shipping    `json:"shipping"`
	ShippingZone Zone        `json:"shippingZone"`
	OrderSource  string      `json:"orderSource"`
	Notes        string      `json:"notes,omitempty"`
	Discount     float64     `json:"discount,omitempty"`
	FreeDelivery bool        `json:"freeDelivery,omitempty"`
}

// OrderResult is the function response. A non-empty Error is a business
// rejection (blocked customer, unknown item), not a transport failure.
type OrderResult struct {
	OrderID     string `json:"orderId,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorCode   string `json:"errorCode,omitempty"`
}

// Placer invokes the order placement function.
type Placer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// ConfirmationItem is a denormalized receipt line.
type ConfirmationItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Confirmation is the summary handed to the order confirmation view.
type Confirmation struct {
	OrderNumber     string             `json:"orderNumber"`
	CustomerName    string             `json:"customerName"`
	Phone           string             `json:"phone"`
	Total           float64            `json:"total"`
	Items           []ConfirmationItem `json:"items"`
	NumItems        int                `json:"numItems"`
	FromLandingPage bool               `json:"fromLandingPage"`
	LandingPageSlug string             `json:"landingPageSlug"`
}
