package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
)

// ErrInvalidOrder marks a malformed placement request. It is never retried.
var ErrInvalidOrder = errors.New("invalid order")

// Business rejection codes returned in OrderResult.ErrorCode.
const (
	CodeBlocked     = "BLOCKED"
	CodeInvalidItem = "INVALID_ITEM"
)

const (
	msgBlocked     = "দুঃখিত, এই নম্বর থেকে অর্ডার গ্রহণ করা সম্ভব নয়"
	msgInvalidItem = "একটি প্রোডাক্ট আর পাওয়া যাচ্ছে না"
)

var ordersPlaced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Order placement attempts by outcome",
	},
	[]string{"outcome"},
)

// Rejection is a business refusal of an otherwise well-formed order.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Quote is the priced order, or the reason it was refused.
type Quote struct {
	Order     *Order     `json:"order,omitempty"`
	Rejection *Rejection `json:"rejection,omitempty"`
}

// Options tunes the order service.
type Options struct {
	BlockedPhones []string
	Now           func() time.Time
}

// Service is the order-placement function: it validates, prices,
// persists and announces orders.
type Service struct {
	catalog   catalog.Source
	store     *Store
	publisher Publisher
	blocked   map[string]struct{}
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(source catalog.Source, store *Store, publisher Publisher, opts Options, logger *slog.Logger) *Service {
	blocked := make(map[string]struct{}, len(opts.BlockedPhones))
	for _, phone := range opts.BlockedPhones {
		if n := normalizePhone(phone); n != "" {
			blocked[n] = struct{}{}
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		catalog:   source,
		store:     store,
		publisher: publisher,
		blocked:   blocked,
		now:       now,
		logger:    logger.With("component", "orders.service"),
	}
}

// PlaceOrder runs the whole placement in-process.
func (s *Service) PlaceOrder(ctx context.Context, req checkout.OrderRequest) (checkout.OrderResult, error) {
	quote, err := s.Quote(ctx, req)
	if err != nil {
		ordersPlaced.WithLabelValues("invalid").Inc()
		return checkout.OrderResult{}, err
	}
	if quote.Rejection != nil {
		return rejected(quote.Rejection), nil
	}
	if err := s.Persist(ctx, *quote.Order); err != nil {
		ordersPlaced.WithLabelValues("error").Inc()
		return checkout.OrderResult{}, err
	}
	if err := s.Publish(ctx, *quote.Order); err != nil {
		s.logger.Warn("publish order event failed", "order_id", quote.Order.ID, "error", err)
	}
	ordersPlaced.WithLabelValues("placed").Inc()
	return placed(*quote.Order), nil
}

// Quote validates and prices req. Malformed requests return an error
// wrapping ErrInvalidOrder; business refusals come back as a Rejection.
func (s *Service) Quote(ctx context.Context, req checkout.OrderRequest) (Quote, error) {
	if err := validate(req); err != nil {
		return Quote{}, err
	}
	if _, ok := s.blocked[normalizePhone(req.Shipping.Phone)]; ok {
		s.logger.Warn("order from blocked phone", "phone", req.Shipping.Phone)
		return Quote{Rejection: &Rejection{Code: CodeBlocked, Message: msgBlocked}}, nil
	}

	items, ok, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return Quote{}, err
	}
	if !ok {
		return Quote{Rejection: &Rejection{Code: CodeInvalidItem, Message: msgInvalidItem}}, nil
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	discount := decimal.Zero
	if requested := decimal.NewFromFloat(req.Discount); requested.IsPositive() && requested.LessThanOrEqual(subtotal) {
		discount = requested
	}
	shipping := decimal.NewFromFloat(checkout.ShippingCost(req.ShippingZone, req.FreeDelivery))
	now := s.now()

	source := req.OrderSource
	if source == "" {
		source = checkout.OrderSourceLandingPage
	}
	order := &Order{
		ID:           uuid.NewString(),
		OrderNumber:  orderNumber(now),
		Source:       source,
		CustomerName: strings.TrimSpace(req.Shipping.Name),
		Phone:        strings.TrimSpace(req.Shipping.Phone),
		Address:      strings.TrimSpace(req.Shipping.Address),
		Zone:         req.ShippingZone,
		Notes:        req.Notes,
		Subtotal:     subtotal,
		Shipping:     shipping,
		Discount:     discount,
		Total:        subtotal.Sub(discount).Add(shipping),
		Items:        items,
		CreatedAt:    now,
	}
	return Quote{Order: order}, nil
}

// Persist stores a quoted order.
func (s *Service) Persist(ctx context.Context, o Order) error {
	if err := s.store.SaveOrder(ctx, o); err != nil {
		return fmt.Errorf("persist order %s: %w", o.OrderNumber, err)
	}
	s.logger.Info("order persisted", "order_id", o.ID, "order_number", o.OrderNumber, "total", o.Total.String(), "items", len(o.Items))
	return nil
}

// Publish announces a persisted order.
func (s *Service) Publish(ctx context.Context, o Order) error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishEvent(ctx, o.ID, newOrderPlacedEvent(o)); err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderPlaced, err)
	}
	return nil
}

func (s *Service) priceItems(ctx context.Context, reqItems []checkout.OrderItem) ([]Item, bool, error) {
	ids := make([]string, 0, len(reqItems))
	seen := make(map[string]struct{}, len(reqItems))
	for _, item := range reqItems {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, false, fmt.Errorf("load order products: %w", err)
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	variations := make(map[string][]catalog.Variation)
	items := make([]Item, 0, len(reqItems))
	for _, ri := range reqItems {
		product, ok := byID[ri.ProductID]
		if !ok {
			s.logger.Warn("order item product unknown", "product_id", ri.ProductID)
			return nil, false, nil
		}
		item := Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       decimal.NewFromFloat(product.Price),
			Quantity:    ri.Quantity,
			ColorName:   ri.ColorName,
		}
		if ri.ProductImage != nil {
			item.ProductImage = *ri.ProductImage
		}
		if ri.VariationID != "" {
			list, loaded := variations[product.ID]
			if !loaded {
				list, err = s.catalog.GetActiveVariations(ctx, product.ID)
				if err != nil {
					return nil, false, fmt.Errorf("load order variations: %w", err)
				}
				variations[product.ID] = list
			}
			v, found := findVariation(list, ri.VariationID)
			if !found {
				s.logger.Warn("order item variation unknown", "product_id", product.ID, "variation_id", ri.VariationID)
				return nil, false, nil
			}
			item.VariationID = v.ID
			item.VariationName = v.Name
			item.Price = decimal.NewFromFloat(v.Price)
		}
		items = append(items, item)
	}
	return items, true, nil
}

func findVariation(list []catalog.Variation, id string) (catalog.Variation, bool) {
	for _, v := range list {
		if v.ID == id {
			return v, true
		}
	}
	return catalog.Variation{}, false
}

func validate(req checkout.OrderRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("%w: item %d has no product", ErrInvalidOrder, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity %d", ErrInvalidOrder, i, item.Quantity)
		}
	}
	sh := req.Shipping
	if strings.TrimSpace(sh.Name) == "" || strings.TrimSpace(sh.Phone) == "" || strings.TrimSpace(sh.Address) == "" {
		return fmt.Errorf("%w: shipping name, phone and address are required", ErrInvalidOrder)
	}
	if !req.ShippingZone.Valid() {
		return fmt.Errorf("%w: unknown shipping zone %q", ErrInvalidOrder, req.ShippingZone)
	}
	if req.Discount < 0 {
		return fmt.Errorf("%w: negative discount", ErrInvalidOrder)
	}
	return nil
}

// normalizePhone keeps digits only and drops the 88 country prefix so
// "+880 1712-345678" and "01712345678" compare equal.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "880") {
		digits = digits[2:]
	}
	return digits
}

func orderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6])
}

func placed(o Order) checkout.OrderResult {
	return checkout.OrderResult{OrderID: o.ID, OrderNumber: o.OrderNumber}
}

func rejected(r *Rejection) checkout.OrderResult {
	ordersPlaced.WithLabelValues("rejected").Inc()
	return checkout.OrderResult{Error: r.Message, ErrorCode: r.Code}
}
