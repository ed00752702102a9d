package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	temporalworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"example.com/storefront/internal/checkout"
)

const (
	placeOrderWorkflowName = "orders.place"
	quoteActivityName      = "orders.quote"
	persistActivityName    = "orders.persist"
	publishActivityName    = "orders.publish"

	invalidOrderErrorType = "InvalidOrder"
)

// OrderActivities exposes the service steps to Temporal.
type OrderActivities struct {
	service *Service
	logger  *slog.Logger
}

func NewOrderActivities(service *Service, logger *slog.Logger) *OrderActivities {
	return &OrderActivities{service: service, logger: logger}
}

// QuoteActivity validates and prices the request. Invalid requests fail
// with a non-retryable application error.
func (a *OrderActivities) QuoteActivity(ctx context.Context, req checkout.OrderRequest) (Quote, error) {
	quote, err := a.service.Quote(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidOrder) {
			return Quote{}, temporal.NewApplicationError(err.Error(), invalidOrderErrorType)
		}
		a.logger.Error("activity quote failed", "error", err)
		return Quote{}, err
	}
	return quote, nil
}

func (a *OrderActivities) PersistActivity(ctx context.Context, o Order) error {
	return a.service.Persist(ctx, o)
}

func (a *OrderActivities) PublishActivity(ctx context.Context, o Order) error {
	return a.service.Publish(ctx, o)
}

// PlaceOrderWorkflow quotes, persists and announces one order. A failed
// announcement does not fail the order.
func PlaceOrderWorkflow(ctx workflow.Context, req checkout.OrderRequest) (checkout.OrderResult, error) {
	logger := workflow.GetLogger(ctx)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        5,
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			NonRetryableErrorTypes: []string{invalidOrderErrorType},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)
	logger.Info("place order workflow started", "items", len(req.Items), "zone", req.ShippingZone)

	var quote Quote
	if err := workflow.ExecuteActivity(ctx, quoteActivityName, req).Get(ctx, &quote); err != nil {
		logger.Error("quote activity failed", "error", err)
		return checkout.OrderResult{}, err
	}
	if quote.Rejection != nil {
		logger.Info("order rejected", "code", quote.Rejection.Code)
		return checkout.OrderResult{Error: quote.Rejection.Message, ErrorCode: quote.Rejection.Code}, nil
	}
	if quote.Order == nil {
		return checkout.OrderResult{}, errors.New("quote returned no order")
	}
	order := *quote.Order

	if err := workflow.ExecuteActivity(ctx, persistActivityName, order).Get(ctx, nil); err != nil {
		logger.Error("persist activity failed", "order_id", order.ID, "error", err)
		return checkout.OrderResult{}, err
	}
	if err := workflow.ExecuteActivity(ctx, publishActivityName, order).Get(ctx, nil); err != nil {
		logger.Warn("publish activity failed", "order_id", order.ID, "error", err)
	}

	logger.Info("place order workflow finished", "order_id", order.ID, "order_number", order.OrderNumber)
	return checkout.OrderResult{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

// RegisterOrderWorker wires a Temporal worker consuming taskQueue.
func RegisterOrderWorker(c client.Client, taskQueue string, svc *Service, logger *slog.Logger) temporalworker.Worker {
	w := temporalworker.New(c, taskQueue, temporalworker.Options{})
	registerOrderWorkflow(w, svc, logger)
	return w
}

type registry interface {
	RegisterWorkflowWithOptions(w any, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a any, options activity.RegisterOptions)
}

func registerOrderWorkflow(r registry, svc *Service, logger *slog.Logger) {
	r.RegisterWorkflowWithOptions(PlaceOrderWorkflow, workflow.RegisterOptions{Name: placeOrderWorkflowName})
	activities := NewOrderActivities(svc, logger.With("component", "orders.activities"))
	r.RegisterActivityWithOptions(activities.QuoteActivity, activity.RegisterOptions{Name: quoteActivityName})
	r.RegisterActivityWithOptions(activities.PersistActivity, activity.RegisterOptions{Name: persistActivityName})
	r.RegisterActivityWithOptions(activities.PublishActivity, activity.RegisterOptions{Name: publishActivityName})
}

// TemporalPlacer places orders by running PlaceOrderWorkflow and waiting
// for its result.
type TemporalPlacer struct {
	client    client.Client
	taskQueue string
	logger    *slog.Logger
}

func NewTemporalPlacer(c client.Client, taskQueue string, logger *slog.Logger) *TemporalPlacer {
	return &TemporalPlacer{client: c, taskQueue: taskQueue, logger: logger.With("component", "orders.placer")}
}

func (p *TemporalPlacer) PlaceOrder(ctx context.Context, req checkout.OrderRequest) (checkout.OrderResult, error) {
	options := client.StartWorkflowOptions{
		ID:                       fmt.Sprintf("place-order-%d", time.Now().UnixNano()),
		TaskQueue:                p.taskQueue,
		WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionTimeout: 2 * time.Minute,
	}
	we, err := p.client.ExecuteWorkflow(ctx, options, placeOrderWorkflowName, req)
	if err != nil {
		p.logger.Error("start workflow failed", "error", err)
		return checkout.OrderResult{}, fmt.Errorf("start place order workflow: %w", err)
	}
	var result checkout.OrderResult
	if err := we.Get(ctx, &result); err != nil {
		p.logger.Error("wait workflow failed", "workflow_id", we.GetID(), "error", err)
		return checkout.OrderResult{}, fmt.Errorf("place order workflow %s: %w", we.GetID(), err)
	}
	p.logger.Info("workflow completed", "workflow_id", we.GetID(), "run_id", we.GetRunID(), "order_id", result.OrderID)
	return result, nil
}
