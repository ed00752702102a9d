package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_operations_total",
			Help: "Checkout operations by outcome",
		},
		[]string{"operation", "status"},
	)

	orderTotals = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_checkout_order_total_taka",
			Help:    "Order totals submitted from landing pages",
			Buckets: []float64{250, 500, 1000, 2000, 3000, 5000, 10000},
		},
	)
)

// RecordOperation counts a checkout operation outcome.
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	checkoutOperations.WithLabelValues(operation, status).Inc()
}
