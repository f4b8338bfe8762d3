package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bol_api_requests_total",
			Help: "Requests to the bol.com Retailer API by operation and outcome",
		},
		[]string{"op", "outcome"}, // op: token|list_orders|get_order; outcome: ok|error|rate_limited
	)
	APIRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bol_api_retries_total",
			Help: "Retry attempts against the bol.com Retailer API",
		},
		[]string{"op"},
	)
)

var (
	OrdersProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "export_orders_processed_total",
			Help: "Orders taken from the order list",
		},
	)
	OrdersSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "export_orders_skipped_total",
			Help: "Orders skipped because of a missing id or a failed detail fetch",
		},
	)
	ItemsExported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "export_items_exported_total",
			Help: "New order items written to the export artifact",
		},
	)
	ItemsDeduplicated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "export_items_deduplicated_total",
			Help: "Order items skipped because they were already committed",
		},
	)
)

// MustRegister регистрирует коллекторы; повторный вызов допустим
// (тесты из разных пакетов инициализируют метрики независимо).
func MustRegister() {
	collectors := []prometheus.Collector{
		APIRequests, APIRetries,
		OrdersProcessed, OrdersSkipped, ItemsExported, ItemsDeduplicated,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			panic(err)
		}
	}
}
