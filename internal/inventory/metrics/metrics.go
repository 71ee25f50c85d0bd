package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

// Metrics holds the Prometheus collectors of the inventory service
type Metrics struct {
	ledgerOperations *prometheus.CounterVec
	ledgerDuration   *prometheus.HistogramVec
	pickingOrders    *prometheus.CounterVec
	requestCounter   *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
}

// New creates and registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ledgerOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "field_inventory_ledger_operations_total",
				Help: "Total number of stock ledger operations",
			},
			[]string{"operation", "result"},
		),
		ledgerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "field_inventory_ledger_operation_duration_seconds",
				Help:    "Duration of stock ledger transactions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		pickingOrders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "field_inventory_picking_orders_total",
				Help: "Total number of picking order transitions",
			},
			[]string{"transition"},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "field_inventory_requests_total",
				Help: "Total number of requests to the inventory service",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "field_inventory_request_duration_seconds",
				Help:    "Duration of inventory service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}

	reg.MustRegister(m.ledgerOperations, m.ledgerDuration, m.pickingOrders, m.requestCounter, m.requestLatency)
	return m
}

// Result converts an operation error into a low-cardinality label
func Result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrContention):
		return "contention"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

// ObserveLedger records one ledger transaction
func (m *Metrics) ObserveLedger(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ledgerDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	m.ledgerOperations.WithLabelValues(operation, Result(err)).Inc()
}

// PickingTransition counts a committed picking order transition
func (m *Metrics) PickingTransition(transition string) {
	if m == nil {
		return
	}
	m.pickingOrders.WithLabelValues(transition).Inc()
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.requestCounter.WithLabelValues(method, endpoint, status).Inc()
}
