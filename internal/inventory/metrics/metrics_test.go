package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{fmt.Errorf("%w: only 4 left", domain.ErrInsufficientStock), "insufficient_stock"},
		{domain.ErrContention, "contention"},
		{domain.ErrUnauthorized, "unauthorized"},
		{errors.New("disk full"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLedger("transfer", time.Now(), nil)
	m.ObserveLedger("transfer", time.Now(), domain.ErrInsufficientStock)
	m.ObserveLedger("transfer", time.Now(), nil)
	m.PickingTransition("completed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("transfer", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("transfer", "insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pickingOrders.WithLabelValues("completed")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLedger("place", time.Now(), nil)
		m.PickingTransition("cancelled")
		m.ObserveRequest("GET", "/health", "200", time.Millisecond)
	})
}
