// Package ledger owns per-location quantities. Every quantity change goes
// through one of the Work primitives (Place, Transfer, Withdraw, WriteOff)
// inside a single transaction that also records the audit entries.
package ledger

import (
	"context"
	"time"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/audit"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/metrics"
)

// Ledger runs mutations against the stock ledger
type Ledger struct {
	uow     domain.UnitOfWork
	access  *access.Resolver
	emitter *audit.Emitter
	metrics *metrics.Metrics
}

// New creates a new ledger
func New(uow domain.UnitOfWork, resolver *access.Resolver, emitter *audit.Emitter, m *metrics.Metrics) *Ledger {
	return &Ledger{
		uow:     uow,
		access:  resolver,
		emitter: emitter,
		metrics: m,
	}
}

// Access returns the resolver used by the ledger
func (l *Ledger) Access() *access.Resolver {
	return l.access
}

// Run executes fn in one transaction on behalf of actor. Audit entries
// recorded through the Work are published only after a successful commit.
func (l *Ledger) Run(ctx context.Context, operation string, actor domain.Actor, fn func(w *Work) error) error {
	start := time.Now()
	var journal *audit.Journal

	err := l.uow.Do(ctx, func(tx domain.Tx) error {
		journal = l.emitter.Begin(tx, actor)
		return fn(newWork(tx, actor, l.access, journal))
	})
	l.metrics.ObserveLedger(operation, start, err)
	if err != nil {
		return err
	}

	l.emitter.Publish(ctx, journal)
	return nil
}

// Read executes fn in a transaction that performs no mutation
func (l *Ledger) Read(ctx context.Context, fn func(tx domain.Tx) error) error {
	return l.uow.Do(ctx, fn)
}

// StockForItem returns the per-location rows of an item visible to actor
func (l *Ledger) StockForItem(ctx context.Context, actor domain.Actor, itemID uint) ([]domain.LocationStock, error) {
	var visible []domain.LocationStock
	err := l.uow.Do(ctx, func(tx domain.Tx) error {
		if _, err := tx.Items().FindByID(ctx, itemID); err != nil {
			return err
		}
		scope, err := l.access.AuthorizedLocations(ctx, tx, actor)
		if err != nil {
			return err
		}
		rows, err := tx.Stock().FindByItem(ctx, itemID)
		if err != nil {
			return err
		}
		visible = make([]domain.LocationStock, 0, len(rows))
		for _, row := range rows {
			if scope.Contains(row.LocationID) {
				visible = append(visible, row)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return visible, nil
}
