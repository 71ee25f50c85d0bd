package command

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/metrics"
)

// CancelPickingOrderCommand represents the command to cancel a picking order
type CancelPickingOrderCommand struct {
	Actor   domain.Actor
	OrderID uint
}

// CancelPickingOrderHandler handles cancel picking order command
type CancelPickingOrderHandler struct {
	uow     domain.UnitOfWork
	metrics *metrics.Metrics
}

// NewCancelPickingOrderHandler creates a new cancel picking order handler
func NewCancelPickingOrderHandler(uow domain.UnitOfWork, m *metrics.Metrics) *CancelPickingOrderHandler {
	return &CancelPickingOrderHandler{uow: uow, metrics: m}
}

// Handle cancels an open order. Nothing was reserved, so there is no ledger effect.
func (h *CancelPickingOrderHandler) Handle(ctx context.Context, cmd CancelPickingOrderCommand) (*domain.PickingOrder, error) {
	var order *domain.PickingOrder
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		var err error
		order, err = tx.PickingOrders().FindByIDForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.RequesterID != cmd.Actor.UserID && !cmd.Actor.IsElevated() {
			return fmt.Errorf("%w: only the requester or an admin may cancel picking order %d", domain.ErrUnauthorized, order.ID)
		}
		if !order.Status.CanTransition(domain.PickingCancelled) {
			return fmt.Errorf("%w: picking order %d is %s", domain.ErrInvalidOperation, order.ID, order.Status)
		}

		order.Status = domain.PickingCancelled
		return tx.PickingOrders().Update(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel picking order: %w", err)
	}

	h.metrics.PickingTransition("cancelled")
	return order, nil
}
