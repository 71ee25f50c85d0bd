package command

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/metrics"
)

// StartPickingCommand represents the command to mark an order as being picked
type StartPickingCommand struct {
	Actor   domain.Actor
	OrderID uint
}

// StartPickingHandler handles start picking command
type StartPickingHandler struct {
	uow     domain.UnitOfWork
	access  *access.Resolver
	metrics *metrics.Metrics
}

// NewStartPickingHandler creates a new start picking handler
func NewStartPickingHandler(uow domain.UnitOfWork, resolver *access.Resolver, m *metrics.Metrics) *StartPickingHandler {
	return &StartPickingHandler{uow: uow, access: resolver, metrics: m}
}

// Handle moves a new order to in_progress and records the picker
func (h *StartPickingHandler) Handle(ctx context.Context, cmd StartPickingCommand) (*domain.PickingOrder, error) {
	var order *domain.PickingOrder
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		var err error
		order, err = tx.PickingOrders().FindByIDForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransition(domain.PickingInProgress) {
			return fmt.Errorf("%w: picking order %d is %s", domain.ErrInvalidOperation, order.ID, order.Status)
		}
		if order.SourceLocationID != nil {
			if err := h.access.RequireLocations(ctx, tx, cmd.Actor, *order.SourceLocationID); err != nil {
				return err
			}
		}

		picker := cmd.Actor.UserID
		order.PickerID = &picker
		order.Status = domain.PickingInProgress
		return tx.PickingOrders().Update(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start picking: %w", err)
	}

	h.metrics.PickingTransition("in_progress")
	return order, nil
}
