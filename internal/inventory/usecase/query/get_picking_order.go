package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

// GetPickingOrderQuery represents the query to get a picking order
type GetPickingOrderQuery struct {
	Actor domain.Actor
	ID    uint
}

// GetPickingOrderHandler handles get picking order query
type GetPickingOrderHandler struct {
	uow domain.UnitOfWork
}

// NewGetPickingOrderHandler creates a new get picking order handler
func NewGetPickingOrderHandler(uow domain.UnitOfWork) *GetPickingOrderHandler {
	return &GetPickingOrderHandler{uow: uow}
}

// Handle executes the get picking order query
func (h *GetPickingOrderHandler) Handle(ctx context.Context, query GetPickingOrderQuery) (*domain.PickingOrder, error) {
	var order *domain.PickingOrder
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		var err error
		order, err = tx.PickingOrders().FindByID(ctx, query.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get picking order: %w", err)
	}
	if !query.Actor.IsElevated() && !order.Involves(query.Actor.UserID) {
		return nil, fmt.Errorf("%w: picking order %d belongs to another user", domain.ErrUnauthorized, order.ID)
	}
	return order, nil
}
