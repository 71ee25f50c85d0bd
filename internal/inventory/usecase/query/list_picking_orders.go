package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// Picking order listing scopes
const (
	ScopeMine = "mine"
	ScopeAll  = "all"
)

// ListPickingOrdersQuery represents the query to list picking orders
type ListPickingOrdersQuery struct {
	Actor domain.Actor
	Scope string
}

// PickingOrderList partitions orders by status. Completed holds every
// terminal order, cancelled included.
type PickingOrderList struct {
	Uncompleted []domain.PickingOrder `json:"uncompleted"`
	Completed   []domain.PickingOrder `json:"completed"`
}

// ListPickingOrdersHandler handles list picking orders query
type ListPickingOrdersHandler struct {
	uow domain.UnitOfWork
}

// NewListPickingOrdersHandler creates a new list picking orders handler
func NewListPickingOrdersHandler(uow domain.UnitOfWork) *ListPickingOrdersHandler {
	return &ListPickingOrdersHandler{uow: uow}
}

// Handle executes the list picking orders query, newest first
func (h *ListPickingOrdersHandler) Handle(ctx context.Context, query ListPickingOrdersQuery) (*PickingOrderList, error) {
	var filter domain.PickingOrderFilter
	switch query.Scope {
	case "", ScopeMine:
		userID := query.Actor.UserID
		filter.UserID = &userID
	case ScopeAll:
		if err := access.RequireElevated(query.Actor, "listing all picking orders"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrValidation, query.Scope)
	}

	var orders []domain.PickingOrder
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		var err error
		orders, err = tx.PickingOrders().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list picking orders: %w", err)
	}

	list := &PickingOrderList{
		Uncompleted: []domain.PickingOrder{},
		Completed:   []domain.PickingOrder{},
	}
	for _, order := range orders {
		if order.Status.IsTerminal() {
			list.Completed = append(list.Completed, order)
		} else {
			list.Uncompleted = append(list.Uncompleted, order)
		}
	}
	return list, nil
}
