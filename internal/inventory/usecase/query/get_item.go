package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// GetItemQuery represents the query to get a catalog item
type GetItemQuery struct {
	Actor domain.Actor
	ID    uint
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	uow    domain.UnitOfWork
	access *access.Resolver
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(uow domain.UnitOfWork, resolver *access.Resolver) *GetItemHandler {
	return &GetItemHandler{uow: uow, access: resolver}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(ctx context.Context, query GetItemQuery) (*ItemView, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	var view *ItemView
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		item, err := tx.Items().FindByID(ctx, query.ID)
		if err != nil {
			return err
		}
		views, err := buildViews(ctx, tx, h.access, query.Actor, []domain.InventoryItem{*item})
		if err != nil {
			return err
		}
		view = &views[0]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return view, nil
}
