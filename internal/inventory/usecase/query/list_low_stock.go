package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// ListLowStockQuery represents the query to list items below their threshold
type ListLowStockQuery struct {
	Actor domain.Actor
}

// ListLowStockHandler handles list low stock query
type ListLowStockHandler struct {
	uow    domain.UnitOfWork
	access *access.Resolver
}

// NewListLowStockHandler creates a new list low stock handler
func NewListLowStockHandler(uow domain.UnitOfWork, resolver *access.Resolver) *ListLowStockHandler {
	return &ListLowStockHandler{uow: uow, access: resolver}
}

// Handle executes the list low stock query
func (h *ListLowStockHandler) Handle(ctx context.Context, query ListLowStockQuery) ([]ItemView, error) {
	if err := access.RequireElevated(query.Actor, "listing low stock"); err != nil {
		return nil, err
	}

	low := []ItemView{}
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		items, err := tx.Items().FindAll(ctx, domain.ItemFilter{})
		if err != nil {
			return err
		}
		monitored := items[:0]
		for _, item := range items {
			if item.Monitored && item.LowStockThreshold != nil {
				monitored = append(monitored, item)
			}
		}
		views, err := buildViews(ctx, tx, h.access, query.Actor, monitored)
		if err != nil {
			return err
		}
		for _, v := range views {
			if v.IsLowStock() {
				low = append(low, v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return low, nil
}
