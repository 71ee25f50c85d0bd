package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// GetItemStockQuery represents the query to list per-location quantities of an item
type GetItemStockQuery struct {
	Actor  domain.Actor
	ItemID uint
}

// GetItemStockHandler handles get item stock query
type GetItemStockHandler struct {
	ledger *ledger.Ledger
}

// NewGetItemStockHandler creates a new get item stock handler
func NewGetItemStockHandler(l *ledger.Ledger) *GetItemStockHandler {
	return &GetItemStockHandler{ledger: l}
}

// Handle executes the get item stock query
func (h *GetItemStockHandler) Handle(ctx context.Context, query GetItemStockQuery) ([]domain.LocationStock, error) {
	rows, err := h.ledger.StockForItem(ctx, query.Actor, query.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item stock: %w", err)
	}
	return rows, nil
}
