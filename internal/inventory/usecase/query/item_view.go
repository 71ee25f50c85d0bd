package query

import (
	"context"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// ItemView is a catalog item with quantities derived from the ledger.
// TotalQuantity and LowStock depend on stock outside any member scope, so
// they are only exposed to elevated actors.
type ItemView struct {
	domain.InventoryItem
	TotalQuantity      *int  `json:"total_quantity,omitempty"`
	AccessibleQuantity int   `json:"accessible_quantity"`
	LowStock           *bool `json:"low_stock,omitempty"`
}

// IsLowStock reports the low stock flag; false when it is not exposed
func (v ItemView) IsLowStock() bool {
	return v.LowStock != nil && *v.LowStock
}

func buildViews(ctx context.Context, tx domain.Tx, resolver *access.Resolver, actor domain.Actor, items []domain.InventoryItem) ([]ItemView, error) {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	accessible, err := resolver.AccessibleQuantities(ctx, tx, actor, ids)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = ItemView{
			InventoryItem:      item,
			AccessibleQuantity: accessible[item.ID],
		}
		if actor.IsElevated() {
			total := accessible[item.ID]
			low := item.IsLowStock(total)
			views[i].TotalQuantity = &total
			views[i].LowStock = &low
		}
	}
	return views, nil
}
