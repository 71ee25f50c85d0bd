package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// UpdateItemCommand represents the command to change catalog data. Nil
// fields are left untouched. Quantities are not part of the catalog record.
type UpdateItemCommand struct {
	Actor             domain.Actor
	ID                uint
	SKU               *string
	Name              *string
	Description       *string
	EAN               *string
	AlternateSKU      *string
	Price             *decimal.Decimal
	LowStockThreshold *int
	Monitored         *bool
	CategoryIDs       *[]uint
}

// UpdateItemHandler handles update item command
type UpdateItemHandler struct {
	ledger *ledger.Ledger
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(l *ledger.Ledger) *UpdateItemHandler {
	return &UpdateItemHandler{ledger: l}
}

// Handle executes the update item command
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) (*domain.InventoryItem, error) {
	if err := access.RequireElevated(cmd.Actor, "updating items"); err != nil {
		return nil, err
	}

	var item *domain.InventoryItem
	err := h.ledger.Run(ctx, "update_item", cmd.Actor, func(w *ledger.Work) error {
		var err error
		item, err = w.Tx().Items().FindByID(ctx, cmd.ID)
		if err != nil {
			return err
		}

		var changed []string
		if cmd.SKU != nil {
			item.SKU = strings.TrimSpace(*cmd.SKU)
			changed = append(changed, "sku")
		}
		if cmd.Name != nil {
			item.Name = strings.TrimSpace(*cmd.Name)
			changed = append(changed, "name")
		}
		if cmd.Description != nil {
			item.Description = *cmd.Description
			changed = append(changed, "description")
		}
		if cmd.EAN != nil {
			item.EAN = normalizeOptional(cmd.EAN)
			changed = append(changed, "ean")
		}
		if cmd.AlternateSKU != nil {
			item.AlternateSKU = normalizeOptional(cmd.AlternateSKU)
			changed = append(changed, "alternate_sku")
		}
		if cmd.Price != nil {
			item.Price = *cmd.Price
			changed = append(changed, "price")
		}
		if cmd.LowStockThreshold != nil {
			threshold := *cmd.LowStockThreshold
			item.LowStockThreshold = &threshold
			changed = append(changed, "low_stock_threshold")
		}
		if cmd.Monitored != nil {
			item.Monitored = *cmd.Monitored
			changed = append(changed, "monitored")
		}
		if cmd.CategoryIDs != nil {
			categories, err := loadCategories(ctx, w.Tx(), *cmd.CategoryIDs)
			if err != nil {
				return err
			}
			item.Categories = categories
			changed = append(changed, "categories")
		}
		if err := validateItem(item); err != nil {
			return err
		}
		if len(changed) == 0 {
			return nil
		}

		if err := w.Tx().Items().Update(ctx, item); err != nil {
			return err
		}
		return w.Record(ctx, domain.AuditLogEntry{
			Action:          domain.AuditUpdated,
			Detail:          "Updated " + strings.Join(changed, ", "),
			InventoryItemID: &item.ID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}
