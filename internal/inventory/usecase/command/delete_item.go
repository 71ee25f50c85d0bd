package command

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// DeleteItemCommand represents the command to remove a catalog item
type DeleteItemCommand struct {
	Actor domain.Actor
	ID    uint
}

// DeleteItemHandler handles delete item command
type DeleteItemHandler struct {
	ledger *ledger.Ledger
}

// NewDeleteItemHandler creates a new delete item handler
func NewDeleteItemHandler(l *ledger.Ledger) *DeleteItemHandler {
	return &DeleteItemHandler{ledger: l}
}

// Handle executes the delete item command. Items that still hold stock
// anywhere cannot be deleted.
func (h *DeleteItemHandler) Handle(ctx context.Context, cmd DeleteItemCommand) error {
	if err := access.RequireElevated(cmd.Actor, "deleting items"); err != nil {
		return err
	}

	err := h.ledger.Run(ctx, "delete_item", cmd.Actor, func(w *ledger.Work) error {
		item, err := w.Tx().Items().FindByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		stocked, err := w.Tx().Stock().CountNonZeroByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if stocked > 0 {
			return fmt.Errorf("%w: item %s still has stock at %d location(s)", domain.ErrInvalidOperation, item.SKU, stocked)
		}

		if err := w.Record(ctx, domain.AuditLogEntry{
			Action:          domain.AuditDeleted,
			Detail:          fmt.Sprintf("Deleted item %s (%s)", item.SKU, item.Name),
			InventoryItemID: &item.ID,
		}); err != nil {
			return err
		}
		return w.Tx().Items().Delete(ctx, item.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
