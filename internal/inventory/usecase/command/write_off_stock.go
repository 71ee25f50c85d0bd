package command

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// WriteOffStockCommand represents the command to remove lost or damaged stock
type WriteOffStockCommand struct {
	Actor      domain.Actor
	ItemID     uint
	LocationID uint
	Quantity   int
	Reason     string
}

// WriteOffStockHandler handles write-off command
type WriteOffStockHandler struct {
	ledger *ledger.Ledger
}

// NewWriteOffStockHandler creates a new write-off handler
func NewWriteOffStockHandler(l *ledger.Ledger) *WriteOffStockHandler {
	return &WriteOffStockHandler{ledger: l}
}

// Handle executes the write-off command
func (h *WriteOffStockHandler) Handle(ctx context.Context, cmd WriteOffStockCommand) (*domain.LocationStock, error) {
	if cmd.ItemID == 0 || cmd.LocationID == 0 {
		return nil, fmt.Errorf("%w: item_id and location_id are required", domain.ErrValidation)
	}

	var stock *domain.LocationStock
	err := h.ledger.Run(ctx, "write_off", cmd.Actor, func(w *ledger.Work) error {
		var err error
		stock, err = w.WriteOff(ctx, ledger.WriteOffInput{
			ItemID:     cmd.ItemID,
			LocationID: cmd.LocationID,
			Quantity:   cmd.Quantity,
			Reason:     cmd.Reason,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write off stock: %w", err)
	}
	return stock, nil
}
