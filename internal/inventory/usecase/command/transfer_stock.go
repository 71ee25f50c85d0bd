package command

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// TransferStockCommand represents the command to move stock between locations
type TransferStockCommand struct {
	Actor          domain.Actor
	ItemID         uint
	FromLocationID uint
	ToLocationID   uint
	Quantity       int
	Details        string
}

// TransferStockHandler handles transfer stock command
type TransferStockHandler struct {
	ledger *ledger.Ledger
}

// NewTransferStockHandler creates a new transfer stock handler
func NewTransferStockHandler(l *ledger.Ledger) *TransferStockHandler {
	return &TransferStockHandler{ledger: l}
}

// Handle executes the transfer stock command
func (h *TransferStockHandler) Handle(ctx context.Context, cmd TransferStockCommand) (*ledger.TransferResult, error) {
	if cmd.ItemID == 0 || cmd.FromLocationID == 0 || cmd.ToLocationID == 0 {
		return nil, fmt.Errorf("%w: item_id, from_location_id and to_location_id are required", domain.ErrValidation)
	}

	var result *ledger.TransferResult
	err := h.ledger.Run(ctx, "transfer", cmd.Actor, func(w *ledger.Work) error {
		var err error
		result, err = w.Transfer(ctx, ledger.TransferInput{
			ItemID:         cmd.ItemID,
			FromLocationID: cmd.FromLocationID,
			ToLocationID:   cmd.ToLocationID,
			Quantity:       cmd.Quantity,
			Details:        cmd.Details,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to transfer stock: %w", err)
	}
	return result, nil
}
