package command

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// PlaceStockCommand represents the command to receive stock at a location
type PlaceStockCommand struct {
	Actor      domain.Actor
	ItemID     uint
	LocationID uint
	Quantity   int
	Details    string
}

// PlaceStockHandler handles place stock command
type PlaceStockHandler struct {
	ledger *ledger.Ledger
}

// NewPlaceStockHandler creates a new place stock handler
func NewPlaceStockHandler(l *ledger.Ledger) *PlaceStockHandler {
	return &PlaceStockHandler{ledger: l}
}

// Handle executes the place stock command
func (h *PlaceStockHandler) Handle(ctx context.Context, cmd PlaceStockCommand) (*domain.LocationStock, error) {
	if cmd.ItemID == 0 || cmd.LocationID == 0 {
		return nil, fmt.Errorf("%w: item_id and location_id are required", domain.ErrValidation)
	}

	var stock *domain.LocationStock
	err := h.ledger.Run(ctx, "place", cmd.Actor, func(w *ledger.Work) error {
		var err error
		stock, err = w.Place(ctx, ledger.PlaceInput{
			ItemID:     cmd.ItemID,
			LocationID: cmd.LocationID,
			Quantity:   cmd.Quantity,
			Details:    cmd.Details,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place stock: %w", err)
	}
	return stock, nil
}
