package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// ReceiveGoodsCommand represents a delivery announced by purchasing
type ReceiveGoodsCommand struct {
	SKU        string
	LocationID uint
	Quantity   int
	Reference  string
}

// ReceiveGoodsHandler places delivered goods as the system actor
type ReceiveGoodsHandler struct {
	ledger *ledger.Ledger
}

// NewReceiveGoodsHandler creates a new receive goods handler
func NewReceiveGoodsHandler(l *ledger.Ledger) *ReceiveGoodsHandler {
	return &ReceiveGoodsHandler{ledger: l}
}

// Handle executes the receive goods command
func (h *ReceiveGoodsHandler) Handle(ctx context.Context, cmd ReceiveGoodsCommand) (*domain.LocationStock, error) {
	sku := strings.TrimSpace(cmd.SKU)
	if sku == "" || cmd.LocationID == 0 {
		return nil, fmt.Errorf("%w: sku and location_id are required", domain.ErrValidation)
	}

	var stock *domain.LocationStock
	err := h.ledger.Run(ctx, "receive_goods", domain.SystemActor(), func(w *ledger.Work) error {
		item, err := w.Tx().Items().FindBySKU(ctx, sku)
		if err != nil {
			return err
		}
		details := fmt.Sprintf("Goods receipt %s", cmd.Reference)
		if strings.TrimSpace(cmd.Reference) == "" {
			details = ""
		}
		stock, err = w.Place(ctx, ledger.PlaceInput{
			ItemID:     item.ID,
			LocationID: cmd.LocationID,
			Quantity:   cmd.Quantity,
			Details:    details,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive goods: %w", err)
	}
	return stock, nil
}
