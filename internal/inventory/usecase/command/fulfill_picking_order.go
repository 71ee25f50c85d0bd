package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
	"github.com/tair/field-inventory/internal/inventory/metrics"
)

// FulfillLine reports what was picked for one order item. InventoryItemID
// binds a free-text line to a catalog item.
type FulfillLine struct {
	PickingOrderItemID uint
	PickedQuantity     int
	SourceLocationID   *uint
	InventoryItemID    *uint
}

// FulfillPickingOrderCommand represents the command to complete a picking order
type FulfillPickingOrderCommand struct {
	Actor   domain.Actor
	OrderID uint
	Lines   []FulfillLine
}

// FulfillPickingOrderHandler handles fulfill picking order command
type FulfillPickingOrderHandler struct {
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
}

// NewFulfillPickingOrderHandler creates a new fulfill picking order handler
func NewFulfillPickingOrderHandler(l *ledger.Ledger, m *metrics.Metrics) *FulfillPickingOrderHandler {
	return &FulfillPickingOrderHandler{ledger: l, metrics: m}
}

// movement is a validated line that moves stock
type movement struct {
	line   *domain.PickingOrderItem
	itemID uint
	source uint
	qty    int
}

// Handle executes the fulfill command. The whole call is one transaction:
// the first failing line rolls back every other line.
func (h *FulfillPickingOrderHandler) Handle(ctx context.Context, cmd FulfillPickingOrderCommand) (*domain.PickingOrder, error) {
	var order *domain.PickingOrder
	err := h.ledger.Run(ctx, "fulfill_picking_order", cmd.Actor, func(w *ledger.Work) error {
		var err error
		order, err = w.Tx().PickingOrders().FindByIDForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransition(domain.PickingCompleted) {
			return fmt.Errorf("%w: picking order %d is %s", domain.ErrInvalidOperation, order.ID, order.Status)
		}
		destination, err := w.Tx().Locations().FindByID(ctx, order.DestinationLocationID)
		if err != nil {
			return err
		}

		moves, err := planFulfillment(ctx, w.Tx(), order, destination, cmd.Lines)
		if err != nil {
			return err
		}
		if err := lockMovements(ctx, w, moves, destination); err != nil {
			return err
		}

		for _, m := range moves {
			if err := applyMovement(ctx, w, order, destination, m); err != nil {
				return err
			}
		}

		now := time.Now()
		picker := cmd.Actor.UserID
		order.PickerID = &picker
		order.Status = domain.PickingCompleted
		order.CompletedAt = &now
		return w.Tx().PickingOrders().Update(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fulfill picking order: %w", err)
	}

	h.metrics.PickingTransition("completed")
	return order, nil
}

// planFulfillment validates every line before any stock is touched and
// writes picked quantities, sources and bindings onto the order items.
func planFulfillment(ctx context.Context, tx domain.Tx, order *domain.PickingOrder, destination *domain.Location, lines []FulfillLine) ([]movement, error) {
	byID := make(map[uint]FulfillLine, len(lines))
	for _, l := range lines {
		if _, dup := byID[l.PickingOrderItemID]; dup {
			return nil, fmt.Errorf("%w: order item %d is listed twice", domain.ErrValidation, l.PickingOrderItemID)
		}
		byID[l.PickingOrderItemID] = l
	}
	known := make(map[uint]bool, len(order.Items))
	for _, item := range order.Items {
		known[item.ID] = true
	}
	for id := range byID {
		if !known[id] {
			return nil, fmt.Errorf("%w: order item %d does not belong to picking order %d", domain.ErrValidation, id, order.ID)
		}
	}

	var moves []movement
	for i := range order.Items {
		item := &order.Items[i]
		l, ok := byID[item.ID]
		if !ok {
			return nil, fmt.Errorf("%w: order item %d has no picked quantity", domain.ErrValidation, item.ID)
		}
		if l.PickedQuantity < 0 {
			return nil, fmt.Errorf("%w: order item %d picked quantity cannot be negative", domain.ErrInvalidOperation, item.ID)
		}
		if l.PickedQuantity > item.RequestedQuantity {
			return nil, fmt.Errorf("%w: order item %d picked %d of %d requested", domain.ErrInvalidOperation, item.ID, l.PickedQuantity, item.RequestedQuantity)
		}

		itemID := item.InventoryItemID
		if l.InventoryItemID != nil {
			if itemID != nil && *itemID != *l.InventoryItemID {
				return nil, fmt.Errorf("%w: order item %d is already bound to item %d", domain.ErrValidation, item.ID, *itemID)
			}
			itemID = l.InventoryItemID
		}

		picked := l.PickedQuantity
		item.PickedQuantity = &picked
		item.SourceLocationID = l.SourceLocationID
		if itemID != nil {
			if _, err := tx.Items().FindByID(ctx, *itemID); err != nil {
				return nil, err
			}
			item.InventoryItemID = itemID
		}
		if picked == 0 {
			continue
		}

		if itemID == nil {
			return nil, fmt.Errorf("%w: custom order item %d needs an inventory_item_id", domain.ErrValidation, item.ID)
		}
		if l.SourceLocationID == nil {
			return nil, fmt.Errorf("%w: order item %d needs a source_location_id", domain.ErrValidation, item.ID)
		}
		if destination.HoldsStock() && *l.SourceLocationID == destination.ID {
			return nil, fmt.Errorf("%w: order item %d source equals destination", domain.ErrInvalidOperation, item.ID)
		}
		if _, err := tx.Locations().FindByID(ctx, *l.SourceLocationID); err != nil {
			return nil, err
		}

		moves = append(moves, movement{line: item, itemID: *itemID, source: *l.SourceLocationID, qty: picked})
	}
	return moves, nil
}

func lockMovements(ctx context.Context, w *ledger.Work, moves []movement, destination *domain.Location) error {
	keys := make([]domain.StockKey, 0, 2*len(moves))
	for _, m := range moves {
		keys = append(keys, domain.StockKey{ItemID: m.itemID, LocationID: m.source})
		if destination.HoldsStock() {
			keys = append(keys, domain.StockKey{ItemID: m.itemID, LocationID: destination.ID})
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return w.Lock(ctx, domain.SortStockKeys(keys)...)
}

func applyMovement(ctx context.Context, w *ledger.Work, order *domain.PickingOrder, destination *domain.Location, m movement) error {
	label := m.line.Description
	if label == "" {
		label = fmt.Sprintf("item %d", m.itemID)
	}

	if destination.HoldsStock() {
		_, err := w.Transfer(ctx, ledger.TransferInput{
			ItemID:         m.itemID,
			FromLocationID: m.source,
			ToLocationID:   destination.ID,
			Quantity:       m.qty,
			Details:        fmt.Sprintf("Picking order #%d: transferred %d x %s to %s", order.ID, m.qty, label, destination.Name),
			Action:         domain.AuditPickingFulfilled,
			PickingOrderID: &order.ID,
		})
		return err
	}

	_, err := w.Withdraw(ctx, ledger.WithdrawInput{
		ItemID:         m.itemID,
		FromLocationID: m.source,
		ToLocationID:   &destination.ID,
		Quantity:       m.qty,
		Details:        fmt.Sprintf("Picking order #%d: withdrew %d x %s for %s", order.ID, m.qty, label, destination.Name),
		Action:         domain.AuditPickingFulfilled,
		PickingOrderID: &order.ID,
	})
	return err
}
