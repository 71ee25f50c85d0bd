package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/metrics"
)

// PickingOrderItemInput is one requested line: a catalog item or a free-text description
type PickingOrderItemInput struct {
	InventoryItemID   *uint
	Description       string
	RequestedQuantity int
}

// CreatePickingOrderCommand represents the command to request material
type CreatePickingOrderCommand struct {
	Actor                 domain.Actor
	DestinationLocationID uint
	SourceLocationID      *uint
	Notes                 string
	Items                 []PickingOrderItemInput
}

// CreatePickingOrderHandler handles create picking order command
type CreatePickingOrderHandler struct {
	uow     domain.UnitOfWork
	metrics *metrics.Metrics
}

// NewCreatePickingOrderHandler creates a new create picking order handler
func NewCreatePickingOrderHandler(uow domain.UnitOfWork, m *metrics.Metrics) *CreatePickingOrderHandler {
	return &CreatePickingOrderHandler{uow: uow, metrics: m}
}

// Handle executes the create picking order command. Creating an order never
// reserves or moves stock.
func (h *CreatePickingOrderHandler) Handle(ctx context.Context, cmd CreatePickingOrderCommand) (*domain.PickingOrder, error) {
	if cmd.DestinationLocationID == 0 {
		return nil, fmt.Errorf("%w: destination_location_id is required", domain.ErrValidation)
	}
	if cmd.SourceLocationID != nil && *cmd.SourceLocationID == cmd.DestinationLocationID {
		return nil, fmt.Errorf("%w: source and destination must differ", domain.ErrInvalidOperation)
	}
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}

	order := &domain.PickingOrder{
		RequesterID:           cmd.Actor.UserID,
		SourceLocationID:      cmd.SourceLocationID,
		DestinationLocationID: cmd.DestinationLocationID,
		Notes:                 cmd.Notes,
		Status:                domain.PickingNew,
		Items:                 make([]domain.PickingOrderItem, 0, len(cmd.Items)),
	}
	for i, in := range cmd.Items {
		line, err := newPickingOrderItem(i, in)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, line)
	}

	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		if _, err := tx.Locations().FindByID(ctx, cmd.DestinationLocationID); err != nil {
			return err
		}
		if cmd.SourceLocationID != nil {
			source, err := tx.Locations().FindByID(ctx, *cmd.SourceLocationID)
			if err != nil {
				return err
			}
			if !source.HoldsStock() {
				return fmt.Errorf("%w: source location %q does not hold stock", domain.ErrInvalidOperation, source.Name)
			}
		}
		for _, line := range order.Items {
			if line.InventoryItemID == nil {
				continue
			}
			if _, err := tx.Items().FindByID(ctx, *line.InventoryItemID); err != nil {
				return err
			}
		}
		return tx.PickingOrders().Create(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create picking order: %w", err)
	}

	h.metrics.PickingTransition("created")
	return order, nil
}

func newPickingOrderItem(index int, in PickingOrderItemInput) (domain.PickingOrderItem, error) {
	description := strings.TrimSpace(in.Description)
	if in.InventoryItemID == nil && description == "" {
		return domain.PickingOrderItem{}, fmt.Errorf("%w: item %d needs an inventory_item_id or a description", domain.ErrValidation, index+1)
	}
	if in.RequestedQuantity <= 0 {
		return domain.PickingOrderItem{}, fmt.Errorf("%w: item %d requested quantity must be greater than zero", domain.ErrInvalidOperation, index+1)
	}
	return domain.PickingOrderItem{
		InventoryItemID:   in.InventoryItemID,
		Description:       description,
		RequestedQuantity: in.RequestedQuantity,
	}, nil
}
