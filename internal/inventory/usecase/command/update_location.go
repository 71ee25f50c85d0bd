package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// UpdateLocationCommand represents the command to rename or reclassify a location
type UpdateLocationCommand struct {
	Actor       domain.Actor
	ID          uint
	Name        *string
	Description *string
	Kind        *domain.LocationKind
}

// UpdateLocationHandler handles update location command
type UpdateLocationHandler struct {
	uow domain.UnitOfWork
}

// NewUpdateLocationHandler creates a new update location handler
func NewUpdateLocationHandler(uow domain.UnitOfWork) *UpdateLocationHandler {
	return &UpdateLocationHandler{uow: uow}
}

// Handle executes the update location command. A location that still holds
// stock cannot become a consumption location.
func (h *UpdateLocationHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) (*domain.Location, error) {
	if err := access.RequireElevated(cmd.Actor, "updating locations"); err != nil {
		return nil, err
	}

	var location *domain.Location
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		var err error
		location, err = tx.Locations().FindByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if cmd.Name != nil {
			location.Name = strings.TrimSpace(*cmd.Name)
		}
		if cmd.Description != nil {
			location.Description = *cmd.Description
		}
		if cmd.Kind != nil && *cmd.Kind != location.Kind {
			location.Kind = *cmd.Kind
			if !location.HoldsStock() {
				if err := requireEmptyLocation(ctx, tx, location.ID); err != nil {
					return err
				}
			}
		}
		if err := validateLocation(location); err != nil {
			return err
		}
		return tx.Locations().Update(ctx, location)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return location, nil
}

func requireEmptyLocation(ctx context.Context, tx domain.Tx, locationID uint) error {
	items, err := tx.Items().FindAll(ctx, domain.ItemFilter{})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	totals, err := tx.Stock().SumByItems(ctx, ids, []uint{locationID})
	if err != nil {
		return err
	}
	for _, total := range totals {
		if total > 0 {
			return fmt.Errorf("%w: location %d still holds stock", domain.ErrInvalidOperation, locationID)
		}
	}
	return nil
}
