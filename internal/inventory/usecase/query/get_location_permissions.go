package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// GetLocationPermissionsQuery represents the query to list users granted a location
type GetLocationPermissionsQuery struct {
	Actor      domain.Actor
	LocationID uint
}

// GetLocationPermissionsHandler handles get location permissions query
type GetLocationPermissionsHandler struct {
	uow domain.UnitOfWork
}

// NewGetLocationPermissionsHandler creates a new get location permissions handler
func NewGetLocationPermissionsHandler(uow domain.UnitOfWork) *GetLocationPermissionsHandler {
	return &GetLocationPermissionsHandler{uow: uow}
}

// Handle executes the get location permissions query
func (h *GetLocationPermissionsHandler) Handle(ctx context.Context, query GetLocationPermissionsQuery) ([]uint, error) {
	if err := access.RequireElevated(query.Actor, "reading location permissions"); err != nil {
		return nil, err
	}

	var userIDs []uint
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		if _, err := tx.Locations().FindByID(ctx, query.LocationID); err != nil {
			return err
		}
		var err error
		userIDs, err = tx.Locations().ListPermissions(ctx, query.LocationID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get location permissions: %w", err)
	}
	if userIDs == nil {
		userIDs = []uint{}
	}
	return userIDs, nil
}
