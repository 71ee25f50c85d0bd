package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// ListLocationsQuery represents the query to list locations
type ListLocationsQuery struct {
	Actor domain.Actor
}

// ListLocationsHandler handles list locations query
type ListLocationsHandler struct {
	uow    domain.UnitOfWork
	access *access.Resolver
}

// NewListLocationsHandler creates a new list locations handler
func NewListLocationsHandler(uow domain.UnitOfWork, resolver *access.Resolver) *ListLocationsHandler {
	return &ListLocationsHandler{uow: uow, access: resolver}
}

// Handle lists the locations in the actor's scope
func (h *ListLocationsHandler) Handle(ctx context.Context, query ListLocationsQuery) ([]domain.Location, error) {
	var locations []domain.Location
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		scope, err := h.access.AuthorizedLocations(ctx, tx, query.Actor)
		if err != nil {
			return err
		}
		all, err := tx.Locations().FindAll(ctx)
		if err != nil {
			return err
		}
		locations = make([]domain.Location, 0, len(all))
		for _, l := range all {
			if scope.Contains(l.ID) {
				locations = append(locations, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}
