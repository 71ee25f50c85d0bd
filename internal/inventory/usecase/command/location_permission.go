package command

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// LocationPermissionCommand represents a grant or revoke of location access
type LocationPermissionCommand struct {
	Actor      domain.Actor
	LocationID uint
	UserID     uint
}

// AddLocationPermissionHandler handles add location permission command
type AddLocationPermissionHandler struct {
	uow    domain.UnitOfWork
	access *access.Resolver
}

// NewAddLocationPermissionHandler creates a new add location permission handler
func NewAddLocationPermissionHandler(uow domain.UnitOfWork, resolver *access.Resolver) *AddLocationPermissionHandler {
	return &AddLocationPermissionHandler{uow: uow, access: resolver}
}

// Handle grants the user access to the location. Granting twice is a no-op.
func (h *AddLocationPermissionHandler) Handle(ctx context.Context, cmd LocationPermissionCommand) ([]uint, error) {
	return changePermission(ctx, h.uow, h.access, cmd, "granting location access", func(repo domain.LocationRepository) error {
		return repo.AddPermission(ctx, cmd.LocationID, cmd.UserID)
	})
}

// RemoveLocationPermissionHandler handles remove location permission command
type RemoveLocationPermissionHandler struct {
	uow    domain.UnitOfWork
	access *access.Resolver
}

// NewRemoveLocationPermissionHandler creates a new remove location permission handler
func NewRemoveLocationPermissionHandler(uow domain.UnitOfWork, resolver *access.Resolver) *RemoveLocationPermissionHandler {
	return &RemoveLocationPermissionHandler{uow: uow, access: resolver}
}

// Handle revokes the user's access to the location
func (h *RemoveLocationPermissionHandler) Handle(ctx context.Context, cmd LocationPermissionCommand) ([]uint, error) {
	return changePermission(ctx, h.uow, h.access, cmd, "revoking location access", func(repo domain.LocationRepository) error {
		return repo.RemovePermission(ctx, cmd.LocationID, cmd.UserID)
	})
}

func changePermission(ctx context.Context, uow domain.UnitOfWork, resolver *access.Resolver, cmd LocationPermissionCommand, action string, change func(domain.LocationRepository) error) ([]uint, error) {
	if err := access.RequireElevated(cmd.Actor, action); err != nil {
		return nil, err
	}
	if cmd.LocationID == 0 || cmd.UserID == 0 {
		return nil, fmt.Errorf("%w: location_id and user_id are required", domain.ErrValidation)
	}

	var (
		userIDs []uint
		version uint64
	)
	err := uow.Do(ctx, func(tx domain.Tx) error {
		repo := tx.Locations()
		if _, err := repo.FindByID(ctx, cmd.LocationID); err != nil {
			return err
		}
		if err := change(repo); err != nil {
			return err
		}
		var err error
		if version, err = repo.ScopeVersion(ctx, cmd.UserID); err != nil {
			return err
		}
		userIDs, err = repo.ListPermissions(ctx, cmd.LocationID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed %s: %w", action, err)
	}

	resolver.Invalidate(ctx, cmd.UserID, version)
	return userIDs, nil
}
