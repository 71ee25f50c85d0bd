package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// CreateLocationCommand represents the command to add a location
type CreateLocationCommand struct {
	Actor       domain.Actor
	Name        string
	Description string
	Kind        domain.LocationKind
}

// CreateLocationHandler handles create location command
type CreateLocationHandler struct {
	uow domain.UnitOfWork
}

// NewCreateLocationHandler creates a new create location handler
func NewCreateLocationHandler(uow domain.UnitOfWork) *CreateLocationHandler {
	return &CreateLocationHandler{uow: uow}
}

// Handle executes the create location command
func (h *CreateLocationHandler) Handle(ctx context.Context, cmd CreateLocationCommand) (*domain.Location, error) {
	if err := access.RequireElevated(cmd.Actor, "creating locations"); err != nil {
		return nil, err
	}

	location := &domain.Location{
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
		Kind:        cmd.Kind,
	}
	if location.Kind == "" {
		location.Kind = domain.LocationStorage
	}
	if err := validateLocation(location); err != nil {
		return nil, err
	}

	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		return tx.Locations().Create(ctx, location)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

func validateLocation(location *domain.Location) error {
	if location.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !location.Kind.Valid() {
		return fmt.Errorf("%w: unknown location kind %q", domain.ErrValidation, location.Kind)
	}
	return nil
}
