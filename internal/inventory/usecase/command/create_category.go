package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// CreateCategoryCommand represents the command to add a category
type CreateCategoryCommand struct {
	Actor       domain.Actor
	Name        string
	Description string
}

// CreateCategoryHandler handles create category command
type CreateCategoryHandler struct {
	uow domain.UnitOfWork
}

// NewCreateCategoryHandler creates a new create category handler
func NewCreateCategoryHandler(uow domain.UnitOfWork) *CreateCategoryHandler {
	return &CreateCategoryHandler{uow: uow}
}

// Handle executes the create category command
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	if err := access.RequireElevated(cmd.Actor, "creating categories"); err != nil {
		return nil, err
	}
	category := &domain.Category{
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
	}
	if category.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		return tx.Categories().Create(ctx, category)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}
