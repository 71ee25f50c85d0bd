package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

// ListCategoriesHandler handles list categories query
type ListCategoriesHandler struct {
	uow domain.UnitOfWork
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(uow domain.UnitOfWork) *ListCategoriesHandler {
	return &ListCategoriesHandler{uow: uow}
}

// Handle executes the list categories query
func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		var err error
		categories, err = tx.Categories().FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
