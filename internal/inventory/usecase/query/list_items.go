package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// ListItemsQuery represents the query to list catalog items. AvailableOnly
// lists available stock instead of the catalog.
type ListItemsQuery struct {
	Actor         domain.Actor
	Search        string
	CategoryID    uint
	Limit         int
	Offset        int
	AvailableOnly bool
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	uow    domain.UnitOfWork
	access *access.Resolver
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(uow domain.UnitOfWork, resolver *access.Resolver) *ListItemsHandler {
	return &ListItemsHandler{uow: uow, access: resolver}
}

// Handle executes the list items query. The catalog always lists every item;
// available stock drops items a member cannot reach any quantity of.
func (h *ListItemsHandler) Handle(ctx context.Context, query ListItemsQuery) ([]ItemView, error) {
	if query.Limit == 0 {
		query.Limit = 10
	}
	if query.Limit > 100 {
		query.Limit = 100
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	var views []ItemView
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		filter := domain.ItemFilter{
			Search:     query.Search,
			CategoryID: query.CategoryID,
			Limit:      query.Limit,
			Offset:     query.Offset,
		}
		if query.AvailableOnly && !query.Actor.IsElevated() {
			scope, err := h.access.AuthorizedLocations(ctx, tx, query.Actor)
			if err != nil {
				return err
			}
			filter.InStockAt = scope.IDs()
			if filter.InStockAt == nil {
				filter.InStockAt = []uint{}
			}
		}

		items, err := tx.Items().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		views, err = buildViews(ctx, tx, h.access, query.Actor, items)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return views, nil
}
