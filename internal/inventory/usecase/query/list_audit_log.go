package query

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/audit"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// ListAuditLogQuery represents the query to read an item's audit trail
type ListAuditLogQuery struct {
	Actor  domain.Actor
	ItemID uint
}

// ListAuditLogHandler handles list audit log query
type ListAuditLogHandler struct {
	uow    domain.UnitOfWork
	access *access.Resolver
}

// NewListAuditLogHandler creates a new list audit log handler
func NewListAuditLogHandler(uow domain.UnitOfWork, resolver *access.Resolver) *ListAuditLogHandler {
	return &ListAuditLogHandler{uow: uow, access: resolver}
}

// Handle returns entries newest first, restricted to the actor's locations
func (h *ListAuditLogHandler) Handle(ctx context.Context, query ListAuditLogQuery) ([]domain.AuditLogEntry, error) {
	visible := []domain.AuditLogEntry{}
	err := h.uow.Do(ctx, func(tx domain.Tx) error {
		if _, err := tx.Items().FindByID(ctx, query.ItemID); err != nil {
			return err
		}
		scope, err := h.access.AuthorizedLocations(ctx, tx, query.Actor)
		if err != nil {
			return err
		}
		entries, err := tx.Audit().FindByItem(ctx, query.ItemID)
		if err != nil {
			return err
		}
		for i := range entries {
			if audit.Visible(&entries[i], scope.Contains) {
				visible = append(visible, entries[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	return visible, nil
}
