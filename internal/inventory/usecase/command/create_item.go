package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// CreateItemCommand represents the command to add a catalog item
type CreateItemCommand struct {
	Actor             domain.Actor
	SKU               string
	Name              string
	Description       string
	EAN               *string
	AlternateSKU      *string
	Price             decimal.Decimal
	LowStockThreshold *int
	Monitored         bool
	CategoryIDs       []uint
}

// CreateItemHandler handles create item command
type CreateItemHandler struct {
	ledger *ledger.Ledger
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(l *ledger.Ledger) *CreateItemHandler {
	return &CreateItemHandler{ledger: l}
}

// Handle executes the create item command
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.InventoryItem, error) {
	if err := access.RequireElevated(cmd.Actor, "creating items"); err != nil {
		return nil, err
	}

	item := &domain.InventoryItem{
		SKU:               strings.TrimSpace(cmd.SKU),
		Name:              strings.TrimSpace(cmd.Name),
		Description:       cmd.Description,
		EAN:               normalizeOptional(cmd.EAN),
		AlternateSKU:      normalizeOptional(cmd.AlternateSKU),
		Price:             cmd.Price,
		LowStockThreshold: cmd.LowStockThreshold,
		Monitored:         cmd.Monitored,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	err := h.ledger.Run(ctx, "create_item", cmd.Actor, func(w *ledger.Work) error {
		categories, err := loadCategories(ctx, w.Tx(), cmd.CategoryIDs)
		if err != nil {
			return err
		}
		item.Categories = categories

		if err := w.Tx().Items().Create(ctx, item); err != nil {
			return err
		}
		return w.Record(ctx, domain.AuditLogEntry{
			Action:          domain.AuditCreated,
			Detail:          fmt.Sprintf("Created item %s (%s)", item.SKU, item.Name),
			InventoryItemID: &item.ID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func validateItem(item *domain.InventoryItem) error {
	if item.SKU == "" {
		return fmt.Errorf("%w: sku is required", domain.ErrValidation)
	}
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if item.LowStockThreshold != nil && *item.LowStockThreshold < 0 {
		return fmt.Errorf("%w: low_stock_threshold cannot be negative", domain.ErrValidation)
	}
	return nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func loadCategories(ctx context.Context, tx domain.Tx, ids []uint) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := tx.Categories().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uint]bool, len(categories))
	for _, c := range categories {
		found[c.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
		}
	}
	return categories, nil
}
