package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/audit"
	"github.com/tair/field-inventory/internal/inventory/domain"
)

// Work is the transactional context handed to Ledger.Run callbacks
type Work struct {
	tx      domain.Tx
	actor   domain.Actor
	access  *access.Resolver
	journal *audit.Journal
	locked  map[domain.StockKey]*domain.LocationStock
}

func newWork(tx domain.Tx, actor domain.Actor, resolver *access.Resolver, journal *audit.Journal) *Work {
	return &Work{
		tx:      tx,
		actor:   actor,
		access:  resolver,
		journal: journal,
		locked:  make(map[domain.StockKey]*domain.LocationStock),
	}
}

// Tx returns the underlying transaction
func (w *Work) Tx() domain.Tx { return w.tx }

// Actor returns the acting user
func (w *Work) Actor() domain.Actor { return w.actor }

// Record appends an audit entry to the transaction
func (w *Work) Record(ctx context.Context, entry domain.AuditLogEntry) error {
	return w.journal.Record(ctx, entry)
}

// Lock acquires row locks for keys in (item id, location id) order. Rows
// already locked by this Work are skipped. Callers touching several pairs
// lock them all up front so the order holds across the whole transaction.
func (w *Work) Lock(ctx context.Context, keys ...domain.StockKey) error {
	var missing []domain.StockKey
	for _, k := range keys {
		if _, ok := w.locked[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	rows, err := w.tx.Stock().LockForUpdate(ctx, missing)
	if err != nil {
		return fmt.Errorf("failed to lock stock rows: %w", err)
	}
	for k, row := range rows {
		w.locked[k] = row
	}
	return nil
}

func (w *Work) row(ctx context.Context, key domain.StockKey) (*domain.LocationStock, error) {
	if err := w.Lock(ctx, key); err != nil {
		return nil, err
	}
	row, ok := w.locked[key]
	if !ok {
		return nil, fmt.Errorf("%w: stock row item %d location %d", domain.ErrNotFound, key.ItemID, key.LocationID)
	}
	return row, nil
}

func (w *Work) save(ctx context.Context, row *domain.LocationStock, quantity int) error {
	previous := row.Quantity
	row.Quantity = quantity
	if err := w.tx.Stock().Save(ctx, row); err != nil {
		row.Quantity = previous
		return fmt.Errorf("failed to save stock row: %w", err)
	}
	return nil
}

func (w *Work) item(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	item, err := w.tx.Items().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (w *Work) location(ctx context.Context, id uint) (*domain.Location, error) {
	location, err := w.tx.Locations().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func requirePositive(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero, got %d", domain.ErrInvalidOperation, quantity)
	}
	return nil
}

func detailOr(details, fallback string) string {
	if d := strings.TrimSpace(details); d != "" {
		return d
	}
	return fallback
}

// PlaceInput describes stock arriving at a location
type PlaceInput struct {
	ItemID     uint
	LocationID uint
	Quantity   int
	Details    string
}

// Place increments (or creates) the row of item at location
func (w *Work) Place(ctx context.Context, in PlaceInput) (*domain.LocationStock, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	item, err := w.item(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	location, err := w.location(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if !location.HoldsStock() {
		return nil, fmt.Errorf("%w: location %q does not hold stock", domain.ErrInvalidOperation, location.Name)
	}
	if err := w.access.RequireLocations(ctx, w.tx, w.actor, location.ID); err != nil {
		return nil, err
	}

	row, err := w.row(ctx, domain.StockKey{ItemID: item.ID, LocationID: location.ID})
	if err != nil {
		return nil, err
	}
	if err := w.save(ctx, row, row.Quantity+in.Quantity); err != nil {
		return nil, err
	}

	err = w.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditLocationPlaced,
		Detail:          detailOr(in.Details, fmt.Sprintf("Placed %d x %s at %s", in.Quantity, item.SKU, location.Name)),
		InventoryItemID: &item.ID,
		LocationID:      &location.ID,
		Quantity:        in.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// TransferInput describes stock moving between two storage locations.
// Action and PickingOrderID let the picking engine label the audit entry.
type TransferInput struct {
	ItemID         uint
	FromLocationID uint
	ToLocationID   uint
	Quantity       int
	Details        string
	Action         domain.AuditAction
	PickingOrderID *uint
}

// TransferResult holds both rows after a transfer
type TransferResult struct {
	From *domain.LocationStock `json:"from"`
	To   *domain.LocationStock `json:"to"`
}

// Transfer moves quantity from one location to another under one lock set
func (w *Work) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.FromLocationID == in.ToLocationID {
		return nil, fmt.Errorf("%w: source and destination are both location %d", domain.ErrInvalidOperation, in.FromLocationID)
	}
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	item, err := w.item(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	from, err := w.location(ctx, in.FromLocationID)
	if err != nil {
		return nil, err
	}
	to, err := w.location(ctx, in.ToLocationID)
	if err != nil {
		return nil, err
	}
	if !to.HoldsStock() {
		return nil, fmt.Errorf("%w: location %q does not hold stock", domain.ErrInvalidOperation, to.Name)
	}
	if err := w.access.RequireLocations(ctx, w.tx, w.actor, from.ID, to.ID); err != nil {
		return nil, err
	}

	fromKey := domain.StockKey{ItemID: item.ID, LocationID: from.ID}
	toKey := domain.StockKey{ItemID: item.ID, LocationID: to.ID}
	if err := w.Lock(ctx, fromKey, toKey); err != nil {
		return nil, err
	}
	src, dst := w.locked[fromKey], w.locked[toKey]
	if src.Quantity < in.Quantity {
		return nil, fmt.Errorf("%w: %s has %d x %s, requested %d",
			domain.ErrInsufficientStock, from.Name, src.Quantity, item.SKU, in.Quantity)
	}

	if err := w.save(ctx, src, src.Quantity-in.Quantity); err != nil {
		return nil, err
	}
	if err := w.save(ctx, dst, dst.Quantity+in.Quantity); err != nil {
		return nil, err
	}

	action := in.Action
	if action == "" {
		action = domain.AuditLocationTransferred
	}
	err = w.Record(ctx, domain.AuditLogEntry{
		Action:          action,
		Detail:          detailOr(in.Details, fmt.Sprintf("Transferred %d x %s from %s to %s", in.Quantity, item.SKU, from.Name, to.Name)),
		InventoryItemID: &item.ID,
		LocationID:      &from.ID,
		ToLocationID:    &to.ID,
		Quantity:        in.Quantity,
		PickingOrderID:  in.PickingOrderID,
	})
	if err != nil {
		return nil, err
	}
	return &TransferResult{From: src, To: dst}, nil
}

// WithdrawInput describes stock consumed from a location. ToLocationID may
// name the consumption location the goods went to.
type WithdrawInput struct {
	ItemID         uint
	FromLocationID uint
	ToLocationID   *uint
	Quantity       int
	Details        string
	Action         domain.AuditAction
	PickingOrderID *uint
}

// Withdraw decrements the row of item at the source location
func (w *Work) Withdraw(ctx context.Context, in WithdrawInput) (*domain.LocationStock, error) {
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	item, err := w.item(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	from, err := w.location(ctx, in.FromLocationID)
	if err != nil {
		return nil, err
	}
	if err := w.access.RequireLocations(ctx, w.tx, w.actor, from.ID); err != nil {
		return nil, err
	}

	row, err := w.row(ctx, domain.StockKey{ItemID: item.ID, LocationID: from.ID})
	if err != nil {
		return nil, err
	}
	if row.Quantity < in.Quantity {
		return nil, fmt.Errorf("%w: %s has %d x %s, requested %d",
			domain.ErrInsufficientStock, from.Name, row.Quantity, item.SKU, in.Quantity)
	}
	if err := w.save(ctx, row, row.Quantity-in.Quantity); err != nil {
		return nil, err
	}

	action := in.Action
	if action == "" {
		action = domain.AuditLocationWithdrawn
	}
	err = w.Record(ctx, domain.AuditLogEntry{
		Action:          action,
		Detail:          detailOr(in.Details, fmt.Sprintf("Withdrew %d x %s from %s", in.Quantity, item.SKU, from.Name)),
		InventoryItemID: &item.ID,
		LocationID:      &from.ID,
		ToLocationID:    in.ToLocationID,
		Quantity:        in.Quantity,
		PickingOrderID:  in.PickingOrderID,
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// WriteOffInput describes stock permanently removed for a reason
type WriteOffInput struct {
	ItemID     uint
	LocationID uint
	Quantity   int
	Reason     string
}

// WriteOff removes stock; only elevated actors may write off
func (w *Work) WriteOff(ctx context.Context, in WriteOffInput) (*domain.LocationStock, error) {
	if err := access.RequireElevated(w.actor, "write-off"); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a write-off requires a reason", domain.ErrInvalidOperation)
	}
	if err := requirePositive(in.Quantity); err != nil {
		return nil, err
	}
	item, err := w.item(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	location, err := w.location(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	row, err := w.row(ctx, domain.StockKey{ItemID: item.ID, LocationID: location.ID})
	if err != nil {
		return nil, err
	}
	if row.Quantity < in.Quantity {
		return nil, fmt.Errorf("%w: %s has %d x %s, write-off of %d requested",
			domain.ErrInsufficientStock, location.Name, row.Quantity, item.SKU, in.Quantity)
	}
	if err := w.save(ctx, row, row.Quantity-in.Quantity); err != nil {
		return nil, err
	}

	err = w.Record(ctx, domain.AuditLogEntry{
		Action:          domain.AuditWriteOff,
		Detail:          reason,
		InventoryItemID: &item.ID,
		LocationID:      &location.ID,
		Quantity:        in.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}
