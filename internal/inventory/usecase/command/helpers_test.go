package command

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/audit"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
	"github.com/tair/field-inventory/internal/inventory/repository/memory"
)

var (
	admin     = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	requester = domain.Actor{UserID: 20, Role: domain.RoleMember}
	picker    = domain.Actor{UserID: 21, Role: domain.RoleMember}
)

type env struct {
	t        *testing.T
	store    *memory.Store
	resolver *access.Resolver
	ledger   *ledger.Ledger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore(5 * time.Second)
	resolver := access.NewResolver(nil)
	return &env{
		t:        t,
		store:    store,
		resolver: resolver,
		ledger:   ledger.New(store, resolver, audit.NewEmitter(nil), nil),
	}
}

func (e *env) item(sku string) domain.InventoryItem {
	e.t.Helper()
	item, err := NewCreateItemHandler(e.ledger).Handle(context.Background(), CreateItemCommand{
		Actor: admin,
		SKU:   sku,
		Name:  "Item " + sku,
		Price: decimal.RequireFromString("9.99"),
	})
	require.NoError(e.t, err)
	return *item
}

func (e *env) location(name string, kind domain.LocationKind) domain.Location {
	e.t.Helper()
	location, err := NewCreateLocationHandler(e.store).Handle(context.Background(), CreateLocationCommand{
		Actor: admin,
		Name:  name,
		Kind:  kind,
	})
	require.NoError(e.t, err)
	return *location
}

func (e *env) place(itemID, locationID uint, quantity int) {
	e.t.Helper()
	_, err := NewPlaceStockHandler(e.ledger).Handle(context.Background(), PlaceStockCommand{
		Actor:      admin,
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   quantity,
	})
	require.NoError(e.t, err)
}

func (e *env) grant(locationID uint, actor domain.Actor) {
	e.t.Helper()
	_, err := NewAddLocationPermissionHandler(e.store, e.resolver).Handle(context.Background(), LocationPermissionCommand{
		Actor:      admin,
		LocationID: locationID,
		UserID:     actor.UserID,
	})
	require.NoError(e.t, err)
}

func (e *env) stock(itemID uint) map[uint]int {
	e.t.Helper()
	rows, err := e.ledger.StockForItem(context.Background(), admin, itemID)
	require.NoError(e.t, err)
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.LocationID] = row.Quantity
	}
	return out
}

func (e *env) audit(itemID uint) []domain.AuditLogEntry {
	e.t.Helper()
	var entries []domain.AuditLogEntry
	require.NoError(e.t, e.store.Do(context.Background(), func(tx domain.Tx) error {
		var err error
		entries, err = tx.Audit().FindByItem(context.Background(), itemID)
		return err
	}))
	return entries
}

func uintPtr(v uint) *uint { return &v }
