package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/repository/memory"
	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/kafka"
	"github.com/tair/field-inventory/pkg/config"
)

func TestInitializeService(t *testing.T) {
	store := memory.NewStore(time.Second)
	svc, err := InitializeService(store, nil, nil, nil, &config.Config{})
	require.NoError(t, err)
	require.NotNil(t, svc.Handler)
	require.NotNil(t, svc.ReceiveGoods)
}

func TestProvideScopeCache_WithoutClient(t *testing.T) {
	assert.Nil(t, ProvideScopeCache(nil, &config.Config{}))
	assert.Nil(t, ProvideAuditPublisher(nil))
}

func TestGoodsReceiptHandler(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	l := ProvideLedger(store, ProvideResolver(nil), ProvideEmitter(nil), nil)
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	item, err := command.NewCreateItemHandler(l).Handle(ctx, command.CreateItemCommand{
		Actor: admin,
		SKU:   "CBL-3X15",
		Name:  "Cable 3x1.5",
		Price: decimal.RequireFromString("1.20"),
	})
	require.NoError(t, err)
	location, err := command.NewCreateLocationHandler(store).Handle(ctx, command.CreateLocationCommand{Actor: admin, Name: "Main warehouse"})
	require.NoError(t, err)

	handle := GoodsReceiptHandler(command.NewReceiveGoodsHandler(l))
	payload := func(sku string, locationID uint, quantity int) []byte {
		b, err := json.Marshal(kafka.GoodsReceivedEvent{
			EventID:    "evt-1",
			EventType:  kafka.EventTypeGoodsReceived,
			SKU:        sku,
			LocationID: locationID,
			Quantity:   quantity,
			Reference:  "PO-4711",
		})
		require.NoError(t, err)
		return b
	}

	require.NoError(t, handle(ctx, payload(item.SKU, location.ID, 12)))
	assert.NoError(t, handle(ctx, payload("UNKNOWN", location.ID, 3)), "unknown sku is skipped")
	assert.NoError(t, handle(ctx, payload(item.SKU, 999, 3)), "unknown location is skipped")
	assert.NoError(t, handle(ctx, payload(item.SKU, location.ID, 0)), "zero quantity is skipped")
	assert.Error(t, handle(ctx, []byte("{not json")))

	rows, err := l.StockForItem(ctx, admin, item.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 12, rows[0].Quantity)

	var entries []domain.AuditLogEntry
	require.NoError(t, store.Do(ctx, func(tx domain.Tx) error {
		entries, err = tx.Audit().FindByItem(ctx, item.ID)
		return err
	}))
	require.NotEmpty(t, entries)
	assert.Equal(t, domain.AuditLocationPlaced, entries[0].Action)
	assert.Nil(t, entries[0].ActorID)
	assert.Equal(t, "Goods receipt PO-4711", entries[0].Detail)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, isPermanent(domain.ErrNotFound))
	assert.True(t, isPermanent(domain.ErrValidation))
	assert.False(t, isPermanent(domain.ErrContention))
	assert.False(t, isPermanent(errors.New("connection reset")))
}
