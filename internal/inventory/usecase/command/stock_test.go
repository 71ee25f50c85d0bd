package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

func TestStockCommands(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	x := e.item("X")
	a := e.location("A", "")
	b := e.location("B", "")
	e.place(x.ID, a.ID, 10)

	transfer := NewTransferStockHandler(e.ledger)
	writeOff := NewWriteOffStockHandler(e.ledger)

	_, err := transfer.Handle(ctx, TransferStockCommand{Actor: admin, ItemID: x.ID, FromLocationID: a.ID, ToLocationID: b.ID, Quantity: 12})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	result, err := transfer.Handle(ctx, TransferStockCommand{Actor: admin, ItemID: x.ID, FromLocationID: a.ID, ToLocationID: b.ID, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, result.From.Quantity)
	assert.Equal(t, 4, result.To.Quantity)

	_, err = writeOff.Handle(ctx, WriteOffStockCommand{Actor: admin, ItemID: x.ID, LocationID: b.ID, Quantity: 5, Reason: "damaged"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	row, err := writeOff.Handle(ctx, WriteOffStockCommand{Actor: admin, ItemID: x.ID, LocationID: b.ID, Quantity: 4, Reason: "damaged"})
	require.NoError(t, err)
	assert.Zero(t, row.Quantity)
	assert.Equal(t, map[uint]int{a.ID: 6, b.ID: 0}, e.stock(x.ID))

	entries := e.audit(x.ID)
	require.NotEmpty(t, entries)
	assert.Equal(t, domain.AuditWriteOff, entries[0].Action)
	assert.Equal(t, "damaged", entries[0].Detail)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, admin.UserID, *entries[0].ActorID)
}

func TestStockCommands_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := NewPlaceStockHandler(e.ledger).Handle(ctx, PlaceStockCommand{Actor: admin, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewTransferStockHandler(e.ledger).Handle(ctx, TransferStockCommand{Actor: admin, ItemID: 1, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewWriteOffStockHandler(e.ledger).Handle(ctx, WriteOffStockCommand{Actor: admin, ItemID: 1, Quantity: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReceiveGoods(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	x := e.item("CBL-3X15")
	a := e.location("A", "")
	h := NewReceiveGoodsHandler(e.ledger)

	row, err := h.Handle(ctx, ReceiveGoodsCommand{SKU: "CBL-3X15", LocationID: a.ID, Quantity: 30, Reference: "PO-77"})
	require.NoError(t, err)
	assert.Equal(t, 30, row.Quantity)

	entries := e.audit(x.ID)
	assert.Equal(t, domain.AuditLocationPlaced, entries[0].Action)
	assert.Equal(t, "Goods receipt PO-77", entries[0].Detail)
	assert.Nil(t, entries[0].ActorID)

	_, err = h.Handle(ctx, ReceiveGoodsCommand{SKU: "UNKNOWN", LocationID: a.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = h.Handle(ctx, ReceiveGoodsCommand{SKU: "CBL-3X15", LocationID: a.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}
