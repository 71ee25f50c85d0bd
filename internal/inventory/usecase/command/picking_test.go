package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

type pickingEnv struct {
	*env
	x, y    domain.InventoryItem
	a, c    domain.Location
	site    domain.Location
	create  *CreatePickingOrderHandler
	start   *StartPickingHandler
	fulfill *FulfillPickingOrderHandler
	cancel  *CancelPickingOrderHandler
	ctx     context.Context
}

func newPickingEnv(t *testing.T) *pickingEnv {
	e := newEnv(t)
	p := &pickingEnv{
		env:     e,
		x:       e.item("X"),
		y:       e.item("Y"),
		a:       e.location("A", ""),
		c:       e.location("C", ""),
		site:    e.location("Customer site", domain.LocationConsumption),
		create:  NewCreatePickingOrderHandler(e.store, nil),
		start:   NewStartPickingHandler(e.store, e.resolver, nil),
		fulfill: NewFulfillPickingOrderHandler(e.ledger, nil),
		cancel:  NewCancelPickingOrderHandler(e.store, nil),
		ctx:     context.Background(),
	}
	p.place(p.x.ID, p.a.ID, 30)
	p.place(p.y.ID, p.a.ID, 5)
	return p
}

func (p *pickingEnv) order(destination uint, items ...PickingOrderItemInput) *domain.PickingOrder {
	p.t.Helper()
	order, err := p.create.Handle(p.ctx, CreatePickingOrderCommand{
		Actor:                 requester,
		DestinationLocationID: destination,
		Items:                 items,
	})
	require.NoError(p.t, err)
	return order
}

func TestFulfill_CustomItemBoundAtFulfillment(t *testing.T) {
	p := newPickingEnv(t)
	order := p.order(p.c.ID, PickingOrderItemInput{Description: "Cable 3x1.5, 20m", RequestedQuantity: 20})
	assert.Equal(t, domain.PickingNew, order.Status)
	assert.Equal(t, map[uint]int{p.a.ID: 30}, p.stock(p.x.ID))

	done, err := p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{
		Actor:   admin,
		OrderID: order.ID,
		Lines: []FulfillLine{{
			PickingOrderItemID: order.Items[0].ID,
			PickedQuantity:     20,
			SourceLocationID:   &p.a.ID,
			InventoryItemID:    &p.x.ID,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PickingCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	require.NotNil(t, done.PickerID)
	assert.Equal(t, admin.UserID, *done.PickerID)
	require.NotNil(t, done.Items[0].PickedQuantity)
	assert.Equal(t, 20, *done.Items[0].PickedQuantity)
	assert.Equal(t, p.x.ID, *done.Items[0].InventoryItemID)
	assert.Equal(t, map[uint]int{p.a.ID: 10, p.c.ID: 20}, p.stock(p.x.ID))

	entry := p.audit(p.x.ID)[0]
	assert.Equal(t, domain.AuditPickingFulfilled, entry.Action)
	assert.Equal(t, order.ID, *entry.PickingOrderID)
	assert.Contains(t, entry.Detail, "transferred 20 x Cable 3x1.5, 20m")

	_, err = p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{Actor: admin, OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestFulfill_AllOrNothing(t *testing.T) {
	p := newPickingEnv(t)
	order := p.order(p.c.ID,
		PickingOrderItemInput{InventoryItemID: &p.x.ID, RequestedQuantity: 10},
		PickingOrderItemInput{InventoryItemID: &p.y.ID, RequestedQuantity: 8},
	)

	_, err := p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{
		Actor:   admin,
		OrderID: order.ID,
		Lines: []FulfillLine{
			{PickingOrderItemID: order.Items[0].ID, PickedQuantity: 10, SourceLocationID: &p.a.ID},
			{PickingOrderItemID: order.Items[1].ID, PickedQuantity: 8, SourceLocationID: &p.a.ID},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, map[uint]int{p.a.ID: 30}, p.stock(p.x.ID))
	assert.Equal(t, map[uint]int{p.a.ID: 5}, p.stock(p.y.ID))

	err = p.store.Do(p.ctx, func(tx domain.Tx) error {
		stored, err := tx.PickingOrders().FindByID(p.ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PickingNew, stored.Status)
		assert.Nil(t, stored.Items[0].PickedQuantity)
		return nil
	})
	require.NoError(t, err)
}

func TestFulfill_PartialPickCompletesOrder(t *testing.T) {
	p := newPickingEnv(t)
	order := p.order(p.site.ID,
		PickingOrderItemInput{InventoryItemID: &p.x.ID, RequestedQuantity: 10},
		PickingOrderItemInput{Description: "Special bracket", RequestedQuantity: 2},
	)

	done, err := p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{
		Actor:   admin,
		OrderID: order.ID,
		Lines: []FulfillLine{
			{PickingOrderItemID: order.Items[0].ID, PickedQuantity: 6, SourceLocationID: &p.a.ID},
			{PickingOrderItemID: order.Items[1].ID, PickedQuantity: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PickingCompleted, done.Status)
	assert.Equal(t, 0, *done.Items[1].PickedQuantity)
	assert.Nil(t, done.Items[1].InventoryItemID)

	// A consumption destination withdraws instead of transferring.
	assert.Equal(t, map[uint]int{p.a.ID: 24}, p.stock(p.x.ID))
	entry := p.audit(p.x.ID)[0]
	assert.Equal(t, domain.AuditPickingFulfilled, entry.Action)
	assert.Contains(t, entry.Detail, "withdrew 6")
	assert.Equal(t, p.site.ID, *entry.ToLocationID)
}

func TestFulfill_PreflightValidation(t *testing.T) {
	p := newPickingEnv(t)
	order := p.order(p.c.ID,
		PickingOrderItemInput{InventoryItemID: &p.x.ID, RequestedQuantity: 10},
		PickingOrderItemInput{Description: "Custom", RequestedQuantity: 3},
	)
	first, second := order.Items[0].ID, order.Items[1].ID

	tests := []struct {
		name  string
		lines []FulfillLine
		want  error
	}{
		{"missing line", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 1, SourceLocationID: &p.a.ID},
		}, domain.ErrValidation},
		{"unknown line", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 1, SourceLocationID: &p.a.ID},
			{PickingOrderItemID: second, PickedQuantity: 0},
			{PickingOrderItemID: 999, PickedQuantity: 0},
		}, domain.ErrValidation},
		{"duplicate line", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 1, SourceLocationID: &p.a.ID},
			{PickingOrderItemID: first, PickedQuantity: 1, SourceLocationID: &p.a.ID},
		}, domain.ErrValidation},
		{"missing source", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 1},
			{PickingOrderItemID: second, PickedQuantity: 0},
		}, domain.ErrValidation},
		{"custom item without binding", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 0},
			{PickingOrderItemID: second, PickedQuantity: 1, SourceLocationID: &p.a.ID},
		}, domain.ErrValidation},
		{"picked more than requested", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 11, SourceLocationID: &p.a.ID},
			{PickingOrderItemID: second, PickedQuantity: 0},
		}, domain.ErrInvalidOperation},
		{"source equals destination", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 1, SourceLocationID: &p.c.ID},
			{PickingOrderItemID: second, PickedQuantity: 0},
		}, domain.ErrInvalidOperation},
		{"rebinding a catalog line", []FulfillLine{
			{PickingOrderItemID: first, PickedQuantity: 1, SourceLocationID: &p.a.ID, InventoryItemID: &p.y.ID},
			{PickingOrderItemID: second, PickedQuantity: 0},
		}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{Actor: admin, OrderID: order.ID, Lines: tt.lines})
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, map[uint]int{p.a.ID: 30}, p.stock(p.x.ID))
}

func TestFulfill_MemberNeedsSourceAccess(t *testing.T) {
	p := newPickingEnv(t)
	order := p.order(p.site.ID, PickingOrderItemInput{InventoryItemID: &p.x.ID, RequestedQuantity: 2})
	lines := []FulfillLine{{PickingOrderItemID: order.Items[0].ID, PickedQuantity: 2, SourceLocationID: &p.a.ID}}

	_, err := p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{Actor: picker, OrderID: order.ID, Lines: lines})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	p.grant(p.a.ID, picker)
	done, err := p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{Actor: picker, OrderID: order.ID, Lines: lines})
	require.NoError(t, err)
	assert.Equal(t, picker.UserID, *done.PickerID)
	assert.Equal(t, 28, p.stock(p.x.ID)[p.a.ID])
}

func TestCreatePickingOrder_Validation(t *testing.T) {
	p := newPickingEnv(t)
	missing := uint(999)

	tests := []struct {
		name string
		cmd  CreatePickingOrderCommand
		want error
	}{
		{"no destination", CreatePickingOrderCommand{Actor: requester, Items: []PickingOrderItemInput{{Description: "a", RequestedQuantity: 1}}}, domain.ErrValidation},
		{"no items", CreatePickingOrderCommand{Actor: requester, DestinationLocationID: p.c.ID}, domain.ErrValidation},
		{"empty description", CreatePickingOrderCommand{Actor: requester, DestinationLocationID: p.c.ID, Items: []PickingOrderItemInput{{Description: " ", RequestedQuantity: 1}}}, domain.ErrValidation},
		{"zero quantity", CreatePickingOrderCommand{Actor: requester, DestinationLocationID: p.c.ID, Items: []PickingOrderItemInput{{Description: "a"}}}, domain.ErrInvalidOperation},
		{"unknown destination", CreatePickingOrderCommand{Actor: requester, DestinationLocationID: missing, Items: []PickingOrderItemInput{{Description: "a", RequestedQuantity: 1}}}, domain.ErrNotFound},
		{"unknown item", CreatePickingOrderCommand{Actor: requester, DestinationLocationID: p.c.ID, Items: []PickingOrderItemInput{{InventoryItemID: &missing, RequestedQuantity: 1}}}, domain.ErrNotFound},
		{"source equals destination", CreatePickingOrderCommand{Actor: requester, DestinationLocationID: p.c.ID, SourceLocationID: &p.c.ID, Items: []PickingOrderItemInput{{Description: "a", RequestedQuantity: 1}}}, domain.ErrInvalidOperation},
		{"consumption source", CreatePickingOrderCommand{Actor: requester, DestinationLocationID: p.c.ID, SourceLocationID: &p.site.ID, Items: []PickingOrderItemInput{{Description: "a", RequestedQuantity: 1}}}, domain.ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.create.Handle(p.ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPickingOrder_StartAndCancel(t *testing.T) {
	p := newPickingEnv(t)
	order := p.order(p.c.ID, PickingOrderItemInput{InventoryItemID: &p.x.ID, RequestedQuantity: 1})

	started, err := p.start.Handle(p.ctx, StartPickingCommand{Actor: picker, OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.PickingInProgress, started.Status)
	assert.Equal(t, picker.UserID, *started.PickerID)

	_, err = p.start.Handle(p.ctx, StartPickingCommand{Actor: picker, OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = p.cancel.Handle(p.ctx, CancelPickingOrderCommand{Actor: picker, OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	cancelled, err := p.cancel.Handle(p.ctx, CancelPickingOrderCommand{Actor: requester, OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.PickingCancelled, cancelled.Status)

	_, err = p.cancel.Handle(p.ctx, CancelPickingOrderCommand{Actor: admin, OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	_, err = p.fulfill.Handle(p.ctx, FulfillPickingOrderCommand{Actor: admin, OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, map[uint]int{p.a.ID: 30}, p.stock(p.x.ID))
}

func TestStartPicking_SourceRequiresAccess(t *testing.T) {
	p := newPickingEnv(t)
	order, err := p.create.Handle(p.ctx, CreatePickingOrderCommand{
		Actor:                 requester,
		DestinationLocationID: p.c.ID,
		SourceLocationID:      uintPtr(p.a.ID),
		Items:                 []PickingOrderItemInput{{InventoryItemID: &p.x.ID, RequestedQuantity: 1}},
	})
	require.NoError(t, err)

	_, err = p.start.Handle(p.ctx, StartPickingCommand{Actor: picker, OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = p.start.Handle(p.ctx, StartPickingCommand{Actor: picker, OrderID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
