package ledger

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/audit"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/repository/memory"
)

var (
	admin  = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	member = domain.Actor{UserID: 7, Role: domain.RoleMember}
)

type testEnv struct {
	store  *memory.Store
	ledger *Ledger
	item   domain.InventoryItem
	locA   domain.Location
	locB   domain.Location
	site   domain.Location
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore(5 * time.Second)
	env := &testEnv{
		store:  store,
		ledger: New(store, access.NewResolver(nil), audit.NewEmitter(nil), nil),
	}
	ctx := context.Background()
	require.NoError(t, store.Do(ctx, func(tx domain.Tx) error {
		env.item = domain.InventoryItem{SKU: "X", Name: "Item X"}
		require.NoError(t, tx.Items().Create(ctx, &env.item))
		env.locA = domain.Location{Name: "A"}
		require.NoError(t, tx.Locations().Create(ctx, &env.locA))
		env.locB = domain.Location{Name: "B"}
		require.NoError(t, tx.Locations().Create(ctx, &env.locB))
		env.site = domain.Location{Name: "Job site", Kind: domain.LocationConsumption}
		return tx.Locations().Create(ctx, &env.site)
	}))
	return env
}

func (e *testEnv) place(t *testing.T, locationID uint, quantity int) {
	t.Helper()
	err := e.ledger.Run(context.Background(), "place", admin, func(w *Work) error {
		_, err := w.Place(context.Background(), PlaceInput{ItemID: e.item.ID, LocationID: locationID, Quantity: quantity})
		return err
	})
	require.NoError(t, err)
}

func (e *testEnv) transfer(actor domain.Actor, from, to uint, quantity int) error {
	return e.ledger.Run(context.Background(), "transfer", actor, func(w *Work) error {
		_, err := w.Transfer(context.Background(), TransferInput{ItemID: e.item.ID, FromLocationID: from, ToLocationID: to, Quantity: quantity})
		return err
	})
}

func (e *testEnv) writeOff(actor domain.Actor, location uint, quantity int, reason string) error {
	return e.ledger.Run(context.Background(), "write_off", actor, func(w *Work) error {
		_, err := w.WriteOff(context.Background(), WriteOffInput{ItemID: e.item.ID, LocationID: location, Quantity: quantity, Reason: reason})
		return err
	})
}

func (e *testEnv) quantities(t *testing.T) map[uint]int {
	t.Helper()
	rows, err := e.ledger.StockForItem(context.Background(), admin, e.item.ID)
	require.NoError(t, err)
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.LocationID] = row.Quantity
	}
	return out
}

func (e *testEnv) auditActions(t *testing.T) []domain.AuditAction {
	t.Helper()
	var actions []domain.AuditAction
	require.NoError(t, e.store.Do(context.Background(), func(tx domain.Tx) error {
		entries, err := tx.Audit().FindByItem(context.Background(), e.item.ID)
		for _, entry := range entries {
			actions = append(actions, entry.Action)
		}
		return err
	}))
	return actions
}

func TestLedger_TransferAndWriteOffScenario(t *testing.T) {
	env := newTestEnv(t)
	env.place(t, env.locA.ID, 10)
	a, b := env.locA.ID, env.locB.ID

	err := env.transfer(admin, a, b, 12)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, map[uint]int{a: 10}, env.quantities(t))

	require.NoError(t, env.transfer(admin, a, b, 4))
	assert.Equal(t, map[uint]int{a: 6, b: 4}, env.quantities(t))

	err = env.writeOff(admin, b, 5, "damaged")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 4, env.quantities(t)[b])

	require.NoError(t, env.writeOff(admin, b, 4, "damaged"))
	assert.Equal(t, map[uint]int{a: 6, b: 0}, env.quantities(t))

	assert.Equal(t, []domain.AuditAction{
		domain.AuditWriteOff,
		domain.AuditLocationTransferred,
		domain.AuditLocationPlaced,
	}, env.auditActions(t))
}

func TestLedger_TransferRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.place(t, env.locA.ID, 9)
	env.place(t, env.locB.ID, 2)
	before := env.quantities(t)

	require.NoError(t, env.transfer(admin, env.locA.ID, env.locB.ID, 7))
	require.NoError(t, env.transfer(admin, env.locB.ID, env.locA.ID, 7))
	assert.Equal(t, before, env.quantities(t))
}

func TestLedger_InvalidOperations(t *testing.T) {
	env := newTestEnv(t)
	env.place(t, env.locA.ID, 5)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func(w *Work) error
		want error
	}{
		{"transfer to same location", func(w *Work) error {
			_, err := w.Transfer(ctx, TransferInput{ItemID: env.item.ID, FromLocationID: env.locA.ID, ToLocationID: env.locA.ID, Quantity: 1})
			return err
		}, domain.ErrInvalidOperation},
		{"zero quantity", func(w *Work) error {
			_, err := w.Place(ctx, PlaceInput{ItemID: env.item.ID, LocationID: env.locA.ID})
			return err
		}, domain.ErrInvalidOperation},
		{"negative quantity", func(w *Work) error {
			_, err := w.Transfer(ctx, TransferInput{ItemID: env.item.ID, FromLocationID: env.locA.ID, ToLocationID: env.locB.ID, Quantity: -3})
			return err
		}, domain.ErrInvalidOperation},
		{"write-off without reason", func(w *Work) error {
			_, err := w.WriteOff(ctx, WriteOffInput{ItemID: env.item.ID, LocationID: env.locA.ID, Quantity: 1, Reason: "  "})
			return err
		}, domain.ErrInvalidOperation},
		{"place into consumption location", func(w *Work) error {
			_, err := w.Place(ctx, PlaceInput{ItemID: env.item.ID, LocationID: env.site.ID, Quantity: 1})
			return err
		}, domain.ErrInvalidOperation},
		{"unknown item", func(w *Work) error {
			_, err := w.Place(ctx, PlaceInput{ItemID: 999, LocationID: env.locA.ID, Quantity: 1})
			return err
		}, domain.ErrNotFound},
		{"unknown location", func(w *Work) error {
			_, err := w.Withdraw(ctx, WithdrawInput{ItemID: env.item.ID, FromLocationID: 999, Quantity: 1})
			return err
		}, domain.ErrNotFound},
		{"withdraw too much", func(w *Work) error {
			_, err := w.Withdraw(ctx, WithdrawInput{ItemID: env.item.ID, FromLocationID: env.locA.ID, Quantity: 6})
			return err
		}, domain.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.ledger.Run(ctx, "test", admin, tt.fn)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, map[uint]int{env.locA.ID: 5}, env.quantities(t))
	assert.Len(t, env.auditActions(t), 1)
}

func TestLedger_MemberAuthorization(t *testing.T) {
	env := newTestEnv(t)
	env.place(t, env.locA.ID, 5)
	ctx := context.Background()
	require.NoError(t, env.store.Do(ctx, func(tx domain.Tx) error {
		return tx.Locations().AddPermission(ctx, env.locA.ID, member.UserID)
	}))

	err := env.ledger.Run(ctx, "place", member, func(w *Work) error {
		_, err := w.Place(ctx, PlaceInput{ItemID: env.item.ID, LocationID: env.locB.ID, Quantity: 1})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, env.transfer(member, env.locA.ID, env.locB.ID, 1), domain.ErrUnauthorized)
	assert.ErrorIs(t, env.writeOff(member, env.locA.ID, 1, "lost"), domain.ErrUnauthorized)

	err = env.ledger.Run(ctx, "place", member, func(w *Work) error {
		_, err := w.Place(ctx, PlaceInput{ItemID: env.item.ID, LocationID: env.locA.ID, Quantity: 2})
		return err
	})
	require.NoError(t, err)

	rows, err := env.ledger.StockForItem(ctx, member, env.item.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].Quantity)
}

func TestLedger_WithdrawToConsumptionLocation(t *testing.T) {
	env := newTestEnv(t)
	env.place(t, env.locA.ID, 5)
	ctx := context.Background()

	err := env.ledger.Run(ctx, "withdraw", admin, func(w *Work) error {
		_, err := w.Withdraw(ctx, WithdrawInput{ItemID: env.item.ID, FromLocationID: env.locA.ID, ToLocationID: &env.site.ID, Quantity: 3})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{env.locA.ID: 2}, env.quantities(t))
	assert.Equal(t, domain.AuditLocationWithdrawn, env.auditActions(t)[0])

	assert.ErrorIs(t, env.transfer(admin, env.locA.ID, env.site.ID, 1), domain.ErrInvalidOperation)
}

func TestLedger_RunRollsBackEveryPrimitive(t *testing.T) {
	env := newTestEnv(t)
	env.place(t, env.locA.ID, 5)
	ctx := context.Background()

	err := env.ledger.Run(ctx, "batch", admin, func(w *Work) error {
		if err := w.Lock(ctx,
			domain.StockKey{ItemID: env.item.ID, LocationID: env.locB.ID},
			domain.StockKey{ItemID: env.item.ID, LocationID: env.locA.ID},
		); err != nil {
			return err
		}
		if _, err := w.Transfer(ctx, TransferInput{ItemID: env.item.ID, FromLocationID: env.locA.ID, ToLocationID: env.locB.ID, Quantity: 3}); err != nil {
			return err
		}
		_, err := w.Transfer(ctx, TransferInput{ItemID: env.item.ID, FromLocationID: env.locA.ID, ToLocationID: env.locB.ID, Quantity: 3})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, env.quantities(t)[env.locA.ID])
	assert.Zero(t, env.quantities(t)[env.locB.ID])
	assert.Len(t, env.auditActions(t), 1)
}

func TestLedger_SumInvariant(t *testing.T) {
	env := newTestEnv(t)
	rng := rand.New(rand.NewSource(42))
	locations := []uint{env.locA.ID, env.locB.ID}
	placed, writtenOff := 0, 0

	for i := 0; i < 200; i++ {
		q := rng.Intn(6) + 1
		from := locations[rng.Intn(2)]
		to := locations[1-indexOf(locations, from)]
		switch rng.Intn(3) {
		case 0:
			env.place(t, from, q)
			placed += q
		case 1:
			err := env.transfer(admin, from, to, q)
			if err != nil {
				require.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		case 2:
			err := env.writeOff(admin, from, q, "shrinkage")
			if err == nil {
				writtenOff += q
			} else {
				require.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}
	}

	total := 0
	for _, q := range env.quantities(t) {
		assert.GreaterOrEqual(t, q, 0)
		total += q
	}
	assert.Equal(t, placed-writtenOff, total)
}

func TestLedger_ConcurrentTransfersNeverGoNegative(t *testing.T) {
	env := newTestEnv(t)
	env.place(t, env.locA.ID, 20)
	env.place(t, env.locB.ID, 20)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := env.locA.ID, env.locB.ID
			if i%2 == 1 {
				from, to = to, from
			}
			err := env.transfer(admin, from, to, 3)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}(i)
	}
	wg.Wait()

	q := env.quantities(t)
	assert.GreaterOrEqual(t, q[env.locA.ID], 0)
	assert.GreaterOrEqual(t, q[env.locB.ID], 0)
	assert.Equal(t, 40, q[env.locA.ID]+q[env.locB.ID])
}

func indexOf(ids []uint, id uint) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
