package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/audit"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
)

// These tests run against a real Postgres when INVENTORY_TEST_DSN is set,
// e.g. "host=localhost user=postgres password=postgres dbname=inventory_test sslmode=disable".
// Each test migrates into its own schema and drops it afterwards.
const testDSNEnv = "INVENTORY_TEST_DSN"

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func withSearchPath(dsn, schema string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	root, err := gorm.Open(postgres.Open(dsn), cfg)
	require.NoError(t, err)
	schema := fmt.Sprintf("inventory_test_%d", time.Now().UnixNano())
	require.NoError(t, root.Exec("CREATE SCHEMA "+schema).Error)

	db, err := gorm.Open(postgres.Open(withSearchPath(dsn, schema)), cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(16)

	t.Cleanup(func() {
		sqlDB.Close()
		root.Exec("DROP SCHEMA " + schema + " CASCADE")
		if rootDB, err := root.DB(); err == nil {
			rootDB.Close()
		}
	})
	return db
}

type pgFixture struct {
	uow    *GormUnitOfWork
	ledger *ledger.Ledger
	item   domain.InventoryItem
	locA   domain.Location
	locB   domain.Location
}

// newPGFixture stocks one item with 100 at A and 100 at B
func newPGFixture(t *testing.T, lockTimeout time.Duration) *pgFixture {
	t.Helper()
	uow := NewGormUnitOfWork(openTestDB(t), lockTimeout)
	require.NoError(t, uow.AutoMigrate())

	f := &pgFixture{
		uow:    uow,
		ledger: ledger.New(uow, access.NewResolver(nil), audit.NewEmitter(nil), nil),
	}
	ctx := context.Background()
	require.NoError(t, uow.Do(ctx, func(tx domain.Tx) error {
		f.item = domain.InventoryItem{SKU: "CBL-3X15", Name: "Cable 3x1.5"}
		if err := tx.Items().Create(ctx, &f.item); err != nil {
			return err
		}
		f.locA = domain.Location{Name: "Warehouse A", Kind: domain.LocationStorage}
		if err := tx.Locations().Create(ctx, &f.locA); err != nil {
			return err
		}
		f.locB = domain.Location{Name: "Van B", Kind: domain.LocationStorage}
		return tx.Locations().Create(ctx, &f.locB)
	}))

	for _, loc := range []uint{f.locA.ID, f.locB.ID} {
		require.NoError(t, f.ledger.Run(ctx, "place", admin, func(w *ledger.Work) error {
			_, err := w.Place(ctx, ledger.PlaceInput{ItemID: f.item.ID, LocationID: loc, Quantity: 100})
			return err
		}))
	}
	return f
}

func (f *pgFixture) transfer(ctx context.Context, from, to uint, quantity int) error {
	return f.ledger.Run(ctx, "transfer", admin, func(w *ledger.Work) error {
		_, err := w.Transfer(ctx, ledger.TransferInput{
			ItemID:         f.item.ID,
			FromLocationID: from,
			ToLocationID:   to,
			Quantity:       quantity,
		})
		return err
	})
}

func (f *pgFixture) quantities(t *testing.T) map[uint]int {
	t.Helper()
	ctx := context.Background()
	got := map[uint]int{}
	require.NoError(t, f.uow.Do(ctx, func(tx domain.Tx) error {
		rows, err := tx.Stock().FindByItem(ctx, f.item.ID)
		for _, row := range rows {
			got[row.LocationID] = row.Quantity
		}
		return err
	}))
	return got
}

func TestPostgres_OppositeTransfersDoNotDeadlock(t *testing.T) {
	f := newPGFixture(t, 5*time.Second)
	ctx := context.Background()

	const workers = 20
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		from, to := f.locA.ID, f.locB.ID
		if i%2 == 1 {
			from, to = to, from
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.transfer(ctx, from, to, 7)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, map[uint]int{f.locA.ID: 100, f.locB.ID: 100}, f.quantities(t))
}

func TestPostgres_ConcurrentDrainNeverGoesNegative(t *testing.T) {
	f := newPGFixture(t, 5*time.Second)
	ctx := context.Background()

	const workers = 10
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.transfer(ctx, f.locA.ID, f.locB.ID, 30)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, map[uint]int{f.locA.ID: 10, f.locB.ID: 190}, f.quantities(t))
}

// holdLock keeps fn's row locks until release is closed
func holdLock(t *testing.T, uow *GormUnitOfWork, lock func(ctx context.Context, tx domain.Tx) error) (release func()) {
	t.Helper()
	held := make(chan struct{})
	done := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		done <- uow.Do(context.Background(), func(tx domain.Tx) error {
			if err := lock(context.Background(), tx); err != nil {
				return err
			}
			close(held)
			<-stop
			return nil
		})
	}()

	select {
	case <-held:
	case err := <-done:
		t.Fatalf("lock holder failed: %v", err)
	}
	return func() {
		close(stop)
		require.NoError(t, <-done)
	}
}

func TestPostgres_HeldStockLockSurfacesContention(t *testing.T) {
	f := newPGFixture(t, 100*time.Millisecond)
	ctx := context.Background()

	release := holdLock(t, f.uow, func(ctx context.Context, tx domain.Tx) error {
		_, err := tx.Stock().LockForUpdate(ctx, []domain.StockKey{{ItemID: f.item.ID, LocationID: f.locA.ID}})
		return err
	})

	start := time.Now()
	err := f.transfer(ctx, f.locB.ID, f.locA.ID, 5)
	assert.ErrorIs(t, err, domain.ErrContention)
	assert.True(t, domain.IsRetryable(err))
	assert.Less(t, time.Since(start), 5*time.Second)

	release()
	require.NoError(t, f.transfer(ctx, f.locB.ID, f.locA.ID, 5))
	assert.Equal(t, map[uint]int{f.locA.ID: 105, f.locB.ID: 95}, f.quantities(t))
}

func TestPostgres_HeldOrderLockSurfacesContention(t *testing.T) {
	f := newPGFixture(t, 100*time.Millisecond)
	ctx := context.Background()

	order := domain.PickingOrder{
		RequesterID:           7,
		DestinationLocationID: f.locB.ID,
		Status:                domain.PickingNew,
		Items:                 []domain.PickingOrderItem{{InventoryItemID: &f.item.ID, RequestedQuantity: 3}},
	}
	require.NoError(t, f.uow.Do(ctx, func(tx domain.Tx) error {
		return tx.PickingOrders().Create(ctx, &order)
	}))

	release := holdLock(t, f.uow, func(ctx context.Context, tx domain.Tx) error {
		_, err := tx.PickingOrders().FindByIDForUpdate(ctx, order.ID)
		return err
	})

	err := f.uow.Do(ctx, func(tx domain.Tx) error {
		_, err := tx.PickingOrders().FindByIDForUpdate(ctx, order.ID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrContention)

	release()
	require.NoError(t, f.uow.Do(ctx, func(tx domain.Tx) error {
		locked, err := tx.PickingOrders().FindByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		require.Len(t, locked.Items, 1)
		assert.Equal(t, 3, locked.Items[0].RequestedQuantity)
		return nil
	}))
}

func TestPostgres_LockForUpdateSeedsMissingRows(t *testing.T) {
	f := newPGFixture(t, time.Second)
	ctx := context.Background()

	var depot domain.Location
	require.NoError(t, f.uow.Do(ctx, func(tx domain.Tx) error {
		depot = domain.Location{Name: "Depot", Kind: domain.LocationStorage}
		if err := tx.Locations().Create(ctx, &depot); err != nil {
			return err
		}
		rows, err := tx.Stock().LockForUpdate(ctx, []domain.StockKey{
			{ItemID: f.item.ID, LocationID: depot.ID},
			{ItemID: f.item.ID, LocationID: f.locA.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, rows[domain.StockKey{ItemID: f.item.ID, LocationID: depot.ID}].Quantity)
		assert.Equal(t, 100, rows[domain.StockKey{ItemID: f.item.ID, LocationID: f.locA.ID}].Quantity)
		return nil
	}))
	assert.Contains(t, f.quantities(t), depot.ID)

	err := f.uow.Do(ctx, func(tx domain.Tx) error {
		_, err := tx.Stock().LockForUpdate(ctx, []domain.StockKey{{ItemID: f.item.ID, LocationID: 99999}})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_SoftDeletedSKUStaysReserved(t *testing.T) {
	f := newPGFixture(t, time.Second)
	ctx := context.Background()

	err := f.uow.Do(ctx, func(tx domain.Tx) error {
		return tx.Items().Create(ctx, &domain.InventoryItem{SKU: f.item.SKU, Name: "Duplicate"})
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	spare := domain.InventoryItem{SKU: "ANC-8", Name: "Anchor 8mm"}
	require.NoError(t, f.uow.Do(ctx, func(tx domain.Tx) error {
		if err := tx.Items().Create(ctx, &spare); err != nil {
			return err
		}
		return tx.Items().Delete(ctx, spare.ID)
	}))

	err = f.uow.Do(ctx, func(tx domain.Tx) error {
		_, err := tx.Items().FindByID(ctx, spare.ID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.uow.Do(ctx, func(tx domain.Tx) error {
		return tx.Items().Create(ctx, &domain.InventoryItem{SKU: "ANC-8", Name: "Anchor again"})
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostgres_ScopeVersionBumpsOnChange(t *testing.T) {
	f := newPGFixture(t, time.Second)
	ctx := context.Background()

	require.NoError(t, f.uow.Do(ctx, func(tx domain.Tx) error {
		repo := tx.Locations()
		require.NoError(t, repo.AddPermission(ctx, f.locA.ID, 7))
		require.NoError(t, repo.AddPermission(ctx, f.locA.ID, 7))
		version, err := repo.ScopeVersion(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), version)

		require.NoError(t, repo.RemovePermission(ctx, f.locA.ID, 7))
		version, err = repo.ScopeVersion(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), version)

		version, err = repo.ScopeVersion(ctx, 8)
		require.NoError(t, err)
		assert.Zero(t, version)
		return nil
	}))
}

func TestWithSearchPath(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"host=db user=u", "host=db user=u search_path=s"},
		{"postgres://u@db/inv", "postgres://u@db/inv?search_path=s"},
		{"postgres://u@db/inv?sslmode=disable", "postgres://u@db/inv?sslmode=disable&search_path=s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withSearchPath(tt.dsn, "s"))
	}
}
