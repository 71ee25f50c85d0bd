package domain

import "context"

// UnitOfWork runs a function inside one transaction. If fn returns an error
// every change made through tx is rolled back. Lock waits are bounded and
// surface as ErrContention.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the repositories bound to one transaction
type Tx interface {
	Items() ItemRepository
	Categories() CategoryRepository
	Locations() LocationRepository
	Stock() StockRepository
	PickingOrders() PickingOrderRepository
	Audit() AuditRepository
}

// ItemRepository defines the contract for catalog data access
type ItemRepository interface {
	Create(ctx context.Context, item *InventoryItem) error
	Update(ctx context.Context, item *InventoryItem) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*InventoryItem, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]InventoryItem, error)
}

// CategoryRepository defines the contract for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByIDs(ctx context.Context, ids []uint) ([]Category, error)
	FindAll(ctx context.Context) ([]Category, error)
}

// LocationRepository defines the contract for the location directory
type LocationRepository interface {
	Create(ctx context.Context, location *Location) error
	Update(ctx context.Context, location *Location) error
	FindByID(ctx context.Context, id uint) (*Location, error)
	FindAll(ctx context.Context) ([]Location, error)

	ListPermissions(ctx context.Context, locationID uint) ([]uint, error)
	// AddPermission is idempotent. A new grant bumps the user's scope version.
	AddPermission(ctx context.Context, locationID, userID uint) error
	// RemovePermission returns ErrNotFound when the grant does not exist.
	// A revoke bumps the user's scope version.
	RemovePermission(ctx context.Context, locationID, userID uint) error
	LocationIDsForUser(ctx context.Context, userID uint) ([]uint, error)
	// ScopeVersion returns the user's permission version, zero if never changed
	ScopeVersion(ctx context.Context, userID uint) (uint64, error)
}

// StockRepository defines the contract for per-location quantities
type StockRepository interface {
	// LockForUpdate creates missing rows with zero quantity and locks every
	// requested row (ordered by item id, then location id) until the
	// transaction ends.
	LockForUpdate(ctx context.Context, keys []StockKey) (map[StockKey]*LocationStock, error)
	// Save persists the quantity of a row previously returned by LockForUpdate
	Save(ctx context.Context, stock *LocationStock) error
	FindByItem(ctx context.Context, itemID uint) ([]LocationStock, error)
	// SumByItems totals quantities per item. A nil locationIDs sums every location.
	SumByItems(ctx context.Context, itemIDs []uint, locationIDs []uint) (map[uint]int, error)
	CountNonZeroByItem(ctx context.Context, itemID uint) (int64, error)
}

// PickingOrderRepository defines the contract for picking order data access
type PickingOrderRepository interface {
	Create(ctx context.Context, order *PickingOrder) error
	FindByID(ctx context.Context, id uint) (*PickingOrder, error)
	// FindByIDForUpdate locks the order row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uint) (*PickingOrder, error)
	// Update saves order fields and every item line
	Update(ctx context.Context, order *PickingOrder) error
	FindAll(ctx context.Context, filter PickingOrderFilter) ([]PickingOrder, error)
}

// AuditRepository is append-only
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditLogEntry) error
	// FindByItem returns entries newest first
	FindByItem(ctx context.Context, itemID uint) ([]AuditLogEntry, error)
}
