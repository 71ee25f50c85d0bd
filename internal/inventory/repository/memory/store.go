// Package memory provides an in-memory transactional store with the same
// semantics as the Postgres repositories. Transactions are serialised by a
// single semaphore and run against a private copy of the state that is only
// published on success, so a failing transaction leaves nothing behind.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

type permissionKey struct {
	locationID uint
	userID     uint
}

type state struct {
	seq           uint
	categories    map[uint]domain.Category
	items         map[uint]domain.InventoryItem
	locations     map[uint]domain.Location
	permissions   map[permissionKey]time.Time
	scopeVersions map[uint]uint64
	stock         map[domain.StockKey]domain.LocationStock
	orders        map[uint]domain.PickingOrder
	audit         []domain.AuditLogEntry
}

func newState() *state {
	return &state{
		categories:    map[uint]domain.Category{},
		items:         map[uint]domain.InventoryItem{},
		locations:     map[uint]domain.Location{},
		permissions:   map[permissionKey]time.Time{},
		scopeVersions: map[uint]uint64{},
		stock:         map[domain.StockKey]domain.LocationStock{},
		orders:        map[uint]domain.PickingOrder{},
	}
}

func (s *state) nextID() uint {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	c := &state{
		seq:           s.seq,
		categories:    make(map[uint]domain.Category, len(s.categories)),
		items:         make(map[uint]domain.InventoryItem, len(s.items)),
		locations:     make(map[uint]domain.Location, len(s.locations)),
		permissions:   make(map[permissionKey]time.Time, len(s.permissions)),
		scopeVersions: make(map[uint]uint64, len(s.scopeVersions)),
		stock:         make(map[domain.StockKey]domain.LocationStock, len(s.stock)),
		orders:        make(map[uint]domain.PickingOrder, len(s.orders)),
		audit:         append([]domain.AuditLogEntry(nil), s.audit...),
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.items {
		c.items[k] = copyItem(v)
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.permissions {
		c.permissions[k] = v
	}
	for k, v := range s.scopeVersions {
		c.scopeVersions[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	return c
}

func copyItem(item domain.InventoryItem) domain.InventoryItem {
	item.Categories = append([]domain.Category(nil), item.Categories...)
	return item
}

func copyOrder(order domain.PickingOrder) domain.PickingOrder {
	order.Items = append([]domain.PickingOrderItem(nil), order.Items...)
	return order
}

// Store is an in-memory domain.UnitOfWork
type Store struct {
	sem         chan struct{}
	lockTimeout time.Duration
	state       *state
}

// NewStore creates an empty store. lockTimeout bounds how long a transaction
// waits for the store; zero waits until the context is done.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		sem:         make(chan struct{}, 1),
		lockTimeout: lockTimeout,
		state:       newState(),
	}
}

var _ domain.UnitOfWork = (*Store)(nil)

// Do runs fn against a private copy of the state and publishes it on success
func (s *Store) Do(ctx context.Context, fn func(tx domain.Tx) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-s.sem }()

	work := s.state.clone()
	if err := fn(&memTx{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	var timeout <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case s.sem <- struct{}{}:
		return nil
	case <-timeout:
		return fmt.Errorf("%w: store lock not acquired within %s", domain.ErrContention, s.lockTimeout)
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrContention, ctx.Err())
	}
}

type memTx struct {
	st *state
}

func (t *memTx) Items() domain.ItemRepository                 { return &itemRepo{st: t.st} }
func (t *memTx) Categories() domain.CategoryRepository        { return &categoryRepo{st: t.st} }
func (t *memTx) Locations() domain.LocationRepository         { return &locationRepo{st: t.st} }
func (t *memTx) Stock() domain.StockRepository                { return &stockRepo{st: t.st} }
func (t *memTx) PickingOrders() domain.PickingOrderRepository { return &pickingRepo{st: t.st} }
func (t *memTx) Audit() domain.AuditRepository                { return &auditRepo{st: t.st} }
