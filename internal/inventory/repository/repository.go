package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

// Postgres SQLSTATE codes the ledger reacts to
const (
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
)

// GormUnitOfWork runs transactions against Postgres through gorm
type GormUnitOfWork struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormUnitOfWork creates a unit of work. lockTimeout bounds every row lock
// wait inside a transaction; zero leaves the server default.
func NewGormUnitOfWork(db *gorm.DB, lockTimeout time.Duration) *GormUnitOfWork {
	return &GormUnitOfWork{db: db, lockTimeout: lockTimeout}
}

var _ domain.UnitOfWork = (*GormUnitOfWork)(nil)

// AutoMigrate creates or updates every inventory table
func (u *GormUnitOfWork) AutoMigrate() error {
	return u.db.AutoMigrate(
		&domain.Category{},
		&domain.InventoryItem{},
		&domain.Location{},
		&domain.LocationPermission{},
		&domain.ScopeVersion{},
		&domain.LocationStock{},
		&domain.PickingOrder{},
		&domain.PickingOrderItem{},
		&domain.AuditLogEntry{},
	)
}

// Do runs fn inside a database transaction
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(tx domain.Tx) error) error {
	err := u.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if u.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(&gormTx{db: db})
	})
	return translateError(err)
}

// translateError maps driver errors onto the domain taxonomy. Errors that
// already carry a domain kind pass through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		domain.ErrInsufficientStock, domain.ErrInvalidOperation, domain.ErrUnauthorized,
		domain.ErrNotFound, domain.ErrContention, domain.ErrValidation,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure:
			return fmt.Errorf("%w: %s", domain.ErrContention, pgErr.Message)
		case pgUniqueViolation:
			return fmt.Errorf("%w: duplicate value (%s)", domain.ErrValidation, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referenced record does not exist (%s)", domain.ErrNotFound, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: constraint %s violated", domain.ErrInvalidOperation, pgErr.ConstraintName)
		}
	}
	return err
}

// gormTx binds every repository to one *gorm.DB transaction
type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Items() domain.ItemRepository                 { return &GormItemRepository{db: t.db} }
func (t *gormTx) Categories() domain.CategoryRepository        { return &GormCategoryRepository{db: t.db} }
func (t *gormTx) Locations() domain.LocationRepository         { return &GormLocationRepository{db: t.db} }
func (t *gormTx) Stock() domain.StockRepository                { return &GormStockRepository{db: t.db} }
func (t *gormTx) PickingOrders() domain.PickingOrderRepository { return &GormPickingOrderRepository{db: t.db} }
func (t *gormTx) Audit() domain.AuditRepository                { return &GormAuditRepository{db: t.db} }

func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v", domain.ErrNotFound, what, id)
	}
	return err
}
