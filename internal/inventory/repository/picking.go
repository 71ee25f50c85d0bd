package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

type GormPickingOrderRepository struct {
	db *gorm.DB
}

func NewGormPickingOrderRepository(db *gorm.DB) *GormPickingOrderRepository {
	return &GormPickingOrderRepository{db: db}
}

func (r *GormPickingOrderRepository) Create(ctx context.Context, order *domain.PickingOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormPickingOrderRepository) FindByID(ctx context.Context, id uint) (*domain.PickingOrder, error) {
	var order domain.PickingOrder
	err := r.db.WithContext(ctx).Preload("Items", orderItemsByID).First(&order, id).Error
	if err != nil {
		return nil, notFound(err, "picking order", id)
	}
	return &order, nil
}

func (r *GormPickingOrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.PickingOrder, error) {
	db := r.db.WithContext(ctx)

	var order domain.PickingOrder
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		return nil, notFound(err, "picking order", id)
	}
	if err := db.Where("picking_order_id = ?", id).Order("id ASC").Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormPickingOrderRepository) Update(ctx context.Context, order *domain.PickingOrder) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(order).Error; err != nil {
		return err
	}
	for i := range order.Items {
		if err := db.Omit(clause.Associations).Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormPickingOrderRepository) FindAll(ctx context.Context, filter domain.PickingOrderFilter) ([]domain.PickingOrder, error) {
	var orders []domain.PickingOrder
	q := r.db.WithContext(ctx).Preload("Items", orderItemsByID)
	if filter.UserID != nil {
		q = q.Where("requester_id = ? OR picker_id = ?", *filter.UserID, *filter.UserID)
	}
	err := q.Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("picking_order_items.id ASC")
}

type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormAuditRepository) FindByItem(ctx context.Context, itemID uint) ([]domain.AuditLogEntry, error) {
	var entries []domain.AuditLogEntry
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
