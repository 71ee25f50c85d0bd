package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormItemRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Categories").Save(item).Error; err != nil {
		return err
	}
	return db.Model(item).Association("Categories").Replace(item.Categories)
}

func (r *GormItemRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.InventoryItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).Preload("Categories").First(&item, id).Error
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	return &item, nil
}

func (r *GormItemRepository) FindBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).Preload("Categories").Where("sku = ?", sku).First(&item).Error
	if err != nil {
		return nil, notFound(err, "item with sku", sku)
	}
	return &item, nil
}

func (r *GormItemRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	if filter.InStockAt != nil && len(filter.InStockAt) == 0 {
		return items, nil
	}
	q := r.db.WithContext(ctx).Preload("Categories")

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("sku ILIKE ? OR name ILIKE ? OR ean ILIKE ? OR alternate_sku ILIKE ?", like, like, like, like)
	}
	if filter.CategoryID != 0 {
		q = q.Joins("JOIN inventory_item_categories iic ON iic.inventory_item_id = inventory_items.id AND iic.category_id = ?", filter.CategoryID)
	}
	if len(filter.InStockAt) > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM location_stocks ls WHERE ls.item_id = inventory_items.id AND ls.location_id IN ? AND ls.quantity > 0)", filter.InStockAt)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	err := q.Order("inventory_items.name ASC, inventory_items.id ASC").Find(&items).Error
	return items, err
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Category, error) {
	var categories []domain.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}
