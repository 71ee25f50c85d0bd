package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

type GormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// LockForUpdate materialises missing rows and then takes row locks with
// SELECT ... FOR UPDATE in (item_id, location_id) order.
func (r *GormStockRepository) LockForUpdate(ctx context.Context, keys []domain.StockKey) (map[domain.StockKey]*domain.LocationStock, error) {
	keys = domain.SortStockKeys(keys)
	result := make(map[domain.StockKey]*domain.LocationStock, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	db := r.db.WithContext(ctx)
	now := time.Now()
	seed := make([]domain.LocationStock, 0, len(keys))
	pairs := make([][]interface{}, 0, len(keys))
	for _, k := range keys {
		seed = append(seed, domain.LocationStock{ItemID: k.ItemID, LocationID: k.LocationID, UpdatedAt: now})
		pairs = append(pairs, []interface{}{k.ItemID, k.LocationID})
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var rows []domain.LocationStock
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("(item_id, location_id) IN ?", pairs).
		Order("item_id ASC, location_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) != len(keys) {
		return nil, fmt.Errorf("%w: expected %d stock rows, locked %d", domain.ErrNotFound, len(keys), len(rows))
	}

	for i := range rows {
		row := rows[i]
		result[domain.StockKey{ItemID: row.ItemID, LocationID: row.LocationID}] = &row
	}
	return result, nil
}

func (r *GormStockRepository) Save(ctx context.Context, stock *domain.LocationStock) error {
	stock.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(&domain.LocationStock{}).
		Where("item_id = ? AND location_id = ?", stock.ItemID, stock.LocationID).
		Updates(map[string]interface{}{
			"quantity":   stock.Quantity,
			"updated_at": stock.UpdatedAt,
		}).Error
}

func (r *GormStockRepository) FindByItem(ctx context.Context, itemID uint) ([]domain.LocationStock, error) {
	var rows []domain.LocationStock
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("location_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormStockRepository) SumByItems(ctx context.Context, itemIDs []uint, locationIDs []uint) (map[uint]int, error) {
	totals := make(map[uint]int, len(itemIDs))
	if len(itemIDs) == 0 || (locationIDs != nil && len(locationIDs) == 0) {
		return totals, nil
	}

	q := r.db.WithContext(ctx).Model(&domain.LocationStock{}).
		Select("item_id, COALESCE(SUM(quantity), 0) AS total").
		Where("item_id IN ?", itemIDs)
	if locationIDs != nil {
		q = q.Where("location_id IN ?", locationIDs)
	}

	var rows []struct {
		ItemID uint
		Total  int
	}
	if err := q.Group("item_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.ItemID] = row.Total
	}
	return totals, nil
}

func (r *GormStockRepository) CountNonZeroByItem(ctx context.Context, itemID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LocationStock{}).
		Where("item_id = ? AND quantity > 0", itemID).
		Count(&count).Error
	return count, err
}
