package domain

import (
	"sort"
	"time"
)

// LocationStock is the quantity of one item at one location
type LocationStock struct {
	ItemID     uint           `json:"item_id" gorm:"primaryKey;autoIncrement:false"`
	LocationID uint           `json:"location_id" gorm:"primaryKey;autoIncrement:false;index"`
	Quantity   int            `json:"quantity" gorm:"not null;default:0;check:chk_location_stock_quantity,quantity >= 0"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Item       *InventoryItem `json:"-" gorm:"foreignKey:ItemID"`
	Location   *Location      `json:"-" gorm:"foreignKey:LocationID"`
}

// TableName specifies the table name
func (LocationStock) TableName() string {
	return "location_stocks"
}

// StockKey identifies a LocationStock row
type StockKey struct {
	ItemID     uint
	LocationID uint
}

// SortStockKeys orders keys by item id then location id. Every code path that
// locks several rows acquires them in this order.
func SortStockKeys(keys []StockKey) []StockKey {
	seen := make(map[StockKey]struct{}, len(keys))
	out := make([]StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}
