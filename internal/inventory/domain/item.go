package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups catalog items
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// InventoryItem is the catalog master record. Quantities are not stored here:
// the total is always derived from LocationStock rows.
type InventoryItem struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	SKU               string          `json:"sku" gorm:"uniqueIndex;not null"`
	Name              string          `json:"name" gorm:"not null"`
	Description       string          `json:"description"`
	EAN               *string         `json:"ean,omitempty" gorm:"index"`
	AlternateSKU      *string         `json:"alternate_sku,omitempty" gorm:"index"`
	Price             decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null;default:0"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
	Monitored         bool            `json:"monitored" gorm:"not null;default:false"`
	Categories        []Category      `json:"categories,omitempty" gorm:"many2many:inventory_item_categories;"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether a monitored item has fallen below its threshold
func (i *InventoryItem) IsLowStock(total int) bool {
	return i.Monitored && i.LowStockThreshold != nil && total < *i.LowStockThreshold
}

// ItemFilter narrows catalog listings
type ItemFilter struct {
	Search     string
	CategoryID uint
	// InStockAt keeps items with positive stock at any of these locations.
	// Nil disables the filter; an empty slice matches nothing.
	InStockAt  []uint
	Limit      int
	Offset     int
}
