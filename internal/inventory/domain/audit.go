package domain

import "time"

// Audit actions
const (
	AuditCreated             AuditAction = "created"
	AuditUpdated             AuditAction = "updated"
	AuditDeleted             AuditAction = "deleted"
	AuditQuantityAdjusted    AuditAction = "quantity_adjusted"
	AuditLocationPlaced      AuditAction = "location_placed"
	AuditLocationWithdrawn   AuditAction = "location_withdrawn"
	AuditLocationTransferred AuditAction = "location_transferred"
	AuditWriteOff            AuditAction = "write_off"
	AuditPickingFulfilled    AuditAction = "picking_fulfilled"
)

// AuditAction is the kind of mutation an entry records
type AuditAction string

// AuditLogEntry is an immutable record of one mutation
type AuditLogEntry struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time   `json:"created_at" gorm:"index"`
	ActorID         *uint       `json:"actor_id,omitempty"`
	Action          AuditAction `json:"action" gorm:"type:varchar(32);not null"`
	Detail          string      `json:"detail"`
	InventoryItemID *uint       `json:"inventory_item_id,omitempty" gorm:"index"`
	LocationID      *uint       `json:"location_id,omitempty"`
	ToLocationID    *uint       `json:"to_location_id,omitempty"`
	Quantity        int         `json:"quantity"`
	PickingOrderID  *uint       `json:"picking_order_id,omitempty"`
}

// TableName specifies the table name
func (AuditLogEntry) TableName() string {
	return "inventory_audit_log"
}

// LocationIDs returns the locations the entry touches
func (e *AuditLogEntry) LocationIDs() []uint {
	var ids []uint
	if e.LocationID != nil {
		ids = append(ids, *e.LocationID)
	}
	if e.ToLocationID != nil {
		ids = append(ids, *e.ToLocationID)
	}
	return ids
}
