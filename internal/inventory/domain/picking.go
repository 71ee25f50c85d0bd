package domain

import "time"

// Picking order statuses
const (
	PickingNew        PickingStatus = "new"
	PickingInProgress PickingStatus = "in_progress"
	PickingCompleted  PickingStatus = "completed"
	PickingCancelled  PickingStatus = "cancelled"
)

// PickingStatus is the state of a picking order
type PickingStatus string

// IsTerminal checks if no further transition is allowed
func (s PickingStatus) IsTerminal() bool {
	return s == PickingCompleted || s == PickingCancelled
}

// CanTransition checks a state machine edge
func (s PickingStatus) CanTransition(to PickingStatus) bool {
	switch s {
	case PickingNew:
		return to == PickingInProgress || to == PickingCompleted || to == PickingCancelled
	case PickingInProgress:
		return to == PickingCompleted || to == PickingCancelled
	}
	return false
}

// PickingOrder is an internal material request
type PickingOrder struct {
	ID                    uint               `json:"id" gorm:"primaryKey"`
	RequesterID           uint               `json:"requester_id" gorm:"not null;index"`
	PickerID              *uint              `json:"picker_id,omitempty" gorm:"index"`
	SourceLocationID      *uint              `json:"source_location_id,omitempty"`
	DestinationLocationID uint               `json:"destination_location_id" gorm:"not null"`
	Notes                 string             `json:"notes"`
	Status                PickingStatus      `json:"status" gorm:"type:varchar(20);not null;default:'new';index"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
	CompletedAt           *time.Time         `json:"completed_at,omitempty"`
	Items                 []PickingOrderItem `json:"items" gorm:"foreignKey:PickingOrderID;constraint:OnDelete:CASCADE"`
	SourceLocation        *Location          `json:"-" gorm:"foreignKey:SourceLocationID"`
	DestinationLocation   *Location          `json:"-" gorm:"foreignKey:DestinationLocationID"`
}

// TableName specifies the table name
func (PickingOrder) TableName() string {
	return "picking_orders"
}

// Involves checks if the user requested or picked the order
func (o *PickingOrder) Involves(userID uint) bool {
	return o.RequesterID == userID || (o.PickerID != nil && *o.PickerID == userID)
}

// PickingOrderItem is one requested line. It references a catalog item or
// carries a free-text description until it is bound at fulfillment.
type PickingOrderItem struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	PickingOrderID    uint           `json:"picking_order_id" gorm:"not null;index"`
	InventoryItemID   *uint          `json:"inventory_item_id,omitempty"`
	Description       string         `json:"description,omitempty"`
	RequestedQuantity int            `json:"requested_quantity" gorm:"not null;check:chk_picking_item_requested,requested_quantity > 0"`
	PickedQuantity    *int           `json:"picked_quantity,omitempty"`
	SourceLocationID  *uint          `json:"source_location_id,omitempty"`
	InventoryItem     *InventoryItem `json:"-" gorm:"foreignKey:InventoryItemID"`
}

// TableName specifies the table name
func (PickingOrderItem) TableName() string {
	return "picking_order_items"
}

// IsCustom checks if the line is not yet backed by a catalog item
func (i *PickingOrderItem) IsCustom() bool {
	return i.InventoryItemID == nil
}

// PickingOrderFilter narrows picking order listings; a nil UserID lists every order.
type PickingOrderFilter struct {
	UserID *uint
}
