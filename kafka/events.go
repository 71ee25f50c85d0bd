package kafka

import "time"

// AuditRecordedEvent mirrors one committed inventory audit log entry
type AuditRecordedEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	EntryID         uint      `json:"entry_id"`
	Action          string    `json:"action"`
	Detail          string    `json:"detail"`
	ActorID         *uint     `json:"actor_id,omitempty"`
	InventoryItemID *uint     `json:"inventory_item_id,omitempty"`
	LocationID      *uint     `json:"location_id,omitempty"`
	ToLocationID    *uint     `json:"to_location_id,omitempty"`
	PickingOrderID  *uint     `json:"picking_order_id,omitempty"`
	Quantity        int       `json:"quantity"`
	RecordedAt      time.Time `json:"recorded_at"`
	Timestamp       time.Time `json:"timestamp"`
}

// GoodsReceivedEvent announces delivered goods to be placed into stock
type GoodsReceivedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	SKU        string    `json:"sku"`
	LocationID uint      `json:"location_id"`
	Quantity   int       `json:"quantity"`
	Reference  string    `json:"reference"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeAuditRecorded = "inventory.audit.recorded"
	EventTypeGoodsReceived = "inventory.goods.received"
)

// Kafka topics
const (
	TopicInventoryAudit = "inventory-audit"
	TopicGoodsReceived  = "goods-received"
)
