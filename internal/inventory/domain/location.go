package domain

import "time"

// Location kinds
const (
	LocationStorage LocationKind = "storage"
	// LocationConsumption is a destination where stock is used up (job site, customer).
	// It never holds stock; picking into it withdraws from the source.
	LocationConsumption LocationKind = "consumption"
)

// LocationKind tells whether a location holds stock
type LocationKind string

// Valid checks if the kind is known
func (k LocationKind) Valid() bool {
	return k == LocationStorage || k == LocationConsumption
}

// Location is a place where stock is kept or delivered to
type Location struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"uniqueIndex;not null"`
	Description string       `json:"description"`
	Kind        LocationKind `json:"kind" gorm:"type:varchar(20);not null;default:'storage'"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName specifies the table name
func (Location) TableName() string {
	return "locations"
}

// HoldsStock checks if stock can be placed at the location
func (l *Location) HoldsStock() bool {
	return l.Kind != LocationConsumption
}

// LocationPermission grants a non-privileged user access to one location
type LocationPermission struct {
	LocationID uint      `json:"location_id" gorm:"primaryKey;autoIncrement:false"`
	UserID     uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time `json:"created_at"`
	Location   *Location `json:"-" gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (LocationPermission) TableName() string {
	return "location_permissions"
}

// ScopeVersion counts permission changes per user. It is bumped in the same
// transaction as every grant or revoke so cached scopes can be ordered.
type ScopeVersion struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	Version   uint64    `json:"version" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (ScopeVersion) TableName() string {
	return "scope_versions"
}
