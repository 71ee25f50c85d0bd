package domain

// Role types
const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
	// RoleSystem is used for internal callers such as the goods receipt consumer.
	RoleSystem Role = "system"
)

// Role is the role of the acting user as supplied by authentication
type Role string

// ParseRole converts a token claim into a Role. System is never accepted from outside.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleOwner, RoleMember:
		return Role(s), true
	}
	return "", false
}

// Actor is the user performing an operation
type Actor struct {
	UserID uint `json:"user_id"`
	Role   Role `json:"role"`
}

// SystemActor returns the actor used for internal, unattended mutations
func SystemActor() Actor {
	return Actor{Role: RoleSystem}
}

// IsElevated checks if the actor bypasses location authorization
func (a Actor) IsElevated() bool {
	return a.Role == RoleAdmin || a.Role == RoleOwner || a.Role == RoleSystem
}

// AuditID returns the id stored on audit entries; nil means the system acted.
func (a Actor) AuditID() *uint {
	if a.Role == RoleSystem || a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
