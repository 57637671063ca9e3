package auth

import "github.com/google/uuid"

// Role is an authorization level granted to a user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleAnalytics Role = "analytics"
	RoleSupport   Role = "support"
	RoleGuest     Role = "guest"
)

// Caller is the already-authenticated user attached to a request by the
// auth middleware. Token issuance happens upstream; this service only
// consumes the resolved identity.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the caller may see records owned by other users.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
