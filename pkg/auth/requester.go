package auth

import (
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/google/uuid"
)

// Requester is the resolved identity passed explicitly into domain operations.
type Requester struct {
	UserID   uuid.UUID
	Role     enums.Role
	Location *enums.Location
}

// ScopedLocation returns the site an employee is restricted to. ok is false for
// owners, delivery persons and Universal employees.
func (r Requester) ScopedLocation() (loc enums.Location, ok bool) {
	if r.Role != enums.RoleEmployee || r.Location == nil || r.Location.IsUniversal() {
		return "", false
	}
	return *r.Location, true
}

// HasRole reports whether the requester holds one of roles.
func (r Requester) HasRole(roles ...enums.Role) bool {
	for _, role := range roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
