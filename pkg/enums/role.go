package enums

import "fmt"

// Role is the account-level role that drives order visibility and mutation rights.
type Role string

const (
	RoleOwner          Role = "owner"
	RoleEmployee       Role = "employee"
	RoleDeliveryPerson Role = "delivery_person"
)

var validRoles = []Role{
	RoleOwner,
	RoleEmployee,
	RoleDeliveryPerson,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// RequiresLocation reports whether accounts with this role must carry a Location.
func (r Role) RequiresLocation() bool {
	return r == RoleEmployee
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
