package enums

import (
	"fmt"
	"strings"
)

// UserRole is the account-level permission role.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleOperator,
}

// Spanish labels used by the first dashboard release.
var legacyUserRoles = map[string]UserRole{
	"operador": UserRoleOperator,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole, accepting legacy labels.
func ParseUserRole(value string) (UserRole, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validUserRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	if role, ok := legacyUserRoles[normalized]; ok {
		return role, nil
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
