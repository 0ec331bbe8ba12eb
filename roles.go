package auth

import "strings"

// Role is an enumerated permission label
type Role = string

const (
	// RoleUser can read console state and remote bot configuration
	RoleUser Role = "user"
	// RoleAdmin can additionally mutate registrations and bot configuration
	RoleAdmin Role = "admin"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ReadRoles is the allowed-role list for read operations. Admin appears here
// explicitly; the gate has no role hierarchy.
func ReadRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// WriteRoles is the allowed-role list for mutating operations
func WriteRoles() []Role {
	return []Role{RoleAdmin}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(roleStr)))
	return role, IsValidRole(role)
}

// ParseRoleList parses a comma-separated role column into the valid roles it
// contains. Unknown labels are dropped rather than failing the lookup.
func ParseRoleList(csv string) []Role {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	parts := strings.Split(csv, ",")
	roles := make([]Role, 0, len(parts))
	for _, part := range parts {
		if role, ok := ParseRole(part); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// FormatRoleList renders a role set to the comma-separated storage format
func FormatRoleList(roles []Role) string {
	return strings.Join(roles, ",")
}

// HasRole reports whether the role set contains the given role
func HasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
