package auth

import "fmt"

// Role is one of the fixed CRM roles a user holds within their company.
type Role string

const (
	// RoleOwner is the company owner.
	RoleOwner Role = "owner"
	// RoleAdmin is a company administrator.
	RoleAdmin Role = "admin"
	// RoleSalesman is a sales representative.
	RoleSalesman Role = "salesman"
)

// AllRoles lists every role the system recognises.
var AllRoles = []Role{RoleOwner, RoleAdmin, RoleSalesman}

// ParseRole converts a raw claim value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleSalesman:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Subject returns the Casbin-ready subject identifier (e.g., role:salesman).
func (r Role) Subject() string {
	return "role:" + string(r)
}
