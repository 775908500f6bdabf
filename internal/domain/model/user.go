package model

import "time"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTranslator Role = "translator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Privileged reports whether the role may use admin-wide operations
// such as the unfiltered job listing.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleTranslator, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Caller is the authenticated identity threaded through every operation.
// It replaces any ambient request-scoped user.
type Caller struct {
	ID   string
	Role Role
}

type User struct {
	ID           string
	Role         Role
	Name         string
	Email        string
	Phone        string
	Languages    []string
	RegisteredAt time.Time
}
