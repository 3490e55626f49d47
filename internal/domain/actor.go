package domain

import "github.com/google/uuid"

// Role of an authenticated actor
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin || r == RoleSuperAdmin
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin returns true for admin-class actors
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// IsSuperAdmin returns true for tenant-level administrators
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}
