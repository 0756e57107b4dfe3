package entity

import "time"

// Role is an application role carried in the session token.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleStoreManager   Role = "STORE_MANAGER"
	RoleEmployee       Role = "EMPLOYEE"
)

var validRoles = map[Role]bool{
	RoleAdmin:          true,
	RoleProjectManager: true,
	RoleStoreManager:   true,
	RoleEmployee:       true,
}

// IsValid returns true for a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// User is an application account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Caller returns the identity used for workflow authorization checks.
func (u *User) Caller() Caller {
	return Caller{ID: u.ID, Role: u.Role}
}
