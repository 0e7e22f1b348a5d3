package models

import "time"

// UserRole gates schema-management operations. Only admins may create,
// update, or delete assessment types.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User is an account known to the demo identity provider.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the identity of the current caller as supplied by the identity
// collaborator: just an id and a role.
type Actor struct {
	ID   string
	Role UserRole
}

// IsAdmin reports whether the actor may perform schema-management
// operations.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
