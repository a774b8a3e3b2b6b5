// Package model defines domain models and types used throughout the
// application including User, Item, Suggestion, Review and LogEntry.
package model

import "time"

// User roles
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleAdmin, RoleViewer}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a registered account. The username is globally unique and
// acts as the identity key referenced by reviews, suggestions and log entries.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // Never expose in JSON
	Email        string `json:"email"`
	Role         string `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
