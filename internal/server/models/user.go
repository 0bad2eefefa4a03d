// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is a coarse permission level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account. Token is empty until the first successful login (or
// until the account is provisioned with one) and never changes afterwards.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
	Token        string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
