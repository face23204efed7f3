// Package models holds the persistent record types shared by repositories
// and services.
package models

import "time"

// Role is the user's role within its tenant.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	TenantID     string
	CreatedAt    time.Time
}
