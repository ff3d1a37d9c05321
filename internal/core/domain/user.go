package domain

import (
	"strings"
	"time"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	ManagerID    string // empty when the user reports to no one
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary returns the identity fields embedded in expense listings.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Email: u.Email, Role: u.Role}
}

// UserSummary is the public identity of a user referenced by another record.
type UserSummary struct {
	ID    string
	Email string
	Role  Role
}

// NormalizeEmail is applied on every write and lookup so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
