package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. Every access-layer branch
// switches over it exhaustively; an unknown role is a programming
// error, not a fallthrough.
type Role string

const (
	RoleClient   Role = "client"
	RoleMechanic Role = "mechanic"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleMechanic, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleMechanic, RoleAdmin:
		return true
	}
	return false
}

// User is an account holder. Role is immutable after creation.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     Role   `gorm:"size:20;not null" json:"role"`
	Name     string `gorm:"size:255" json:"name"`
	Email    string `gorm:"size:255" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
}

// LatLng is an embedded geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
