package model

import (
	"fmt"
	"time"
)

// Organisation is the tenant every other entity belongs to.
type Organisation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

// User represents an authentication user (separate from cadets).
type User struct {
	ID             string     `json:"id"`
	OrganisationID string     `json:"organisation_id"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// Roles, lowest to highest.
const (
	RoleUser            = "user"
	RoleInspector       = "inspector"
	RoleMaterialManager = "material_manager"
	RoleAdmin           = "admin"
)

var roleLevels = map[string]int{
	RoleUser:            1,
	RoleInspector:       2,
	RoleMaterialManager: 3,
	RoleAdmin:           4,
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
// Unknown roles never qualify.
func RoleAtLeast(role, minimum string) bool {
	have, ok := roleLevels[role]
	if !ok {
		return false
	}
	need, ok := roleLevels[minimum]
	if !ok {
		return false
	}
	return have >= need
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Caller identifies who performs an operation. It is produced by the
// request gateway after authentication and role checks.
type Caller struct {
	OrganisationID string
	UserID         string
	Username       string
	ActorName      string
	Role           string
}
