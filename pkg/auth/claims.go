// Package auth validates the platform JWTs presented by scoring API callers.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the platform identity attached to a scoring request.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Roles  []string  `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Roles recognised by the scoring API.
const (
	RoleAdmin       = "admin"
	RoleUnderwriter = "underwriter"
	RoleAnalyst     = "analyst"
	RoleService     = "service"
)
