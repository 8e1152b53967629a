package models

import "github.com/golang-jwt/jwt/v5"

// Roles assigned by the identity provider. Moderation endpoints require
// RoleAdmin; everything else only needs an authenticated identity.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// AuthClaims is the JWT claims structure issued by the identity provider.
// This core never issues or refreshes these tokens; it only verifies them and
// uses the subject/name/role for ownership tagging and authorization.
type AuthClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Role                 string `json:"role"`
}

// GetUserID returns the user ID from the JWT subject claim.
// This is the primary identifier for the authenticated user.
func (c *AuthClaims) GetUserID() string {
	return c.Subject
}

// IsAdmin reports whether the token carries the moderator role.
func (c *AuthClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
