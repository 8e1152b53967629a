package httputil

import (
	"context"
	"net/http"

	"studyvault/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey contextKey = "authClaims"
)

// WithClaims adds the verified auth claims to the request context
func WithClaims(r *http.Request, claims *models.AuthClaims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves the verified claims from context, nil if not present
func GetClaims(r *http.Request) *models.AuthClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.AuthClaims)
	return claims
}

// GetUserID retrieves the authenticated user id from context, empty string if
// the request was not authenticated
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}
