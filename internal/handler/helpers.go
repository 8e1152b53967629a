package handler

import (
	"net/http"

	"studyvault/internal/domain/models"
	"studyvault/internal/httputil"
)

// requireClaims extracts the verified identity from the request context. The
// auth middleware guarantees it for every route except /health, so a miss
// here means a wiring bug rather than a user error.
func requireClaims(w http.ResponseWriter, r *http.Request) (*models.AuthClaims, bool) {
	claims := httputil.GetClaims(r)
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "missing identity")
		return nil, false
	}
	return claims, true
}

// requireAdmin additionally gates on the moderator role.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*models.AuthClaims, bool) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return nil, false
	}
	if !claims.IsAdmin() {
		httputil.RespondError(w, http.StatusForbidden, "moderator role required")
		return nil, false
	}
	return claims, true
}
