package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"studyvault/internal/auth"
	"studyvault/internal/httputil"
)

// Auth verifies the bearer token on every request and stores the resulting
// claims in the request context. Requests without a valid token are refused;
// the health endpoint stays open so load balancers can probe it.
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token verification failed",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}
