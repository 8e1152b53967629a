package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studyvault/internal/domain"
	"studyvault/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier implements TokenVerifier using the identity provider's JWKS
// endpoint. This service never issues tokens; it only checks the signature and
// the claims it needs for ownership tagging and the admin role gate.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from the
// identity provider's JWKS endpoint. The keys are cached and automatically
// refreshed based on HTTP cache headers.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT and extracts its claims.
// Returns an error if the token is invalid, expired, or has incorrect claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AuthClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
		// allowed
	default:
		v.logger.Warn("token uses unexpected algorithm",
			"algorithm", token.Method.Alg(),
			"allowed", []string{"RS256", "ES256"})
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.AuthClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	// Subject carries the user id; a token without one is useless here
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the JWT verifier.
// keyfunc v3 manages its own refresh lifecycle, so this is a no-op kept for
// graceful shutdown compatibility.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
