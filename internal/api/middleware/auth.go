package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/api/metrics"
	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// Context keys under which the resolved identity is stored.
const (
	ContextKeyUser   = "auth_user"
	ContextKeyClaims = "auth_claims"
)

// Auth extracts the bearer token, verifies it, resolves the subject against
// the user directory, and injects the identity into the request context.
// Requests without a token are rejected; token failures propagate with their
// specific kind (malformed, expired, invalid signature, unknown subject) so
// the error handler reports a stable code for each.
func Auth(codec ports.TokenCodec, directory ports.UserDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if err := resolveIdentity(c, codec, directory, token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth resolves an identity when a bearer token is present and lets
// anonymous requests through untouched. A supplied token that fails
// verification is still an error — it is never downgraded to anonymous.
func OptionalAuth(codec ports.TokenCodec, directory ports.UserDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return next(c)
			}
			if err := resolveIdentity(c, codec, directory, token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// bearerToken pulls the token out of the Authorization header. The second
// return is false only when no credential was supplied at all; a present but
// non-bearer header yields an empty token, which fails verification.
func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

func resolveIdentity(c echo.Context, codec ports.TokenCodec, directory ports.UserDirectory, token string) error {
	claims, err := codec.Verify(token)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
		return err
	}

	user, err := directory.FindByID(c.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Token is cryptographically valid but points at an account the
			// directory no longer has.
			metrics.TokenVerificationsTotal.WithLabelValues("unknown_subject").Inc()
			return domain.ErrUnknownSubject
		}
		return err
	}

	// Authorization uses the role snapshot embedded at issuance time, not the
	// directory's current role set.
	identity := *user
	identity.Roles = append([]string(nil), claims.Roles...)

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	c.Set(ContextKeyUser, &identity)
	c.Set(ContextKeyClaims, claims)
	return nil
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	default:
		return "malformed"
	}
}

// IdentityFromContext returns the resolved user, or nil for anonymous requests.
func IdentityFromContext(c echo.Context) *domain.User {
	user, _ := c.Get(ContextKeyUser).(*domain.User)
	return user
}

// ClaimsFromContext returns the verified token claims, or nil for anonymous requests.
func ClaimsFromContext(c echo.Context) *ports.Claims {
	claims, _ := c.Get(ContextKeyClaims).(*ports.Claims)
	return claims
}
