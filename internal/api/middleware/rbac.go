package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// RBAC enforces role-based access control: the resolved identity's role set
// must intersect allowedRoles. There is no role hierarchy — a route that
// should admit admins must list "admin" explicitly.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := IdentityFromContext(c)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			if !user.HasAnyRole(allowedRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAuthenticated admits any resolved identity, regardless of roles.
// Used by endpoints that require login but no specific role.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFromContext(c) == nil {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}
