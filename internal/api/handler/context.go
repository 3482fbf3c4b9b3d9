package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/api/middleware"
	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Handlers
// behind Auth/RBAC can rely on it being present; a nil identity means the
// middleware chain was mis-wired, so fail closed.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	user := middleware.IdentityFromContext(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// ownerScope returns the user id filter for repository queries: admins see
// every record, everyone else only their own.
func ownerScope(user *domain.User) string {
	if user.HasRole(domain.RoleAdmin) {
		return ""
	}
	return user.ID
}

// pageParams parses the page/limit query parameters; the service layer clamps
// them to its bounds.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}
