package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

const forbiddenMessage = "forbidden: insufficient permissions"

// guard builds a middleware that runs allow against the authenticated
// user's role. It must be mounted after Auth.
func guard(allow func(domain.Role) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if err := allow(user.Role); err != nil {
				return echo.NewHTTPError(http.StatusForbidden, forbiddenMessage).SetInternal(err)
			}
			return next(c)
		}
	}
}

// RequireRole allows only callers whose role is exactly role.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return guard(func(r domain.Role) error { return domain.RequireExactRole(r, role) })
}

// RBAC enforces role-based access control over a set of allowed roles.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return guard(func(r domain.Role) error { return domain.RequireAnyRole(r, allowedRoles...) })
}

// RequireMinimumRank allows callers ranked at or above role.
func RequireMinimumRank(role domain.Role) echo.MiddlewareFunc {
	return guard(func(r domain.Role) error { return domain.RequireMinimumRank(r, role) })
}
