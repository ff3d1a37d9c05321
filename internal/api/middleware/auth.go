package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
	"github.com/code-sharad/expense-tracker/internal/pkg/token"
)

const (
	ctxUser   = "user"
	ctxClaims = "claims"
)

// Auth validates the bearer token and injects the authenticated user and
// its token claims into the context.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, claims, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					return echo.NewHTTPError(http.StatusUnauthorized, "token has expired").SetInternal(err)
				case errors.Is(err, domain.ErrTokenInvalid):
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token").SetInternal(err)
				case errors.Is(err, domain.ErrUnauthenticated):
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or inactive user").SetInternal(err)
				}
				return err
			}

			c.Set(ctxUser, user)
			c.Set(ctxClaims, claims)
			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(ctxUser).(*domain.User)
	return u
}

// CurrentClaims returns the token claims injected by Auth, or nil.
func CurrentClaims(c echo.Context) *token.Claims {
	cl, _ := c.Get(ctxClaims).(*token.Claims)
	return cl
}

// SetIdentity stores user and claims the way Auth does.
func SetIdentity(c echo.Context, user *domain.User, claims *token.Claims) {
	c.Set(ctxUser, user)
	c.Set(ctxClaims, claims)
}
