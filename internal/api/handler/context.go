package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/api/middleware"
	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

// currentUser returns the caller injected by the Auth middleware. Handlers
// mounted without it fail fast with domain.ErrUnauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}
