package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/api/metrics"
	"github.com/code-sharad/expense-tracker/internal/api/middleware"
	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

// Logout revokes the caller's token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), middleware.CurrentClaims(c)); err != nil {
		return err
	}

	metrics.LogoutsTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
