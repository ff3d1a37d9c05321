package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// errorMapping pairs a domain sentinel with its HTTP status. When detailed
// is set the full wrapped message reaches the client, otherwise only the
// sentinel text does.
type errorMapping struct {
	target   error
	code     int
	detailed bool
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, false},
	{domain.ErrTokenExpired, http.StatusUnauthorized, false},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, false},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, false},
	{domain.ErrForbidden, http.StatusForbidden, false},
	{domain.ErrUserNotFound, http.StatusNotFound, false},
	{domain.ErrExpenseNotFound, http.StatusNotFound, false},
	{domain.ErrUserExists, http.StatusConflict, false},
	{domain.ErrAlreadyResolved, http.StatusConflict, true},
	{domain.ErrInvalidAmount, http.StatusBadRequest, false},
	{domain.ErrInvalidStatus, http.StatusBadRequest, false},
	{domain.ErrInvalidTransition, http.StatusBadRequest, true},
	{domain.ErrInvalidRole, http.StatusBadRequest, true},
	{domain.ErrInvalidInput, http.StatusBadRequest, true},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			log.Error().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.detailed {
				return m.code, err.Error()
			}
			return m.code, m.target.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
