package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

func renderError(t *testing.T, log zerolog.Logger, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(log)(err, c)

	var body errorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &body); jerr != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), jerr)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrTokenInvalid, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrExpenseNotFound, http.StatusNotFound},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidStatus, http.StatusBadRequest},
		{domain.ErrInvalidTransition, http.StatusBadRequest},
		{domain.ErrInvalidRole, http.StatusBadRequest},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrAlreadyResolved, http.StatusConflict},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("service: %w", tc.err)
		code, msg := renderError(t, zerolog.Nop(), wrapped)
		if code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if msg == "" {
			t.Errorf("%v: empty message", tc.err)
		}
	}
}

func TestHTTPErrorHandler_MessageDetail(t *testing.T) {
	_, msg := renderError(t, zerolog.Nop(), fmt.Errorf("%w: managerId query parameter required", domain.ErrInvalidInput))
	if !strings.Contains(msg, "managerId") {
		t.Fatalf("validation detail should reach the client, got %q", msg)
	}

	_, msg = renderError(t, zerolog.Nop(), fmt.Errorf("%w: no manager for id 42", domain.ErrForbidden))
	if msg != domain.ErrForbidden.Error() {
		t.Fatalf("forbidden detail must not leak, got %q", msg)
	}
}

func TestHTTPErrorHandler_EchoErrorPassesThrough(t *testing.T) {
	code, msg := renderError(t, zerolog.Nop(), echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"))
	if code != http.StatusTooManyRequests || msg != "rate limit exceeded" {
		t.Fatalf("unexpected %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	code, msg := renderError(t, log, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
	if !strings.Contains(buf.String(), "connection reset") {
		t.Fatalf("expected the cause to be logged, got %q", buf.String())
	}
}
