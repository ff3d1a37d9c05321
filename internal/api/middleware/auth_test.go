package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/pkg/token"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, bearer string) (*domain.User, *token.Claims, error)
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(ctx context.Context, bearer string) (*domain.User, *token.Claims, error) {
	return s.authenticateFn(ctx, bearer)
}

func (s *stubAuthService) Logout(context.Context, *token.Claims) error { return nil }

func runAuth(t *testing.T, header string, stub *stubAuthService) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	alice := &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleEmployee}
	claims := &token.Claims{}
	claims.Subject = "u1"

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	stub := &stubAuthService{authenticateFn: func(_ context.Context, bearer string) (*domain.User, *token.Claims, error) {
		if bearer != "good-token" {
			t.Fatalf("unexpected bearer %q", bearer)
		}
		return alice, claims, nil
	}}

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		if CurrentUser(c) != alice {
			t.Fatalf("user not set")
		}
		if CurrentClaims(c) != claims {
			t.Fatalf("claims not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Token abc", nil},
		{"empty bearer", "Bearer ", nil},
		{"invalid token", "Bearer x", domain.ErrTokenInvalid},
		{"expired token", "Bearer x", domain.ErrTokenExpired},
		{"deleted user", "Bearer x", domain.ErrUnauthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAuthService{authenticateFn: func(context.Context, string) (*domain.User, *token.Claims, error) {
				if tc.err == nil {
					t.Fatalf("service should not be called")
				}
				return nil, nil, tc.err
			}}
			rec, called := runAuth(t, tc.header, stub)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_StoreFailureIsNotUnauthorized(t *testing.T) {
	stub := &stubAuthService{authenticateFn: func(context.Context, string) (*domain.User, *token.Claims, error) {
		return nil, nil, errors.New("connection refused")
	}}
	rec, called := runAuth(t, "Bearer x", stub)
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
