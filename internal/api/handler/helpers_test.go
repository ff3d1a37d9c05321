package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/api/middleware"
	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
	"github.com/code-sharad/expense-tracker/internal/pkg/token"
)

var (
	testAdmin    = &domain.User{ID: "admin-1", Email: "admin@gmail.com", Role: domain.RoleAdmin}
	testManager  = &domain.User{ID: "manager-1", Email: "boss@example.com", Role: domain.RoleManager}
	testEmployee = &domain.User{ID: "emp-1", Email: "alice@example.com", Role: domain.RoleEmployee, ManagerID: "manager-1"}
)

// newContext builds an echo context for method/target. A non-nil user is
// installed the way the Auth middleware would.
func newContext(method, target string, body io.Reader, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		claims := &token.Claims{}
		claims.Subject = user.ID
		claims.ID = "jti-" + user.ID
		middleware.SetIdentity(c, user, claims)
	}
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn func(ctx context.Context, claims *token.Claims) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, *token.Claims, error) {
	return nil, nil, domain.ErrTokenInvalid
}

func (s *stubAuthService) Logout(ctx context.Context, claims *token.Claims) error {
	return s.logoutFn(ctx, claims)
}

type stubUserService struct {
	createFn        func(ctx context.Context, caller *domain.User, in ports.CreateUserInput) (*domain.User, error)
	listByManagerFn func(ctx context.Context, caller *domain.User, managerID string) ([]*domain.User, error)
	listAllFn       func(ctx context.Context, caller *domain.User) ([]*domain.User, error)
}

func (s *stubUserService) CreateUser(ctx context.Context, caller *domain.User, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubUserService) ListByManager(ctx context.Context, caller *domain.User, managerID string) ([]*domain.User, error) {
	return s.listByManagerFn(ctx, caller, managerID)
}

func (s *stubUserService) ListAll(ctx context.Context, caller *domain.User) ([]*domain.User, error) {
	return s.listAllFn(ctx, caller)
}

func (s *stubUserService) SeedAdmin(context.Context, string, string) (bool, error) {
	return false, nil
}

type stubExpenseService struct {
	submitFn      func(ctx context.Context, submitter *domain.User, in ports.SubmitExpenseInput) (*domain.ExpenseView, error)
	resolveFn     func(ctx context.Context, manager *domain.User, expenseID, decision string) (*domain.ExpenseView, error)
	listForFn     func(ctx context.Context, caller *domain.User) ([]*domain.ExpenseView, error)
	listForUserFn func(ctx context.Context, caller *domain.User, userID string) ([]*domain.ExpenseView, error)
}

func (s *stubExpenseService) Submit(ctx context.Context, submitter *domain.User, in ports.SubmitExpenseInput) (*domain.ExpenseView, error) {
	return s.submitFn(ctx, submitter, in)
}

func (s *stubExpenseService) Resolve(ctx context.Context, manager *domain.User, expenseID, decision string) (*domain.ExpenseView, error) {
	return s.resolveFn(ctx, manager, expenseID, decision)
}

func (s *stubExpenseService) ListFor(ctx context.Context, caller *domain.User) ([]*domain.ExpenseView, error) {
	return s.listForFn(ctx, caller)
}

func (s *stubExpenseService) ListForUser(ctx context.Context, caller *domain.User, userID string) ([]*domain.ExpenseView, error) {
	return s.listForUserFn(ctx, caller, userID)
}
