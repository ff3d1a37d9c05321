package ports

import (
	"context"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/pkg/token"
)

// AuthService covers login, token authentication and logout.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate verifies a bearer token and loads the user it was issued to.
	Authenticate(ctx context.Context, bearer string) (*domain.User, *token.Claims, error)
	Logout(ctx context.Context, claims *token.Claims) error
}
