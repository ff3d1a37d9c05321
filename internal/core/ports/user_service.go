package ports

import (
	"context"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

// CreateUserInput carries the fields of a new user account.
type CreateUserInput struct {
	Email     string
	Password  string
	Role      string // empty means EMPLOYEE
	ManagerID string
}

// UserService defines use-case operations on the identity store.
type UserService interface {
	CreateUser(ctx context.Context, caller *domain.User, in CreateUserInput) (*domain.User, error)
	ListByManager(ctx context.Context, caller *domain.User, managerID string) ([]*domain.User, error)
	ListAll(ctx context.Context, caller *domain.User) ([]*domain.User, error)
	// SeedAdmin creates the bootstrap admin unless the email is already taken.
	// It reports whether a user was created.
	SeedAdmin(ctx context.Context, email, password string) (bool, error)
}
