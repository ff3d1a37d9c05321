package ports

import (
	"context"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores user and returns it with its assigned ID. A second user
	// with the same email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	ListByManager(ctx context.Context, managerID string) ([]*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}
