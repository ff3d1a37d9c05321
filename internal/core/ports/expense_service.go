package ports

import (
	"context"
	"time"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

// SubmitExpenseInput is the DTO passed from the transport layer to ExpenseService.
type SubmitExpenseInput struct {
	Amount      float64
	Description string
	Date        time.Time // zero means submission time
}

// ExpenseService defines the expense approval workflow.
type ExpenseService interface {
	Submit(ctx context.Context, submitter *domain.User, in SubmitExpenseInput) (*domain.ExpenseView, error)
	// Resolve applies a manager's decision ("approve", "rejected", ...) to a
	// pending expense.
	Resolve(ctx context.Context, manager *domain.User, expenseID, decision string) (*domain.ExpenseView, error)
	// ListFor returns the expenses visible to caller under its role.
	ListFor(ctx context.Context, caller *domain.User) ([]*domain.ExpenseView, error)
	// ListForUser returns every expense submitted by userID, provided caller
	// is that user, the user's manager, or an admin.
	ListForUser(ctx context.Context, caller *domain.User, userID string) ([]*domain.ExpenseView, error)
}
