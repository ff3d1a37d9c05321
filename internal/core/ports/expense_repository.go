package ports

import (
	"context"
	"time"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

// ResolveInput carries a status change applied by a manager.
type ResolveInput struct {
	ExpenseID  string
	Status     domain.ExpenseStatus
	ResolvedBy string
	At         time.Time
}

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error)
	FindByID(ctx context.Context, id string) (*domain.Expense, error)
	// List returns the expenses matched by filter, newest first.
	List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
	// Resolve applies in only while the expense is still pending. It returns
	// domain.ErrExpenseNotFound for an unknown id and domain.ErrAlreadyResolved
	// when another resolution got there first.
	Resolve(ctx context.Context, in ResolveInput) (*domain.Expense, error)
}
