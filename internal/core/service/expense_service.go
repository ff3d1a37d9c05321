package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

// ExpenseService implements submission, resolution and scoped listing of
// expenses.
type ExpenseService struct {
	expenses ports.ExpenseRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewExpenseService(expenses ports.ExpenseRepository, users ports.UserRepository, log zerolog.Logger) *ExpenseService {
	return &ExpenseService{expenses: expenses, users: users, log: log, now: time.Now}
}

// Submit records a new pending expense for an employee. The submitter's
// current manager is copied onto the expense.
func (s *ExpenseService) Submit(ctx context.Context, submitter *domain.User, in ports.SubmitExpenseInput) (*domain.ExpenseView, error) {
	if submitter == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.RequireExactRole(submitter.Role, domain.RoleEmployee); err != nil {
		return nil, err
	}
	if in.Amount < 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, domain.ErrInvalidAmount
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	created, err := s.expenses.Create(ctx, &domain.Expense{
		UserID:      submitter.ID,
		Amount:      in.Amount,
		Description: description,
		Date:        date.UTC(),
		ManagerID:   submitter.ManagerID,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", submitter.ID).Msg("failed to create expense")
		return nil, fmt.Errorf("submit expense: %w", err)
	}

	s.log.Info().
		Str("expense_id", created.ID).
		Str("user_id", submitter.ID).
		Float64("amount", created.Amount).
		Msg("expense submitted")

	return &domain.ExpenseView{Expense: *created, Submitter: submitter.Summary()}, nil
}

// Resolve moves a pending expense to approved or rejected on behalf of a
// manager. Resolved expenses are final.
func (s *ExpenseService) Resolve(ctx context.Context, manager *domain.User, expenseID, decision string) (*domain.ExpenseView, error) {
	if manager == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.RequireExactRole(manager.Role, domain.RoleManager); err != nil {
		return nil, err
	}

	status, err := domain.ParseStatus(decision)
	if err != nil {
		return nil, err
	}

	current, err := s.expenses.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve expense: %w", err)
	}
	if err := current.Status.CheckTransition(status); err != nil {
		return nil, err
	}

	updated, err := s.expenses.Resolve(ctx, ports.ResolveInput{
		ExpenseID:  expenseID,
		Status:     status,
		ResolvedBy: manager.ID,
		At:         s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) || errors.Is(err, domain.ErrAlreadyResolved) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve expense: %w", err)
	}

	s.log.Info().
		Str("expense_id", updated.ID).
		Str("status", string(updated.Status)).
		Str("resolved_by", manager.ID).
		Msg("expense resolved")

	views, err := s.enrich(ctx, []*domain.Expense{updated})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListFor returns the expenses caller's role may see: own expenses for an
// employee, the team's for a manager, all of them for an admin.
func (s *ExpenseService) ListFor(ctx context.Context, caller *domain.User) ([]*domain.ExpenseView, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	policy, err := domain.PolicyFor(caller.Role)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.List(ctx, policy.ExpenseScope(caller.ID))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return s.enrich(ctx, expenses)
}

// ListForUser returns the expenses submitted by userID. An empty result is
// domain.ErrExpenseNotFound.
func (s *ExpenseService) ListForUser(ctx context.Context, caller *domain.User, userID string) ([]*domain.ExpenseView, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	policy, err := domain.PolicyFor(caller.Role)
	if err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("list user expenses: %w", err)
		}
		// Unknown ids look forbidden to everyone but admins.
		if caller.Role != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !policy.CanViewExpensesOf(caller, target) {
		return nil, domain.ErrForbidden
	}

	expenses, err := s.expenses.List(ctx, domain.ExpenseFilter{UserID: target.ID})
	if err != nil {
		return nil, fmt.Errorf("list user expenses: %w", err)
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: no expenses found for this user", domain.ErrExpenseNotFound)
	}
	return s.enrich(ctx, expenses)
}

// enrich attaches submitter and resolver summaries to each expense.
func (s *ExpenseService) enrich(ctx context.Context, expenses []*domain.Expense) ([]*domain.ExpenseView, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(expenses))
	for _, e := range expenses {
		for _, id := range []string{e.UserID, e.ResolvedBy} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	byID := make(map[string]*domain.User, len(ids))
	if len(ids) > 0 {
		users, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load expense users: %w", err)
		}
		for _, u := range users {
			byID[u.ID] = u
		}
	}

	views := make([]*domain.ExpenseView, len(expenses))
	for i, e := range expenses {
		views[i] = &domain.ExpenseView{
			Expense:   *e,
			Submitter: byID[e.UserID].Summary(),
		}
		if e.ResolvedBy != "" {
			views[i].Resolver = byID[e.ResolvedBy].Summary()
		}
	}
	return views, nil
}
