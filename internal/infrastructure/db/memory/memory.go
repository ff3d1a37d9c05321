// Package memory implements the repository ports in process memory. It
// backs local development without a database and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

// UserRepository is a concurrency-safe ports.UserRepository.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrUserExists
	}
	u := cloneUser(user)
	u.Email = email
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return cloneUser(u), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) ListByManager(_ context.Context, managerID string) ([]*domain.User, error) {
	return r.list(func(u *domain.User) bool { return u.ManagerID == managerID }), nil
}

func (r *UserRepository) ListAll(_ context.Context) ([]*domain.User, error) {
	return r.list(func(*domain.User) bool { return true }), nil
}

func (r *UserRepository) list(keep func(*domain.User) bool) []*domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0)
	for _, u := range r.byID {
		if keep(u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ExpenseRepository is a concurrency-safe ports.ExpenseRepository.
type ExpenseRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Expense
}

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{byID: make(map[string]*domain.Expense)}
}

func cloneExpense(e *domain.Expense) *domain.Expense {
	c := *e
	return &c
}

func (r *ExpenseRepository) Create(_ context.Context, e *domain.Expense) (*domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cloneExpense(e)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.byID[c.ID] = c
	return cloneExpense(c), nil
}

func (r *ExpenseRepository) FindByID(_ context.Context, id string) (*domain.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	return cloneExpense(e), nil
}

func (r *ExpenseRepository) List(_ context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Expense, 0)
	for _, e := range r.byID {
		if filter.Matches(e) {
			out = append(out, cloneExpense(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ExpenseRepository) Resolve(_ context.Context, in ports.ResolveInput) (*domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[in.ExpenseID]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	if e.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyResolved
	}
	e.Status = in.Status
	e.ResolvedBy = in.ResolvedBy
	e.UpdatedAt = in.At
	return cloneExpense(e), nil
}

// TokenRevoker is a ports.TokenRevoker. Expired entries are dropped on
// lookup and swept on every Revoke.
type TokenRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewTokenRevoker() *TokenRevoker {
	return &TokenRevoker{entries: make(map[string]time.Time), now: time.Now}
}

func (r *TokenRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, until := range r.entries {
		if !now.Before(until) {
			delete(r.entries, id)
		}
	}
	r.entries[tokenID] = now.Add(ttl)
	return nil
}

func (r *TokenRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !r.now().Before(until) {
		delete(r.entries, tokenID)
		return false, nil
	}
	return true, nil
}
