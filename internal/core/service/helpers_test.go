package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

// fixture is a small organisation: one admin, two managers, and three
// employees, two of whom report to the first manager.
type fixture struct {
	users    *memory.UserRepository
	expenses *memory.ExpenseRepository

	admin, manager, otherManager *domain.User
	alice, bob, carol            *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    memory.NewUserRepository(),
		expenses: memory.NewExpenseRepository(),
	}
	f.admin = f.addUser(t, "admin@example.com", "admin-pass", domain.RoleAdmin, "")
	f.manager = f.addUser(t, "manager@example.com", "manager-pass", domain.RoleManager, "")
	f.otherManager = f.addUser(t, "other@example.com", "other-pass", domain.RoleManager, "")
	f.alice = f.addUser(t, "alice@example.com", "alice-pass", domain.RoleEmployee, f.manager.ID)
	f.bob = f.addUser(t, "bob@example.com", "bob-pass", domain.RoleEmployee, f.manager.ID)
	f.carol = f.addUser(t, "carol@example.com", "carol-pass", domain.RoleEmployee, f.otherManager.ID)
	return f
}

func (f *fixture) addUser(t *testing.T, email, password string, role domain.Role, managerID string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := f.users.Create(context.Background(), &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		ManagerID:    managerID,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (f *fixture) expenseService() *ExpenseService {
	return NewExpenseService(f.expenses, f.users, discardLogger)
}
