package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &domain.User{Email: " Alice@Example.com ", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}

	byEmail, err := repo.FindByEmail(ctx, "ALICE@example.com")
	if err != nil || byEmail.ID != created.ID {
		t.Fatalf("FindByEmail = %v, %v", byEmail, err)
	}

	if _, err := repo.Create(ctx, &domain.User{Email: "alice@EXAMPLE.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, _ := repo.Create(ctx, &domain.User{Email: "a@x.io", Role: domain.RoleEmployee})
	created.Role = domain.RoleAdmin

	stored, _ := repo.FindByID(ctx, created.ID)
	if stored.Role != domain.RoleEmployee {
		t.Fatalf("mutating a returned user changed the store")
	}
}

func TestUserRepository_Listings(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	boss, _ := repo.Create(ctx, &domain.User{Email: "boss@x.io", Role: domain.RoleManager, CreatedAt: base})
	a, _ := repo.Create(ctx, &domain.User{Email: "a@x.io", ManagerID: boss.ID, CreatedAt: base.Add(2 * time.Hour)})
	b, _ := repo.Create(ctx, &domain.User{Email: "b@x.io", ManagerID: boss.ID, CreatedAt: base.Add(time.Hour)})
	_, _ = repo.Create(ctx, &domain.User{Email: "c@x.io", CreatedAt: base.Add(3 * time.Hour)})

	reports, _ := repo.ListByManager(ctx, boss.ID)
	if len(reports) != 2 || reports[0].ID != b.ID || reports[1].ID != a.ID {
		t.Fatalf("unexpected reports %+v", reports)
	}

	all, _ := repo.ListAll(ctx)
	if len(all) != 4 || all[0].ID != boss.ID {
		t.Fatalf("unexpected ListAll %+v", all)
	}

	found, _ := repo.FindByIDs(ctx, []string{a.ID, "missing", b.ID})
	if len(found) != 2 {
		t.Fatalf("expected 2 users, got %d", len(found))
	}
}

func TestExpenseRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewExpenseRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, owner := range []string{"u1", "u2", "u1"} {
		_, err := repo.Create(ctx, &domain.Expense{
			UserID:    owner,
			ManagerID: "m1",
			Amount:    float64(i),
			Status:    domain.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	mine, _ := repo.List(ctx, domain.ExpenseFilter{UserID: "u1"})
	if len(mine) != 2 || mine[0].Amount != 2 || mine[1].Amount != 0 {
		t.Fatalf("unexpected order %+v", mine)
	}

	team, _ := repo.List(ctx, domain.ExpenseFilter{ManagerID: "m1"})
	if len(team) != 3 {
		t.Fatalf("expected 3, got %d", len(team))
	}

	none, _ := repo.List(ctx, domain.ExpenseFilter{ManagerID: "m2"})
	if len(none) != 0 {
		t.Fatalf("expected empty list, got %d", len(none))
	}
}

func TestExpenseRepository_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := NewExpenseRepository()
	e, _ := repo.Create(ctx, &domain.Expense{UserID: "u1", Status: domain.StatusPending})
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	got, err := repo.Resolve(ctx, ports.ResolveInput{ExpenseID: e.ID, Status: domain.StatusApproved, ResolvedBy: "m1", At: at})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Status != domain.StatusApproved || got.ResolvedBy != "m1" || !got.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected expense %+v", got)
	}

	_, err = repo.Resolve(ctx, ports.ResolveInput{ExpenseID: e.ID, Status: domain.StatusRejected, ResolvedBy: "m2"})
	if !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	stored, _ := repo.FindByID(ctx, e.ID)
	if stored.Status != domain.StatusApproved || stored.ResolvedBy != "m1" {
		t.Fatalf("second resolve must not change the expense: %+v", stored)
	}

	if _, err := repo.Resolve(ctx, ports.ResolveInput{ExpenseID: "missing", Status: domain.StatusApproved}); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestExpenseRepository_ConcurrentResolveHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewExpenseRepository()
	e, _ := repo.Create(ctx, &domain.Expense{UserID: "u1", Status: domain.StatusPending})

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := domain.StatusApproved
			if i%2 == 1 {
				status = domain.StatusRejected
			}
			if _, err := repo.Resolve(ctx, ports.ResolveInput{ExpenseID: e.ID, Status: status, ResolvedBy: "m"}); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one successful resolve, got %d", winners)
	}
}

func TestTokenRevoker_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewTokenRevoker()
	r.now = func() time.Time { return now }

	if revoked, _ := r.IsRevoked(ctx, "jti"); revoked {
		t.Fatalf("unknown token reported revoked")
	}

	_ = r.Revoke(ctx, "jti", time.Minute)
	if revoked, _ := r.IsRevoked(ctx, "jti"); !revoked {
		t.Fatalf("expected token to be revoked")
	}

	now = now.Add(time.Minute)
	if revoked, _ := r.IsRevoked(ctx, "jti"); revoked {
		t.Fatalf("revocation should expire with the token")
	}
}

func TestTokenRevoker_RevokeSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewTokenRevoker()
	r.now = func() time.Time { return now }

	_ = r.Revoke(ctx, "old", time.Minute)
	_ = r.Revoke(ctx, "live", time.Hour)

	now = now.Add(2 * time.Minute)
	_ = r.Revoke(ctx, "new", time.Minute)

	if _, ok := r.entries["old"]; ok {
		t.Fatalf("expired entry should be swept by Revoke")
	}
	if len(r.entries) != 2 {
		t.Fatalf("expected 2 live entries, got %d", len(r.entries))
	}
	if revoked, _ := r.IsRevoked(ctx, "live"); !revoked {
		t.Fatalf("unexpired entry must survive the sweep")
	}
}
