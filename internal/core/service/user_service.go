package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

// UserService implements account creation and listing.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, now: time.Now}
}

// CreateUser creates an account on behalf of an admin or manager. Managers
// cannot create admins, and a manager reference must point at an existing
// user.
func (s *UserService) CreateUser(ctx context.Context, caller *domain.User, in ports.CreateUserInput) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.RequireAnyRole(caller.Role, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	policy, err := domain.PolicyFor(caller.Role)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreate(role) {
		return nil, fmt.Errorf("%w: %s cannot create %s users", domain.ErrForbidden, caller.Role, role)
	}

	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	if in.ManagerID != "" {
		if _, err := s.repo.FindByID(ctx, in.ManagerID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("%w: manager %s does not exist", domain.ErrInvalidInput, in.ManagerID)
			}
			return nil, fmt.Errorf("create user: lookup manager: %w", err)
		}
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ManagerID:    in.ManagerID,
		CreatedBy:    caller.ID,
		UpdatedBy:    caller.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("role", created.Role.String()).
		Str("created_by", caller.ID).
		Msg("user created")
	return created, nil
}

// ListByManager returns the users reporting to managerID. An empty result
// is domain.ErrUserNotFound.
func (s *UserService) ListByManager(ctx context.Context, caller *domain.User, managerID string) ([]*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.RequireExactRole(caller.Role, domain.RoleManager); err != nil {
		return nil, err
	}
	if managerID == "" {
		return nil, fmt.Errorf("%w: managerId query parameter required", domain.ErrInvalidInput)
	}

	users, err := s.repo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("list users by manager: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no users found for this manager", domain.ErrUserNotFound)
	}
	return users, nil
}

// ListAll returns every user. Admin only.
func (s *UserService) ListAll(ctx context.Context, caller *domain.User) ([]*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.RequireExactRole(caller.Role, domain.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SeedAdmin creates the bootstrap admin account if no user owns email yet.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("%w: bootstrap admin email and password are required", domain.ErrInvalidInput)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		s.log.Info().Str("email", email).Msg("admin user already exists")
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	admin, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return false, nil
		}
		return false, fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Str("user_id", admin.ID).Str("email", email).Msg("admin user created")
	return true, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password must be at most 72 bytes", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
