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
	"github.com/code-sharad/expense-tracker/internal/pkg/token"
)

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("expense-tracker-dummy"), bcrypt.DefaultCost)

// AuthService implements login, bearer authentication and logout.
type AuthService struct {
	users   ports.UserRepository
	tokens  *token.Manager
	revoker ports.TokenRevoker
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens *token.Manager, revoker ports.TokenRevoker, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker, log: log, now: time.Now}
}

// Login checks the credentials and returns a signed token for the user.
// Unknown emails and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Debug().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	signed, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user logged in")
	return signed, user, nil
}

// Authenticate verifies bearer and loads the user it identifies. A revoked
// token or a user that no longer exists yields domain.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*domain.User, *token.Claims, error) {
	claims, err := s.tokens.Verify(bearer)
	if err != nil {
		return nil, nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("token_id", claims.ID).Msg("revocation check failed, accepting token")
		} else if revoked {
			return nil, nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthenticated)
		}
	}

	user, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid or inactive user", domain.ErrUnauthenticated)
		}
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, claims, nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil {
		return domain.ErrUnauthenticated
	}
	if s.revoker == nil {
		return nil
	}

	ttl := claims.Remaining(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info().Str("user_id", claims.UserID()).Msg("user logged out")
	return nil
}
