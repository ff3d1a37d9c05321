// Package token issues and verifies the signed bearer tokens handed out at
// login. Tokens are HS256 JWTs carrying the user id as subject, a random
// token id used for revocation, and a mandatory expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

const (
	DefaultTTL    = 24 * time.Hour
	DefaultIssuer = "expense-tracker"
)

// Claims represents the JWT claims.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the identity the token was issued to.
func (c *Claims) UserID() string { return c.Subject }

// Remaining returns how long the token stays valid after now.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Manager signs and verifies tokens with a single shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewManager returns a Manager. The secret is required; a non-positive ttl
// falls back to DefaultTTL and an empty issuer to DefaultIssuer.
func NewManager(secret string, ttl time.Duration, issuer string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Manager{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}, nil
}

// TTL is the lifetime given to every issued token.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue returns a signed token for userID together with its claims.
func (m *Manager) Issue(userID string) (string, *Claims, error) {
	if userID == "" {
		return "", nil, fmt.Errorf("issue token: %w: empty user id", domain.ErrInvalidInput)
	}
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses tokenString and returns its claims. Expired tokens yield
// domain.ErrTokenExpired; every other failure yields domain.ErrTokenInvalid.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
