package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("secret", time.Hour, "")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager("", time.Hour, ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager("secret", 0, "")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if m.TTL() != DefaultTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultTTL, m.TTL())
	}
	if m.issuer != DefaultIssuer {
		t.Fatalf("expected default issuer, got %q", m.issuer)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	signed, issued, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.ExpiresAt == nil {
		t.Fatalf("expected expiry to be set")
	}

	claims, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID() != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.UserID())
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Fatalf("token id mismatch: %q vs %q", claims.ID, issued.ID)
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	m := newTestManager(t)
	_, a, _ := m.Issue("user-1")
	_, b, _ := m.Issue("user-1")
	if a.ID == b.ID {
		t.Fatalf("expected distinct token ids")
	}
}

func TestIssue_EmptyUserID(t *testing.T) {
	m := newTestManager(t)
	if _, _, err := m.Issue(""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	m := newTestManager(t)
	past := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return past }
	signed, _, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = time.Now
	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	signed, _, _ := m.Issue("user-1")

	other, _ := NewManager("other-secret", time.Hour, "")
	if _, err := other.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	m := newTestManager(t)
	signed, _, _ := m.Issue("user-1")

	other, _ := NewManager("secret", time.Hour, "someone-else")
	if _, err := other.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	m := newTestManager(t)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:      "jti",
		Subject: "user-1",
		Issuer:  DefaultIssuer,
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for token without exp, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	m := newTestManager(t)
	for _, in := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(in); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("%q: expected ErrTokenInvalid, got %v", in, err)
		}
	}
}

func TestClaims_Remaining(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
	if r := c.Remaining(now); r <= 0 || r > time.Minute {
		t.Fatalf("unexpected remaining %v", r)
	}
	if r := c.Remaining(now.Add(time.Hour)); r != 0 {
		t.Fatalf("expected 0 after expiry, got %v", r)
	}
}
