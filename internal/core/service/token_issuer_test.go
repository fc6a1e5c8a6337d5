package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uventlo/event-platform/internal/core/domain"
)

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "secret"})

	token, err := issuer.Issue("acc_1", domain.RoleAdmin, false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != "acc_1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenIssuer_DefaultTTLs(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "secret"})

	if ttl := issuer.TTL(false); ttl != 24*time.Hour {
		t.Fatalf("expected 1-day default ttl, got %v", ttl)
	}
	if ttl := issuer.TTL(true); ttl != 30*24*time.Hour {
		t.Fatalf("expected 30-day remember ttl, got %v", ttl)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "secret"})
	other := NewTokenIssuer(TokenConfig{Secret: "other"})

	token, err := issuer.Issue("acc_1", domain.RoleUser, false)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenIssuer_RejectsUnexpectedAlg(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "secret"})

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "acc_1", "role": domain.RoleAdmin})
	token, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Fatalf("expected rejection of unsigned token")
	}
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "secret"})

	stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "acc_1",
		"role":    domain.RoleUser,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	token, err := stale.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign stale token: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}
