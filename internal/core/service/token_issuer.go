package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

const (
	defaultTokenTTL    = 24 * time.Hour
	defaultRememberTTL = 30 * 24 * time.Hour
)

// TokenConfig holds the signing key and expiries for session tokens. The key
// is injected at construction time; business logic never reads it from the
// environment.
type TokenConfig struct {
	Secret      string
	TokenTTL    time.Duration
	RememberTTL time.Duration
}

// TokenIssuer creates and validates HS256-signed session tokens carrying the
// account id and role.
type TokenIssuer struct {
	secret      []byte
	tokenTTL    time.Duration
	rememberTTL time.Duration
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = defaultRememberTTL
	}
	return &TokenIssuer{
		secret:      []byte(cfg.Secret),
		tokenTTL:    cfg.TokenTTL,
		rememberTTL: cfg.RememberTTL,
	}
}

// Issue signs a token for the given identity. remember selects the extended
// expiry.
func (t *TokenIssuer) Issue(userID, role string, remember bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(t.TTL(remember)).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify parses and validates a token, returning its claims.
func (t *TokenIssuer) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	return &ports.TokenClaims{UserID: userID, Role: role}, nil
}

// TTL reports the token lifetime Issue would apply.
func (t *TokenIssuer) TTL(remember bool) time.Duration {
	if remember {
		return t.rememberTTL
	}
	return t.tokenTTL
}
