package ports

import "time"

// TokenClaims is the identity a session token asserts.
type TokenClaims struct {
	UserID string
	Role   string
}

// TokenIssuer creates and validates signed session tokens. The signing key
// and expiries are fixed at construction time.
type TokenIssuer interface {
	// Issue signs a token for the given identity. remember selects the
	// extended expiry.
	Issue(userID, role string, remember bool) (string, error)
	// Verify parses and validates a token, returning its claims.
	Verify(token string) (*TokenClaims, error)
	// TTL reports the token lifetime Issue would apply.
	TTL(remember bool) time.Duration
}
