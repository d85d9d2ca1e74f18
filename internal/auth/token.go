/**
 * @description
 * Session credential issuance and verification. Sessions are signed HS256 JWTs
 * carrying the account id and login email, valid for a fixed window (24h by
 * default). Verification distinguishes a missing credential (handled by the API
 * middleware) from a malformed or expired one (ErrInvalidToken) so clients can
 * react differently to the two cases.
 *
 * @dependencies
 * - github.com/golang-jwt/jwt/v5: JWT signing and parsing.
 * - github.com/google/uuid: Account identifiers.
 */

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the fixed validity window for issued sessions.
const DefaultSessionTTL = 24 * time.Hour

// ErrInvalidToken is returned for malformed, mis-signed, or expired credentials.
var ErrInvalidToken = errors.New("invalid session token")

// Session is the verified content of a session credential.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// TokenIssuer issues and verifies session credentials.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret and TTL.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the issuer's clock, used by tests to exercise expiry.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// Issue signs a new session credential for the account.
func (t *TokenIssuer) Issue(userID uuid.UUID, email string) (string, error) {
	issuedAt := t.now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iat":   jwt.NewNumericDate(issuedAt),
		"exp":   jwt.NewNumericDate(issuedAt.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session credential, returning the session
// content or ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (*Session, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	subject, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &Session{UserID: userID, Email: email}, nil
}
