// Package auth implements the session token codec: issuing, verifying, and
// refreshing signed claims (JWT, HS256). The signing secret is injected at
// construction time so tests can supply a fixed key.
package auth

import (
	"errors"
	"time"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// RouteClaim names one route a restricted token is allowed to call.
// Recovery tokens carry an allowlist of these.
type RouteClaim struct {
	Route  string `json:"route"`
	Method string `json:"method"`
}

// Claims is the set of identity facts embedded in a session token. The
// registered Subject carries the account id. Claims are immutable once
// issued; a refresh produces a new token, never mutates the old one.
type Claims struct {
	jwt.RegisteredClaims
	UserProfileID string       `json:"userProfileId,omitempty"`
	VerifiedEmail bool         `json:"verifiedEmail,omitempty"`
	IPAddress     string       `json:"ipAddress,omitempty"`
	ValidRoutes   []RouteClaim `json:"validRoutes,omitempty"`
}

// TokenManager signs and verifies session claims with a process-wide secret.
type TokenManager struct {
	secret []byte
}

// NewTokenManager constructs a TokenManager. An empty secret is a
// configuration fault and is rejected so the process fails fast at startup.
func NewTokenManager(secret []byte) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	return &TokenManager{secret: secret}, nil
}

// Issue serializes claims with an expiry of now + ttl and signs them.
// The input is copied; the caller's claims value is not modified.
func (m *TokenManager) Issue(claims Claims, ttl time.Duration) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token. Failures map to exactly one of
// common.ErrMalformedToken, common.ErrInvalidSignature, or
// common.ErrTokenExpired, in that order of precedence; no partial claims
// are returned on failure.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidSignature
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, common.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, common.ErrInvalidSignature
		}
	}
	if !token.Valid {
		return nil, common.ErrInvalidSignature
	}

	return claims, nil
}

// Refresh verifies the old token and issues a new one carrying the same
// subject claims with a fresh expiry of now + ttl. An expired input fails
// with common.ErrTokenExpired and is never silently re-issued.
func (m *TokenManager) Refresh(tokenString string, ttl time.Duration) (string, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return m.Issue(*claims, ttl)
}

// NearExpiry reports whether the token's remaining lifetime is within the
// given window. Tokens that fail verification are reported as near expiry,
// since the caller's remedy is the same either way.
func (m *TokenManager) NearExpiry(tokenString string, window time.Duration) bool {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return time.Until(claims.ExpiresAt.Time) <= window
}
