package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the session cookies.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 50 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 20 * 24 * time.Hour
)

// Claims are the session token claims. The only custom field is the user
// id, carried as "id" to stay compatible with tokens minted by the previous
// Node service.
type Claims struct {
	jwt.RegisteredClaims

	// UserID identifies the user record whose secrets signed this token.
	UserID string `json:"id"`
}

// NewClaims builds claims for userID expiring ttl after now.
func NewClaims(userID string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
}

// Expiry returns the exp claim or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ValidateExpiry fails with ErrExpired once exp is reached and with
// ErrNotYetValid before nbf. Missing claims are not checked.
func (c *Claims) ValidateExpiry() error {
	now := time.Now()
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
