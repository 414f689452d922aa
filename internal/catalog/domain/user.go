package domain

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/bookworm/pkg/cryptox"
)

type User struct {
	ID           string
	Name         string
	Email        string // unique, stored lower-cased
	PasswordHash string // argon2 encoded, or bcrypt for imported accounts
	Role         Role
	Photo        string // media URL
	Credentials  Credentials
	CreatedAt    time.Time
}

// Credentials are the per-user HMAC keys that sign and verify the user's
// session tokens. Replacing them invalidates every outstanding token of the
// user in one write.
type Credentials struct {
	AccessSecret  string
	RefreshSecret string
}

// NewCredentials generates a fresh, independent pair of secrets.
func NewCredentials() (Credentials, error) {
	access, err := cryptox.GenerateSecret()
	if err != nil {
		return Credentials{}, fmt.Errorf("access secret: %w", err)
	}
	refresh, err := cryptox.GenerateSecret()
	if err != nil {
		return Credentials{}, fmt.Errorf("refresh secret: %w", err)
	}
	return Credentials{AccessSecret: access, RefreshSecret: refresh}, nil
}

// IsZero reports whether either secret is missing.
func (c Credentials) IsZero() bool {
	return c.AccessSecret == "" || c.RefreshSecret == ""
}

// SecretFor returns the secret that signs tokens of the given kind.
func (c Credentials) SecretFor(kind TokenKind) string {
	if kind == RefreshToken {
		return c.RefreshSecret
	}
	return c.AccessSecret
}
