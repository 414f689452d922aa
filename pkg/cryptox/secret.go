package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SecretSize is the number of random bytes behind a per-user signing secret.
const SecretSize = 32

// GenerateSecret returns SecretSize random bytes hex-encoded (64 chars). These
// are the per-user HMAC keys; they never leave the user directory.
func GenerateSecret() (string, error) {
	buf := make([]byte, SecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
