package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Sign serialises claims as an HS256 JWT keyed with secret. Every user
// carries their own secrets, so there is no shared signer to hold on to.
func Sign(claims Claims, secret string) (string, error) {
	if claims.UserID == "" {
		return "", ErrMissingSubject
	}
	if secret == "" {
		return "", ErrMissingSecret
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}
