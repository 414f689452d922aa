package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed      = errors.New("jwtx: malformed token")
	ErrAlgMismatch    = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig     = errors.New("jwtx: invalid signature")
	ErrMissingSubject = errors.New("jwtx: missing user id claim")
	ErrMissingSecret  = errors.New("jwtx: missing signing secret")

	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

var hs256 = []string{jwt.SigningMethodHS256.Alg()}

// DecodeUnverified reads the claims of token WITHOUT checking its
// signature. The result only tells the caller whose secret to verify with;
// nothing in it may be trusted until Verify succeeds.
func DecodeUnverified(token string) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(jwt.WithValidMethods(hs256))
	parsed, _, err := parser.ParseUnverified(token, &claims)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if parsed.Method == nil || parsed.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return Claims{}, ErrAlgMismatch
	}
	if claims.UserID == "" {
		return Claims{}, ErrMissingSubject
	}

	return claims, nil
}

// Verify checks the HS256 signature of token against secret and validates
// its time claims. Failures are reduced to ErrExpired, ErrInvalidSig or
// ErrMalformed.
func Verify(token, secret string) (Claims, error) {
	if secret == "" {
		return Claims{}, ErrMissingSecret
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods(hs256),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Claims{}, ErrNotYetValid
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if !parsed.Valid || claims.UserID == "" {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
