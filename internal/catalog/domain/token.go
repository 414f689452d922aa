package domain

import "time"

// TokenKind selects which of a user's secrets a token is bound to.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// CookieName is the cookie that transports tokens of this kind.
func (k TokenKind) CookieName() string {
	if k == RefreshToken {
		return "refreshToken"
	}
	return "accessToken"
}

// TokenPair is what login, register and refresh hand back to the transport.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
