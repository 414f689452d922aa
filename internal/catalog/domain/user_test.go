package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/stretchr/testify/require"
)

func TestNewCredentials(t *testing.T) {
	c, err := domain.NewCredentials()
	require.NoError(t, err)
	require.False(t, c.IsZero())
	require.Len(t, c.AccessSecret, 64)
	require.Len(t, c.RefreshSecret, 64)
	require.NotEqual(t, c.AccessSecret, c.RefreshSecret)

	again, err := domain.NewCredentials()
	require.NoError(t, err)
	require.NotEqual(t, c, again)
}

func TestCredentials_SecretFor(t *testing.T) {
	c := domain.Credentials{AccessSecret: "a", RefreshSecret: "r"}
	require.Equal(t, "a", c.SecretFor(domain.AccessToken))
	require.Equal(t, "r", c.SecretFor(domain.RefreshToken))
	require.True(t, domain.Credentials{AccessSecret: "a"}.IsZero())
}

func TestTokenKind(t *testing.T) {
	require.Equal(t, "accessToken", domain.AccessToken.CookieName())
	require.Equal(t, "refreshToken", domain.RefreshToken.CookieName())
	require.Equal(t, "refresh", domain.RefreshToken.String())
}

func TestRole_Valid(t *testing.T) {
	require.True(t, domain.RoleUser.Valid())
	require.True(t, domain.RoleAdmin.Valid())
	require.False(t, domain.Role("root").Valid())
}
