package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

var passwords = []struct {
	name     string
	password string
}{
	{"simple", "password123"},
	{"symbols", "P@ssw0rd!#$%^&*()"},
	{"long", strings.Repeat("a", 100)},
	{"empty", ""},
	{"unicode", "пароль🔒密码"},
	{"whitespace", "   spaces   "},
}

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, tt := range passwords {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Equal(t, "m=19456,t=2,p=1", parts[3])
			require.NotEmpty(t, parts[4])
			require.NotEmpty(t, parts[5])

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.False(t, NeedsRehash(hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := HashPassword("samepassword")
	require.NoError(t, err)
	b, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, VerifyPassword("samepassword", a))
	require.NoError(t, VerifyPassword("samepassword", b))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"correct-passwor",
		"",
		strings.Repeat("x", 10000),
	} {
		require.ErrorIs(t, VerifyPassword(wrong, hash), ErrPasswordMismatch, "password %q", wrong)
	}
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, IsLegacyHash(string(hash)))
	require.True(t, NeedsRehash(string(hash)))

	require.NoError(t, VerifyPassword("hunter22", string(hash)))
	require.ErrorIs(t, VerifyPassword("hunter23", string(hash)), ErrPasswordMismatch)
}

func TestIsLegacyHash(t *testing.T) {
	argon, err := HashPassword("x")
	require.NoError(t, err)

	require.False(t, IsLegacyHash(argon))
	require.False(t, IsLegacyHash(""))
	require.True(t, IsLegacyHash("$2a$10$abcdefghijklmnopqrstuv"))
	require.True(t, IsLegacyHash("$2b$10$abcdefghijklmnopqrstuv"))
	require.True(t, IsLegacyHash("$2y$10$abcdefghijklmnopqrstuv"))
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	for name, hash := range map[string]string{
		"empty":           "",
		"wrong algorithm": "$scrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"missing parts":   "$argon2id$v=19$m=19456",
		"bad parameters":  "$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"zero iterations": "$argon2id$v=19$m=19456,t=0,p=1$c2FsdA$aGFzaA",
		"bad salt":        "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"bad hash":        "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
		"wrong version":   "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"missing version": "$argon2id$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, VerifyPassword("test-password", hash), ErrInvalidHash)
			require.True(t, NeedsRehash(hash))
		})
	}

	// Truncated bcrypt fails inside bcrypt itself.
	require.Error(t, VerifyPassword("test-password", "$2a$10$short"))
}

func TestNeedsRehash_OlderParameters(t *testing.T) {
	require.True(t, NeedsRehash("$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"))
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		p, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, p, 12)
		for _, c := range p {
			require.True(t, (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'))
		}
		seen[p] = struct{}{}
	}
	require.Len(t, seen, 50)

	p, err := GeneratePassword()
	require.NoError(t, err)
	hash, err := HashPassword(p)
	require.NoError(t, err)
	require.NoError(t, VerifyPassword(p, hash))
}
