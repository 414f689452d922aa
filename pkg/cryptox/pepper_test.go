package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withPepperPath points the package at path for one test and restores the
// shared test pepper afterwards.
func withPepperPath(t *testing.T, path string) {
	t.Helper()
	pepperMu.Lock()
	prev := pepperFile
	pepperMu.Unlock()

	SetPepperPath(path)
	t.Cleanup(func() { SetPepperPath(prev) })
}

func TestLoadPepper_GeneratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")
	withPepperPath(t, path)

	require.NoError(t, LoadPepper())
	first := GetPepper()
	assert.GreaterOrEqual(t, len(first), minPepperLen)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh load of the same path reads the stored value back.
	SetPepperPath(path)
	require.NoError(t, LoadPepper())
	assert.Equal(t, first, GetPepper())
}

func TestLoadPepper_ReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  0123456789abcdef0123\n"), 0o600))
	withPepperPath(t, path)

	require.NoError(t, LoadPepper())
	assert.Equal(t, "0123456789abcdef0123", GetPepper())
}

func TestLoadPepper_RejectsShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))
	withPepperPath(t, path)

	err := LoadPepper()
	require.ErrorIs(t, err, ErrPepperTooShort)
}

func TestLoadPepper_RequiresPath(t *testing.T) {
	withPepperPath(t, "")
	require.Error(t, LoadPepper())
}

func TestSetPepperPath_ChangesHashes(t *testing.T) {
	dir := t.TempDir()
	withPepperPath(t, filepath.Join(dir, "a"))

	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("hunter2hunter2", hash))

	SetPepperPath(filepath.Join(dir, "b"))
	require.ErrorIs(t, VerifyPassword("hunter2hunter2", hash), ErrPasswordMismatch)
}
