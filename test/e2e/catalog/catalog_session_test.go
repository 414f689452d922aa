package catalog_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginLogout walks one user through the whole session lifecycle.
func TestRegisterLoginLogout(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()
	ctx := context.Background()

	c, user := registerUser(t, baseURL, "Reader", "reader@bookworm.test")

	me, err := c.LoggedIn(ctx)
	require.NoError(t, err)
	require.Equal(t, user, *me)

	access, refresh := c.Tokens()
	require.NoError(t, c.Logout(ctx))

	// Replay the cookies from before the logout.
	c.AutoRefresh = false
	c.SetTokens(access, refresh)
	_, err = c.LoggedIn(ctx)
	assertUnauthorized(t, err, "access token after logout")
	assertUnauthorized(t, c.Refresh(ctx), "refresh token after logout")

	_, err = c.Login(ctx, authsdk.LoginRequest{Email: "reader@bookworm.test", Password: userPassword})
	require.NoError(t, err)
	_, err = c.LoggedIn(ctx)
	require.NoError(t, err)
}

// TestLoginRevokesOtherDevices checks that a new login ends the sessions of
// every other client of the same user.
func TestLoginRevokesOtherDevices(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()
	ctx := context.Background()

	laptop, _ := registerUser(t, baseURL, "Reader", "reader@bookworm.test")
	laptop.AutoRefresh = false

	phone := newClient(t, baseURL)
	_, err := phone.Login(ctx, authsdk.LoginRequest{Email: "reader@bookworm.test", Password: userPassword})
	require.NoError(t, err)

	_, err = laptop.LoggedIn(ctx)
	assertUnauthorized(t, err, "laptop session after phone login")

	_, err = phone.LoggedIn(ctx)
	require.NoError(t, err)
}

// TestRefreshKeepsClientSignedIn checks the client SDK refreshes a missing
// access token transparently.
func TestRefreshKeepsClientSignedIn(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()
	ctx := context.Background()

	c, _ := registerUser(t, baseURL, "Reader", "reader@bookworm.test")
	oldAccess, refresh := c.Tokens()

	c.SetTokens("", refresh)
	_, err := c.LoggedIn(ctx)
	require.NoError(t, err, "client should refresh and retry")

	newAccess, newRefresh := c.Tokens()
	require.NotEqual(t, oldAccess, newAccess)
	require.NotEqual(t, refresh, newRefresh)
}

// TestProfilePhotoIsServed checks the local media driver serves uploads.
func TestProfilePhotoIsServed(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()

	_, user := registerUser(t, baseURL, "Reader", "reader@bookworm.test")

	// The container advertises its internal address; fetch the same path
	// through the mapped port.
	photo, err := url.Parse(user.Photo)
	require.NoError(t, err)

	resp, err := http.Get(baseURL + photo.Path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "\x89PNG fake image", string(body))
}
