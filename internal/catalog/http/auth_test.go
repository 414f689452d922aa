package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestRegister_StartsSession(t *testing.T) {
	srv := newTestServer(t)
	c, user := srv.register(t, "Ada", "Ada@Example.com")

	require.NotEmpty(t, user.ID)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, "user", user.Role)
	require.True(t, strings.HasPrefix(user.Photo, "memory://profile_photo/"))
	require.Equal(t, 1, srv.media.Len())

	access, refresh := c.Tokens()
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	me, err := c.LoggedIn(t.Context())
	require.NoError(t, err)
	require.Equal(t, user, *me)
}

func TestRegister_Rejections(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "Ada", "ada@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := srv.client(t).Register(t.Context(), authsdk.RegisterRequest{
			Name: "Other", Email: "ADA@example.com", Password: testPassword, Photo: png(),
		})
		requireStatus(t, http.StatusConflict, err)
	})

	t.Run("missing photo", func(t *testing.T) {
		_, err := srv.client(t).Register(t.Context(), authsdk.RegisterRequest{
			Name: "Bob", Email: "bob@example.com", Password: testPassword,
		})
		requireStatus(t, http.StatusBadRequest, err)

		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Contains(t, apiErr.Details, "photo")
	})

	t.Run("photo is not an image", func(t *testing.T) {
		_, err := srv.client(t).Register(t.Context(), authsdk.RegisterRequest{
			Name: "Bob", Email: "bob@example.com", Password: testPassword,
			Photo: authsdk.File{Name: "run.exe", Content: strings.NewReader("MZ")},
		})
		requireStatus(t, http.StatusBadRequest, err)
	})

	t.Run("not multipart", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/register", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRegister_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, withMaxUploadBytes(1024))

	_, err := srv.client(t).Register(t.Context(), authsdk.RegisterRequest{
		Name: "Big", Email: "big@example.com", Password: testPassword,
		Photo: authsdk.File{Name: "big.png", Content: strings.NewReader(strings.Repeat("x", 4096))},
	})
	requireStatus(t, http.StatusRequestEntityTooLarge, err)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "Ada", "ada@example.com")

	t.Run("wrong password", func(t *testing.T) {
		_, err := srv.client(t).Login(t.Context(), authsdk.LoginRequest{Email: "ada@example.com", Password: "nope"})
		requireStatus(t, http.StatusUnauthorized, err)

		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, authsdk.ErrorCodeInvalidCredentials, apiErr.Code)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		_, err := srv.client(t).Login(t.Context(), authsdk.LoginRequest{Email: "who@example.com", Password: "nope"})
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, authsdk.ErrorCodeInvalidCredentials, apiErr.Code)
	})

	t.Run("success", func(t *testing.T) {
		c := srv.client(t)
		resp, err := c.Login(t.Context(), authsdk.LoginRequest{Email: "ada@example.com", Password: testPassword})
		require.NoError(t, err)
		require.Equal(t, "Login successful", resp.Message)

		_, err = c.LoggedIn(t.Context())
		require.NoError(t, err)
	})
}

func TestLogin_EndsOtherSessions(t *testing.T) {
	srv := newTestServer(t)
	first, _ := srv.register(t, "Ada", "ada@example.com")

	second := srv.client(t)
	_, err := second.Login(t.Context(), authsdk.LoginRequest{Email: "ada@example.com", Password: testPassword})
	require.NoError(t, err)

	_, err = first.LoggedIn(t.Context())
	requireStatus(t, http.StatusUnauthorized, err)
	require.Error(t, first.Refresh(t.Context()))

	_, err = second.LoggedIn(t.Context())
	require.NoError(t, err)
}

func TestLogout_RevokesTokens(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.register(t, "Ada", "ada@example.com")
	access, refresh := c.Tokens()

	require.NoError(t, c.Logout(t.Context()))

	gotAccess, gotRefresh := c.Tokens()
	require.Empty(t, gotAccess, "logout expires the access cookie")
	require.Empty(t, gotRefresh, "logout expires the refresh cookie")

	// Replaying the old cookies fails: the secrets they were signed with
	// are gone.
	c.SetTokens(access, refresh)
	_, err := c.LoggedIn(t.Context())
	requireStatus(t, http.StatusUnauthorized, err)
	requireStatus(t, http.StatusUnauthorized, c.Refresh(t.Context()))
	requireStatus(t, http.StatusUnauthorized, c.Logout(t.Context()))
}

func TestRefresh(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.register(t, "Ada", "ada@example.com")
	oldAccess, oldRefresh := c.Tokens()

	require.NoError(t, c.Refresh(t.Context()))

	newAccess, newRefresh := c.Tokens()
	require.NotEqual(t, oldAccess, newAccess)
	require.NotEqual(t, oldRefresh, newRefresh)

	_, err := c.LoggedIn(t.Context())
	require.NoError(t, err)

	stale := srv.client(t)
	stale.SetTokens(oldAccess, oldRefresh)
	_, err = stale.LoggedIn(t.Context())
	requireStatus(t, http.StatusUnauthorized, err)
	requireStatus(t, http.StatusUnauthorized, stale.Refresh(t.Context()))
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.register(t, "Ada", "ada@example.com")
	access, refresh := c.Tokens()

	swapped := srv.client(t)
	swapped.SetTokens(refresh, access)

	_, err := swapped.LoggedIn(t.Context())
	requireStatus(t, http.StatusUnauthorized, err)
	requireStatus(t, http.StatusUnauthorized, swapped.Refresh(t.Context()))

	// The real session survives the failed attempts.
	_, err = c.LoggedIn(t.Context())
	require.NoError(t, err)
}

func TestAutoRefresh(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.register(t, "Ada", "ada@example.com")
	_, refresh := c.Tokens()

	c.AutoRefresh = true
	c.SetTokens("", refresh)

	me, err := c.LoggedIn(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", me.Email)

	access, _ := c.Tokens()
	require.NotEmpty(t, access)
}

func TestSessionFailures_ShareOneBody(t *testing.T) {
	srv := newTestServer(t)
	c, _ := srv.register(t, "Ada", "ada@example.com")
	access, _ := c.Tokens()

	cases := map[string]string{
		"no cookie":    "",
		"garbage":      "not-a-jwt",
		"tampered":     access[:len(access)-2] + "xx",
		"unknown user": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJpZCI6IjAxSFpaWlpaWlpaWlpaWlpaWlpaWlpaWloiLCJleHAiOjQxMDI0NDQ4MDB9.c2ln",
	}

	var bodies []authsdk.ErrorResponse
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/logged_in", nil)
			require.NoError(t, err)
			if token != "" {
				req.AddCookie(&http.Cookie{Name: authsdk.AccessTokenCookie, Value: token})
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body authsdk.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			bodies = append(bodies, body)
		})
	}

	for _, b := range bodies {
		require.Equal(t, authsdk.ErrorResponse{
			Error:            authsdk.ErrorCodeUnauthorized,
			ErrorDescription: authsdk.ErrUnauthorized.Description,
		}, b)
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "Ada", "ada@example.com")

	resp, err := http.Post(srv.URL+"/login", "application/json",
		strings.NewReader(`{"email":"ada@example.com","password":"`+testPassword+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := map[string]*http.Cookie{}
	for _, ck := range resp.Cookies() {
		cookies[ck.Name] = ck
	}

	access := cookies[authsdk.AccessTokenCookie]
	refresh := cookies[authsdk.RefreshTokenCookie]
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	for _, ck := range []*http.Cookie{access, refresh} {
		require.True(t, ck.HttpOnly, ck.Name)
		require.Equal(t, "/", ck.Path, ck.Name)
		require.Equal(t, http.SameSiteLaxMode, ck.SameSite, ck.Name)
	}

	require.InDelta(t, (50 * time.Minute).Seconds(), float64(access.MaxAge), 5)
	require.InDelta(t, (20 * 24 * time.Hour).Seconds(), float64(refresh.MaxAge), 5)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}
