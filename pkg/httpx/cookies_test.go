package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestCookiePolicyFor(t *testing.T) {
	t.Run("prod is cross-site", func(t *testing.T) {
		p := httpx.CookiePolicyFor("prod", false)
		require.True(t, p.Secure)
		require.Equal(t, http.SameSiteNoneMode, p.SameSite)
	})

	t.Run("dev is lax", func(t *testing.T) {
		p := httpx.CookiePolicyFor("dev", false)
		require.False(t, p.Secure)
		require.Equal(t, http.SameSiteLaxMode, p.SameSite)
	})
}

func TestCookiePolicy_SetAndExpire(t *testing.T) {
	p := httpx.CookiePolicyFor("dev", true)
	exp := time.Now().Add(50 * time.Minute)

	rec := httptest.NewRecorder()
	p.SetCookie(rec, "accessToken", "abc", exp)
	p.ExpireCookie(rec, "refreshToken")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	set := cookies[0]
	require.Equal(t, "accessToken", set.Name)
	require.Equal(t, "abc", set.Value)
	require.True(t, set.HttpOnly)
	require.True(t, set.Secure)
	require.Equal(t, "/", set.Path)
	require.InDelta(t, 50*60, set.MaxAge, 2)

	cleared := cookies[1]
	require.Equal(t, "refreshToken", cleared.Name)
	require.Empty(t, cleared.Value)
	require.Equal(t, -1, cleared.MaxAge)
}

func TestCookieValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "", httpx.CookieValue(req, "accessToken"))

	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok"})
	require.Equal(t, "tok", httpx.CookieValue(req, "accessToken"))
}
