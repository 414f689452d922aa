package httpx

import (
	"net/http"
	"time"
)

// CookiePolicy holds the attributes shared by every session cookie.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
	Domain   string
	Path     string
}

// CookiePolicyFor returns the session cookie policy for an environment.
// Production is served cross-site to the web client, so it needs
// SameSite=None (which browsers only accept together with Secure).
func CookiePolicyFor(env string, secure bool) CookiePolicy {
	p := CookiePolicy{Secure: secure, SameSite: http.SameSiteLaxMode, Path: "/"}
	if env == "prod" {
		p.Secure = true
		p.SameSite = http.SameSiteNoneMode
	}
	return p
}

// SetCookie writes an HttpOnly cookie that expires at expires.
func (p CookiePolicy) SetCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     p.path(),
		Domain:   p.Domain,
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// ExpireCookie tells the browser to drop name immediately.
func (p CookiePolicy) ExpireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     p.path(),
		Domain:   p.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

func (p CookiePolicy) path() string {
	if p.Path == "" {
		return "/"
	}
	return p.Path
}

// CookieValue returns the value of the named cookie, or "" when absent.
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
