package authsdk

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Cookie names carrying the session tokens.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Client talks to the catalog API. Its cookie jar holds the session, so
// one Client is one signed-in user.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AutoRefresh retries a request rejected with 401 once after calling
	// POST /refreshToken. Default: true
	AutoRefresh bool

	base *url.URL
}

// NewClient creates a client with an empty cookie jar.
func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		AutoRefresh: true,
		base:        base,
	}, nil
}

// Tokens returns the session tokens currently held in the jar.
func (c *Client) Tokens() (access, refresh string) {
	if c.HTTPClient.Jar == nil {
		return "", ""
	}
	for _, ck := range c.HTTPClient.Jar.Cookies(c.base) {
		switch ck.Name {
		case AccessTokenCookie:
			access = ck.Value
		case RefreshTokenCookie:
			refresh = ck.Value
		}
	}
	return access, refresh
}

// SetTokens replaces the session tokens in the jar. An empty value removes
// that cookie. Useful to resume a stored session or replay an old one.
func (c *Client) SetTokens(access, refresh string) {
	if c.HTTPClient.Jar == nil {
		return
	}
	c.HTTPClient.Jar.SetCookies(c.base, []*http.Cookie{
		tokenCookie(AccessTokenCookie, access),
		tokenCookie(RefreshTokenCookie, refresh),
	})
}

func tokenCookie(name, value string) *http.Cookie {
	ck := &http.Cookie{Name: name, Value: value, Path: "/"}
	if value == "" {
		ck.MaxAge = -1
	}
	return ck
}
