package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Photo    File
}

// Register creates an account and signs the client in.
func (c *Client) Register(ctx context.Context, r RegisterRequest) (*AuthResponse, error) {
	req, err := multipartRequest(http.MethodPost, "/register",
		[]formField{{"name", r.Name}, {"email", r.Email}, {"password", r.Password}},
		map[string]File{"photo": r.Photo},
	)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := c.call(ctx, req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs the client in. Every other session of the user ends.
func (c *Client) Login(ctx context.Context, r LoginRequest) (*AuthResponse, error) {
	req, err := jsonRequest(http.MethodPost, "/login", r)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := c.call(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoggedIn returns the user the session belongs to.
func (c *Client) LoggedIn(ctx context.Context) (*User, error) {
	req := request{method: http.MethodGet, path: "/logged_in", authenticated: true}

	var out UserResponse
	if err := c.call(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Refresh exchanges the refresh cookie for a new pair of tokens.
func (c *Client) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

func (c *Client) refresh(ctx context.Context) error {
	resp, err := c.do(ctx, request{method: http.MethodPost, path: "/refreshToken"})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// Logout ends the session on every device of the user.
func (c *Client) Logout(ctx context.Context) error {
	req := request{method: http.MethodPost, path: "/logout", authenticated: true}
	return c.call(ctx, req, http.StatusOK, nil)
}

// SetRole changes another user's role. Admin only.
func (c *Client) SetRole(ctx context.Context, userID, role string) (*User, error) {
	req, err := jsonRequest(http.MethodPut, "/users/"+url.PathEscape(userID)+"/role", RoleRequest{Role: role})
	if err != nil {
		return nil, err
	}
	req.authenticated = true

	var out UserResponse
	if err := c.call(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
