package authsdk

import (
	"context"
	"net/http"
)

// Bootstrap creates the first admin user. It fails once an admin exists.
func (c *Client) Bootstrap(ctx context.Context, token string, r BootstrapRequest) (*BootstrapResponse, error) {
	req, err := jsonRequest(http.MethodPost, "/bootstrap", r)
	if err != nil {
		return nil, err
	}
	req.headers = map[string]string{"X-Bootstrap-Token": token}

	var out BootstrapResponse
	if err := c.call(ctx, req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
