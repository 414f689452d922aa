package authsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/livez"}, http.StatusOK, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service and its dependencies are ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/readyz"}, http.StatusOK, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
