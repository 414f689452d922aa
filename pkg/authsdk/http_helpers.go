package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// request describes one API call. The body is kept as bytes so the call can
// be replayed after a token refresh.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	headers     map[string]string

	// authenticated requests are retried once after a refresh on 401
	authenticated bool
}

// File is an upload for a multipart form field.
type File struct {
	Name    string
	Content io.Reader
}

type formField struct {
	name, value string
}

func jsonRequest(method, path string, v any) (request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return request{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	return request{method: method, path: path, body: body, contentType: "application/json"}, nil
}

// multipartRequest encodes fields and files as multipart/form-data.
func multipartRequest(method, path string, fields []formField, files map[string]File) (request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return request{}, err
		}
	}
	for field, file := range files {
		if file.Content == nil {
			continue
		}
		part, err := mw.CreateFormFile(field, file.Name)
		if err != nil {
			return request{}, err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return request{}, fmt.Errorf("failed to read %s: %w", field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return request{}, err
	}

	return request{method: method, path: path, body: buf.Bytes(), contentType: mw.FormDataContentType()}, nil
}

func (c *Client) do(ctx context.Context, req request) (*http.Response, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.BaseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	for key, value := range req.headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// call performs req and decodes a response with expectedStatus into target.
func (c *Client) call(ctx context.Context, req request, expectedStatus int, target any) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && req.authenticated && c.AutoRefresh {
		_ = resp.Body.Close()
		if err := c.refresh(ctx); err != nil {
			return err
		}
		if resp, err = c.do(ctx, req); err != nil {
			return err
		}
	}

	return decodeJSON(resp, target, expectedStatus)
}

// decodeJSON decodes a JSON response into target, or returns an *APIError
// when the status is not expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		if err := parseErrorResponse(resp, bodyBytes); err != nil {
			return err
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
