// Package pipapi provides a Go client for the PIP portfolio backend.
//
// The backend exposes read-only JSON list endpoints under /api. Every
// failure of a read is reported as a *FetchError so callers only have one
// condition to handle.
package pipapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is where the backend listens in a local setup.
const DefaultBaseURL = "http://localhost:8000"

// Client handles HTTP requests to the PIP backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.Logger = l
		}
	}
}

// NewClient creates a new API client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path)
}

// GetWithParams performs a GET request to the specified path with query
// parameters. Parameters with an empty value are sent as well; the backend
// reads an empty value as "no filter".
func (c *Client) GetWithParams(ctx context.Context, path string, params map[string]string) (*http.Response, error) {
	if len(params) > 0 {
		query := url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
		path = path + "?" + query.Encode()
	}
	return c.Get(ctx, path)
}

// do performs a single HTTP request.
func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	c.Logger.Debug("api request",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start))
	return resp, nil
}

// Fetch performs one GET against path and decodes the JSON body into
// target. Transport errors, non-2xx statuses and malformed bodies are all
// returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context, path string, params map[string]string, target any) error {
	resp, err := c.GetWithParams(ctx, path, params)
	if err != nil {
		return newFetchError(path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			c.Logger.Warn("backend does not know the requested resource",
				"path", path,
				"account", params[ParamAccount],
				"detail", apiErr.Message)
		}
		return newFetchError(path, err)
	}
	if err := DecodeJSON(resp, target); err != nil {
		return newFetchError(path, err)
	}
	return nil
}

// Get fetches path and decodes the body as a T.
func Get[T any](ctx context.Context, c *Client, path string, params map[string]string) (T, error) {
	var out T
	if err := c.Fetch(ctx, path, params, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
