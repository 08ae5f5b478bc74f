// Package apiclient provides an HTTP client for the webcash server API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// DefaultServerURL is the public webcash server.
const DefaultServerURL = "https://webcash.org"

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 10 * time.Second

// API paths.
const (
	PathReplace     = "/api/v1/replace"
	PathHealthCheck = "/api/v1/health_check"
	PathTerms       = "/terms/text"
)

// RequestIDHeader carries a per-request identifier for server-side tracing.
const RequestIDHeader = "X-Request-Id"

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Client talks to a webcash server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a new client targeting the given server URL.
func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, DefaultTimeout)
}

// NewWithTimeout creates a new client with a custom HTTP timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		logger: log.Client,
	}
}

// BaseURL returns the server URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is returned when the server answers with an unexpected status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned an error (status %d): %s", e.StatusCode, e.Body)
}

// Replace asks the server to atomically exchange req.Webcashes for
// req.NewWebcashes. Any 2xx status is success.
func (c *Client) Replace(ctx context.Context, req *webcash.ReplaceRequest) error {
	status, body, err := c.do(ctx, http.MethodPost, PathReplace, req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &APIError{StatusCode: status, Body: string(body)}
	}
	return nil
}

// HealthCheck returns the server status of each public token, keyed by the
// token string as sent.
func (c *Client) HealthCheck(ctx context.Context, publicTokens []string) (map[string]webcash.HealthStatus, error) {
	if publicTokens == nil {
		publicTokens = []string{}
	}
	status, body, err := c.do(ctx, http.MethodPost, PathHealthCheck, publicTokens)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	var resp webcash.HealthCheckResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode health check response: %w", err)
	}
	if resp.Results == nil {
		resp.Results = map[string]webcash.HealthStatus{}
	}
	return resp.Results, nil
}

// Terms fetches the plain-text terms of service.
func (c *Client) Terms(ctx context.Context) (string, error) {
	status, body, err := c.do(ctx, http.MethodGet, PathTerms, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &APIError{StatusCode: status, Body: string(body)}
	}
	return string(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	return resp.StatusCode, body, nil
}
