// Package resource is the HTTP client for the tracker's REST resources.
package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client performs JSON requests against the backend base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	retry      common.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetry enables retrying idempotent reads.
func WithRetry(opts common.RetryOptions) Option {
	return func(c *Client) {
		c.retry = opts
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
		retry:      common.RetryOptions{MaxAttempts: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do sends a request and decodes the JSON response into out (which may be nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
	}

	send := func() error {
		return c.send(ctx, method, path, payload, out)
	}
	if method != http.MethodGet {
		return send()
	}
	return common.WithRetry(ctx, send, c.retry)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With("request_id", requestID, "method", method, "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Request failed", "error", err)
		return &common.RetryableError{
			Err:       &CommunicationError{Method: method, Path: path, Err: err},
			Retryable: ctx.Err() == nil,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &CommunicationError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	logger.Debug("Request completed", "status", resp.StatusCode, "latency", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)

	case resp.StatusCode == http.StatusUnprocessableEntity:
		var verr ValidationError
		if err := json.Unmarshal(data, &verr); err != nil {
			return &CommunicationError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed validation response: %w", err)}
		}
		return &verr

	case resp.StatusCode >= 500:
		return &common.RetryableError{
			Err:       &CommunicationError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: errors.New(statusText(resp.StatusCode, data))},
			Retryable: true,
		}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &CommunicationError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: errors.New(statusText(resp.StatusCode, data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &CommunicationError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// maxStatusText bounds the response body quoted in errors, in runes.
const maxStatusText = 200

func statusText(code int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if runes := []rune(text); len(runes) > maxStatusText {
		text = string(runes[:maxStatusText])
	}
	if text == "" {
		return http.StatusText(code)
	}
	return text
}
