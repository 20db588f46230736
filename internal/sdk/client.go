// Package sdk implements the storefront REST API client: a thin JSON
// HTTP client with a typed error taxonomy, bearer-token attachment
// from a session token store, and the product/auth/cart services built
// on top of it.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/closetlabs/storefront/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Client is the storefront API HTTP client. Requests carry a bearer
// token when one is present in the token store, and are bounded by a
// per-request timeout. Requests are never retried automatically.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenStore sets the session token store consulted on every request.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) {
		c.tokens = s
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestConfig carries optional per-request settings.
type RequestConfig struct {
	Params  url.Values
	Headers map[string]string
	Timeout time.Duration
}

// Get performs a GET request and decodes the JSON response into dst.
func (c *Client) Get(ctx context.Context, path string, cfg *RequestConfig, dst any) error {
	return c.do(ctx, http.MethodGet, path, nil, cfg, dst)
}

// Post performs a POST request with a JSON body and decodes the response into dst.
func (c *Client) Post(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, http.MethodPost, path, body, nil, dst)
}

// Put performs a PUT request with a JSON body and decodes the response into dst.
func (c *Client) Put(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, http.MethodPut, path, body, nil, dst)
}

// Delete performs a DELETE request and decodes the response into dst.
func (c *Client) Delete(ctx context.Context, path string, dst any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, dst)
}

// IsAuthenticated reports whether a bearer token is currently stored.
func (c *Client) IsAuthenticated() bool {
	return accessToken(c.tokens) != ""
}

func (c *Client) do(ctx context.Context, method, path string, body any, cfg *RequestConfig, dst any) error {
	fullURL := c.baseURL + path
	if cfg != nil && len(cfg.Params) > 0 {
		fullURL += "?" + cfg.Params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	timeout := c.timeout
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := accessToken(c.tokens); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cfg != nil {
		for k, v := range cfg.Headers {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransport(err)
		c.observe(method, path, 0, start)
		metrics.APIErrorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		c.log.Debug("request failed",
			"method", method, "path", path, "kind", apiErr.Kind, "err", err)
		return fmt.Errorf("%s %s: %w", method, path, apiErr)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	c.observe(method, path, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classifyStatus(resp.StatusCode, respBody)
		metrics.APIErrorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		return fmt.Errorf("%s %s: %w", method, path, apiErr)
	}

	if dst != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func (c *Client) observe(method, path string, status int, start time.Time) {
	label := strconv.Itoa(status)
	metrics.APIRequestsTotal.WithLabelValues(method, path, label).Inc()
	metrics.APIRequestDuration.WithLabelValues(method, path, label).
		Observe(time.Since(start).Seconds())
}

// envelope is the response wrapper used by most storefront endpoints.
type envelope[T any] struct {
	Data       T      `json:"data"`
	Message    string `json:"message,omitempty"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
}
