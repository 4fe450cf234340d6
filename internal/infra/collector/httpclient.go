// Package collector provides the per-source-type collection implementations.
// Each collector handles its own retries and circuit breaking and converts
// every internal failure into an outcome; errors never escape the
// collector boundary.
package collector

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"daily-brief/internal/resilience/apperr"
)

// ClientConfig holds the configuration for the shared outbound HTTP client.
type ClientConfig struct {
	// Timeout is the per-request budget.
	Timeout time.Duration

	// MaxBodySize caps the response body read, in bytes.
	MaxBodySize int64

	// RequestsPerSecond throttles outbound requests across all sources
	// sharing this client.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int

	// UserAgent identifies the collector to remote servers.
	UserAgent string
}

// DefaultClientConfig returns production defaults for outbound fetching.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:           15 * time.Second,
		MaxBodySize:       10 << 20, // 10MB
		RequestsPerSecond: 2,
		Burst:             4,
		UserAgent:         "daily-brief-bot/1.0",
	}
}

// Client is the shared HTTP client used by collectors. It rate-limits
// outbound requests and classifies transport and status failures into the
// application error taxonomy.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	maxBody   int64
	userAgent string
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxBody:   cfg.MaxBodySize,
		userAgent: cfg.UserAgent,
	}
}

// HTTPClient exposes the underlying client for libraries that take their own
// *http.Client, such as the feed parser. Callers still go through Wait for
// rate limiting.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Wait blocks until the rate limiter admits one request or the context ends.
func (c *Client) Wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.RateLimit("rate limit wait", err)
	}
	return nil
}

// GetHTML fetches a page, enforcing the rate limit and body size cap.
// It returns the body and the final URL after redirects. Failures are
// classified: transport errors and 503/504 as retryable, other HTTP errors
// per the taxonomy.
func (c *Client) GetHTML(ctx context.Context, urlStr string) ([]byte, *url.URL, error) {
	const op = "fetch page"

	if err := c.Wait(ctx); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, nil, apperr.Validation(op, fmt.Errorf("invalid url %q: %w", urlStr, err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, apperr.Network(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, apperr.FromHTTPStatus(op, resp.StatusCode, resp.Status)
	}

	limited := io.LimitReader(resp.Body, c.maxBody+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, nil, apperr.Network(op, fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > c.maxBody {
		return nil, nil, apperr.Validation(op,
			fmt.Errorf("response exceeds %d byte limit", c.maxBody))
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}
	return body, finalURL, nil
}
