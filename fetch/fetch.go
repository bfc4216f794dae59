// Package fetch retrieves remote section and XML resources over HTTP(S),
// for refreshing captured tables or pulling shared fixtures from a mux
// monitoring endpoint.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/siwire/siwire/errs"
	"github.com/siwire/siwire/report"
)

// DefaultTimeout bounds a single request attempt.
const DefaultTimeout = 30 * time.Second

// RetryPolicy bounds the attempts made against one host. Attempts counts the
// total tries, not the retries; a policy of one attempt never retries.
type RetryPolicy struct {
	Attempts int
	Interval time.Duration
}

var defaultRetryPolicy = RetryPolicy{Attempts: 3, Interval: 2 * time.Second}

// Client downloads resources with per-host retry policies.
type Client struct {
	http         *resty.Client
	reporter     report.Reporter
	defaultRetry RetryPolicy
	hostRetry    map[string]RetryPolicy
}

// Option configures a Client at creation time.
type Option func(*Client)

// WithTimeout bounds each request attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithProxy routes requests through an HTTP proxy.
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		c.http.SetProxy(proxyURL)
	}
}

// WithRetryPolicy overrides the retry policy for one host.
func WithRetryPolicy(host string, policy RetryPolicy) Option {
	return func(c *Client) {
		c.hostRetry[host] = policy
	}
}

// WithDefaultRetryPolicy overrides the retry policy used for hosts without a
// specific one.
func WithDefaultRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.defaultRetry = policy
	}
}

// WithReporter directs fetch diagnostics to r.
func WithReporter(r report.Reporter) Option {
	return func(c *Client) {
		c.reporter = r
	}
}

// NewClient creates a Client with the default timeout and retry policy.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:         resty.New().SetTimeout(DefaultTimeout),
		reporter:     report.Null(),
		defaultRetry: defaultRetryPolicy,
		hostRetry:    map[string]RetryPolicy{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) policyFor(rawURL string) RetryPolicy {
	policy := c.defaultRetry
	if u, err := url.Parse(rawURL); err == nil {
		if p, ok := c.hostRetry[u.Hostname()]; ok {
			policy = p
		}
	}
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	return policy
}

// FetchBytes downloads a resource into memory. Attempts are bounded by the
// host's retry policy; a 404 is reported as errs.ErrResourceNotFound and
// never retried.
func (c *Client) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	policy := c.policyFor(rawURL)

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if attempt > 1 {
			c.reporter.Debug("retrying %s (attempt %d of %d)", rawURL, attempt, policy.Attempts)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetching %s: %w", rawURL, ctx.Err())
			case <-time.After(policy.Interval):
			}
		}

		resp, err := c.http.R().SetContext(ctx).Get(rawURL)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode() == 404:
			return nil, fmt.Errorf("fetching %s: %w", rawURL, errs.ErrResourceNotFound)
		case resp.IsSuccess():
			return resp.Body(), nil
		default:
			lastErr = fmt.Errorf("status %s", resp.Status())
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetching %s: %w", rawURL, ctx.Err())
		}
	}

	return nil, fmt.Errorf("fetching %s after %d attempts: %w", rawURL, policy.Attempts, lastErr)
}

// Fetch downloads a resource into a local file.
func (c *Client) Fetch(ctx context.Context, rawURL, localPath string) error {
	data, err := c.FetchBytes(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", localPath, err)
	}

	c.reporter.Debug("fetched %s to %s (%d bytes)", rawURL, localPath, len(data))

	return nil
}
