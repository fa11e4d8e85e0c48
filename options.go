package avela

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultDownloadTimeout = 300 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	authURL  string
	baseURL  string
	audience string

	httpClient *http.Client
	logger     logrus.FieldLogger

	quota  int
	period time.Duration

	timeout         time.Duration
	downloadTimeout time.Duration
	tokenMargin     time.Duration

	retryAttempts  int
	retryBudget    time.Duration
	retryBaseDelay time.Duration
	retryJitter    float64 // negative means unset
}

// Option configures the client.
type Option func(*clientConfig)

// WithAuthURL overrides the resolved OAuth2 token endpoint.
func WithAuthURL(url string) Option {
	return func(c *clientConfig) {
		c.authURL = url
	}
}

// WithBaseURL overrides the resolved API base URL. Useful for prod
// deployments that drop the environment prefix, and for tests.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAudience overrides the resolved OAuth2 audience.
func WithAudience(audience string) Option {
	return func(c *clientConfig) {
		c.audience = audience
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger. The default logger discards everything;
// install one to see token refreshes, pacing waits, and retry decisions.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRateQuota sets the request quota the client paces itself against.
// The minimum spacing between requests becomes (period/requests) plus a
// 10% buffer. Default: 100 requests per 300s, the vendor's WAF limit.
func WithRateQuota(requests int, period time.Duration) Option {
	return func(c *clientConfig) {
		c.quota = requests
		c.period = period
	}
}

// WithTimeout sets the per-attempt timeout for standard API calls.
// Default: 60 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithDownloadTimeout sets the timeout for pre-signed file downloads.
// Default: 300 seconds.
func WithDownloadTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.downloadTimeout = timeout
	}
}

// WithTokenMargin sets the safety margin before token expiry at which the
// client refreshes. Default: 1 hour.
func WithTokenMargin(margin time.Duration) Option {
	return func(c *clientConfig) {
		c.tokenMargin = margin
	}
}

// WithRetries sets the maximum number of attempts per call. Default: 5.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retryAttempts = count
	}
}

// WithRetryBudget sets the cumulative time budget for one call including
// all waits. Default: 300 seconds.
func WithRetryBudget(budget time.Duration) Option {
	return func(c *clientConfig) {
		c.retryBudget = budget
	}
}

// WithRetryBaseDelay sets the first backoff delay; subsequent delays double.
// Default: 1 second.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(c *clientConfig) {
		c.retryBaseDelay = delay
	}
}

// WithRetryJitter sets the jitter fraction applied to backoff delays,
// in [0, 1). Default: 0.2.
func WithRetryJitter(factor float64) Option {
	return func(c *clientConfig) {
		c.retryJitter = factor
	}
}
