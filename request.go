package avela

import (
	"net/http"
	"net/url"
	"time"
)

// requestConfig holds per-request configuration.
type requestConfig struct {
	query   url.Values
	header  http.Header
	timeout time.Duration
}

// RequestOption configures a single API call.
type RequestOption func(*requestConfig)

// WithQuery merges values into the request query string. Repeated keys are
// preserved (the API uses repeated parameters for multi-value filters).
func WithQuery(values url.Values) RequestOption {
	return func(c *requestConfig) {
		if c.query == nil {
			c.query = url.Values{}
		}
		for key, vals := range values {
			for _, v := range vals {
				c.query.Add(key, v)
			}
		}
	}
}

// WithQueryValue adds a single query parameter.
func WithQueryValue(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.query == nil {
			c.query = url.Values{}
		}
		c.query.Add(key, value)
	}
}

// WithHeader sets a request header. Caller headers win over the client's
// defaults, except Authorization, which is always the managed token.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.header == nil {
			c.header = http.Header{}
		}
		c.header.Set(key, value)
	}
}

// WithRequestTimeout overrides the per-attempt timeout for this call only.
func WithRequestTimeout(timeout time.Duration) RequestOption {
	return func(c *requestConfig) {
		c.timeout = timeout
	}
}
