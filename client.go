package avela

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avela/client-go/internal/api"
)

// Client is a rate-governed, retrying client for the Avela Customer API.
// It owns a lazily refreshed OAuth2 credential and paces every outbound
// request against the vendor's quota. Any number of Client values may
// coexist; they share nothing.
type Client struct {
	api         *api.Client
	environment Environment
	endpoints   Endpoints

	httpClient      *http.Client
	downloadTimeout time.Duration
	log             logrus.FieldLogger
}

// New creates a client for the given environment and credentials.
//
// No network call happens here; the first API call (or an explicit
// Authenticate) performs the token exchange.
func New(env Environment, clientID, clientSecret string, opts ...Option) (*Client, error) {
	if env == "" {
		return nil, ErrMissingEnvironment
	}
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	if clientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	cfg := &clientConfig{
		retryJitter: -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	endpoints := endpointsFor(env)
	if cfg.authURL != "" {
		endpoints.AuthURL = cfg.authURL
	}
	if cfg.baseURL != "" {
		endpoints.BaseURL = cfg.baseURL
	}
	if cfg.audience != "" {
		endpoints.Audience = cfg.audience
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	log := cfg.logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	retry := api.DefaultRetryConfig()
	if cfg.retryAttempts > 0 {
		retry.MaxAttempts = cfg.retryAttempts
	}
	if cfg.retryBudget > 0 {
		retry.Budget = cfg.retryBudget
	}
	if cfg.retryBaseDelay > 0 {
		retry.BaseDelay = cfg.retryBaseDelay
	}
	if cfg.retryJitter >= 0 {
		retry.Jitter = cfg.retryJitter
	}

	apiClient := api.New(api.Config{
		AuthURL:      endpoints.AuthURL,
		BaseURL:      endpoints.BaseURL,
		Audience:     endpoints.Audience,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Quota:        cfg.quota,
		Period:       cfg.period,
		Timeout:      cfg.timeout,
		TokenMargin:  cfg.tokenMargin,
		Retry:        retry,
		HTTPClient:   httpClient,
		Logger:       log,
	})

	downloadTimeout := cfg.downloadTimeout
	if downloadTimeout <= 0 {
		downloadTimeout = defaultDownloadTimeout
	}

	return &Client{
		api:             apiClient,
		environment:     env,
		endpoints:       endpoints,
		httpClient:      httpClient,
		downloadTimeout: downloadTimeout,
		log:             log,
	}, nil
}

// Environment returns the environment this client was built for.
func (c *Client) Environment() Environment {
	return c.environment
}

// Endpoints returns the resolved endpoint URLs.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Authenticate performs the token exchange now, regardless of cache state.
// Calls authenticate lazily on their own; this exists to fail fast at
// startup with bad credentials.
func (c *Client) Authenticate(ctx context.Context) error {
	return wrapError(c.api.Authenticate(ctx))
}

// Token returns a currently valid bearer token, for callers that build
// requests the client does not cover.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, err := c.api.Token(ctx)
	return token, wrapError(err)
}

// Do executes one API call with the full request pipeline: credential,
// pacing, per-attempt timeout, classification, retries. body is marshaled
// to JSON when non-nil. Paths starting with "/" are joined to the base URL;
// absolute http(s) URLs pass through untouched.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	rc := &requestConfig{}
	for _, opt := range opts {
		opt(rc)
	}

	resp, err := c.api.Do(ctx, &api.Request{
		Method:  method,
		Path:    path,
		Query:   rc.query,
		Header:  rc.header,
		Body:    body,
		Timeout: rc.timeout,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}
