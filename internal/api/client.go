package api

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
	"github.com/sirupsen/logrus"

	"github.com/avela/client-go/internal/apierrors"
)

// defaultTimeout bounds a single attempt of a standard call. Bulk download
// calls override it per request.
const defaultTimeout = 60 * time.Second

// Config carries everything the transport needs. The root package resolves
// environment names and options into one of these.
type Config struct {
	AuthURL  string
	BaseURL  string
	Audience string

	ClientID     string
	ClientSecret string

	Quota  int           // requests allowed per Period
	Period time.Duration // rolling quota window

	Timeout       time.Duration // per-attempt deadline
	TokenMargin   time.Duration
	TokenLifetime time.Duration

	Retry RetryConfig

	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client is the rate-governed, retrying HTTP transport for one environment.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenSource
	pacer      *pacer
	retry      RetryConfig
	timeout    time.Duration
	log        logrus.FieldLogger
}

// New builds the transport from cfg, applying defaults for anything unset.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
		tokens:     newTokenSource(cfg, hc, log),
		pacer:      newPacer(cfg.Quota, cfg.Period, log),
		retry:      retry,
		timeout:    timeout,
		log:        log,
	}
}

// Token returns a currently valid bearer token, refreshing if needed.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Current(ctx)
}

// Authenticate forces a token exchange now, regardless of the cache.
func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.tokens.Refresh(ctx)
	return err
}

// Interval reports the pacing interval between consecutive requests.
func (c *Client) Interval() time.Duration {
	return c.pacer.interval
}

// Do executes one logical call: credential, pacing, attempt, classification,
// and the retry loop around all four. The request body is marshaled once and
// replayed from bytes on every attempt.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	target := c.url(req.Path)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	log := c.log.WithFields(logrus.Fields{
		"call_id": uuid.NewString(),
		"method":  req.Method,
		"path":    req.Path,
	})

	attempt := func(ctx context.Context, attempt int) (*Response, error) {
		token, err := c.tokens.Current(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		hreq, err := http.NewRequestWithContext(attemptCtx, req.Method, target, body)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		hreq.Header.Set("Content-Type", "application/json")
		hreq.Header.Set("Accept", "application/json")
		for key, values := range req.Header {
			if http.CanonicalHeaderKey(key) == "Authorization" {
				// The bearer token is not caller-overridable.
				continue
			}
			hreq.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
		}
		hreq.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(hreq)
		if err != nil {
			return nil, &apierrors.NetworkError{Err: err, URL: target, Attempt: attempt}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &apierrors.NetworkError{Err: err, URL: target, Attempt: attempt}
		}
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
	}

	return c.retry.run(ctx, log, attempt)
}

// url joins path to the base URL. Absolute http(s) paths pass through
// untouched, the original client's convention for pre-resolved URLs.
func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// messageFromBody extracts a human-readable message from an error body.
func messageFromBody(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
