package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avela/client-go/internal/apierrors"
)

// Token lifecycle defaults. The vendor issues 24h tokens; the client treats
// a token as expired one hour early so a credential handed out is never
// close to its real expiry.
const (
	defaultTokenLifetime = 24 * time.Hour
	defaultTokenMargin   = time.Hour
	authTimeout          = 30 * time.Second
)

// tokenSource acquires and caches the OAuth2 client-credentials token.
// Refresh is lazy: the next caller inside the safety margin performs one
// synchronous exchange under the lock. No background timers.
type tokenSource struct {
	authURL      string
	audience     string
	clientID     string
	clientSecret string

	httpClient *http.Client
	margin     time.Duration
	lifetime   time.Duration // assumed when expires_in is absent
	log        logrus.FieldLogger
	now        func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenSource(cfg Config, hc *http.Client, log logrus.FieldLogger) *tokenSource {
	s := &tokenSource{
		authURL:      cfg.AuthURL,
		audience:     cfg.Audience,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   hc,
		margin:       cfg.TokenMargin,
		lifetime:     cfg.TokenLifetime,
		log:          log,
		now:          time.Now,
	}
	if s.margin <= 0 {
		s.margin = defaultTokenMargin
	}
	if s.lifetime <= 0 {
		s.lifetime = defaultTokenLifetime
	}
	return s
}

// Current returns the cached token while it is still comfortably valid and
// performs an exchange otherwise. Concurrent callers holding an expired
// token share a single exchange.
func (s *tokenSource) Current(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt.Add(-s.margin)) {
		return s.token, nil
	}
	return s.refreshLocked(ctx)
}

// Refresh forces an exchange regardless of the cached token's validity.
func (s *tokenSource) Refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *tokenSource) refreshLocked(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
		"audience":      {s.audience},
	}

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &apierrors.AuthError{Message: "building token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &apierrors.AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apierrors.AuthError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &apierrors.AuthError{StatusCode: resp.StatusCode, Message: messageFromBody(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &apierrors.AuthError{Message: "undecodable token response", Err: err}
	}
	if tr.AccessToken == "" {
		return "", &apierrors.AuthError{Message: "token response missing access_token"}
	}

	lifetime := s.lifetime
	if tr.ExpiresIn > 0 {
		lifetime = time.Duration(tr.ExpiresIn) * time.Second
	}
	s.token = tr.AccessToken
	s.expiresAt = s.now().Add(lifetime)

	s.log.WithField("expires_in", lifetime).Info("access token acquired")

	return s.token, nil
}
