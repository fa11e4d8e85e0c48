package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avela/client-go/internal/apierrors"
)

func newTestTokenSource(t *testing.T, handler http.HandlerFunc) (*tokenSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := newTokenSource(Config{
		AuthURL:      srv.URL,
		Audience:     "https://qa.api.apply.avela.org/v1/graphql",
		ClientID:     "test-client",
		ClientSecret: "test-secret",
	}, srv.Client(), testLogger())
	return s, srv
}

func TestTokenSource_Exchange(t *testing.T) {
	var calls int32
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form-urlencoded", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}
		if got := r.PostForm.Get("client_id"); got != "test-client" {
			t.Errorf("client_id = %q, want test-client", got)
		}
		if got := r.PostForm.Get("client_secret"); got != "test-secret" {
			t.Errorf("client_secret = %q, want test-secret", got)
		}
		if got := r.PostForm.Get("audience"); got != "https://qa.api.apply.avela.org/v1/graphql" {
			t.Errorf("audience = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":86400}`))
	})

	tok, err := s.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if tok != "tok-1" {
		t.Errorf("token = %q, want tok-1", tok)
	}

	// Second call is served from cache.
	if _, err := s.Current(context.Background()); err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("auth endpoint calls = %d, want 1", n)
	}
}

func TestTokenSource_RefreshForcesExchange(t *testing.T) {
	var calls int32
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"access_token":"tok","expires_in":86400}`))
	})

	if _, err := s.Current(context.Background()); err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("auth endpoint calls = %d, want 2", n)
	}
}

func TestTokenSource_SafetyMargin(t *testing.T) {
	var calls int32
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"access_token":"tok","expires_in":7200}`))
	})

	base := time.Now()
	current := base
	s.now = func() time.Time { return current }

	if _, err := s.Current(context.Background()); err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	// 59 minutes in: the 2h token is still outside the 1h margin.
	current = base.Add(59 * time.Minute)
	if _, err := s.Current(context.Background()); err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("auth endpoint calls = %d, want 1 (token still fresh)", n)
	}

	// 61 minutes in: inside the margin, exactly one refresh happens.
	current = base.Add(61 * time.Minute)
	if _, err := s.Current(context.Background()); err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("auth endpoint calls = %d, want 2", n)
	}
}

func TestTokenSource_DefaultLifetime(t *testing.T) {
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok"}`)) // no expires_in
	})

	base := time.Now()
	s.now = func() time.Time { return base }

	if _, err := s.Current(context.Background()); err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if want := base.Add(24 * time.Hour); !s.expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v (24h default lifetime)", s.expiresAt, want)
	}
}

func TestTokenSource_MissingAccessToken(t *testing.T) {
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":3600}`))
	})

	_, err := s.Current(context.Background())
	if !errors.Is(err, apierrors.ErrAuthFailed) {
		t.Fatalf("Current() error = %v, want ErrAuthFailed match", err)
	}
	var authErr *apierrors.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Current() error = %T, want *apierrors.AuthError", err)
	}
	if authErr.Message != "token response missing access_token" {
		t.Errorf("Message = %q", authErr.Message)
	}
}

func TestTokenSource_RejectedExchange(t *testing.T) {
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"access_denied"}`))
	})

	_, err := s.Current(context.Background())
	var authErr *apierrors.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Current() error = %T, want *apierrors.AuthError", err)
	}
	if authErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", authErr.StatusCode)
	}
	if authErr.Message != "access_denied" {
		t.Errorf("Message = %q, want access_denied", authErr.Message)
	}
}

func TestTokenSource_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	hc := srv.Client()
	srv.Close() // connection refused from here on

	s := newTokenSource(Config{
		AuthURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	}, hc, testLogger())

	_, err := s.Current(context.Background())
	if !errors.Is(err, apierrors.ErrAuthFailed) {
		t.Fatalf("Current() error = %v, want ErrAuthFailed match", err)
	}
}

func TestTokenSource_UndecodableBody(t *testing.T) {
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := s.Current(context.Background())
	if !errors.Is(err, apierrors.ErrAuthFailed) {
		t.Fatalf("Current() error = %v, want ErrAuthFailed match", err)
	}
}

func TestTokenSource_ConcurrentRefreshSingleFlight(t *testing.T) {
	var calls int32
	s, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond) // widen the race window
		w.Write([]byte(`{"access_token":"tok","expires_in":86400}`))
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Current(context.Background()); err != nil {
				t.Errorf("Current() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("auth endpoint calls = %d, want 1 (single flight)", n)
	}
}
