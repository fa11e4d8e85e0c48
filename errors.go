package avela

import (
	"errors"
	"fmt"
	"time"

	"github.com/avela/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingClientID is returned when no client ID is provided.
	ErrMissingClientID = errors.New("client ID is required")

	// ErrMissingClientSecret is returned when no client secret is provided.
	ErrMissingClientSecret = errors.New("client secret is required")

	// ErrMissingEnvironment is returned when no environment is provided.
	ErrMissingEnvironment = errors.New("environment is required")

	// ErrAuthFailed is returned when the token exchange fails.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUnauthorized is returned when the API rejects the bearer token.
	ErrUnauthorized = errors.New("invalid or expired credentials")

	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRetryExhausted is returned when the retry budget or attempt cap
	// is spent without a terminal outcome.
	ErrRetryExhausted = errors.New("retry budget exhausted")
)

// AvelaError is implemented by all SDK errors.
type AvelaError interface {
	error
	AvelaError() // marker method
}

// AuthError represents a failed client-credentials exchange: the auth
// endpoint was unreachable, returned a non-2xx status, or sent a body
// without an access token. Authentication failures are never retried.
type AuthError struct {
	StatusCode int // 0 when the exchange never reached the server
	Message    string
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("authentication failed: status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("authentication failed: status %d", e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("authentication failed: %s", e.Message)
	default:
		return fmt.Sprintf("authentication failed: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthFailed
}

// AvelaError implements the AvelaError interface.
func (e *AuthError) AvelaError() {}

// APIError represents an HTTP error status from the Avela API. The response
// body is preserved verbatim for callers that need more than the extracted
// message.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 404:
		return target == ErrNotFound
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// AvelaError implements the AvelaError interface.
func (e *APIError) AvelaError() {}

// NetworkError represents a transport-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AvelaError implements the AvelaError interface.
func (e *NetworkError) AvelaError() {}

// RetryExhaustedError is returned when a call kept failing with retryable
// outcomes until the attempt cap or time budget ran out. It wraps the last
// failure observed, so errors.Is(err, ErrRateLimited) matches a call that
// died rate-limited.
type RetryExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts in %s: %v", e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err)
}

// Unwrap returns the last failure seen before giving up.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// AvelaError implements the AvelaError interface.
func (e *RetryExhaustedError) AvelaError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Exhaustion first: it wraps the last failure, which must be converted
	// too so sentinel matching reaches through Unwrap.
	var exhausted *apierrors.RetryExhaustedError
	if errors.As(err, &exhausted) {
		return &RetryExhaustedError{
			Attempts: exhausted.Attempts,
			Elapsed:  exhausted.Elapsed,
			Err:      wrapError(exhausted.Err),
		}
	}

	var authErr *apierrors.AuthError
	if errors.As(err, &authErr) {
		return &AuthError{
			StatusCode: authErr.StatusCode,
			Message:    authErr.Message,
			Err:        authErr.Err,
		}
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Body:       apiErr.Body,
		}
	}

	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}
