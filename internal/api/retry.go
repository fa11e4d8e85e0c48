package api

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avela/client-go/internal/apierrors"
)

// RetryConfig bounds the retry loop for failed attempts.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Budget caps the cumulative time spent on one logical call, measured
	// from the start of the first attempt.
	Budget time.Duration
	// BaseDelay is the backoff delay after the first failed attempt; each
	// further failure doubles it.
	BaseDelay time.Duration
	// MaxDelay caps a single backoff delay.
	MaxDelay time.Duration
	// Jitter is the randomization factor (0.0 to 1.0) applied to backoff
	// delays to prevent thundering herd.
	Jitter float64
	// RetryAfterFallback is the wait applied to a 429 response that
	// carries no usable Retry-After header.
	RetryAfterFallback time.Duration
}

// DefaultRetryConfig returns the retry configuration matching the vendor's
// published guidance: five attempts within five minutes.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:        5,
		Budget:             300 * time.Second,
		BaseDelay:          time.Second,
		MaxDelay:           60 * time.Second,
		Jitter:             0.2,
		RetryAfterFallback: 10 * time.Second,
	}
}

// decision classifies the outcome of a single attempt.
type decision int

const (
	// decideSuccess returns the response to the caller.
	decideSuccess decision = iota
	// decideFatal surfaces the failure immediately, no further attempts.
	decideFatal
	// decideBackoff retries after an exponential backoff delay.
	decideBackoff
	// decideRetryAfter retries after the server-supplied wait, verbatim.
	decideRetryAfter
)

func (d decision) String() string {
	switch d {
	case decideSuccess:
		return "success"
	case decideFatal:
		return "fatal"
	case decideBackoff:
		return "backoff"
	case decideRetryAfter:
		return "retry-after"
	default:
		return "unknown"
	}
}

// classify maps one attempt outcome to a retry decision. It is a pure
// function of the status code and the attempt error; err takes precedence
// when both are set. Only transport-level failures are retryable among
// errors: credential failures and malformed requests fail fast.
func classify(status int, err error) decision {
	if err != nil {
		var netErr *apierrors.NetworkError
		if errors.As(err, &netErr) {
			return decideBackoff
		}
		return decideFatal
	}
	switch {
	case status == http.StatusTooManyRequests:
		return decideRetryAfter
	case status >= http.StatusInternalServerError:
		return decideBackoff
	case status >= http.StatusBadRequest:
		return decideFatal
	default:
		return decideSuccess
	}
}

// Delay returns the backoff delay after the given failed attempt (1-based):
// BaseDelay * 2^(attempt-1), capped at MaxDelay, with jitter applied.
func (rc RetryConfig) Delay(attempt int) time.Duration {
	delay := float64(rc.BaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(rc.MaxDelay) {
		delay = float64(rc.MaxDelay)
	}

	if rc.Jitter > 0 {
		jitterAmount := delay * rc.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	return time.Duration(delay)
}

// retryAfterDelay extracts the wait from a 429 response's Retry-After
// header. Integer seconds and HTTP-date forms are accepted; anything else
// falls back to the configured default.
func (rc RetryConfig) retryAfterDelay(header http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return rc.RetryAfterFallback
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return rc.RetryAfterFallback
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// attemptFunc issues a single attempt of a logical call, including its own
// credential fetch and pacing. It returns a non-nil Response for any HTTP
// outcome regardless of status; err is reserved for credential and
// transport failures.
type attemptFunc func(ctx context.Context, attempt int) (*Response, error)

// run drives fn through the retry state machine:
//
//	ATTEMPT -> {SUCCESS, RETRYABLE -> WAIT -> ATTEMPT, FATAL}
//
// Waits are clamped to the remaining budget. A server-requested wait that
// cannot fit in the budget ends the call instead of knowingly retrying
// before the server is ready.
func (rc RetryConfig) run(ctx context.Context, log logrus.FieldLogger, fn attemptFunc) (*Response, error) {
	start := time.Now()
	var lastErr error

	for attempt := 1; ; attempt++ {
		resp, err := fn(ctx, attempt)
		if err != nil && ctx.Err() != nil {
			// Cancellation is never retried.
			return nil, err
		}

		d := classify(statusOf(resp), err)
		var wait time.Duration
		switch d {
		case decideSuccess:
			return resp, nil
		case decideFatal:
			if err != nil {
				return nil, err
			}
			return nil, newAPIError(resp)
		case decideRetryAfter:
			lastErr = newAPIError(resp)
			wait = rc.retryAfterDelay(resp.Header, time.Now())
		case decideBackoff:
			if err != nil {
				lastErr = err
			} else {
				lastErr = newAPIError(resp)
			}
			wait = rc.Delay(attempt)
		}

		elapsed := time.Since(start)
		if attempt >= rc.MaxAttempts {
			log.WithFields(logrus.Fields{"attempts": attempt, "elapsed": elapsed.Round(time.Millisecond)}).Warn("retry attempts exhausted")
			return nil, &apierrors.RetryExhaustedError{Attempts: attempt, Elapsed: elapsed, Err: lastErr}
		}
		remaining := rc.Budget - elapsed
		if remaining <= 0 || (d == decideRetryAfter && wait > remaining) {
			log.WithFields(logrus.Fields{"attempts": attempt, "elapsed": elapsed.Round(time.Millisecond)}).Warn("retry budget exhausted")
			return nil, &apierrors.RetryExhaustedError{Attempts: attempt, Elapsed: elapsed, Err: lastErr}
		}
		if wait > remaining {
			wait = remaining
		}

		log.WithFields(logrus.Fields{
			"attempt":  attempt,
			"wait":     wait.Round(time.Millisecond),
			"decision": d.String(),
			"cause":    lastErr.Error(),
		}).Warn("retrying request")

		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func statusOf(resp *Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// newAPIError builds the canonical error for a non-success response.
func newAPIError(resp *Response) error {
	return &apierrors.APIError{
		StatusCode: resp.StatusCode,
		Message:    messageFromBody(resp.Body),
		Body:       resp.Body,
	}
}
