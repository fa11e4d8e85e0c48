// Package api provides the HTTP transport for the Avela client. It owns the
// OAuth2 client-credentials token lifecycle, proactive request pacing against
// the vendor rate quota, and bounded retry with exponential backoff for
// transient failures.
//
// # Request Lifecycle
//
// Every call through [Client.Do] runs the same loop: obtain a valid bearer
// token (refreshing lazily when inside the expiry safety margin), wait on the
// pacer so consecutive requests stay at least one minimum interval apart,
// issue the attempt, then classify the outcome:
//
//   - 2xx (including 207 Multi-Status) is returned to the caller.
//   - 429 schedules the next attempt after the Retry-After header value,
//     verbatim, falling back to 10s when the header is absent.
//   - 5xx and transport errors schedule the next attempt on the exponential
//     backoff curve.
//   - Any other 4xx fails immediately with an [apierrors.APIError].
//
// Retries stop at the attempt cap or when the cumulative time budget is
// spent, whichever comes first, yielding an [apierrors.RetryExhaustedError]
// that wraps the last failure.
//
// # Pacing
//
// The vendor enforces its quota (100 requests per 300s by default) at the
// WAF level, so the pacer spreads requests evenly instead of allowing
// bursts: the minimum interval is (period/quota) scaled by a 10% buffer.
// Every attempt, including retries, passes through the pacer.
package api
