package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// tokenResponse represents the auth endpoint's success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// errorEnvelope is the JSON error body some endpoints return.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Request describes one logical API call. Query and Header may be nil.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
	// Timeout overrides the client's per-attempt timeout when positive.
	Timeout time.Duration
}

// Response is the raw outcome of a completed call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v. An empty body decodes to
// nothing.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}
