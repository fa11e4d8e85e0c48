package avela

import (
	"encoding/json"

	"github.com/avela/client-go/internal/api"
)

// Response is the raw outcome of one API call: final status, headers, and
// the full body. Decode unmarshals the body into a caller-provided value.
type Response = api.Response

// Tag is a label defined for an enrollment period.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OfferStatus is an offer state transition accepted by the API.
type OfferStatus string

// Offer status values.
const (
	OfferAccepted OfferStatus = "Accepted"
	OfferDeclined OfferStatus = "Declined"
)

// BatchItem is one entry of a multi-status (207) batch response. The item
// body is kept verbatim; callers decide how to treat per-item statuses.
type BatchItem struct {
	StatusCode int
	Body       json.RawMessage
}
