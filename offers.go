package avela

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// UpdateOfferStatus transitions a batch of offers to the given status via
// PUT /forms/offers/status. The API acknowledges the whole batch with a
// data.success flag; a 2xx response without that acknowledgment is an
// error, since some offers may not have been updated.
func (c *Client) UpdateOfferStatus(ctx context.Context, offerIDs []string, status OfferStatus) error {
	if len(offerIDs) == 0 {
		return nil
	}

	offers := make([]map[string]string, 0, len(offerIDs))
	for _, id := range offerIDs {
		offers = append(offers, map[string]string{"offer_id": id})
	}

	resp, err := c.Put(ctx, "/forms/offers/status", map[string]any{
		"offers": offers,
		"status": status,
	})
	if err != nil {
		return err
	}

	if !gjson.GetBytes(resp.Body, "data.success").Bool() {
		return fmt.Errorf("offer status update to %s not acknowledged", status)
	}
	return nil
}

// AcceptOffers marks the given offers Accepted.
func (c *Client) AcceptOffers(ctx context.Context, offerIDs ...string) error {
	return c.UpdateOfferStatus(ctx, offerIDs, OfferAccepted)
}

// DeclineOffers marks the given offers Declined.
func (c *Client) DeclineOffers(ctx context.Context, offerIDs ...string) error {
	return c.UpdateOfferStatus(ctx, offerIDs, OfferDeclined)
}
