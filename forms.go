package avela

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// maxFormFilesBatch is the API's cap on form IDs per files request.
const maxFormFilesBatch = 100

// Forms traverses GET /forms. Each item is one form object, verbatim.
func (c *Client) Forms(opts ...PageOption) *Paginator {
	return c.Paginate("/forms", opts...)
}

// Form fetches a single form. The result is the form object from the
// response envelope, verbatim; tag workflows read enrollment_period.id
// from it. Empty when the response carries no form object.
func (c *Client) Form(ctx context.Context, formID string) (json.RawMessage, error) {
	resp, err := c.Get(ctx, "/forms/"+url.PathEscape(formID))
	if err != nil {
		return nil, err
	}
	form := gjson.GetBytes(resp.Body, "form")
	return json.RawMessage(form.Raw), nil
}

// UpdateFormQuestions updates answers on a form by question key. Question
// objects are caller-built; the API validates their shape against the form
// template.
func (c *Client) UpdateFormQuestions(ctx context.Context, formID string, questions any) error {
	path := "/forms/" + url.PathEscape(formID) + "/questions"
	_, err := c.Post(ctx, path, map[string]any{"questions": questions})
	return err
}

// FormFiles retrieves file upload questions and pre-signed download URLs
// for up to 100 forms in one call. The endpoint answers 200 or 207
// Multi-Status; per-item outcomes are returned verbatim for the caller to
// inspect, including items that failed.
func (c *Client) FormFiles(ctx context.Context, formIDs []string) ([]BatchItem, error) {
	if len(formIDs) == 0 {
		return nil, nil
	}
	if len(formIDs) > maxFormFilesBatch {
		return nil, fmt.Errorf("form files: %d form IDs exceeds the maximum of %d per request", len(formIDs), maxFormFilesBatch)
	}

	resp, err := c.Get(ctx, "/forms/files", WithQueryValue("form_id", strings.Join(formIDs, ",")))
	if err != nil {
		return nil, err
	}

	responses := gjson.GetBytes(resp.Body, "responses").Array()
	items := make([]BatchItem, 0, len(responses))
	for _, r := range responses {
		items = append(items, BatchItem{
			// The API serializes per-item status as int or numeric string
			// depending on the path; Int() handles both.
			StatusCode: int(r.Get("status").Int()),
			Body:       json.RawMessage(r.Raw),
		})
	}
	return items, nil
}
