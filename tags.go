package avela

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Tags lists the tags defined for an enrollment period.
func (c *Client) Tags(ctx context.Context, enrollmentPeriodID string) ([]Tag, error) {
	resp, err := c.Get(ctx, "/tags", WithQueryValue("enrollment_period_id", enrollmentPeriodID))
	if err != nil {
		return nil, err
	}

	var out struct {
		Tags []Tag `json:"tags"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return out.Tags, nil
}

// AddSchoolTag attaches a tag to a form's school choice. It returns the
// number of rows the API reports as affected; zero with a nil error means
// the tag was already present.
func (c *Client) AddSchoolTag(ctx context.Context, formID, schoolID, tagID string) (int, error) {
	return c.schoolTag(ctx, http.MethodPost, formID, schoolID, tagID)
}

// RemoveSchoolTag detaches a tag from a form's school choice. Zero affected
// rows with a nil error means the tag was not present.
func (c *Client) RemoveSchoolTag(ctx context.Context, formID, schoolID, tagID string) (int, error) {
	return c.schoolTag(ctx, http.MethodDelete, formID, schoolID, tagID)
}

func (c *Client) schoolTag(ctx context.Context, method, formID, schoolID, tagID string) (int, error) {
	path := "/tags/forms/" + url.PathEscape(formID) + "/schools/" + url.PathEscape(schoolID)

	resp, err := c.Do(ctx, method, path, map[string]string{"tag_id": tagID})
	if err != nil {
		return 0, err
	}

	var out struct {
		AffectedRows int `json:"affected_rows"`
	}
	if err := resp.Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding tag response: %w", err)
	}
	return out.AffectedRows, nil
}
