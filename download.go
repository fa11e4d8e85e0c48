package avela

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Download streams a pre-signed URL into w and returns the bytes written.
//
// Pre-signed URLs carry their own authorization and point at the vendor's
// storage backend, not the rate-limited API, so this call sends no bearer
// token and does not consume a pacing slot. The body is streamed, never
// buffered whole; the default 300s timeout accommodates large documents.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return 0, fmt.Errorf("building download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &NetworkError{Err: err, URL: fileURL, Attempt: 1}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Body:       body,
		}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("streaming download: %w", err)
	}

	c.log.WithField("bytes", n).Debug("download complete")
	return n, nil
}
