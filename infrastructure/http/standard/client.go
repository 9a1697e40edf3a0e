// ABOUTME: HTTP client used to fetch original pages when nothing is stored for a record
// ABOUTME: Retries transient 5xx and transport failures with exponential backoff

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"manabi-reader/core/interfaces"
)

const (
	maxRetries = 3
	userAgent  = "Mozilla/5.0 (compatible; ManabiReader/1.0; +https://reader.manabi.io)"
	acceptHTML = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
)

// Client implements interfaces.HTTPClient over net/http.
type Client struct {
	client  *http.Client
	backoff time.Duration
}

// NewClient creates a client whose requests time out after timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		backoff: 100 * time.Millisecond,
	}
}

// Get fetches url, retrying up to maxRetries times on transport errors and 5xx responses.
func (c *Client) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHTML)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// 100ms, 200ms, ...
			select {
			case <-time.After(c.backoff * time.Duration(1<<(attempt-1))):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			continue
		}
		if resp.StatusCode < 500 {
			break
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}
	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

func (r *httpResponse) StatusCode() int          { return r.statusCode }
func (r *httpResponse) Body() io.ReadCloser      { return r.body }
func (r *httpResponse) Header(key string) string { return r.headers.Get(key) }
