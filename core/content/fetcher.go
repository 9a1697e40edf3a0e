// ABOUTME: Resolves the displayable HTML for a content record
// ABOUTME: Decompresses stored content or fetches the original page over HTTP

package content

import (
	"context"
	"fmt"
	"io"
	"strings"

	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/core/interfaces"
	"manabi-reader/pkg/utils/compress"
	htmlutil "manabi-reader/pkg/utils/html"
)

// maxPageBytes bounds how much of a fetched page is read.
const maxPageBytes = 8 << 20

// Fetcher produces HTML that can be shown for a record.
type Fetcher struct {
	client interfaces.HTTPClient
	logger interfaces.Logger
}

// NewFetcher creates a fetcher. A nil client disables network fallback.
func NewFetcher(client interfaces.HTTPClient, logger interfaces.Logger) *Fetcher {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Fetcher{client: client, logger: logger}
}

// DisplayableHTML returns the HTML to show for rec. Stored content wins;
// plain-text content is wrapped into paragraphs. Without stored content an
// http(s) URL is fetched. It returns "" and no error when nothing is available.
func (f *Fetcher) DisplayableHTML(ctx context.Context, rec *domain.ContentRecord) (string, error) {
	if rec == nil {
		return "", nil
	}
	if rec.HasContent() {
		stored, err := compress.DecodeHTML(rec.Content)
		if err != nil {
			return "", &coreerrors.CacheCorruptionError{URL: rec.URL, Reason: err.Error()}
		}
		if strings.TrimSpace(stored) != "" {
			return htmlutil.ConvertPlainTextToHTML(stored, false, true), nil
		}
	}

	if f.client == nil || !domain.IsHTTPURL(rec.URL) {
		return "", nil
	}
	return f.fetch(ctx, rec.URL)
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return "", coreerrors.WrapError(err, "fetch original page")
	}
	defer resp.Body().Close()

	if resp.StatusCode() >= 400 {
		return "", &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("GET %s", url),
			API:        "origin",
		}
	}
	if ct := resp.Header("Content-Type"); ct != "" && !strings.Contains(ct, "html") && !strings.HasPrefix(ct, "text/") {
		f.logger.Debug("Skipping non-HTML response", map[string]interface{}{
			"url":          url,
			"content_type": ct,
		})
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxPageBytes))
	if err != nil {
		return "", coreerrors.WrapError(err, "read original page")
	}
	if ct := resp.Header("Content-Type"); strings.HasPrefix(ct, "text/plain") {
		return htmlutil.ConvertPlainTextToHTML(string(body), true, true), nil
	}
	return string(body), nil
}
