// ABOUTME: HTTP client and response contracts for page fetching
// ABOUTME: Implemented by infrastructure/http and by test doubles

package interfaces

import (
	"context"
	"io"
)

// HTTPClient fetches original pages when no stored copy of a document exists.
// This abstraction allows easy mocking in tests.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	Get(ctx context.Context, url string) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body. The caller must close it.
	Body() io.ReadCloser

	// Header returns the value of the specified header, or "" when absent.
	Header(key string) string
}
