// ABOUTME: Browser surface contract: an opaque navigable renderer
// ABOUTME: Accepts load and script commands; navigation events are delivered to the loader

package interfaces

import (
	"context"

	"manabi-reader/core/domain"
)

// BrowserSurface is the embedded renderer the loader drives.
type BrowserSurface interface {
	// LoadURL starts a regular navigation.
	LoadURL(ctx context.Context, url string) error

	// LoadHTML loads html as a document whose base URL is baseURL. The surface
	// reports a navigation commit for baseURL afterwards.
	LoadHTML(ctx context.Context, html []byte, mimeType, encoding, baseURL string) error

	// EvaluateScript runs js in frame (nil means the main frame).
	EvaluateScript(ctx context.Context, js string, frame *domain.FrameRef, args map[string]interface{}) (interface{}, error)

	// CurrentURL returns the URL the surface is currently displaying.
	CurrentURL() string
}
