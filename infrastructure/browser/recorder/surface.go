// ABOUTME: Recording browser surface that replays navigation events into the loader
// ABOUTME: Used by the CLI for headless rendering and by tests to drive the state machine

package recorder

import (
	"context"
	"errors"
	"strings"
	"sync"

	"manabi-reader/core/domain"
	"manabi-reader/core/loader"
)

const outerHTMLScript = "document.documentElement.outerHTML"

// Load is one load command received by the surface.
type Load struct {
	URL       string
	HTML      string
	MimeType  string
	Synthetic bool
}

// Script is one script evaluation received by the surface.
type Script struct {
	JS    string
	Frame *domain.FrameRef
	Args  map[string]interface{}
}

// Surface is an in-memory browser surface. It keeps the HTML of every page
// it shows and answers outerHTML evaluations from it.
type Surface struct {
	mu      sync.Mutex
	current string
	pages   map[string]string
	frames  map[string]string
	loads   []Load
	scripts []Script
	queued  []loader.NavigationEvent

	handler func(loader.NavigationEvent)
	// DeferEcho holds the events of HTML loads until Flush is called.
	DeferEcho bool
	// FailLoads makes LoadURL and LoadHTML return an error.
	FailLoads bool
}

// ErrLoadFailed is returned when FailLoads is set.
var ErrLoadFailed = errors.New("recorder: load failed")

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{
		pages:  make(map[string]string),
		frames: make(map[string]string),
	}
}

// Attach sets the receiver of navigation events, usually Controller.Handle.
func (s *Surface) Attach(handler func(loader.NavigationEvent)) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
}

// SetPage registers the HTML served for url without navigating.
func (s *Surface) SetPage(url, html string) {
	s.mu.Lock()
	s.pages[url] = html
	s.mu.Unlock()
}

// SetFrame registers the HTML shown in the sub-frame with id.
func (s *Surface) SetFrame(id, html string) {
	s.mu.Lock()
	s.frames[id] = html
	s.mu.Unlock()
}

// Navigate simulates a user navigation to url showing html.
func (s *Surface) Navigate(url, html string) {
	s.mu.Lock()
	s.current = url
	if html != "" {
		s.pages[url] = html
	}
	s.mu.Unlock()
	s.emit(loader.Committed(url), loader.Finished(url))
}

// FailNavigation simulates a failed provisional navigation.
func (s *Surface) FailNavigation(url string) {
	s.emit(loader.Failed(url))
}

// LoadURL implements interfaces.BrowserSurface.
func (s *Surface) LoadURL(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.FailLoads {
		s.mu.Unlock()
		return ErrLoadFailed
	}
	s.loads = append(s.loads, Load{URL: url})
	s.current = url
	s.mu.Unlock()
	s.emit(loader.Committed(url), loader.Finished(url))
	return nil
}

// LoadHTML implements interfaces.BrowserSurface.
func (s *Surface) LoadHTML(ctx context.Context, html []byte, mimeType, encoding, baseURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.FailLoads {
		s.mu.Unlock()
		return ErrLoadFailed
	}
	s.loads = append(s.loads, Load{URL: baseURL, HTML: string(html), MimeType: mimeType, Synthetic: true})
	s.current = baseURL
	s.pages[baseURL] = string(html)
	events := []loader.NavigationEvent{loader.Committed(baseURL), loader.Finished(baseURL)}
	if s.DeferEcho {
		s.queued = append(s.queued, events...)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	s.emit(events...)
	return nil
}

// EvaluateScript implements interfaces.BrowserSurface. Only outerHTML reads
// and document.write replacements are understood.
func (s *Surface) EvaluateScript(ctx context.Context, js string, frame *domain.FrameRef, args map[string]interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, Script{JS: js, Frame: frame, Args: args})

	switch {
	case js == outerHTMLScript:
		if frame != nil && !frame.IsMain {
			return s.frames[frame.ID], nil
		}
		return s.pages[s.current], nil
	case strings.Contains(js, "document.write"):
		html, _ := args["html"].(string)
		if frame != nil && !frame.IsMain {
			s.frames[frame.ID] = html
		} else {
			s.pages[s.current] = html
		}
		return nil, nil
	}
	return nil, nil
}

// CurrentURL implements interfaces.BrowserSurface.
func (s *Surface) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Flush delivers the events held back by DeferEcho.
func (s *Surface) Flush() {
	s.mu.Lock()
	events := s.queued
	s.queued = nil
	s.mu.Unlock()
	s.emit(events...)
}

// Loads returns the load commands received so far.
func (s *Surface) Loads() []Load {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Load(nil), s.loads...)
}

// Scripts returns the script evaluations received so far.
func (s *Surface) Scripts() []Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Script(nil), s.scripts...)
}

// Page returns the HTML shown for url.
func (s *Surface) Page(url string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages[url]
}

// Frame returns the HTML written into the frame with id.
func (s *Surface) Frame(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[id]
}

func (s *Surface) emit(events ...loader.NavigationEvent) {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler == nil {
		return
	}
	for _, ev := range events {
		handler(ev)
	}
}
