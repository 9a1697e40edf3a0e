// ABOUTME: Allow-list sanitizer for extracted titles, bylines and article bodies
// ABOUTME: Built on bluemonday's UGC policy widened for reader document markup

package sanitizer

import (
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"manabi-reader/core/domain"
	htmlutil "manabi-reader/pkg/utils/html"
)

// Sanitizer removes scripts, styles, event handlers and unsafe URLs.
// Policies are immutable after construction so a Sanitizer is safe for concurrent use.
type Sanitizer struct {
	content *bluemonday.Policy
	text    *bluemonday.Policy
}

// New creates a sanitizer with the reader content policy.
func New() *Sanitizer {
	p := bluemonday.UGCPolicy()

	// Reader markup relies on ids and classes (#reader-content, .page, captions).
	p.AllowAttrs("id", "class").Globally()
	p.AllowAttrs("lang", "dir", "title").Globally()
	p.AllowElements("ruby", "rb", "rp", "rt", "rtc", "figure", "figcaption", "picture", "mark", "time", "main")
	p.AllowAttrs("datetime").OnElements("time")
	p.AllowAttrs("loading", "decoding").OnElements("img")
	p.AllowDataURIImages()

	return &Sanitizer{
		content: p,
		text:    bluemonday.StrictPolicy(),
	}
}

// Sanitize cleans an HTML fragment. Template elements are dropped with their
// contents first.
func (s *Sanitizer) Sanitize(fragment string) string {
	return strings.TrimSpace(s.content.Sanitize(htmlutil.StripTemplates(fragment)))
}

// SanitizeText reduces s to plain text with every tag removed. The result is
// unescaped; callers escape it when writing markup.
func (s *Sanitizer) SanitizeText(text string) string {
	cleaned := s.text.Sanitize(htmlutil.StripTemplates(text))
	return strings.TrimSpace(stdhtml.UnescapeString(cleaned))
}

// SanitizeResult cleans the title, byline and content of r independently.
func (s *Sanitizer) SanitizeResult(r domain.ReadabilityResult) domain.ReadabilityResult {
	r.Title = s.SanitizeText(r.Title)
	r.Byline = s.SanitizeText(r.Byline)
	r.PublishedTime = s.SanitizeText(r.PublishedTime)
	r.ContentHTML = s.Sanitize(r.ContentHTML)
	return r
}
