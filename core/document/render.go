// ABOUTME: Render entry point turning extracted markup into a reader document
// ABOUTME: Applies site rules, byline updates and reader processing in order

package document

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	htmlutil "manabi-reader/pkg/utils/html"
)

// SiteRules applies host-specific cleanups. *siterules.Registry implements it.
type SiteRules interface {
	Apply(doc *goquery.Document, u *url.URL)
}

// RenderOptions configures Render.
type RenderOptions struct {
	ProcessOptions
	// Rules is optional; nil skips site-specific cleanups.
	Rules           SiteRules
	PublicationDate string
	// CollapseRuby hides furigana inside the reader content.
	CollapseRuby bool
}

// Render re-parses a reader document and runs site rules, post-processing
// and byline cleanup over it, returning the final HTML.
func Render(markup string, opts RenderOptions) (string, error) {
	doc, err := Parse(markup)
	if err != nil {
		return "", err
	}
	if opts.Rules != nil && opts.URL != nil {
		opts.Rules.Apply(doc, opts.URL)
	}
	ProcessForReaderMode(doc, opts.ProcessOptions)
	UpdateBylineSection(doc, opts.PublicationDate)
	if opts.CollapseRuby {
		htmlutil.CollapseRubyTags(doc, true)
	}
	return Serialize(doc)
}
