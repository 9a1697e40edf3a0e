// ABOUTME: Parsing, serialization and readability marker detection for documents
// ABOUTME: Markers identify documents that were already rendered for reader mode

package document

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"manabi-reader/core/domain"
)

// Parse parses a full or partial HTML document.
func Parse(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// Serialize renders doc back to HTML, doctype included.
func Serialize(doc *goquery.Document) (string, error) {
	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// HasReadabilityMarkers reports whether markup is already a reader document:
// it has a #reader-content node, a readability-mode body, or is marked
// available for pageURL.
func HasReadabilityMarkers(markup, pageURL string) bool {
	if !strings.Contains(markup, ContentID) && !strings.Contains(markup, BodyClass) && !strings.Contains(markup, AvailableForAttr) {
		return false
	}
	doc, err := Parse(markup)
	if err != nil {
		return false
	}
	return hasMarkers(doc, pageURL)
}

func hasMarkers(doc *goquery.Document, pageURL string) bool {
	if doc.Find("#"+ContentID).Length() > 0 {
		return true
	}
	body := doc.Find("body").First()
	if body.HasClass(BodyClass) {
		return true
	}
	if v, ok := body.Attr(AvailableForAttr); ok && domain.MatchesReaderURL(v, pageURL) {
		return true
	}
	return false
}

// StripReadabilityMarkers removes the reader markers so markup can be
// loaded as an ordinary page.
func StripReadabilityMarkers(markup string) string {
	doc, err := Parse(markup)
	if err != nil {
		return markup
	}
	body := doc.Find("body")
	body.RemoveClass(BodyClass)
	if class, ok := body.Attr("class"); ok && strings.TrimSpace(class) == "" {
		body.RemoveAttr("class")
	}
	body.RemoveAttr(AvailableAttr)
	body.RemoveAttr(AvailableForAttr)
	doc.Find("#" + ContentID).RemoveAttr("id")
	out, err := Serialize(doc)
	if err != nil {
		return markup
	}
	return out
}
