// ABOUTME: Ruby annotation collapsing for reader documents
// ABOUTME: Replaces <ruby> elements with their base text so furigana is hidden

package html

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ReaderContentPageSelector scopes ruby collapsing to the reader body.
const ReaderContentPageSelector = "#reader-content .page"

// CollapseRubyTags replaces every <ruby> element with its bare surface text,
// dropping furigana children. With restrictToReaderContent only ruby inside
// the reader content page is touched.
func CollapseRubyTags(doc *goquery.Document, restrictToReaderContent bool) {
	selector := "ruby"
	if restrictToReaderContent {
		selector = ReaderContentPageSelector + " ruby"
	}
	doc.Find(selector).Each(func(_ int, ruby *goquery.Selection) {
		ruby.Find("rt, rp, rtc").Remove()
		ruby.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: ruby.Text()})
	})
}
