// ABOUTME: Metadata lookups the readability parser does not expose
// ABOUTME: Reads published time and document title from meta tags

package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// publishedTimeSelectors are checked in order when the parser found no date.
var publishedTimeSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[property="og:published_time"]`, "content"},
	{`meta[name="article:published_time"]`, "content"},
	{`meta[itemprop="datePublished"]`, "content"},
	{`meta[name="pubdate"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`meta[name="DC.date.issued"]`, "content"},
	{`time[itemprop="datePublished"]`, "datetime"},
	{`time[pubdate]`, "datetime"},
	{`time[datetime]`, "datetime"},
}

// rawPublishedTime returns the first publication date found in doc, unparsed.
func rawPublishedTime(doc *goquery.Document) string {
	for _, c := range publishedTimeSelectors {
		if v, ok := doc.Find(c.selector).First().Attr(c.attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func documentTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
