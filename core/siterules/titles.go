// ABOUTME: Title cleanup and view-original link rewriting shared by site rules
// ABOUTME: Pipe-separated titles keep their CJK side; view-original links point at the source page

package siterules

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}

// FixTitlesContainingPipeCharacter drops the site-name half of "Article | Site"
// titles. Split at the last pipe, the side containing CJK text is kept;
// without CJK the text before the pipe is kept.
func FixTitlesContainingPipeCharacter(title string) string {
	i := strings.LastIndex(title, "|")
	if i < 0 {
		return title
	}
	before := strings.TrimSpace(title[:i])
	after := strings.TrimSpace(title[i+1:])
	switch {
	case before == "":
		return after
	case after == "":
		return before
	case !containsCJK(before) && containsCJK(after):
		return after
	}
	return before
}

// RewriteViewOriginalLinks points every .reader-view-original anchor at u.
func RewriteViewOriginalLinks(doc *goquery.Document, u *url.URL) {
	if doc == nil || u == nil {
		return
	}
	doc.Find("a.reader-view-original").SetAttr("href", u.String())
}
