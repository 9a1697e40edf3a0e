// ABOUTME: HTML utilities for stripping tags down to readable text
// ABOUTME: Drops ruby pronunciation annotations while keeping the base text inline

package html

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	rubyAnnotationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<rp\b[^>]*>.*?</rp>`),
		regexp.MustCompile(`(?is)<rtc\b[^>]*>.*?</rtc>`),
		regexp.MustCompile(`(?is)<rt\b[^>]*>.*?</rt>`),
	}
	tagPattern = regexp.MustCompile(`(?s)<[^>]*>`)
)

// isRubyAnnotation reports whether n holds furigana rather than surface text.
func isRubyAnnotation(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Rp, atom.Rt, atom.Rtc:
		return true
	}
	return false
}

// StripHTMLTags returns the text of s with every tag removed. Ruby
// annotations (<rp>, <rt>, <rtc>) are dropped and the ruby base text is kept.
func StripHTMLTags(s string) string {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return stripWithRegex(s)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isRubyAnnotation(n) {
			return
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

func stripWithRegex(s string) string {
	for _, re := range rubyAnnotationPatterns {
		s = re.ReplaceAllString(s, "")
	}
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}
