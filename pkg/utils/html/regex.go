// ABOUTME: Body inspection helpers and template removal for stored documents
// ABOUTME: Template elements are removed through the HTML parser, never by pattern

package html

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	bodyPattern     = regexp.MustCompile(`(?is)<body\b[^>]*>(.*)</body>`)
	bodyOpenPattern = regexp.MustCompile(`(?is)<body\b[^>]*>`)
	documentPattern = regexp.MustCompile(`(?i)<(!doctype|html|head|body)\b`)
	mediaPattern    = regexp.MustCompile(`(?i)<(img|video|audio|iframe|svg|picture)\b`)
)

// BodyInnerHTML returns what sits between <body> and </body>. When there is
// no closing tag, everything after the opening tag is returned.
func BodyInnerHTML(doc string) (string, bool) {
	if m := bodyPattern.FindStringSubmatch(doc); m != nil {
		return m[1], true
	}
	if loc := bodyOpenPattern.FindStringIndex(doc); loc != nil {
		return doc[loc[1]:], true
	}
	return "", false
}

// IsBodyEmpty reports whether doc renders nothing: no text and no media in
// its body. A document without a body tag is judged by its whole content.
func IsBodyEmpty(doc string) bool {
	body, ok := BodyInnerHTML(doc)
	if !ok {
		body = doc
	}
	if mediaPattern.MatchString(body) {
		return false
	}
	return strings.TrimSpace(StripHTMLTags(body)) == ""
}

// StripTemplates removes <template> elements together with their contents.
// Full documents come back as documents, fragments as fragments.
func StripTemplates(doc string) string {
	if !strings.Contains(strings.ToLower(doc), "<template") {
		return doc
	}
	if documentPattern.MatchString(doc) {
		parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
		if err != nil {
			return doc
		}
		parsed.Find("template").Remove()
		out, err := goquery.OuterHtml(parsed.Selection)
		if err != nil {
			return doc
		}
		return out
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(doc), body)
	if err != nil {
		return doc
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	fragment := goquery.NewDocumentFromNode(body)
	fragment.Find("template").Remove()
	out, err := fragment.Html()
	if err != nil {
		return doc
	}
	return out
}
