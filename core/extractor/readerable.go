// ABOUTME: Readerability heuristic run before full extraction
// ABOUTME: Scores visible paragraph-like nodes against a minimum content length

package extractor

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const readerableMinScore = 20

var (
	unlikelyCandidates = regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)
	maybeCandidate     = regexp.MustCompile(`(?i)and|article|body|column|content|main|shadow`)
	displayNone        = regexp.MustCompile(`(?i)display\s*:\s*none`)
	visibilityHidden   = regexp.MustCompile(`(?i)visibility\s*:\s*hidden`)
)

// isProbablyReaderable is the quick pre-check Mozilla Readability runs before
// a full parse: it sums sqrt(len-minContentLength) over visible paragraph-like
// nodes and stops as soon as the score passes readerableMinScore.
func isProbablyReaderable(doc *goquery.Document, minContentLength int) bool {
	if minContentLength < 1 {
		minContentLength = 1
	}

	nodes := doc.Find("p, pre, article")
	doc.Find("div > br").Each(func(_ int, br *goquery.Selection) {
		nodes = nodes.AddSelection(br.Parent())
	})

	score := 0.0
	readerable := false
	nodes.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isNodeVisible(s) {
			return true
		}
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		match := class + " " + id
		if unlikelyCandidates.MatchString(match) && !maybeCandidate.MatchString(match) {
			return true
		}
		if s.Is("li p") {
			return true
		}
		length := utf8.RuneCountInString(strings.TrimSpace(s.Text()))
		if length < minContentLength {
			return true
		}
		score += math.Sqrt(float64(length - minContentLength))
		if score > readerableMinScore {
			readerable = true
			return false
		}
		return true
	})
	return readerable
}

func isNodeVisible(s *goquery.Selection) bool {
	if style, ok := s.Attr("style"); ok && (displayNone.MatchString(style) || visibilityHidden.MatchString(style)) {
		return false
	}
	if _, hidden := s.Attr("hidden"); hidden {
		return false
	}
	if aria, ok := s.Attr("aria-hidden"); ok && aria == "true" {
		class, _ := s.Attr("class")
		return strings.Contains(class, "fallback-image")
	}
	return true
}
