// ABOUTME: Title derivation from a parsed document
// ABOUTME: Falls back through #reader-title, the first h1, the title element and body text

package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxDerivedTitleLength caps derived titles, in characters.
const MaxDerivedTitleLength = 36

// DeriveTitle picks a title for doc from, in order: #reader-title, the first
// <h1>, <title>, then body text outside #reader-content.
func DeriveTitle(doc *goquery.Document) (string, bool) {
	candidates := []func() string{
		func() string { return doc.Find("#" + TitleID).First().Text() },
		func() string { return doc.Find("h1").First().Text() },
		func() string { return doc.Find("title").First().Text() },
		func() string {
			body := doc.Find("body").First().Clone()
			body.Find("#" + ContentID).Remove()
			body.Find("script, style, template").Remove()
			return body.Text()
		},
	}
	for _, candidate := range candidates {
		if title := truncateTitle(candidate()); title != "" {
			return title, true
		}
	}
	return "", false
}

func truncateTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > MaxDerivedTitleLength {
		s = strings.TrimSpace(string(runes[:MaxDerivedTitleLength]))
	}
	return s
}
