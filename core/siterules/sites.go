// ABOUTME: Built-in per-site document rules for Japanese news and reading sites
// ABOUTME: Each rule strips boilerplate or unwraps markup before reader rendering

package siterules

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var defaultRegistry = NewDefaultRegistry(nil)

// Default returns the shared registry holding the built-in rules.
func Default() *Registry {
	return defaultRegistry
}

// Apply runs the built-in rules for u's host against doc.
func Apply(doc *goquery.Document, u *url.URL) {
	defaultRegistry.Apply(doc, u)
}

// titleSelectors are the places a page title shows up in a reader document.
const titleSelectors = "#reader-title, title"

func trimTitleSuffixes(doc *goquery.Document, suffixes ...string) {
	doc.Find(titleSelectors).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		for _, suffix := range suffixes {
			title = strings.TrimSpace(strings.TrimSuffix(title, suffix))
		}
		s.SetText(title)
	})
}

// unwrap replaces each selected element with its children.
func unwrap(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithSelection(s.Contents())
	})
}

// NHK News Web Easy wraps dictionary words in popup links.
func unlinkNHKDictionary(doc *goquery.Document, _ *url.URL) error {
	unwrap(doc.Find("a.dicWin, a[href^='javascript:']"))
	doc.Find(".dic-box, #js-dictionary-box, .js-audio").Remove()
	return nil
}

func stripMainichiBoilerplate(doc *goquery.Document, _ *url.URL) error {
	doc.Find(".ad, .articledetail-ad, .sns-share, .header-menu, #js-article-footer").Remove()
	trimTitleSuffixes(doc, "| 毎日新聞", "- 毎日新聞")
	return nil
}

func stripAsahiBoilerplate(doc *goquery.Document, _ *url.URL) error {
	doc.Find(".notPrint, .Ad, .snsList, .moreBtn, .loginBtn").Remove()
	trimTitleSuffixes(doc, "：朝日新聞デジタル", ":朝日新聞デジタル")
	return nil
}

func stripYahooNewsBoilerplate(doc *goquery.Document, _ *url.URL) error {
	doc.Find("#yjnHeader, #yjnFooter, #yjSNS, .yjnAd, [data-ual-view-type='ad']").Remove()
	trimTitleSuffixes(doc, "- Yahoo!ニュース")
	return nil
}

// Syosetu pads chapters with empty paragraphs that only hold <br>.
func removeSyosetuLineBreaks(doc *goquery.Document, _ *url.URL) error {
	doc.Find(".novel_bn, #novel_footer").Remove()
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if strings.TrimSpace(strings.ReplaceAll(p.Text(), "　", "")) != "" {
			return
		}
		if p.Find("img, ruby").Length() > 0 {
			return
		}
		p.Remove()
	})
	return nil
}

var fullWidthRuns = regexp.MustCompile("　{2,}")

// Kakuyomu indents and pads text with runs of ideographic spaces.
func collapseFullWidthSpaces(doc *goquery.Document, _ *url.URL) error {
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		for _, n := range body.Nodes {
			collapseTextNodes(n)
		}
	})
	return nil
}

func collapseTextNodes(n *html.Node) {
	if n.Type == html.ElementNode && (n.Data == "pre" || n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		n.Data = fullWidthRuns.ReplaceAllString(n.Data, "　")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collapseTextNodes(c)
	}
}

// Aozora Bunko appends bibliography and transcription notes, and uses runs
// of <br> for spacing.
func stripAozoraNotes(doc *goquery.Document, _ *url.URL) error {
	doc.Find(".bibliographical_information, .notation_notes, .after_text").Remove()
	doc.Find("br").Each(func(_ int, br *goquery.Selection) {
		prev := br.Prev()
		if prev.Is("br") && prev.Prev().Is("br") && !hasTextBetween(prev.Nodes[0], br.Nodes[0]) {
			br.Remove()
		}
	})
	return nil
}

func hasTextBetween(a, b *html.Node) bool {
	for n := a.NextSibling; n != nil && n != b; n = n.NextSibling {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			return true
		}
		if n.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func stripWikipediaChrome(doc *goquery.Document, _ *url.URL) error {
	doc.Find(".mw-editsection, sup.reference, .noprint, .navbox, #toc, .mw-jump-link").Remove()
	trimTitleSuffixes(doc, "- Wikipedia")
	return nil
}
