// ABOUTME: Reader mode processing of a parsed document
// ABOUTME: Applies theme classes, font size, header image and legacy class migration

package document

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"manabi-reader/core/siterules"
)

// Theme names the light and dark themes exposed to reader CSS.
type Theme struct {
	Light string
	Dark  string
}

// DefaultTheme is used when ProcessOptions.Theme is zero.
var DefaultTheme = Theme{Light: "white", Dark: "black"}

// ProcessOptions controls generic post-processing of a reader document.
type ProcessOptions struct {
	URL     *url.URL
	IsEBook bool
	// IsCacheWarmer marks non-interactive rendering: no font size or theme is injected.
	IsCacheWarmer     bool
	DefaultTitle      string
	ImageURL          string
	InjectHeaderImage bool
	FontSizePx        int
	Theme             Theme
}

// styleDropped are body declarations replaced when the font size is injected.
var styleDropped = map[string]bool{
	"content-visibility": true,
	"visibility":         true,
	"opacity":            true,
	"font-size":          true,
}

// ProcessForReaderMode applies generic post-processing to doc, whatever its origin.
func ProcessForReaderMode(doc *goquery.Document, opts ProcessOptions) {
	migrateLegacyContentClass(doc)

	if !opts.IsCacheWarmer {
		body := doc.Find("body").First()
		if opts.FontSizePx > 0 {
			style, _ := body.Attr("style")
			body.SetAttr("style", injectFontSize(style, opts.FontSizePx))
		}
		theme := opts.Theme
		if theme == (Theme{}) {
			theme = DefaultTheme
		}
		body.SetAttr("data-manabi-light-theme", theme.Light)
		body.SetAttr("data-manabi-dark-theme", theme.Dark)
	}

	title := doc.Find("#" + TitleID).First()
	if title.Length() > 0 {
		if strings.TrimSpace(title.Text()) == "" && opts.DefaultTitle != "" {
			title.SetText(opts.DefaultTitle)
		}
		if text := title.Text(); strings.Contains(text, "|") {
			title.SetText(siterules.FixTitlesContainingPipeCharacter(text))
		}
	}

	if opts.IsEBook {
		return
	}
	if opts.URL != nil {
		siterules.RewriteViewOriginalLinks(doc, opts.URL)
	}
	if opts.ImageURL != "" && (opts.InjectHeaderImage || doc.Find("img").Length() == 0) {
		injectHeaderImage(doc, opts.ImageURL)
	}
}

func migrateLegacyContentClass(doc *goquery.Document) {
	if doc.Find("#"+ContentID).Length() > 0 {
		return
	}
	legacy := doc.Find("." + legacyContentClass).First()
	if legacy.Length() == 0 {
		return
	}
	legacy.RemoveClass(legacyContentClass)
	if class, _ := legacy.Attr("class"); strings.TrimSpace(class) == "" {
		legacy.RemoveAttr("class")
	}
	legacy.SetAttr("id", ContentID)
}

// injectFontSize rewrites an inline style, keeping unrelated declarations.
func injectFontSize(style string, px int) string {
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if styleDropped[strings.ToLower(strings.TrimSpace(name))] {
			continue
		}
		kept = append(kept, decl)
	}
	kept = append(kept, fmt.Sprintf("font-size: %dpx", px))
	return strings.Join(kept, "; ") + ";"
}

func injectHeaderImage(doc *goquery.Document, imageURL string) {
	header := doc.Find("#" + HeaderID).First()
	if header.Length() == 0 {
		return
	}
	exists := false
	header.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if src, _ := img.Attr("src"); src == imageURL {
			exists = true
		}
		return !exists
	})
	if exists {
		return
	}
	header.PrependHtml(fmt.Sprintf(`<img class="%s" src="">`, headerImageClass))
	header.Find("img." + headerImageClass).First().SetAttr("src", imageURL)
}
