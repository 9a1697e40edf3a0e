// ABOUTME: Assembles self-contained reader documents from extracted article parts
// ABOUTME: Emits the body markers and header structure the browser surface probes for

package document

import (
	"fmt"
	stdhtml "html"
	"regexp"
	"strings"

	"manabi-reader/core/domain"
	timeutil "manabi-reader/pkg/utils/time"
)

// Structural ids and classes of a reader document.
const (
	BodyClass            = "readability-mode"
	AvailableAttr        = "data-manabi-reader-mode-available"
	AvailableForAttr     = "data-manabi-reader-mode-available-for"
	HeaderID             = "reader-header"
	TitleID              = "reader-title"
	BylineContainerID    = "reader-byline-container"
	BylineLineID         = "reader-byline-line"
	MetaLineID           = "reader-meta-line"
	PublicationDateID    = "reader-publication-date"
	ContentID            = "reader-content"
	MetaDividerClass     = "reader-meta-divider"
	ViewOriginalClass    = "reader-view-original"
	legacyContentClass   = "reader-content"
	headerImageClass     = "reader-header-image"
	viewOriginalLinkText = "View Original"
)

const readerCSS = `body.readability-mode{margin:0 auto;max-width:42em;padding:1em 1.25em;line-height:1.7;word-wrap:break-word}
#reader-header{margin-bottom:1.5em}
#reader-title{font-size:1.6em;line-height:1.3;margin:0 0 .4em}
#reader-byline-container{font-size:.85em;opacity:.75}
#reader-meta-line .reader-meta-divider::before{content:" \00B7 "}
#reader-content img,#reader-content video{max-width:100%;height:auto}
.reader-header-image{display:block;max-width:100%;margin:0 auto 1em}`

const readyProbeScript = `(function () {
  function ready() {
    document.body.setAttribute("data-manabi-reader-ready", "true");
    document.dispatchEvent(new CustomEvent("manabi-reader-ready"));
  }
  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", ready, { once: true });
  } else {
    ready();
  }
})();`

var bylinePrefix = regexp.MustCompile(`(?i)^\s*(by|par)\s+`)

// BuildInput holds the sanitized parts of an extracted article.
type BuildInput struct {
	Title         string
	Byline        string
	PublishedTime string
	ContentHTML   string
	URL           string
}

// CleanByline trims a byline and drops a leading "By " or "par " attribution.
func CleanByline(byline string) string {
	return strings.TrimSpace(bylinePrefix.ReplaceAllString(strings.TrimSpace(byline), ""))
}

// BuildReaderHTML assembles a full reader document. Title and byline are
// plain text and are escaped here; ContentHTML must already be sanitized.
func BuildReaderHTML(in BuildInput) string {
	title := stdhtml.EscapeString(strings.TrimSpace(in.Title))
	byline := CleanByline(in.Byline)
	date := timeutil.FormatHeaderDate(in.PublishedTime)
	showOriginal := in.URL != "" && !domain.IsInternalURL(in.URL)
	escapedURL := stdhtml.EscapeString(in.URL)

	var b strings.Builder
	b.Grow(len(in.ContentHTML) + 2048)

	b.WriteString("<!DOCTYPE html>\n<html><head>")
	b.WriteString(`<meta charset="utf-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	fmt.Fprintf(&b, "<title>%s</title>", title)
	fmt.Fprintf(&b, "<style>%s</style>", readerCSS)
	b.WriteString("</head>\n")

	fmt.Fprintf(&b, `<body class="%s" %s="true" %s="%s">`, BodyClass, AvailableAttr, AvailableForAttr, escapedURL)
	b.WriteString("\n")

	fmt.Fprintf(&b, `<div id="%s">`, HeaderID)
	fmt.Fprintf(&b, `<h1 id="%s">%s</h1>`, TitleID, title)

	if byline != "" || date != "" || showOriginal {
		fmt.Fprintf(&b, `<div id="%s">`, BylineContainerID)
		if byline != "" {
			fmt.Fprintf(&b, `<div id="%s" class="byline">%s</div>`, BylineLineID, stdhtml.EscapeString(byline))
		}
		if date != "" || showOriginal {
			fmt.Fprintf(&b, `<div id="%s">`, MetaLineID)
			if date != "" {
				fmt.Fprintf(&b, `<span id="%s">%s</span>`, PublicationDateID, stdhtml.EscapeString(date))
			}
			if date != "" && showOriginal {
				fmt.Fprintf(&b, `<span class="%s"></span>`, MetaDividerClass)
			}
			if showOriginal {
				fmt.Fprintf(&b, `<a class="%s" href="%s">%s</a>`, ViewOriginalClass, escapedURL, viewOriginalLinkText)
			}
			b.WriteString("</div>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div>\n")

	fmt.Fprintf(&b, `<div id="%s">%s</div>`, ContentID, in.ContentHTML)
	b.WriteString("\n")
	fmt.Fprintf(&b, "<script>%s</script>", readyProbeScript)
	b.WriteString("\n</body></html>")

	return b.String()
}
