// ABOUTME: Readability extractor deciding whether a page is an article and pulling its content
// ABOUTME: Wraps go-readability with a readerable pre-check and scheme/host exclusions

package extractor

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"manabi-reader/core/domain"
	"manabi-reader/core/interfaces"
)

// DefaultClassesToPreserve survive readability cleanup even when they look low-value.
var DefaultClassesToPreserve = []string{
	"page",
	"caption",
	"emoji",
	"hidden",
	"invisible",
	"sr-only",
	"visually-hidden",
	"visuallyhidden",
	"wp-caption",
	"wp-caption-text",
	"wp-smiley",
}

// Extractor runs the readability decision and extraction for one page at a time.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	logger            interfaces.Logger
	classesToPreserve []string
}

// New creates an extractor. A nil logger discards output.
func New(logger interfaces.Logger, classesToPreserve ...string) *Extractor {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	if len(classesToPreserve) == 0 {
		classesToPreserve = DefaultClassesToPreserve
	}
	return &Extractor{logger: logger, classesToPreserve: classesToPreserve}
}

// Precheck reports the reason extraction must be skipped for pageURL, or "".
func Precheck(pageURL string) string {
	switch {
	case domain.IsAboutURL(pageURL):
		return domain.ReasonAboutScheme
	case domain.IsNativeViewURL(pageURL):
		return domain.ReasonNativeView
	}
	if u, err := url.Parse(pageURL); err == nil && IsDeniedHost(u.Hostname()) {
		return domain.ReasonExcludedDomain
	}
	return ""
}

// Extract decides whether rawHTML is readerable and extracts its main content.
// It never returns an error: every failure is folded into the result status.
func (e *Extractor) Extract(ctx context.Context, rawHTML, pageURL string, minContentLength int) domain.ReadabilityResult {
	if reason := Precheck(pageURL); reason != "" {
		return unavailable(reason)
	}
	if minContentLength < 1 {
		minContentLength = 1
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		e.logger.Warn("Failed to parse page for readability", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return failed(domain.ReasonParserError)
	}
	doc := goquery.NewDocumentFromNode(root)

	if !isProbablyReaderable(doc, minContentLength) {
		return unavailable(domain.ReasonReaderableFalse)
	}
	if ctx.Err() != nil {
		return failed(domain.ReasonCanceled)
	}

	parser := readability.NewParser()
	parser.CharThresholds = minContentLength
	parser.ClassesToPreserve = e.classesToPreserve

	parsedURL, _ := url.Parse(pageURL)
	article, err := parser.ParseDocument(root, parsedURL)
	if err != nil {
		e.logger.Warn("Readability extraction failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return failed(domain.ReasonParserError)
	}
	if ctx.Err() != nil {
		return failed(domain.ReasonCanceled)
	}

	content := strings.TrimSpace(article.Content)
	if content == "" || strings.TrimSpace(article.TextContent) == "" {
		return failed(domain.ReasonEmptyContent)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = documentTitle(doc)
	}

	published := rawPublishedTime(doc)
	if article.PublishedTime != nil && !article.PublishedTime.IsZero() {
		published = article.PublishedTime.Format(time.RFC3339)
	}

	e.logger.Debug("Readability extraction succeeded", map[string]interface{}{
		"url":    pageURL,
		"title":  title,
		"length": article.Length,
	})

	return domain.ReadabilityResult{
		Status:        domain.ReadabilitySuccess,
		Title:         title,
		Byline:        strings.TrimSpace(article.Byline),
		PublishedTime: published,
		ContentHTML:   content,
		Readerable:    true,
	}
}

// IsReaderable runs only the readerable decision for rawHTML.
func (e *Extractor) IsReaderable(rawHTML, pageURL string, minContentLength int) (bool, string) {
	if reason := Precheck(pageURL); reason != "" {
		return false, reason
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return false, domain.ReasonParserError
	}
	if !isProbablyReaderable(doc, minContentLength) {
		return false, domain.ReasonReaderableFalse
	}
	return true, ""
}

func unavailable(reason string) domain.ReadabilityResult {
	return domain.ReadabilityResult{Status: domain.ReadabilityUnavailable, Reason: reason}
}

func failed(reason string) domain.ReadabilityResult {
	return domain.ReadabilityResult{Status: domain.ReadabilityFailed, Reason: reason}
}
