// ABOUTME: Runs extraction, sanitizing and document assembly for one page
// ABOUTME: Successful reader documents are cached by content hash

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"manabi-reader/core/document"
	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/core/extractor"
	"manabi-reader/core/interfaces"
	"manabi-reader/core/sanitizer"
)

const (
	cacheKeyPrefix  = "reader:"
	defaultCacheTTL = 24 * time.Hour
)

// Options configures a Pipeline.
type Options struct {
	Extractor *extractor.Extractor
	Sanitizer *sanitizer.Sanitizer
	// Cache may be nil to disable result caching.
	Cache    interfaces.Cache
	CacheTTL time.Duration
	Logger   interfaces.Logger
}

// Input is one page to turn into a reader document.
type Input struct {
	URL              string
	HTML             string
	MinContentLength int
}

// Output is the sanitized extraction and the assembled reader document.
type Output struct {
	Result   domain.ReadabilityResult `json:"result"`
	Document string                   `json:"document"`
	Cached   bool                     `json:"-"`
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	extractor *extractor.Extractor
	sanitizer *sanitizer.Sanitizer
	cache     interfaces.Cache
	ttl       time.Duration
	logger    interfaces.Logger
}

// New creates a pipeline. Missing collaborators get defaults.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		extractor: opts.Extractor,
		sanitizer: opts.Sanitizer,
		cache:     opts.Cache,
		ttl:       opts.CacheTTL,
		logger:    opts.Logger,
	}
	if p.logger == nil {
		p.logger = interfaces.NopLogger{}
	}
	if p.extractor == nil {
		p.extractor = extractor.New(p.logger)
	}
	if p.sanitizer == nil {
		p.sanitizer = sanitizer.New()
	}
	if p.ttl <= 0 {
		p.ttl = defaultCacheTTL
	}
	return p
}

// CacheKey derives the cache key for in.
func CacheKey(in Input) string {
	d := xxhash.New()
	_, _ = d.WriteString(in.URL)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.Itoa(in.MinContentLength))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(in.HTML)
	return fmt.Sprintf("%s%016X", cacheKeyPrefix, d.Sum64())
}

// Run extracts, sanitizes and assembles in. When the page yields no reader
// document the returned error is a *coreerrors.ExtractionError and Output
// still carries the extractor result.
func (p *Pipeline) Run(ctx context.Context, in Input) (Output, error) {
	key := CacheKey(in)
	if out, ok := p.lookup(ctx, key); ok {
		return out, nil
	}

	result := p.extractor.Extract(ctx, in.HTML, in.URL, in.MinContentLength)
	if !result.OK() {
		return Output{Result: result}, extractionError(result, in.URL)
	}

	result = p.sanitizer.SanitizeResult(result)
	if result.ContentHTML == "" {
		result = domain.ReadabilityResult{Status: domain.ReadabilityFailed, Reason: domain.ReasonEmptyContent}
		return Output{Result: result}, extractionError(result, in.URL)
	}

	out := Output{
		Result: result,
		Document: document.BuildReaderHTML(document.BuildInput{
			Title:         result.Title,
			Byline:        result.Byline,
			PublishedTime: result.PublishedTime,
			ContentHTML:   result.ContentHTML,
			URL:           in.URL,
		}),
	}
	p.store(ctx, key, out)
	return out, nil
}

func extractionError(r domain.ReadabilityResult, url string) error {
	kind := coreerrors.ExtractionFailed
	if r.Status == domain.ReadabilityUnavailable {
		kind = coreerrors.ExtractionUnavailable
	}
	return &coreerrors.ExtractionError{Kind: kind, URL: url, Reason: r.Reason}
}

func (p *Pipeline) lookup(ctx context.Context, key string) (Output, bool) {
	if p.cache == nil {
		return Output{}, false
	}
	data, err := p.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return Output{}, false
	}
	var out Output
	if err := json.Unmarshal(data, &out); err != nil || out.Document == "" {
		p.logger.Warn("Discarding unreadable cached reader document", map[string]interface{}{
			"key": key,
		})
		_ = p.cache.Delete(ctx, key)
		return Output{}, false
	}
	out.Cached = true
	return out, true
}

func (p *Pipeline) store(ctx context.Context, key string, out Output) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
		p.logger.Warn("Failed to cache reader document", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
