// ABOUTME: Feed-entry ingestion from already-fetched RSS, Atom and JSON feed documents
// ABOUTME: Converts entries into feed-entry content records and merges them into the store

package ingest

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/core/interfaces"
	"manabi-reader/pkg/utils/compress"
	htmlutil "manabi-reader/pkg/utils/html"
	timeutil "manabi-reader/pkg/utils/time"
)

// ErrEmptyFeed is returned for an empty feed document.
var ErrEmptyFeed error = &coreerrors.ValidationError{Field: "feed", Message: "empty feed content"}

// Result summarizes one ingestion.
type Result struct {
	FeedTitle string
	Records   []*domain.ContentRecord
	Created   int
	Updated   int
	Skipped   int
}

// Ingester turns feed documents into feed-entry records.
type Ingester struct {
	store            interfaces.ContentStore
	logger           interfaces.Logger
	minContentLength int
}

// NewIngester creates an Ingester. minContentLength is stored on new records
// as their meaningful-content threshold.
func NewIngester(store interfaces.ContentStore, logger interfaces.Logger, minContentLength int) *Ingester {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Ingester{store: store, logger: logger, minContentLength: minContentLength}
}

// Parse converts content into records without touching the store. Entries
// without a link are skipped.
func (i *Ingester) Parse(content []byte) (string, []*domain.ContentRecord, int, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return "", nil, 0, ErrEmptyFeed
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(content))
	if err != nil {
		return "", nil, 0, &coreerrors.ValidationError{Field: "feed", Message: err.Error()}
	}

	records := make([]*domain.ContentRecord, 0, len(parsed.Items))
	skipped := 0
	for _, item := range parsed.Items {
		rec, err := i.convertItem(item, parsed)
		if err != nil {
			i.logger.Warn("Skipping feed entry", map[string]interface{}{
				"title": item.Title,
				"error": err.Error(),
			})
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return parsed.Title, records, skipped, nil
}

// Ingest parses content and merges every entry into the store. Existing
// records keep their reader-mode state and any content already stored.
func (i *Ingester) Ingest(ctx context.Context, content []byte) (Result, error) {
	title, records, skipped, err := i.Parse(content)
	if err != nil {
		return Result{}, err
	}
	res := Result{FeedTitle: title, Skipped: skipped}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		created, err := i.merge(ctx, rec)
		if err != nil {
			i.logger.Error("Failed to store feed entry", map[string]interface{}{
				"url":   rec.URL,
				"error": err.Error(),
			})
			res.Skipped++
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		res.Records = append(res.Records, rec)
	}

	i.logger.Info("Ingested feed", map[string]interface{}{
		"feed":    title,
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
	})
	return res, nil
}

func (i *Ingester) merge(ctx context.Context, rec *domain.ContentRecord) (bool, error) {
	err := i.store.WriteTransaction(ctx, rec.Ref(), func(existing *domain.ContentRecord) error {
		if strings.TrimSpace(rec.Title) != "" {
			existing.Title = rec.Title
		}
		if rec.Author != "" {
			existing.Author = rec.Author
		}
		if rec.ImageURL != "" {
			existing.ImageURL = rec.ImageURL
		}
		if rec.PublicationDate != nil {
			existing.PublicationDate = rec.PublicationDate
			existing.DisplayPublicationDate = true
		}
		if !existing.HasContent() && rec.HasContent() {
			existing.Content = rec.Content
			existing.RSSContainsFullContent = rec.RSSContainsFullContent
		}
		return nil
	})
	if err == nil {
		return false, nil
	}
	if !coreerrors.IsNotFound(err) {
		return false, err
	}
	return true, i.store.SaveRecord(ctx, rec)
}

func (i *Ingester) convertItem(item *gofeed.Item, feed *gofeed.Feed) (*domain.ContentRecord, error) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return nil, &coreerrors.ValidationError{Field: "link", Message: "feed entry has no link"}
	}

	rec := &domain.ContentRecord{
		Kind:                       domain.KindFeedEntry,
		URL:                        link,
		CompoundKey:                domain.CompoundKey(link),
		Title:                      strings.TrimSpace(item.Title),
		MeaningfulContentMinLength: i.minContentLength,
		ImageURL:                   findImage(item, feed),
	}

	if item.ITunesExt != nil && item.ITunesExt.Author != "" {
		rec.Author = item.ITunesExt.Author
	} else if item.Author != nil && item.Author.Name != "" {
		rec.Author = item.Author.Name
	}

	if t := publishedAt(item); t != nil {
		rec.PublicationDate = t
		rec.DisplayPublicationDate = true
	}

	// Only a content body is the full document; descriptions are summaries.
	if body := strings.TrimSpace(item.Content); body != "" {
		encoded, err := compress.EncodeHTML(htmlutil.ConvertPlainTextToHTML(body, false, true))
		if err != nil {
			return nil, err
		}
		rec.Content = encoded
		rec.RSSContainsFullContent = true
	}
	return rec, nil
}

func publishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		t := item.PublishedParsed.UTC()
		return &t
	}
	if item.UpdatedParsed != nil {
		t := item.UpdatedParsed.UTC()
		return &t
	}
	if t, ok := timeutil.ParsePublishedTime(item.Published); ok {
		t = t.UTC()
		return &t
	}
	return nil
}

// findImage picks the entry image: iTunes image, image enclosures, the item
// image, then the feed images.
func findImage(item *gofeed.Item, feed *gofeed.Feed) string {
	if item.ITunesExt != nil && item.ITunesExt.Image != "" {
		return item.ITunesExt.Image
	}
	for _, enc := range item.Enclosures {
		if enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if feed != nil && feed.ITunesExt != nil && feed.ITunesExt.Image != "" {
		return feed.ITunesExt.Image
	}
	if feed != nil && feed.Image != nil && feed.Image.URL != "" {
		return feed.Image.URL
	}
	return ""
}
