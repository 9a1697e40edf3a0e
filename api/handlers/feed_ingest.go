// ABOUTME: Feed ingestion handler for the Huma API
// ABOUTME: Stores entries of a caller-supplied RSS or Atom document as feed-entry records

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"manabi-reader/api/dto/requests"
	"manabi-reader/api/dto/responses"
	"manabi-reader/core/ingest"
)

// FeedIngester stores feed documents. *ingest.Ingester implements it.
type FeedIngester interface {
	Ingest(ctx context.Context, content []byte) (ingest.Result, error)
}

// FeedHandler handles feed ingestion requests
type FeedHandler struct {
	ingester FeedIngester
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(ingester FeedIngester) *FeedHandler {
	return &FeedHandler{ingester: ingester}
}

// RegisterRoutes registers all feed-related routes
func (h *FeedHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "ingestFeed",
		Method:      http.MethodPost,
		Path:        "/v1/feeds/ingest",
		Summary:     "Ingest a feed document",
		Description: "Parses an RSS or Atom document and stores its entries as feed-entry records",
		Tags:        []string{"Feeds"},
	}, h.IngestFeed)
}

// IngestFeedInput defines the input for the IngestFeed operation
type IngestFeedInput struct {
	Body requests.IngestFeedRequest
}

// IngestFeedOutput defines the output for the IngestFeed operation
type IngestFeedOutput struct {
	Body responses.IngestFeedResponse
}

// IngestFeed parses and stores the posted feed
func (h *FeedHandler) IngestFeed(ctx context.Context, input *IngestFeedInput) (*IngestFeedOutput, error) {
	res, err := h.ingester.Ingest(ctx, []byte(input.Body.Content))
	if err != nil {
		return nil, toHumaError(err)
	}

	entries := make([]responses.IngestedEntry, 0, len(res.Records))
	for _, rec := range res.Records {
		entries = append(entries, responses.IngestedEntry{
			URL:                    rec.URL,
			CompoundKey:            rec.CompoundKey,
			Title:                  rec.Title,
			Author:                 rec.Author,
			ImageURL:               rec.ImageURL,
			PublicationDate:        rec.PublicationDate,
			RSSContainsFullContent: rec.RSSContainsFullContent,
		})
	}

	return &IngestFeedOutput{
		Body: responses.IngestFeedResponse{
			FeedTitle: res.FeedTitle,
			Created:   res.Created,
			Updated:   res.Updated,
			Skipped:   res.Skipped,
			Entries:   entries,
		},
	}, nil
}
