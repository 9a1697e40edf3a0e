package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manabi-reader/api/dto/responses"
	"manabi-reader/core/domain"
	"manabi-reader/core/ingest"
	"manabi-reader/infrastructure/store/memory"
)

const harbourFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>Harbour News</title>
  <item>
    <title>Boats return</title>
    <link>https://example.com/news/boats</link>
    <content:encoded><![CDATA[<p>The boats came back at dawn.</p>]]></content:encoded>
  </item>
  <item>
    <title>Teaser</title>
    <link>https://example.com/news/teaser</link>
    <description>Just a teaser</description>
  </item>
</channel>
</rss>`

func newFeedAPI(t *testing.T, store *memory.Store) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewFeedHandler(ingest.NewIngester(store, nil, 140)).RegisterRoutes(api)
	return api
}

func TestFeedHandler_IngestFeed(t *testing.T) {
	store := memory.NewStore()
	api := newFeedAPI(t, store)

	resp := api.Post("/v1/feeds/ingest", map[string]interface{}{"content": harbourFeed})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body responses.IngestFeedResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "Harbour News", body.FeedTitle)
	assert.Equal(t, 2, body.Created)
	assert.Equal(t, 0, body.Updated)
	require.Len(t, body.Entries, 2)
	assert.True(t, body.Entries[0].RSSContainsFullContent)
	assert.False(t, body.Entries[1].RSSContainsFullContent)

	rec, err := store.LoadRecord(context.Background(), "https://example.com/news/boats")
	require.NoError(t, err)
	assert.Equal(t, domain.KindFeedEntry, rec.Kind)
	assert.True(t, rec.HasContent())

	again := api.Post("/v1/feeds/ingest", map[string]interface{}{"content": harbourFeed})
	require.Equal(t, http.StatusOK, again.Code)
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Created)
	assert.Equal(t, 2, body.Updated)
}

func TestFeedHandler_IngestFeed_InvalidDocument(t *testing.T) {
	api := newFeedAPI(t, memory.NewStore())

	resp := api.Post("/v1/feeds/ingest", map[string]interface{}{"content": "this is not a feed"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestFeedHandler_IngestFeed_RequiresContent(t *testing.T) {
	api := newFeedAPI(t, memory.NewStore())

	resp := api.Post("/v1/feeds/ingest", map[string]interface{}{"content": ""})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
