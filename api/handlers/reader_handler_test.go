package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manabi-reader/api/dto/responses"
	"manabi-reader/core/extractor"
	"manabi-reader/core/pipeline"
	"manabi-reader/core/siterules"
)

func articleHTML() string {
	p := "<p>" + strings.Repeat("Snow settled on the mountain pass overnight and the first trains ran slowly through the valley. ", 6) + "</p>"
	return `<html><head><title>Mountain Snow</title></head><body><article><h1>Mountain Snow</h1>` +
		strings.Repeat(p, 6) + `</article></body></html>`
}

func newReaderAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	handler := NewReaderHandler(
		pipeline.New(pipeline.Options{}),
		extractor.New(nil),
		ReaderHandlerConfig{
			MinContentLength: 140,
			FontSizePx:       20,
			SiteRules:        siterules.NewDefaultRegistry(nil),
		},
	)
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)
	return api
}

func TestReaderHandler_RegisterRoutes(t *testing.T) {
	api := newReaderAPI(t)

	paths := api.OpenAPI().Paths
	require.NotNil(t, paths["/v1/reader/document"])
	assert.NotNil(t, paths["/v1/reader/document"].Post)
	require.NotNil(t, paths["/v1/reader/readerable"])
	assert.NotNil(t, paths["/v1/reader/readerable"].Post)
}

func TestReaderHandler_BuildDocument(t *testing.T) {
	api := newReaderAPI(t)

	resp := api.Post("/v1/reader/document", map[string]interface{}{
		"url":  "https://example.com/snow",
		"html": articleHTML(),
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body responses.ReaderDocumentResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "Mountain Snow", body.Title)
	assert.Contains(t, body.Document, "mountain pass")
	assert.Contains(t, body.Document, "font-size: 20px")
	assert.Contains(t, body.Document, `data-manabi-light-theme="white"`)
	assert.False(t, body.Cached)
}

func TestReaderHandler_BuildDocument_Unavailable(t *testing.T) {
	api := newReaderAPI(t)

	resp := api.Post("/v1/reader/document", map[string]interface{}{
		"url":  "https://x.com/status/1",
		"html": articleHTML(),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "excludedDomain")
}

func TestReaderHandler_BuildDocument_NotReaderable(t *testing.T) {
	api := newReaderAPI(t)

	resp := api.Post("/v1/reader/document", map[string]interface{}{
		"url":  "https://example.com/menu",
		"html": `<html><body><nav><a href="/">Home</a></nav></body></html>`,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "readerableFalse")
}

func TestReaderHandler_BuildDocument_RequiresHTML(t *testing.T) {
	api := newReaderAPI(t)

	resp := api.Post("/v1/reader/document", map[string]interface{}{
		"url": "https://example.com/snow",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestReaderHandler_CheckReaderable(t *testing.T) {
	api := newReaderAPI(t)

	tests := []struct {
		name       string
		url        string
		html       string
		readerable bool
		reason     string
	}{
		{"article", "https://example.com/snow", articleHTML(), true, ""},
		{"denied host", "https://www.facebook.com/post", articleHTML(), false, "excludedDomain"},
		{"short page", "https://example.com/short", "<html><body><p>Hi.</p></body></html>", false, "readerableFalse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Post("/v1/reader/readerable", map[string]interface{}{
				"url":  tt.url,
				"html": tt.html,
			})
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			var body responses.ReaderableResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.readerable, body.Readerable)
			assert.Equal(t, tt.reason, body.Reason)
		})
	}
}
