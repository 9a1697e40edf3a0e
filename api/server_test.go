package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manabi-reader/api/handlers"
	"manabi-reader/api/middleware"
	"manabi-reader/core/extractor"
	"manabi-reader/core/interfaces"
	"manabi-reader/core/pipeline"
)

func TestNewAPI_HasCorrectInfo(t *testing.T) {
	api, router := NewAPI()

	require.NotNil(t, router)
	info := api.OpenAPI().Info
	assert.Equal(t, "Manabi Reader API", info.Title)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	_, router := NewAPI()

	req := httptest.NewRequest("GET", "/openapi.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.oai.openapi+json", w.Header().Get("Content-Type"))
}

func TestAPIWithMiddleware_AddsRequestIDAndLimits(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.01, 1)
	defer limiter.Close()
	api, router := NewAPIWithMiddleware(APIConfig{
		Logger:      interfaces.NopLogger{},
		RateLimiter: limiter,
	})
	handlers.NewReaderHandler(pipeline.New(pipeline.Options{}), extractor.New(nil), handlers.ReaderHandlerConfig{}).RegisterRoutes(api)

	send := func() *httptest.ResponseRecorder {
		body := `{"url":"https://example.com/a","html":"<html><body><p>Hi.</p></body></html>"}`
		req := httptest.NewRequest("POST", "/v1/reader/readerable", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.2.3:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.NotEmpty(t, first.Header().Get("X-Request-ID"))
	assert.Contains(t, first.Body.String(), `"readerable":false`)

	second := send()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
