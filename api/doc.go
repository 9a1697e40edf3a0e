// Package api provides the HTTP API layer for the reader service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
// - POST /v1/reader/document builds a reader document from page HTML
// - POST /v1/reader/readerable runs only the readerable decision
// - POST /v1/feeds/ingest stores the entries of a feed document
//
// The OpenAPI document is served at /openapi.json and the docs UI at /docs.
//
// # Middleware
//
// - Request logging with request IDs
// - Per-IP rate limiting
// - CORS handling
//
// # Usage Example
//
//	limiter := middleware.NewRateLimiter(10, 20)
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:      logger,
//	    RateLimiter: limiter,
//	})
//
//	handlers.NewReaderHandler(pipeline, extractor, handlers.ReaderHandlerConfig{}).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// The API uses a consistent error format based on RFC 7807:
//
//	{
//	    "status": 422,
//	    "title": "Unprocessable Entity",
//	    "detail": "Reader mode unavailable: readerableFalse"
//	}
//
// Core errors are mapped to HTTP status codes in handlers/errors.go.
package api
