// ABOUTME: Reader handler for the Huma API
// ABOUTME: Provides HTTP endpoints that build reader documents from fetched page HTML

package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"manabi-reader/api/dto/requests"
	"manabi-reader/api/dto/responses"
	"manabi-reader/core/document"
	"manabi-reader/core/interfaces"
	"manabi-reader/core/pipeline"
	timeutil "manabi-reader/pkg/utils/time"
)

// DocumentPipeline builds reader documents. *pipeline.Pipeline implements it.
type DocumentPipeline interface {
	Run(ctx context.Context, in pipeline.Input) (pipeline.Output, error)
}

// ReaderableChecker runs only the readerable decision. *extractor.Extractor implements it.
type ReaderableChecker interface {
	IsReaderable(rawHTML, pageURL string, minContentLength int) (bool, string)
}

// ReaderHandlerConfig holds rendering defaults for reader documents
type ReaderHandlerConfig struct {
	MinContentLength int
	FontSizePx       int
	Theme            document.Theme
	// SiteRules may be nil to skip site-specific cleanups
	SiteRules document.SiteRules
	Logger    interfaces.Logger
}

// ReaderHandler handles reader document requests
type ReaderHandler struct {
	pipeline   DocumentPipeline
	readerable ReaderableChecker
	config     ReaderHandlerConfig
	logger     interfaces.Logger
}

// NewReaderHandler creates a new reader handler
func NewReaderHandler(p DocumentPipeline, checker ReaderableChecker, config ReaderHandlerConfig) *ReaderHandler {
	logger := config.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	if config.MinContentLength < 1 {
		config.MinContentLength = 140
	}
	return &ReaderHandler{
		pipeline:   p,
		readerable: checker,
		config:     config,
		logger:     logger,
	}
}

// RegisterRoutes registers all reader-related routes
func (h *ReaderHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "buildReaderDocument",
		Method:      http.MethodPost,
		Path:        "/v1/reader/document",
		Summary:     "Build a reader document",
		Description: "Extracts the article from page HTML and returns the styled reader document",
		Tags:        []string{"Reader"},
	}, h.BuildDocument)

	huma.Register(api, huma.Operation{
		OperationID: "checkReaderable",
		Method:      http.MethodPost,
		Path:        "/v1/reader/readerable",
		Summary:     "Check whether a page is readerable",
		Description: "Runs only the readerable decision without extracting content",
		Tags:        []string{"Reader"},
	}, h.CheckReaderable)
}

// BuildDocumentInput defines the input for the BuildDocument operation
type BuildDocumentInput struct {
	Body requests.ReaderDocumentRequest
}

// BuildDocumentOutput defines the output for the BuildDocument operation
type BuildDocumentOutput struct {
	Body responses.ReaderDocumentResponse
}

// BuildDocument runs the reader pipeline and post-processing for one page
func (h *ReaderHandler) BuildDocument(ctx context.Context, input *BuildDocumentInput) (*BuildDocumentOutput, error) {
	body := input.Body
	pageURL, err := url.Parse(body.URL)
	if err != nil || pageURL.Scheme == "" {
		return nil, huma.Error400BadRequest("Invalid page URL")
	}

	minLen := body.MinContentLength
	if minLen <= 0 {
		minLen = h.config.MinContentLength
	}
	out, err := h.pipeline.Run(ctx, pipeline.Input{URL: body.URL, HTML: body.HTML, MinContentLength: minLen})
	if err != nil {
		return nil, toHumaError(err)
	}

	fontSize := body.FontSizePx
	if fontSize <= 0 {
		fontSize = h.config.FontSizePx
	}
	date := timeutil.FormatHeaderDate(body.PublicationDate)
	if date == "" {
		date = timeutil.FormatHeaderDate(out.Result.PublishedTime)
	}

	final, err := document.Render(out.Document, document.RenderOptions{
		ProcessOptions: document.ProcessOptions{
			URL:          pageURL,
			DefaultTitle: out.Result.Title,
			FontSizePx:   fontSize,
			Theme:        h.config.Theme,
		},
		Rules:           h.config.SiteRules,
		PublicationDate: date,
		CollapseRuby:    body.CollapseRuby,
	})
	if err != nil {
		h.logger.Error("Failed to render reader document", map[string]interface{}{
			"url":   body.URL,
			"error": err.Error(),
		})
		return nil, huma.Error500InternalServerError("Failed to render reader document", err)
	}

	return &BuildDocumentOutput{
		Body: responses.ReaderDocumentResponse{
			URL:           body.URL,
			Status:        string(out.Result.Status),
			Title:         out.Result.Title,
			Byline:        out.Result.Byline,
			PublishedTime: out.Result.PublishedTime,
			Document:      final,
			Cached:        out.Cached,
		},
	}, nil
}

// CheckReaderableInput defines the input for the CheckReaderable operation
type CheckReaderableInput struct {
	Body requests.ReaderableRequest
}

// CheckReaderableOutput defines the output for the CheckReaderable operation
type CheckReaderableOutput struct {
	Body responses.ReaderableResponse
}

// CheckReaderable reports whether the page would produce a reader document
func (h *ReaderHandler) CheckReaderable(ctx context.Context, input *CheckReaderableInput) (*CheckReaderableOutput, error) {
	minLen := input.Body.MinContentLength
	if minLen <= 0 {
		minLen = h.config.MinContentLength
	}
	ok, reason := h.readerable.IsReaderable(input.Body.HTML, input.Body.URL, minLen)
	return &CheckReaderableOutput{
		Body: responses.ReaderableResponse{
			URL:        input.Body.URL,
			Readerable: ok,
			Reason:     reason,
		},
	}, nil
}
