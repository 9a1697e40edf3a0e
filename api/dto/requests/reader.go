// ABOUTME: Request DTOs for reader document API endpoints
// ABOUTME: Defines the structure for document, readerable and feed ingestion requests

package requests

// ReaderDocumentRequest asks for a reader document built from already fetched HTML
type ReaderDocumentRequest struct {
	// URL the HTML was loaded from
	URL string `json:"url" required:"true" format:"uri" example:"https://example.com/article" doc:"Page URL the HTML belongs to"`

	// HTML is the full page markup
	HTML string `json:"html" required:"true" minLength:"1" doc:"Full page HTML"`

	// MinContentLength overrides the configured meaningful-content threshold
	MinContentLength int `json:"minContentLength,omitempty" minimum:"0" maximum:"100000" doc:"Minimum text length for the page to count as an article"`

	// FontSizePx overrides the configured body font size
	FontSizePx int `json:"fontSizePx,omitempty" minimum:"0" maximum:"96" doc:"Body font size injected into the document"`

	// CollapseRuby hides furigana in the output
	CollapseRuby bool `json:"collapseRuby,omitempty" doc:"Hide ruby annotations"`

	// PublicationDate is shown in the byline when set
	PublicationDate string `json:"publicationDate,omitempty" example:"2024-05-01T09:00:00Z" doc:"Publication date shown in the byline"`
}

// ReaderableRequest asks only whether a page looks like an article
type ReaderableRequest struct {
	URL              string `json:"url" required:"true" format:"uri" doc:"Page URL the HTML belongs to"`
	HTML             string `json:"html" required:"true" minLength:"1" doc:"Full page HTML"`
	MinContentLength int    `json:"minContentLength,omitempty" minimum:"0" maximum:"100000" doc:"Minimum text length for the page to count as an article"`
}

// IngestFeedRequest carries an RSS or Atom document fetched by the caller
type IngestFeedRequest struct {
	Content string `json:"content" required:"true" minLength:"1" doc:"RSS or Atom XML document"`
}
