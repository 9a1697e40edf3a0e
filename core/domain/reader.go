// ABOUTME: Domain models for readability extraction and in-flight reader state
// ABOUTME: Defines extraction outcomes and the captured document awaiting assembly

package domain

// ReadabilityStatus is the outcome of running the extractor.
type ReadabilityStatus string

const (
	ReadabilitySuccess     ReadabilityStatus = "success"
	ReadabilityUnavailable ReadabilityStatus = "unavailable"
	ReadabilityFailed      ReadabilityStatus = "failed"
)

// Reasons reported with unavailable or failed outcomes.
const (
	ReasonReaderableFalse = "readerableFalse"
	ReasonEmptyContent    = "emptyContent"
	ReasonAboutScheme     = "aboutScheme"
	ReasonExcludedDomain  = "excludedDomain"
	ReasonNativeView      = "nativeView"
	ReasonParserError     = "parserError"
	ReasonCanceled        = "canceled"
)

// ReadabilityResult is what the extractor hands back for one page.
type ReadabilityResult struct {
	Status        ReadabilityStatus `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	Title         string            `json:"title,omitempty"`
	Byline        string            `json:"byline,omitempty"`
	PublishedTime string            `json:"publishedTime,omitempty"`
	ContentHTML   string            `json:"contentHtml,omitempty"`
	Readerable    bool              `json:"readerable"`
}

// OK reports whether extraction succeeded.
func (r ReadabilityResult) OK() bool {
	return r.Status == ReadabilitySuccess
}

// FrameRef identifies a browser frame. The zero value is the main frame.
type FrameRef struct {
	ID     string `json:"id,omitempty"`
	IsMain bool   `json:"isMain"`
}

// MainFrame is the top-level frame of the browser surface.
var MainFrame = FrameRef{IsMain: true}

// ExtractionResult holds extracted HTML captured before final document assembly.
type ExtractionResult struct {
	HTML          string   `json:"html"`
	Selector      string   `json:"selector,omitempty"`
	Frame         FrameRef `json:"frame"`
	Title         string   `json:"title,omitempty"`
	Byline        string   `json:"byline,omitempty"`
	PublishedTime string   `json:"publishedTime,omitempty"`
}

// IsEmpty reports whether nothing usable was extracted.
func (e *ExtractionResult) IsEmpty() bool {
	if e == nil {
		return true
	}
	for _, r := range e.HTML {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
