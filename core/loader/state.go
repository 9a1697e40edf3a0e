// ABOUTME: Snapshot of the loader state and its per-URL extraction cache
// ABOUTME: Only the controller goroutine mutates it; readers get clones

package loader

import (
	"time"

	"manabi-reader/core/domain"
)

// LoadState is the transient state of one reading surface. It is owned by
// the controller goroutine; observers get copies from Controller.Snapshot.
type LoadState struct {
	// PendingURL is the single in-flight logical URL; "" means idle.
	PendingURL string
	// ExpectedSyntheticCommitURL is armed before loading rewritten HTML and
	// consumed by the exactly matching commit echo.
	ExpectedSyntheticCommitURL string
	// LastRenderedURL is the last URL a reader document was delivered for.
	LastRenderedURL string
	// LastFallbackURL is the last URL that ended without a reader document.
	LastFallbackURL string
	IsLoading       bool
	// ReaderMode reports whether the surface currently shows a reader document.
	ReaderMode bool
	// Extracted is the latest extraction awaiting assembly, for ExtractedURL.
	Extracted    *domain.ExtractionResult
	ExtractedURL string
	// CommittedURL is the canonical URL of the last main-frame commit.
	CommittedURL string
	// FinishedURL is the last main-frame URL that finished loading since the
	// latest commit.
	FinishedURL string
	// Record is the content record resolved for the last commit, if any.
	Record        *domain.ContentRecord
	LoadStartedAt time.Time
}

func (s LoadState) clone() LoadState {
	out := s
	if s.Extracted != nil {
		e := *s.Extracted
		out.Extracted = &e
	}
	out.Record = s.Record.Clone()
	return out
}

func (s *LoadState) setExtracted(url string, e *domain.ExtractionResult) {
	s.Extracted = e
	s.ExtractedURL = url
	if e == nil {
		s.ExtractedURL = ""
	}
}

// hasCachedExtraction reports non-empty extracted content for url.
func (s *LoadState) hasCachedExtraction(url string) bool {
	return s.Extracted != nil && !s.Extracted.IsEmpty() && domain.MatchesReaderURL(s.ExtractedURL, url)
}

// hasEmptyExtraction reports an extraction for url that produced nothing.
func (s *LoadState) hasEmptyExtraction(url string) bool {
	return s.Extracted != nil && s.Extracted.IsEmpty() && domain.MatchesReaderURL(s.ExtractedURL, url)
}
