// ABOUTME: Load state transitions owned by the controller goroutine
// ABOUTME: Begin, cancel and complete loads and apply the empty extraction policy

package loader

import (
	"manabi-reader/core/domain"
)

func (c *Controller) isLoadPending(url string) bool {
	return domain.MatchesReaderURL(c.state.PendingURL, domain.ReaderURL(url))
}

func (c *Controller) beginLoad(url string, suppressSpinner bool, reason string) {
	canonical := domain.ReaderURL(url)
	if canonical == "" {
		return
	}
	st := &c.state

	if domain.MatchesReaderURL(st.PendingURL, canonical) {
		if !suppressSpinner && !st.IsLoading {
			st.IsLoading = true
		}
		return
	}

	if st.LastRenderedURL != "" && !domain.MatchesReaderURL(st.LastRenderedURL, canonical) {
		st.LastRenderedURL = ""
	}
	if st.PendingURL == "" && st.ReaderMode && domain.MatchesReaderURL(st.LastRenderedURL, canonical) {
		if st.hasCachedExtraction(canonical) {
			st.IsLoading = false
			c.logger.Debug("Reader document already rendered", map[string]interface{}{
				"url":    canonical,
				"reason": reason,
			})
			return
		}
		// Rendered before but the extraction is gone: render again.
		st.LastRenderedURL = ""
	}

	if c.token != nil && !domain.MatchesReaderURL(c.token.url, canonical) {
		c.cancelToken()
	}
	if st.ExpectedSyntheticCommitURL != "" && !domain.MatchesReaderURL(st.ExpectedSyntheticCommitURL, canonical) {
		st.ExpectedSyntheticCommitURL = ""
	}

	st.PendingURL = canonical
	if !suppressSpinner {
		st.IsLoading = true
	}
	st.LoadStartedAt = c.opts.Now()
	c.logger.Info("Reader load started", map[string]interface{}{
		"url":    canonical,
		"reason": reason,
	})
}

func (c *Controller) cancelLoad(url string) {
	canonical := ""
	if url != "" {
		canonical = domain.ReaderURL(url)
	}
	st := &c.state

	if canonical != "" && !domain.MatchesReaderURL(canonical, st.PendingURL) &&
		(st.hasCachedExtraction(canonical) || domain.MatchesReaderURL(canonical, st.LastRenderedURL)) {
		return
	}

	if st.PendingURL == "" {
		st.IsLoading = false
		target := canonical
		if target == "" {
			target = st.LastRenderedURL
		}
		if target == "" {
			target = domain.BlankURL
		}
		c.fireCompletion(target)
		return
	}

	canceled := st.PendingURL
	st.PendingURL = ""
	st.IsLoading = false
	st.ExpectedSyntheticCommitURL = ""
	st.LastRenderedURL = ""
	if c.token != nil && domain.MatchesReaderURL(c.token.url, canceled) {
		c.cancelToken()
	}
	c.logger.Info("Reader load canceled", map[string]interface{}{
		"url": canceled,
	})
	c.fireCompletion(canceled)
}

func (c *Controller) markLoadComplete(url string) {
	canonical := domain.ReaderURL(url)
	if canonical == "" {
		return
	}
	st := &c.state

	if !domain.MatchesReaderURL(canonical, st.PendingURL) {
		if domain.MatchesReaderURL(canonical, st.LastRenderedURL) {
			st.IsLoading = false
			c.fireCompletion(canonical)
			return
		}
		c.logger.Debug("Ignoring stale load completion", map[string]interface{}{
			"url":     canonical,
			"pending": st.PendingURL,
		})
		return
	}

	if st.hasEmptyExtraction(canonical) {
		c.applyEmptyExtractionPolicy(canonical)
		return
	}

	st.PendingURL = ""
	if st.LastRenderedURL == "" {
		st.LastRenderedURL = canonical
	}
	st.IsLoading = false
	c.fireCompletion(canonical)
}

// applyEmptyExtractionPolicy concludes a pending load whose extraction came
// back empty, unless a synthetic commit will conclude it later.
func (c *Controller) applyEmptyExtractionPolicy(url string) {
	st := &c.state
	switch {
	case domain.MatchesReaderURL(url, st.LastRenderedURL):
		// Extraction state may have been dropped after rendering.
	case domain.IsSnippetURL(url):
		st.ExpectedSyntheticCommitURL = ""
		st.LastFallbackURL = url
	case st.ExpectedSyntheticCommitURL != "":
		c.logger.Debug("Deferring completion until synthetic commit", map[string]interface{}{
			"url":      url,
			"expected": st.ExpectedSyntheticCommitURL,
		})
		return
	default:
		st.LastFallbackURL = url
	}
	st.PendingURL = ""
	st.IsLoading = false
	st.setExtracted("", nil)
	c.fireCompletion(url)
}

func (c *Controller) clearReadabilityCache(url, reason string) {
	canonical := domain.ReaderURL(url)
	st := &c.state
	handled := domain.MatchesReaderURL(canonical, st.LastRenderedURL) ||
		domain.MatchesReaderURL(canonical, st.PendingURL) ||
		domain.MatchesReaderURL(canonical, st.ExtractedURL) ||
		(st.Record != nil && domain.MatchesReaderURL(canonical, st.Record.URL))
	if !handled {
		return
	}
	st.setExtracted("", nil)
	st.ExpectedSyntheticCommitURL = ""
	if domain.MatchesReaderURL(canonical, st.LastRenderedURL) {
		st.LastRenderedURL = ""
	}
	c.logger.Debug("Cleared readability cache", map[string]interface{}{
		"url":    canonical,
		"reason": reason,
	})
}

func (c *Controller) armSyntheticCommitExpectation(url string) {
	c.state.ExpectedSyntheticCommitURL = url
}

// consumeSyntheticCommitExpectation reports whether committed is the echo of
// our own HTML load. Only exact equality consumes the expectation.
func (c *Controller) consumeSyntheticCommitExpectation(committed string) bool {
	st := &c.state
	if st.ExpectedSyntheticCommitURL == "" || committed != st.ExpectedSyntheticCommitURL {
		return false
	}
	st.ExpectedSyntheticCommitURL = ""
	canonical := domain.ReaderURL(committed)
	if c.isLoadPending(canonical) {
		c.markLoadComplete(canonical)
	}
	return true
}
