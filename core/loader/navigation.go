// ABOUTME: Navigation event handling for the load state machine
// ABOUTME: Resolves committed pages to records, fetches trampoline content and reads live documents

package loader

import (
	"context"
	"strings"

	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	htmlutil "manabi-reader/pkg/utils/html"
)

const outerHTMLScript = "document.documentElement.outerHTML"

func (c *Controller) onNavigationCommitted(ev NavigationEvent) {
	if isSubFrame(ev.Frame) {
		return
	}
	committed := ev.URL
	canonical := domain.ReaderURL(committed)
	trampoline := domain.IsLoaderURL(committed)
	st := &c.state

	if !domain.MatchesReaderURL(st.CommittedURL, canonical) {
		c.enterNewPage(canonical)
	}
	st.CommittedURL = canonical
	st.FinishedURL = ""

	consumed := c.consumeSyntheticCommitExpectation(committed)
	if consumed && !domain.IsSnippetURL(canonical) {
		return
	}
	if !consumed {
		// A real commit replaces whatever document was shown.
		st.ReaderMode = false
	}

	tok := c.tokenFor(canonical)
	await(c, tok, "load record",
		func(ctx context.Context) (*domain.ContentRecord, error) {
			return c.opts.Store.LoadRecord(ctx, canonical)
		},
		func(rec *domain.ContentRecord, err error) {
			c.resolveCommittedRecord(committed, canonical, trampoline, rec, err)
		})
}

// enterNewPage supersedes everything tied to the previously committed page.
func (c *Controller) enterNewPage(canonical string) {
	st := &c.state
	if st.PendingURL != "" && !domain.MatchesReaderURL(st.PendingURL, canonical) {
		c.cancelLoad(st.PendingURL)
	}
	if st.ExtractedURL != "" && !domain.MatchesReaderURL(st.ExtractedURL, canonical) {
		st.setExtracted("", nil)
	}
	if st.ExpectedSyntheticCommitURL != "" && !domain.MatchesReaderURL(st.ExpectedSyntheticCommitURL, canonical) {
		st.ExpectedSyntheticCommitURL = ""
	}
	if c.token != nil && !domain.MatchesReaderURL(c.token.url, canonical) {
		c.cancelToken()
	}
	st.ReaderMode = false
	st.Record = nil
}

func (c *Controller) resolveCommittedRecord(committed, canonical string, trampoline bool, rec *domain.ContentRecord, err error) {
	st := &c.state
	if err != nil || rec == nil {
		if err != nil && !coreerrors.IsNotFound(err) {
			c.logger.Warn("Failed to load content record", map[string]interface{}{
				"url":   canonical,
				"error": err.Error(),
			})
		}
		st.Record = nil
		c.cancelPendingFor(canonical)
		return
	}
	if !domain.MatchesReaderURL(rec.URL, canonical) {
		mismatch := &coreerrors.URLMismatchError{Expected: canonical, Actual: rec.URL}
		c.logger.Warn("Content record does not match committed URL", map[string]interface{}{
			"url":   canonical,
			"error": mismatch.Error(),
		})
		c.cancelPendingFor(canonical)
		return
	}
	st.Record = rec

	if !domain.IsEBookURL(canonical) && rec.IsReaderModeByDefault != st.ReaderMode {
		st.ReaderMode = rec.IsReaderModeByDefault
		if st.ReaderMode {
			c.beginLoad(canonical, false, "reader mode by default")
		} else {
			c.cancelPendingFor(canonical)
		}
	}

	if !trampoline {
		// The page may have finished before its record resolved.
		if domain.MatchesReaderURL(st.FinishedURL, canonical) {
			c.extractLiveDocument(canonical, domain.MainFrame)
		}
		return
	}
	c.loadTrampolineContent(c.tokenFor(canonical), rec, committed, canonical, false)
}

// cancelPendingFor cancels the load for url, or lowers a spinner left up
// without a pending load.
func (c *Controller) cancelPendingFor(url string) {
	if c.isLoadPending(url) || (c.state.PendingURL == "" && c.state.IsLoading) {
		c.cancelLoad(url)
	}
}

func (c *Controller) loadTrampolineContent(tok *loadToken, rec *domain.ContentRecord, committed, canonical string, refetched bool) {
	c.beginLoad(canonical, false, "loader trampoline")

	await(c, tok, "fetch content",
		func(ctx context.Context) (string, error) {
			return c.opts.Fetcher.DisplayableHTML(ctx, rec)
		},
		func(html string, err error) {
			corrupt := coreerrors.IsCacheCorruption(err)
			if err != nil && !corrupt {
				c.logger.Warn("Failed to fetch displayable HTML", map[string]interface{}{
					"url":   canonical,
					"error": err.Error(),
				})
			}
			empty := strings.TrimSpace(html) == "" || (rec.RSSContainsFullContent && htmlutil.IsBodyEmpty(html))
			if corrupt || empty {
				c.handleMissingContent(tok, rec, committed, canonical, refetched)
				return
			}
			c.processFetchedHTML(tok, rec, canonical, html, domain.MainFrame, !rec.HasContent(), true)
		})
}

// handleMissingContent invalidates stored content that turned out empty and
// re-fetches the original page once before giving up.
func (c *Controller) handleMissingContent(tok *loadToken, rec *domain.ContentRecord, committed, canonical string, refetched bool) {
	if !rec.HasContent() && !rec.RSSContainsFullContent {
		c.stopLoad(committed)
		return
	}
	ref := rec.Ref()
	await(c, tok, "invalidate cache",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.opts.Reconciler.InvalidateCache(ctx, ref, canonical, "stored content has an empty body")
		},
		func(_ struct{}, err error) {
			if err != nil {
				c.logger.Error("Failed to invalidate cached content", map[string]interface{}{
					"url":   canonical,
					"error": err.Error(),
				})
			}
			if !refetched && domain.IsHTTPURL(canonical) {
				fresh := rec.Clone()
				fresh.Content = nil
				fresh.RSSContainsFullContent = false
				c.loadTrampolineContent(tok, fresh, committed, canonical, true)
				return
			}
			c.stopLoad(committed)
		})
}

// stopLoad ends a load that has nothing to show.
func (c *Controller) stopLoad(committed string) {
	st := &c.state
	if c.isLoadPending(committed) {
		st.PendingURL = ""
	}
	st.IsLoading = false
	c.fireCompletion(committed)
}

// processFetchedHTML renders html directly when it is already a reader
// document and otherwise runs extraction when it applies.
func (c *Controller) processFetchedHTML(tok *loadToken, rec *domain.ContentRecord, canonical, html string, frame domain.FrameRef, fetched, trampoline bool) {
	if hasReadabilityMarkers(html, canonical) {
		c.state.setExtracted(canonical, &domain.ExtractionResult{HTML: html, Frame: frame})
		c.showReaderView(tok, rec, canonical)
		return
	}

	onFail := func() { c.concludeWithoutReader(canonical) }
	if trampoline {
		onFail = func() { c.loadFallback(tok, canonical, html) }
	}

	if !extractionApplicable(rec, canonical, fetched) {
		if trampoline {
			c.displayOriginal(tok, canonical, html)
		} else {
			c.concludeWithoutReader(canonical)
		}
		return
	}
	c.runPipeline(tok, rec, canonical, html, frame, onFail)
}

func extractionApplicable(rec *domain.ContentRecord, url string, fetched bool) bool {
	if domain.IsNativeViewURL(url) {
		return false
	}
	return fetched || rec.RSSContainsFullContent || rec.IsFromClipboard || domain.IsFileURL(url) || domain.IsSnippetURL(url)
}

// concludeWithoutReader records an empty extraction so the pending load
// ends through the empty-extraction policy.
func (c *Controller) concludeWithoutReader(url string) {
	c.state.setExtracted(url, &domain.ExtractionResult{})
	c.markLoadComplete(url)
}

// displayOriginal navigates to the real page behind a trampoline, or loads
// html as-is when there is no network URL.
func (c *Controller) displayOriginal(tok *loadToken, canonical, html string) {
	if !domain.IsHTTPURL(canonical) {
		c.loadFallback(tok, canonical, html)
		return
	}
	await(c, tok, "load original",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.opts.Browser.LoadURL(ctx, canonical)
		},
		func(_ struct{}, err error) {
			if err != nil {
				c.logger.Warn("Failed to load original page", map[string]interface{}{
					"url":   canonical,
					"error": err.Error(),
				})
			}
			c.concludeWithoutReader(canonical)
		})
}

func (c *Controller) onNavigationFinished(ev NavigationEvent) {
	if domain.IsLoaderURL(ev.URL) {
		return
	}
	canonical := domain.ReaderURL(ev.URL)
	frame := domain.MainFrame
	if isSubFrame(ev.Frame) {
		frame = ev.Frame
	} else {
		c.state.FinishedURL = canonical
	}
	c.extractLiveDocument(canonical, frame)
}

// extractLiveDocument reads the document the browser already shows and runs
// extraction over it when a load is pending for it.
func (c *Controller) extractLiveDocument(canonical string, frame domain.FrameRef) {
	st := &c.state
	if !c.isLoadPending(canonical) || st.ExpectedSyntheticCommitURL != "" {
		return
	}
	if st.Extracted != nil && domain.MatchesReaderURL(st.ExtractedURL, canonical) {
		return
	}
	rec := st.Record
	if rec == nil || !domain.MatchesReaderURL(rec.URL, canonical) {
		return
	}

	var target *domain.FrameRef
	if isSubFrame(frame) {
		target = &frame
	}

	tok := c.tokenFor(canonical)
	if c.liveTok == tok {
		return
	}
	c.liveTok = tok
	await(c, tok, "read live document",
		func(ctx context.Context) (interface{}, error) {
			return c.opts.Browser.EvaluateScript(ctx, outerHTMLScript, target, nil)
		},
		func(v interface{}, err error) {
			c.liveTok = nil
			html, _ := v.(string)
			if err != nil || strings.TrimSpace(html) == "" {
				c.logger.Debug("No live document to extract", map[string]interface{}{
					"url": canonical,
				})
				c.concludeWithoutReader(canonical)
				return
			}
			c.processFetchedHTML(tok, rec, canonical, html, frame, true, false)
		})
}

func (c *Controller) onNavigationFailed(ev NavigationEvent) {
	if isSubFrame(ev.Frame) {
		return
	}
	st := &c.state
	if st.ExpectedSyntheticCommitURL == ev.URL {
		st.ExpectedSyntheticCommitURL = ""
	}
	if c.isLoadPending(ev.URL) {
		c.logger.Warn("Navigation failed during reader load", map[string]interface{}{
			"url": ev.URL,
		})
		c.cancelLoad(ev.URL)
	}
}
