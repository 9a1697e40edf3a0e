// ABOUTME: Extraction and rendering pipeline for a committed page
// ABOUTME: Delivers the final reader document to the page or sub-frame

package loader

import (
	"context"
	"net/url"
	"strings"

	"manabi-reader/core/document"
	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/core/pipeline"
	"manabi-reader/pkg/utils/compress"
	timeutil "manabi-reader/pkg/utils/time"
)

const replaceDocumentScript = "document.open(); document.write(html); document.close();"

func hasReadabilityMarkers(html, pageURL string) bool {
	return document.HasReadabilityMarkers(html, pageURL)
}

// runPipeline extracts html and shows the reader view, calling onFail when
// the page has no reader content.
func (c *Controller) runPipeline(tok *loadToken, rec *domain.ContentRecord, canonical, html string, frame domain.FrameRef, onFail func()) {
	in := pipeline.Input{URL: canonical, HTML: html, MinContentLength: rec.MinContentLength()}
	await(c, tok, "extract",
		func(ctx context.Context) (pipeline.Output, error) {
			return c.opts.Pipeline.Run(ctx, in)
		},
		func(out pipeline.Output, err error) {
			if err != nil {
				fields := map[string]interface{}{"url": canonical, "error": err.Error()}
				if coreerrors.IsExtractionUnavailable(err) {
					c.logger.Info("Reader mode unavailable", fields)
				} else {
					c.logger.Warn("Reader extraction failed", fields)
				}
				onFail()
				return
			}
			c.state.setExtracted(canonical, &domain.ExtractionResult{
				HTML:          out.Document,
				Frame:         frame,
				Title:         out.Result.Title,
				Byline:        out.Result.Byline,
				PublishedTime: out.Result.PublishedTime,
			})
			c.showReaderView(tok, rec, canonical)
		})
}

// renderJob carries everything the render worker needs so it never touches
// controller state.
type renderJob struct {
	url      string
	pageURL  *url.URL
	ref      domain.RecordRef
	html     string
	title    string
	imageURL string
	inject   bool
	date     string
	native   bool
	ebook    bool
}

func (c *Controller) showReaderView(tok *loadToken, rec *domain.ContentRecord, canonical string) {
	st := &c.state
	ext := st.Extracted
	if ext.IsEmpty() || !domain.MatchesReaderURL(st.ExtractedURL, canonical) {
		c.logger.Error("No extracted document to show", map[string]interface{}{
			"url": canonical,
		})
		c.cancelLoad(canonical)
		return
	}
	extracted := *ext

	date := timeutil.FormatHeaderDate(extracted.PublishedTime)
	if date == "" && rec.DisplayPublicationDate {
		date = timeutil.FormatRecordDate(rec.PublicationDate)
	}
	pageURL, _ := url.Parse(canonical)
	job := renderJob{
		url:      canonical,
		pageURL:  pageURL,
		ref:      rec.Ref(),
		html:     extracted.HTML,
		title:    rec.Title,
		imageURL: rec.ImageURL,
		inject:   rec.InjectEntryImageIntoHeader,
		date:     date,
		native:   domain.IsNativeViewURL(canonical),
		ebook:    domain.IsEBookURL(canonical),
	}

	await(c, tok, "render",
		func(ctx context.Context) (string, error) {
			return c.renderDocument(ctx, job)
		},
		func(final string, err error) {
			if err != nil {
				c.logger.Warn("Failed to render reader document", map[string]interface{}{
					"url":   canonical,
					"error": err.Error(),
				})
				c.loadFallback(tok, canonical, extracted.HTML)
				return
			}
			c.deliver(tok, canonical, extracted.Frame, final)
		})
}

// renderDocument runs off the controller goroutine.
func (c *Controller) renderDocument(ctx context.Context, job renderJob) (string, error) {
	doc, err := document.Parse(job.html)
	if err != nil {
		return "", err
	}
	derived, _ := document.DeriveTitle(doc)

	err = c.opts.Store.WriteTransaction(ctx, job.ref, func(r *domain.ContentRecord) error {
		r.IsReaderModeByDefault = true
		r.IsReaderModeAvailable = false
		if job.native {
			return nil
		}
		if !r.HasContent() {
			encoded, err := compress.EncodeHTML(job.html)
			if err != nil {
				return err
			}
			r.Content = encoded
		}
		if strings.TrimSpace(r.Title) == "" && derived != "" {
			r.Title = derived
		}
		return nil
	})
	if err != nil {
		c.logger.Error("Failed to persist reader mode defaults", map[string]interface{}{
			"url":   job.url,
			"error": err.Error(),
		})
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title := job.title
	if strings.TrimSpace(title) == "" {
		title = derived
	}
	final, err := document.Render(job.html, document.RenderOptions{
		ProcessOptions: document.ProcessOptions{
			URL:               job.pageURL,
			IsEBook:           job.ebook,
			DefaultTitle:      title,
			ImageURL:          job.imageURL,
			InjectHeaderImage: job.inject,
			FontSizePx:        c.opts.FontSizePx,
			Theme:             c.opts.Theme,
		},
		Rules:           c.opts.SiteRules,
		PublicationDate: job.date,
		CollapseRuby:    c.opts.CollapseRuby,
	})
	if err != nil {
		return "", err
	}

	if _, err := c.opts.Reconciler.PropagateReaderModeDefaults(ctx, job.url, job.ref, job.html, derived); err != nil {
		c.logger.Error("Failed to propagate reader mode defaults", map[string]interface{}{
			"url":   job.url,
			"error": err.Error(),
		})
	}
	return final, nil
}

// deliver hands the final document to the browser surface.
func (c *Controller) deliver(tok *loadToken, canonical string, frame domain.FrameRef, final string) {
	if !c.browserShows(canonical) {
		mismatch := &coreerrors.URLMismatchError{Expected: canonical, Actual: c.opts.Browser.CurrentURL()}
		c.logger.Warn("Browser moved on before reader document was ready", map[string]interface{}{
			"url":   canonical,
			"error": mismatch.Error(),
		})
		c.cancelLoad(canonical)
		return
	}

	if isSubFrame(frame) {
		target := frame
		await(c, tok, "write frame",
			func(ctx context.Context) (interface{}, error) {
				return c.opts.Browser.EvaluateScript(ctx, replaceDocumentScript, &target, map[string]interface{}{"html": final})
			},
			func(_ interface{}, err error) {
				if err != nil {
					c.logger.Warn("Failed to write reader document into frame", map[string]interface{}{
						"url":   canonical,
						"frame": target.ID,
						"error": err.Error(),
					})
					c.cancelLoad(canonical)
					return
				}
				c.markRendered(canonical)
			})
		return
	}

	c.armSyntheticCommitExpectation(canonical)
	await(c, tok, "load reader document",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.opts.Browser.LoadHTML(ctx, []byte(final), "text/html", "UTF-8", canonical)
		},
		func(_ struct{}, err error) {
			if err != nil {
				c.logger.Warn("Failed to load reader document", map[string]interface{}{
					"url":   canonical,
					"error": err.Error(),
				})
				if c.state.ExpectedSyntheticCommitURL == canonical {
					c.state.ExpectedSyntheticCommitURL = ""
				}
				c.cancelLoad(canonical)
				return
			}
			c.markRendered(canonical)
		})
}

func (c *Controller) markRendered(canonical string) {
	st := &c.state
	st.LastRenderedURL = canonical
	st.ReaderMode = true
	st.setExtracted("", nil)
	if c.isLoadPending(canonical) {
		c.markLoadComplete(canonical)
	}
}

// loadFallback shows html without reader chrome. A repeat for a URL the
// browser already shows as a fallback is suppressed.
func (c *Controller) loadFallback(tok *loadToken, canonical, html string) {
	st := &c.state
	if st.LastFallbackURL == canonical && c.opts.Browser.CurrentURL() == canonical {
		c.logger.Debug("Suppressing repeated fallback load", map[string]interface{}{
			"url": canonical,
		})
		c.concludeWithoutReader(canonical)
		return
	}

	stripped := document.StripReadabilityMarkers(html)
	st.LastFallbackURL = canonical
	st.ReaderMode = false
	st.setExtracted(canonical, &domain.ExtractionResult{})
	c.armSyntheticCommitExpectation(canonical)

	await(c, tok, "load fallback",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.opts.Browser.LoadHTML(ctx, []byte(stripped), "text/html", "UTF-8", canonical)
		},
		func(_ struct{}, err error) {
			if err != nil {
				c.logger.Warn("Failed to load fallback document", map[string]interface{}{
					"url":   canonical,
					"error": err.Error(),
				})
				if c.state.ExpectedSyntheticCommitURL == canonical {
					c.state.ExpectedSyntheticCommitURL = ""
				}
			}
			if c.isLoadPending(canonical) {
				c.markLoadComplete(canonical)
			}
		})
}

// browserShows reports whether the surface still displays canonical. An
// unknown current URL counts as a match.
func (c *Controller) browserShows(canonical string) bool {
	cur := c.opts.Browser.CurrentURL()
	return cur == "" || domain.MatchesReaderURL(cur, canonical)
}
