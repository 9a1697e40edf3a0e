// ABOUTME: Keeps every record that shares a URL in agreement about reader mode
// ABOUTME: Propagates extracted content to siblings and invalidates corrupt caches

package reconcile

import (
	"context"
	"strings"

	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/core/interfaces"
	"manabi-reader/pkg/utils/compress"
)

// Reconciler writes reader-mode state through a ContentStore.
type Reconciler struct {
	store  interfaces.ContentStore
	logger interfaces.Logger
}

// NewReconciler creates a reconciler over store.
func NewReconciler(store interfaces.ContentStore, logger interfaces.Logger) *Reconciler {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Reconciler{store: store, logger: logger}
}

// holdsNativeContent reports URLs whose content is not HTML we extracted.
func holdsNativeContent(url string) bool {
	return domain.IsEBookURL(url) || domain.IsFileURL(url) || domain.IsNativeViewURL(url)
}

// PropagateReaderModeDefaults marks every record sharing url, except primary,
// as reader-mode by default and stores extractedHTML on those without content.
// Each sibling is written in its own transaction; a failing sibling is logged
// and skipped. It returns the number of records updated.
func (r *Reconciler) PropagateReaderModeDefaults(ctx context.Context, url string, primary domain.RecordRef, extractedHTML, fallbackTitle string) (int, error) {
	siblings, err := r.store.LoadAllRecordsSharingURL(ctx, url)
	if err != nil {
		return 0, coreerrors.WrapError(err, "load records sharing url")
	}

	var encoded []byte
	if !holdsNativeContent(url) && strings.TrimSpace(extractedHTML) != "" {
		if encoded, err = compress.EncodeHTML(extractedHTML); err != nil {
			return 0, coreerrors.WrapError(err, "encode extracted html")
		}
	}

	updated := 0
	for _, sibling := range siblings {
		if sibling.Ref() == primary {
			continue
		}
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		err := r.store.WriteTransaction(ctx, sibling.Ref(), func(rec *domain.ContentRecord) error {
			rec.IsReaderModeByDefault = true
			rec.IsReaderModeAvailable = false
			if holdsNativeContent(rec.URL) {
				return nil
			}
			if !rec.HasContent() && encoded != nil {
				rec.Content = append([]byte(nil), encoded...)
			}
			if strings.TrimSpace(rec.Title) == "" && fallbackTitle != "" {
				rec.Title = fallbackTitle
			}
			rec.RSSContainsFullContent = true
			return nil
		})
		if err != nil {
			r.logger.Error("Failed to propagate reader mode to sibling record", map[string]interface{}{
				"url":          url,
				"kind":         string(sibling.Kind),
				"compound_key": sibling.CompoundKey,
				"error":        err.Error(),
			})
			continue
		}
		updated++
	}

	if updated > 0 {
		r.logger.Debug("Propagated reader mode defaults", map[string]interface{}{
			"url":     url,
			"updated": updated,
		})
	}
	return updated, nil
}

// InvalidateCache clears the stored content of ref. Unless url is a snippet,
// the full-content and reader-mode flags are reset too.
func (r *Reconciler) InvalidateCache(ctx context.Context, ref domain.RecordRef, url, reason string) error {
	r.logger.Warn("Invalidating cached reader content", map[string]interface{}{
		"url":    url,
		"kind":   string(ref.Kind),
		"reason": reason,
	})
	err := r.store.WriteTransaction(ctx, ref, func(rec *domain.ContentRecord) error {
		rec.Content = nil
		if domain.IsSnippetURL(url) {
			return nil
		}
		rec.RSSContainsFullContent = false
		rec.IsReaderModeByDefault = false
		rec.IsReaderModeAvailable = false
		return nil
	})
	return coreerrors.WrapError(err, "invalidate cache")
}
