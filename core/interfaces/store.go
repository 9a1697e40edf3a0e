// ABOUTME: Content store contract consumed by the reader core
// ABOUTME: Records are keyed by URL within a kind and by compound key across kinds

package interfaces

import (
	"context"

	"manabi-reader/core/domain"
)

// ContentStore is the persistent record store. Every method may block.
type ContentStore interface {
	// LoadRecord returns the record for url, choosing by domain.KindPriority
	// when several kinds share it. Returns a NotFoundError when none exists.
	LoadRecord(ctx context.Context, url string) (*domain.ContentRecord, error)

	// LoadAllRecordsSharingURL returns every record of any kind whose URL is url.
	LoadAllRecordsSharingURL(ctx context.Context, url string) ([]*domain.ContentRecord, error)

	// SaveRecord inserts or replaces a record.
	SaveRecord(ctx context.Context, record *domain.ContentRecord) error

	// WriteTransaction re-reads the referenced record and applies mutate to it
	// atomically. An error from mutate aborts the write.
	WriteTransaction(ctx context.Context, ref domain.RecordRef, mutate func(*domain.ContentRecord) error) error
}
