// ABOUTME: Domain model for stored reading content shared by history, bookmarks and feed entries
// ABOUTME: Defines the record projection the reader pipeline reads and writes

package domain

import "time"

// RecordKind identifies which collection a ContentRecord belongs to.
type RecordKind string

const (
	KindHistory   RecordKind = "history"
	KindBookmark  RecordKind = "bookmark"
	KindFeedEntry RecordKind = "feed_entry"
	// KindLibrary holds ephemeral content such as pasted snippets.
	KindLibrary RecordKind = "library"
)

// KindPriority is the order used to pick one record when several kinds share a URL.
var KindPriority = []RecordKind{KindHistory, KindBookmark, KindFeedEntry, KindLibrary}

// RecordRef identifies a single record across all kinds.
type RecordRef struct {
	Kind        RecordKind `json:"kind"`
	CompoundKey string     `json:"compoundKey"`
}

// ContentRecord is the projection of a stored document used by reader mode.
//
// Several records of different kinds may share the same URL. Reader-mode
// defaults and extracted content are propagated to all of them.
type ContentRecord struct {
	Kind        RecordKind `json:"kind"`
	URL         string     `json:"url"`
	CompoundKey string     `json:"compoundKey"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`

	// Content is the zstd compressed canonical HTML. Nil means not fetched yet.
	Content []byte `json:"content,omitempty"`

	IsReaderModeByDefault bool `json:"isReaderModeByDefault"`
	IsReaderModeAvailable bool `json:"isReaderModeAvailable"`
	// RSSContainsFullContent means Content holds the complete document body,
	// whatever its origin.
	RSSContainsFullContent bool `json:"rssContainsFullContent"`
	IsFromClipboard        bool `json:"isFromClipboard"`

	MeaningfulContentMinLength int `json:"meaningfulContentMinLength"`

	InjectEntryImageIntoHeader bool       `json:"injectEntryImageIntoHeader"`
	ImageURL                   string     `json:"imageUrl,omitempty"`
	PublicationDate            *time.Time `json:"publicationDate,omitempty"`
	DisplayPublicationDate     bool       `json:"displayPublicationDate"`

	ModifiedAt time.Time `json:"modifiedAt"`
}

// Ref returns the identity of the record.
func (r *ContentRecord) Ref() RecordRef {
	return RecordRef{Kind: r.Kind, CompoundKey: r.CompoundKey}
}

// HasContent reports whether a payload has been stored.
func (r *ContentRecord) HasContent() bool {
	return len(r.Content) > 0
}

// IsSnippetURL reports whether the record is ephemeral snippet content.
func (r *ContentRecord) IsSnippetURL() bool {
	return IsSnippetURL(r.URL)
}

// MinContentLength returns the extraction threshold, never below 1.
func (r *ContentRecord) MinContentLength() int {
	if r.MeaningfulContentMinLength < 1 {
		return 1
	}
	return r.MeaningfulContentMinLength
}

// Clone returns a deep copy so callers never share a mutable reference.
func (r *ContentRecord) Clone() *ContentRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.Content != nil {
		c.Content = append([]byte(nil), r.Content...)
	}
	if r.PublicationDate != nil {
		t := *r.PublicationDate
		c.PublicationDate = &t
	}
	return &c
}
