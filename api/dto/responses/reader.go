// ABOUTME: Response DTOs for reader document API endpoints
// ABOUTME: Defines the structure for document, readerable and feed ingestion responses

package responses

import "time"

// ReaderDocumentResponse is a built reader document with its extraction metadata
type ReaderDocumentResponse struct {
	URL           string `json:"url"`
	Status        string `json:"status"`
	Title         string `json:"title,omitempty"`
	Byline        string `json:"byline,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
	Document      string `json:"document"`
	Cached        bool   `json:"cached"`
}

// ReaderableResponse reports the readerable decision for a page
type ReaderableResponse struct {
	URL        string `json:"url"`
	Readerable bool   `json:"readerable"`
	Reason     string `json:"reason,omitempty"`
}

// IngestedEntry summarizes one stored feed entry
type IngestedEntry struct {
	URL                    string     `json:"url"`
	CompoundKey            string     `json:"compoundKey"`
	Title                  string     `json:"title"`
	Author                 string     `json:"author,omitempty"`
	ImageURL               string     `json:"imageUrl,omitempty"`
	PublicationDate        *time.Time `json:"publicationDate,omitempty"`
	RSSContainsFullContent bool       `json:"rssContainsFullContent"`
}

// IngestFeedResponse reports what an ingestion changed
type IngestFeedResponse struct {
	FeedTitle string          `json:"feedTitle"`
	Created   int             `json:"created"`
	Updated   int             `json:"updated"`
	Skipped   int             `json:"skipped"`
	Entries   []IngestedEntry `json:"entries"`
}
