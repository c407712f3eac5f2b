package feed

import (
	"time"
)

const (
	FeedPath    = "/feed.xml"
	ContentType = "application/xml; charset=utf-8"
)

// Channel is the feed-level metadata of the case study feed.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfLink    string
	Language    string
	Generator   string
	ImageURL    string
}

// Item is one case study in the feed.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string    // extracted article HTML, may be empty
	PublishedAt time.Time // zero when the record has no date
	Categories  []string
}
