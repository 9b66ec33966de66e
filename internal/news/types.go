// Package news provides a client for the Google News RSS search feed.
package news

import "time"

// Placeholders substituted for missing feed fields.
const (
	NoTitle       = "No title"
	NoLink        = "#"
	UnknownDate   = "Unknown date"
	UnknownSource = "Unknown source"
)

// Article is one normalized feed entry.
type Article struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
	// PublishedRaw is the feed's pubDate text; PublishedAt is zero when it could not be parsed.
	PublishedRaw string    `json:"published_raw"`
	PublishedAt  time.Time `json:"published_at"`
	Subject      string    `json:"subject"`
}

// Skip records a feed entry that could not be normalized.
type Skip struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result is the outcome of one FetchNews call.
type Result struct {
	Articles []Article
	Skipped  []Skip
	// Fallback is set when the windowed query found nothing and the broader query was issued.
	Fallback bool
	// FallbackErr is the failure of the broader query, if any. It is informational only.
	FallbackErr error
}
