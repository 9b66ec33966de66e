// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables sentimix to:
// - Search videos about a subject
// - Enrich candidates with statistics and content details in one batched call
// - Collect the top comment threads of each video
package youtube

import (
	"errors"
	"time"
)

// ErrNotConfigured is returned by NewClient when no API key is available.
var ErrNotConfigured = errors.New("youtube API key not configured")

// Placeholders and caps applied while normalizing videos.
const (
	NoTitle         = "No Title"
	UnknownDuration = "Unknown"
	MaxComments     = 10
	MaxDescription  = 500
)

// Video represents a normalized YouTube video.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	PublishedRaw string    `json:"published_raw"`
	PublishedAt  time.Time `json:"published_at"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	DurationISO  string    `json:"duration_iso"`
	Duration     string    `json:"duration"`
	ThumbnailURL string    `json:"thumbnail_url"`
	URL          string    `json:"url"`
	Comments     []string  `json:"comments"`
	Subject      string    `json:"subject"`
}

// Skip records a returned item that could not be normalized.
type Skip struct {
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// Result is the outcome of one FetchVideos call.
type Result struct {
	Videos  []Video
	Skipped []Skip
	// Warning is set when the API answered with an error or an unexpected shape
	// (quota exhaustion, missing items). Videos is empty in that case.
	Warning string
	// CommentFailures counts videos whose comments could not be fetched.
	CommentFailures int
}
