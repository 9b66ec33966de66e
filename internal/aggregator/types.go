// Package aggregator combines scored records from multiple sources into a unified view.
//
// This package enables sentimix to:
// - Model news articles and videos as one record type with a kind discriminant
// - Filter records by kind and sentiment category, newest first
// - Compute corpus statistics (counts and percentages per category)
package aggregator

import (
	"time"

	"github.com/gauthierbraillon/sentimix/internal/news"
	"github.com/gauthierbraillon/sentimix/internal/sentiment"
	"github.com/gauthierbraillon/sentimix/internal/youtube"
)

// Kind identifies which source variant a record holds.
type Kind string

const (
	KindNews  Kind = "news"
	KindVideo Kind = "video"
)

// Record is a scored item from either source. Build records with NewNewsRecord
// or NewVideoRecord; video-only fields are reached through AsVideo.
type Record struct {
	Kind         Kind      `json:"kind"`
	Title        string    `json:"title"`
	PublishedAt  time.Time `json:"published_at"`
	PublishedRaw string    `json:"published_raw"`
	SourceLabel  string    `json:"source_label"`
	Link         string    `json:"link"`
	Subject      string    `json:"subject"`
	// Sentiment is the title reading for news and the combined reading for video.
	Sentiment sentiment.Result `json:"sentiment"`

	video *VideoDetails
}

// VideoDetails holds the fields only a video record carries.
type VideoDetails struct {
	ID           string                   `json:"id"`
	Description  string                   `json:"description"`
	ChannelLabel string                   `json:"channel_label"`
	ViewCount    int64                    `json:"view_count"`
	LikeCount    int64                    `json:"like_count"`
	CommentCount int64                    `json:"comment_count"`
	DurationISO  string                   `json:"duration_iso"`
	Duration     string                   `json:"duration"`
	ThumbnailURL string                   `json:"thumbnail_url"`
	Comments     []string                 `json:"comments"`
	Readings     sentiment.VideoSentiment `json:"readings"`
}

// NewNewsRecord wraps a scored article.
func NewNewsRecord(a news.Article, title sentiment.Result) Record {
	return Record{
		Kind:         KindNews,
		Title:        a.Title,
		PublishedAt:  a.PublishedAt,
		PublishedRaw: a.PublishedRaw,
		SourceLabel:  a.Source,
		Link:         a.Link,
		Subject:      a.Subject,
		Sentiment:    title,
	}
}

// NewVideoRecord wraps a fused video.
func NewVideoRecord(v youtube.Video, readings sentiment.VideoSentiment) Record {
	comments := v.Comments
	if comments == nil {
		comments = []string{}
	}
	return Record{
		Kind:         KindVideo,
		Title:        v.Title,
		PublishedAt:  v.PublishedAt,
		PublishedRaw: v.PublishedRaw,
		SourceLabel:  "YouTube",
		Link:         v.URL,
		Subject:      v.Subject,
		Sentiment:    readings.Combined,
		video: &VideoDetails{
			ID:           v.ID,
			Description:  v.Description,
			ChannelLabel: v.ChannelTitle,
			ViewCount:    v.ViewCount,
			LikeCount:    v.LikeCount,
			CommentCount: v.CommentCount,
			DurationISO:  v.DurationISO,
			Duration:     v.Duration,
			ThumbnailURL: v.ThumbnailURL,
			Comments:     comments,
			Readings:     readings,
		},
	}
}

// AsVideo returns the video fields when r is a video record.
func (r Record) AsVideo() (*VideoDetails, bool) {
	if r.Kind != KindVideo || r.video == nil {
		return nil, false
	}
	return r.video, true
}

// Category is the record's sentiment category.
func (r Record) Category() sentiment.Category {
	return r.Sentiment.Category
}

// Stats summarizes the sentiment categories of a set of records.
type Stats struct {
	Total         int     `json:"total"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
	PositivePct   float64 `json:"positive_pct"`
	NegativePct   float64 `json:"negative_pct"`
	NeutralPct    float64 `json:"neutral_pct"`
}

// FeedOptions configures record retrieval. Empty filters match everything
// and a zero Limit returns all matches.
type FeedOptions struct {
	Limit      int
	Kinds      []Kind
	Categories []sentiment.Category
}
