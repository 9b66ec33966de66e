// Package pipeline provides the orchestration of one sentiment analysis run.
//
// A run fetches news and videos about a subject concurrently, scores every
// record, fuses the per-field video readings and aggregates corpus statistics.
// Source failures never abort a run; they are reported as notices.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gauthierbraillon/sentimix/internal/aggregator"
	"github.com/gauthierbraillon/sentimix/internal/news"
	"github.com/gauthierbraillon/sentimix/internal/youtube"
)

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// NewsSource fetches articles about a subject.
type NewsSource interface {
	FetchNews(ctx context.Context, subject string, windowMonths int) (news.Result, error)
}

// VideoSource fetches videos about a subject.
type VideoSource interface {
	FetchVideos(ctx context.Context, subject string, maxResults int) (youtube.Result, error)
}

// Request describes one run.
type Request struct {
	Subject      string `json:"subject" validate:"required"`
	WindowMonths int    `json:"window_months" validate:"min=1,max=12"`
	// MaxArticles caps the news records kept; 0 keeps all of them.
	MaxArticles int `json:"max_articles" validate:"min=0,max=100"`
	// MaxVideos caps the video search; 0 uses the pipeline default.
	MaxVideos int `json:"max_videos" validate:"min=0,max=50"`
}

// Source names the origin of a notice or skipped item.
type Source string

const (
	SourceNews  Source = "news"
	SourceVideo Source = "video"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notice is a human-readable message about how a source behaved during a run.
type Notice struct {
	Source  Source `json:"source"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Skipped is an item a source returned but could not normalize.
type Skipped struct {
	Source Source `json:"source"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// VideoStatus reports whether the video stage ran.
type VideoStatus string

const (
	VideoEnabled  VideoStatus = "enabled"
	VideoDisabled VideoStatus = "disabled"
)

// Report is the outcome of a run handed to presentation and export.
// NewsFallback is set when the news records come from the broader undated search.
type Report struct {
	RunID        uuid.UUID           `json:"run_id"`
	Subject      string              `json:"subject"`
	WindowMonths int                 `json:"window_months"`
	NewsFallback bool                `json:"news_fallback"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Records      []aggregator.Record `json:"records"`
	Stats        aggregator.Stats    `json:"stats"`
	NewsStats    aggregator.Stats    `json:"news_stats"`
	VideoStats   aggregator.Stats    `json:"video_stats"`
	Notices      []Notice            `json:"notices"`
	Skipped      []Skipped           `json:"skipped"`
	VideoStatus  VideoStatus         `json:"video_status"`
}

// NoData reports the "no data found" outcome: no source produced a record.
func (r *Report) NoData() bool {
	return len(r.Records) == 0
}

// Failed reports whether any source failed at the transport level.
func (r *Report) Failed() bool {
	for _, n := range r.Notices {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}

// View returns the records matching opts, newest first, with their statistics.
func (r *Report) View(opts aggregator.FeedOptions) ([]aggregator.Record, aggregator.Stats) {
	agg := aggregator.New()
	agg.AddRecords(r.Records)
	records := agg.Records(opts)
	return records, aggregator.Aggregate(records)
}
