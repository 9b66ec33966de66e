package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/sentimix/internal/aggregator"
	"github.com/gauthierbraillon/sentimix/internal/news"
	"github.com/gauthierbraillon/sentimix/internal/sentiment"
	"github.com/gauthierbraillon/sentimix/internal/youtube"
)

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithVideoSource enables the video stage.
func WithVideoSource(src VideoSource) Option {
	return func(p *Pipeline) {
		p.videos = src
	}
}

// WithScorer replaces the default VADER-backed scorer.
func WithScorer(s *sentiment.Scorer) Option {
	return func(p *Pipeline) {
		p.scorer = s
	}
}

// WithDefaultMaxVideos sets the video search cap used when a request leaves it at 0.
func WithDefaultMaxVideos(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.defaultMaxVideos = n
		}
	}
}

// WithClock sets the time source for GeneratedAt (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline runs news and video analysis for a subject.
type Pipeline struct {
	news             NewsSource
	videos           VideoSource
	scorer           *sentiment.Scorer
	validate         *validator.Validate
	defaultMaxVideos int
	now              func() time.Time
	logger           *slog.Logger
}

// New creates a pipeline over newsSource. The video stage only runs when a
// video source is supplied with WithVideoSource.
func New(newsSource NewsSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		news:             newsSource,
		validate:         validator.New(),
		defaultMaxVideos: youtube.DefaultMaxResults,
		now:              time.Now,
		logger:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scorer == nil {
		p.scorer = sentiment.NewScorer(sentiment.WithLogger(p.logger))
	}
	return p
}

// branch is the output of one source stage.
type branch struct {
	records []aggregator.Record
	notices []Notice
	skipped []Skipped
	// fallback reports that the news records came from the undated query.
	fallback bool
}

func (b *branch) notice(src Source, level Level, format string, args ...interface{}) {
	b.notices = append(b.notices, Notice{Source: src, Level: level, Message: fmt.Sprintf(format, args...)})
}

// Run executes one analysis. It only fails for an invalid request; source
// failures are reported through Report.Notices.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if req.WindowMonths == 0 {
		req.WindowMonths = news.DefaultWindowMonths
	}
	if err := p.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	runID := uuid.New()
	logger := p.logger.With("run_id", runID.String(), "subject", req.Subject)
	logger.Info("run started", "window_months", req.WindowMonths, "videos", p.videos != nil)
	started := time.Now()

	var newsOut, videoOut branch
	var g errgroup.Group

	g.Go(func() error {
		newsOut = p.runNews(ctx, req, logger)
		return nil
	})

	status := VideoDisabled
	if p.videos != nil {
		status = VideoEnabled
		g.Go(func() error {
			videoOut = p.runVideos(ctx, req, logger)
			return nil
		})
	} else {
		videoOut.notice(SourceVideo, LevelInfo, "YouTube API key not configured; video analysis disabled")
	}

	_ = g.Wait()

	agg := aggregator.New()
	agg.AddRecords(newsOut.records)
	agg.AddRecords(videoOut.records)

	report := &Report{
		RunID:        runID,
		Subject:      req.Subject,
		WindowMonths: req.WindowMonths,
		NewsFallback: newsOut.fallback,
		GeneratedAt:  p.now(),
		Records:      agg.Records(aggregator.FeedOptions{}),
		Stats:        agg.Stats(aggregator.FeedOptions{}),
		NewsStats:    agg.Stats(aggregator.FeedOptions{Kinds: []aggregator.Kind{aggregator.KindNews}}),
		VideoStats:   agg.Stats(aggregator.FeedOptions{Kinds: []aggregator.Kind{aggregator.KindVideo}}),
		Notices:      append(newsOut.notices, videoOut.notices...),
		Skipped:      append(newsOut.skipped, videoOut.skipped...),
		VideoStatus:  status,
	}
	if report.Notices == nil {
		report.Notices = []Notice{}
	}
	if report.Skipped == nil {
		report.Skipped = []Skipped{}
	}

	logger.Info("run finished",
		"records", report.Stats.Total,
		"positive", report.Stats.PositiveCount,
		"negative", report.Stats.NegativeCount,
		"neutral", report.Stats.NeutralCount,
		"notices", len(report.Notices),
		"elapsed", time.Since(started))
	return report, nil
}

func (p *Pipeline) runNews(ctx context.Context, req Request, logger *slog.Logger) branch {
	var out branch

	result, err := p.news.FetchNews(ctx, req.Subject, req.WindowMonths)
	if err != nil {
		logger.Warn("news fetch failed", "error", err)
		out.notice(SourceNews, LevelError, "News feed unavailable: %v", err)
		return out
	}

	out.fallback = result.Fallback
	if result.Fallback {
		out.notice(SourceNews, LevelInfo,
			"No articles in the last %d months; showing broader results", req.WindowMonths)
	}
	if result.FallbackErr != nil {
		logger.Warn("news fallback failed", "error", result.FallbackErr)
		out.notice(SourceNews, LevelWarn, "Broader news search failed: %v", result.FallbackErr)
	}
	for _, s := range result.Skipped {
		out.skipped = append(out.skipped, Skipped{Source: SourceNews, ID: fmt.Sprintf("#%d", s.Index), Reason: s.Reason})
	}
	if n := len(result.Skipped); n > 0 {
		out.notice(SourceNews, LevelWarn, "Skipped %d malformed news entries", n)
	}

	articles := result.Articles
	if req.MaxArticles > 0 && len(articles) > req.MaxArticles {
		articles = articles[:req.MaxArticles]
	}

	out.records = make([]aggregator.Record, 0, len(articles))
	for _, a := range articles {
		out.records = append(out.records, aggregator.NewNewsRecord(a, p.scorer.Score(a.Title)))
	}
	logger.Debug("news scored", "articles", len(out.records), "fallback", result.Fallback)
	return out
}

func (p *Pipeline) runVideos(ctx context.Context, req Request, logger *slog.Logger) branch {
	var out branch

	limit := req.MaxVideos
	if limit == 0 {
		limit = p.defaultMaxVideos
	}

	result, err := p.videos.FetchVideos(ctx, req.Subject, limit)
	if err != nil {
		logger.Warn("video fetch failed", "error", err)
		out.notice(SourceVideo, LevelError, "YouTube unavailable: %v", err)
		return out
	}

	if result.Warning != "" {
		out.notice(SourceVideo, LevelWarn, "%s", result.Warning)
	}
	if result.CommentFailures > 0 {
		out.notice(SourceVideo, LevelWarn, "Comments unavailable for %d videos", result.CommentFailures)
	}
	for _, s := range result.Skipped {
		out.skipped = append(out.skipped, Skipped{Source: SourceVideo, ID: s.ID, Reason: s.Reason})
	}
	if n := len(result.Skipped); n > 0 {
		out.notice(SourceVideo, LevelWarn, "Skipped %d malformed videos", n)
	}

	out.records = make([]aggregator.Record, 0, len(result.Videos))
	for _, v := range result.Videos {
		readings := p.scorer.Fuse(v.Title, v.Description, v.Comments)
		out.records = append(out.records, aggregator.NewVideoRecord(v, readings))
	}
	logger.Debug("videos scored", "videos", len(out.records))
	return out
}
