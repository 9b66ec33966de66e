package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sosodev/duration"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/gauthierbraillon/sentimix/internal/textclean"
)

const (
	defaultQualifier         = "interview news"
	defaultTimeout           = 10 * time.Second
	defaultCommentWorkers    = 4
	defaultRequestsPerSecond = 10
	// DefaultMaxResults is used when FetchVideos gets a non-positive cap.
	DefaultMaxResults = 10
	// MaxSearchResults is the largest page the search endpoint serves.
	MaxSearchResults = 50

	watchURL = "https://www.youtube.com/watch?v="
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom API endpoint (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(url, "/") + "/"
	}
}

// WithQualifier sets the terms appended to the subject in the search query.
func WithQualifier(q string) ClientOption {
	return func(c *Client) {
		c.qualifier = q
	}
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCommentWorkers caps the number of concurrent comment requests.
func WithCommentWorkers(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithRateLimit paces all API calls to requestsPerSecond with the given burst.
func WithRateLimit(requestsPerSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client is a YouTube Data API client authenticated with an API key.
type Client struct {
	service   *yt.Service
	endpoint  string
	qualifier string
	timeout   time.Duration
	workers   int
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewClient creates a client for apiKey. An empty key returns ErrNotConfigured
// so callers can disable the video source before any network call.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}

	c := &Client{
		qualifier: defaultQualifier,
		timeout:   defaultTimeout,
		workers:   defaultCommentWorkers,
		limiter:   rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultCommentWorkers),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	serviceOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if c.endpoint != "" {
		serviceOpts = append(serviceOpts, option.WithEndpoint(c.endpoint))
	}
	service, err := yt.NewService(ctx, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.service = service

	return c, nil
}

// FetchVideos searches videos about subject and returns them with statistics
// and up to MaxComments top-level comments each. API errors and unexpected
// response shapes come back as Result.Warning; only transport failures are errors.
func (c *Client) FetchVideos(ctx context.Context, subject string, maxResults int) (Result, error) {
	search, err := c.search(ctx, subject, clampResults(maxResults))
	if err != nil {
		if warning, ok := apiWarning(err); ok {
			return Result{Warning: warning}, nil
		}
		return Result{}, fmt.Errorf("youtube search failed: %w", err)
	}
	if search.Items == nil {
		return Result{Warning: "YouTube search response has no items collection"}, nil
	}

	ids := candidateIDs(search.Items)
	if len(ids) == 0 {
		return Result{Videos: []Video{}}, nil
	}

	details, err := c.details(ctx, ids)
	if err != nil {
		if warning, ok := apiWarning(err); ok {
			return Result{Warning: warning}, nil
		}
		return Result{}, fmt.Errorf("youtube video details failed: %w", err)
	}
	if details.Items == nil {
		return Result{Warning: "YouTube videos response has no items collection"}, nil
	}

	result := Result{Videos: make([]Video, 0, len(details.Items))}
	for _, item := range details.Items {
		video, skip := normalizeVideo(item, subject)
		if skip != nil {
			c.logger.Debug("skipping video", "id", skip.ID, "reason", skip.Reason)
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		result.Videos = append(result.Videos, video)
	}

	result.CommentFailures = c.attachComments(ctx, result.Videos)
	return result, nil
}

func (c *Client) search(ctx context.Context, subject string, maxResults int64) (*yt.SearchListResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := strings.TrimSpace(subject + " " + c.qualifier)
	return c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(maxResults).
		Context(ctx).
		Do()
}

func (c *Client) details(ctx context.Context, ids []string) (*yt.VideoListResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
}

// attachComments fills each video's comments with a bounded fan-out and
// returns the number of videos whose comments could not be fetched.
func (c *Client) attachComments(ctx context.Context, videos []Video) int {
	var failures atomic.Int32
	var g errgroup.Group
	g.SetLimit(c.workers)

	for i := range videos {
		g.Go(func() error {
			comments, err := c.comments(ctx, videos[i].ID)
			if err != nil {
				failures.Add(1)
				c.logger.Debug("comments unavailable", "id", videos[i].ID, "error", err)
				comments = []string{}
			}
			videos[i].Comments = comments
			return nil
		})
	}
	_ = g.Wait()

	return int(failures.Load())
}

func (c *Client) comments(ctx context.Context, videoID string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(MaxComments).
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	comments := make([]string, 0, MaxComments)
	for _, thread := range resp.Items {
		if len(comments) == MaxComments {
			break
		}
		if thread == nil || thread.Snippet == nil || thread.Snippet.TopLevelComment == nil ||
			thread.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		snippet := thread.Snippet.TopLevelComment.Snippet
		text := textclean.StripHTML(snippet.TextDisplay)
		if text == "" {
			text = strings.TrimSpace(snippet.TextOriginal)
		}
		if text != "" {
			comments = append(comments, text)
		}
	}
	return comments, nil
}

func candidateIDs(items []*yt.SearchResult) []string {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" || seen[item.Id.VideoId] {
			continue
		}
		seen[item.Id.VideoId] = true
		ids = append(ids, item.Id.VideoId)
	}
	return ids
}

func normalizeVideo(item *yt.Video, subject string) (Video, *Skip) {
	if item == nil {
		return Video{}, &Skip{Reason: "empty item"}
	}
	if item.Id == "" {
		return Video{}, &Skip{Reason: "missing video id"}
	}
	if item.Snippet == nil {
		return Video{}, &Skip{ID: item.Id, Reason: "missing snippet"}
	}

	snippet := item.Snippet
	video := Video{
		ID:           item.Id,
		Title:        strings.TrimSpace(textclean.ASCII(snippet.Title)),
		Description:  textclean.Truncate(snippet.Description, MaxDescription),
		ChannelTitle: snippet.ChannelTitle,
		PublishedRaw: snippet.PublishedAt,
		Duration:     UnknownDuration,
		ThumbnailURL: thumbnailURL(snippet.Thumbnails),
		URL:          watchURL + item.Id,
		Comments:     []string{},
		Subject:      subject,
	}
	if video.Title == "" {
		video.Title = NoTitle
	}
	if t, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
		video.PublishedAt = t
	}
	if stats := item.Statistics; stats != nil {
		video.ViewCount = int64(stats.ViewCount)
		video.LikeCount = int64(stats.LikeCount)
		video.CommentCount = int64(stats.CommentCount)
	}
	if item.ContentDetails != nil {
		video.DurationISO = item.ContentDetails.Duration
		video.Duration = formatDuration(item.ContentDetails.Duration)
	}
	return video, nil
}

func thumbnailURL(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*yt.Thumbnail{t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// formatDuration renders an ISO-8601 duration as H:MM:SS, or M:SS under an hour.
func formatDuration(iso string) string {
	if iso == "" {
		return UnknownDuration
	}
	d, err := duration.Parse(iso)
	if err != nil {
		return UnknownDuration
	}
	total := int64(d.ToTimeDuration().Round(time.Second) / time.Second)
	if total < 0 {
		return UnknownDuration
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func clampResults(n int) int64 {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxSearchResults:
		return MaxSearchResults
	default:
		return int64(n)
	}
}

// apiWarning turns an API error response into a user-facing warning.
func apiWarning(err error) (string, bool) {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return "", false
	}
	reason := ""
	if len(apiErr.Errors) > 0 {
		reason = apiErr.Errors[0].Reason
	}
	return handleAPIError(apiErr.Code, reason), true
}

func handleAPIError(statusCode int, reason string) string {
	switch {
	case reason == "quotaExceeded" || reason == "dailyLimitExceeded":
		return "YouTube API quota exceeded - video results unavailable until the quota resets"
	case statusCode == http.StatusBadRequest && reason == "keyInvalid":
		return "YouTube API key rejected - check the configured key"
	case statusCode == http.StatusForbidden:
		return "YouTube API access denied - check that the Data API is enabled for this key"
	case statusCode == http.StatusTooManyRequests:
		return "YouTube API rate limit exceeded - please try again later"
	case statusCode == http.StatusServiceUnavailable:
		return "YouTube API temporarily unavailable - please try again in a few minutes"
	case statusCode >= http.StatusInternalServerError:
		return "YouTube API server error - please try again later"
	default:
		return fmt.Sprintf("YouTube API error (status %d) - please try again", statusCode)
	}
}
