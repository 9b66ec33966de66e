package news

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/gauthierbraillon/sentimix/internal/textclean"
)

const (
	defaultBaseURL   = "https://news.google.com/rss/search"
	defaultQualifier = "celebrity news"
	defaultTimeout   = 10 * time.Second
	// DefaultUserAgent identifies as a desktop browser; the feed degrades responses for unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultWindowMonths is used when FetchNews gets a non-positive window.
	DefaultWindowMonths = 3
	// DaysPerMonth approximates a month when computing the search window.
	DaysPerMonth = 30
	// PrimaryLimit caps entries taken from the windowed query.
	PrimaryLimit = 20
	// FallbackLimit caps entries taken from the broader query.
	FallbackLimit = 40

	maxFeedBytes = 5 << 20
	dateLayout   = "2006-01-02"
	localeParams = "&hl=en-US&gl=US&ceid=US:en"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the search endpoint (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds each feed request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithQualifier sets the term appended to the subject in every query.
func WithQualifier(q string) ClientOption {
	return func(c *Client) {
		c.qualifier = q
	}
}

// WithClock replaces time.Now when computing the search window.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client searches the news feed for a subject.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	userAgent  string
	qualifier  string
	timeout    time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewClient creates a new news feed client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		userAgent:  DefaultUserAgent,
		qualifier:  defaultQualifier,
		timeout:    defaultTimeout,
		now:        time.Now,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchNews searches for subject over the last windowMonths (30-day months).
// When the windowed query parses to zero entries, exactly one broader query
// without date operators is issued. Only a failure of the windowed query is
// returned as an error; a failed broader query leaves Result.FallbackErr set.
func (c *Client) FetchNews(ctx context.Context, subject string, windowMonths int) (Result, error) {
	if windowMonths <= 0 {
		windowMonths = DefaultWindowMonths
	}
	end := c.now()
	start := end.AddDate(0, 0, -windowMonths*DaysPerMonth)

	primaryURL := c.buildSearchURL(subject, &start, &end)
	c.logger.Debug("news primary query", "url", primaryURL)

	body, err := c.fetch(ctx, primaryURL)
	if err != nil {
		return Result{}, err
	}
	result, err := parseFeed(body, subject, PrimaryLimit)
	if err != nil {
		return Result{}, err
	}
	if len(result.Articles) > 0 {
		return result, nil
	}

	fallbackURL := c.buildSearchURL(subject, nil, nil)
	c.logger.Info("news windowed query empty, using broader search", "subject", subject)

	result.Fallback = true
	body, err = c.fetch(ctx, fallbackURL)
	if err != nil {
		result.FallbackErr = err
		return result, nil
	}
	broader, err := parseFeed(body, subject, FallbackLimit)
	if err != nil {
		result.FallbackErr = err
		return result, nil
	}
	result.Articles = append(result.Articles, broader.Articles...)
	result.Skipped = append(result.Skipped, broader.Skipped...)
	return result, nil
}

// buildSearchURL encodes the query the way the feed expects: the phrase is
// percent-encoded with spaces as %20 (so '&' and '+' in a subject survive) and
// the date operators are joined with literal '+'.
func (c *Client) buildSearchURL(subject string, start, end *time.Time) string {
	q := strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(subject+" "+c.qualifier)), "+", "%20")
	if start != nil && end != nil {
		q += "+after:" + start.Format(dateLayout) + "+before:" + end.Format(dateLayout)
	}
	return c.baseURL + "?q=" + q + localeParams
}

func (c *Client) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news feed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, handleAPIError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read news feed: %w", err)
	}
	return body, nil
}

func parseFeed(data []byte, subject string, limit int) (Result, error) {
	parser := &rss.Parser{}
	feed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse news feed: %w", err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	result := Result{Articles: make([]Article, 0, len(items))}
	for i, item := range items {
		article, reason := normalizeItem(item, subject)
		if reason != "" {
			result.Skipped = append(result.Skipped, Skip{Index: i, Reason: reason})
			continue
		}
		result.Articles = append(result.Articles, article)
	}
	return result, nil
}

// normalizeItem applies an independent placeholder to each missing field.
func normalizeItem(item *rss.Item, subject string) (Article, string) {
	if item == nil {
		return Article{}, "empty feed entry"
	}

	article := Article{
		Title:        NoTitle,
		Link:         NoLink,
		Source:       UnknownSource,
		PublishedRaw: UnknownDate,
		Subject:      subject,
	}
	if title := strings.TrimSpace(textclean.ASCII(item.Title)); title != "" {
		article.Title = title
	}
	if link := strings.TrimSpace(item.Link); link != "" {
		article.Link = link
	}
	if item.Source != nil && strings.TrimSpace(item.Source.Title) != "" {
		article.Source = strings.TrimSpace(item.Source.Title)
	}
	if pub := strings.TrimSpace(item.PubDate); pub != "" {
		article.PublishedRaw = pub
		article.PublishedAt = parsePubDate(pub)
	}
	if item.PubDateParsed != nil && article.PublishedAt.IsZero() {
		article.PublishedAt = *item.PubDateParsed
	}
	return article, ""
}

func parsePubDate(s string) time.Time {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusForbidden:
		return fmt.Errorf("news feed refused the request (status 403) - the User-Agent may be blocked")
	case http.StatusTooManyRequests:
		return fmt.Errorf("news feed rate limit exceeded - please try again later")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("news feed temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("news feed server error (status %d) - please try again later", statusCode)
	default:
		return fmt.Errorf("news feed returned HTTP %d", statusCode)
	}
}
