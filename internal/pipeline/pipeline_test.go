// Package pipeline tests document the expected behavior of an analysis run.
//
// Test requirements (this file serves as documentation):
// - Both sources run for one request; their records are scored and aggregated together
// - A failing source becomes a notice, never a failed run
// - Without a video source the run still succeeds and reports the video stage as disabled
// - "No data found" is distinguishable from a transport failure
// - Only an invalid request fails a run
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/sentimix/internal/aggregator"
	"github.com/gauthierbraillon/sentimix/internal/news"
	"github.com/gauthierbraillon/sentimix/internal/sentiment"
	"github.com/gauthierbraillon/sentimix/internal/youtube"
)

type fakeNews struct {
	result news.Result
	err    error
	calls  atomic.Int32
	gotReq struct {
		subject string
		months  int
	}
}

func (f *fakeNews) FetchNews(_ context.Context, subject string, windowMonths int) (news.Result, error) {
	f.calls.Add(1)
	f.gotReq.subject, f.gotReq.months = subject, windowMonths
	return f.result, f.err
}

type fakeVideos struct {
	result  youtube.Result
	err     error
	gotMax  int
	release chan struct{}
}

func (f *fakeVideos) FetchVideos(_ context.Context, _ string, maxResults int) (youtube.Result, error) {
	f.gotMax = maxResults
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

// keywordScorer scores text by keyword so tests do not depend on a lexicon.
func keywordScorer() *sentiment.Scorer {
	return sentiment.NewScorer(sentiment.WithPolarity(sentiment.PolarityFunc(func(text string) float64 {
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "good"):
			return 0.8
		case strings.Contains(lower, "bad"):
			return -0.8
		default:
			return 0
		}
	})))
}

func article(title string) news.Article {
	return news.Article{Title: title, Link: "https://example.com/" + title, Source: "Wire", Subject: "Example Person"}
}

func TestAC800_Run_ScoresAndAggregatesBothSources(t *testing.T) {
	newsSrc := &fakeNews{result: news.Result{Articles: []news.Article{article("good news"), article("bad news")}}}
	videoSrc := &fakeVideos{result: youtube.Result{Videos: []youtube.Video{{
		ID:          "vid1",
		Title:       "good video",
		Description: "good description",
		Comments:    []string{"good", "bad", "fine"},
		Subject:     "Example Person",
	}}}}
	generated := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	p := New(newsSrc, WithVideoSource(videoSrc), WithScorer(keywordScorer()),
		WithClock(func() time.Time { return generated }))
	report, err := p.Run(context.Background(), Request{Subject: "  Example Person  ", WindowMonths: 6})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.Equal(t, "Example Person", report.Subject)
	assert.Equal(t, "Example Person", newsSrc.gotReq.subject)
	assert.Equal(t, 6, newsSrc.gotReq.months)
	assert.Equal(t, youtube.DefaultMaxResults, videoSrc.gotMax)
	assert.Equal(t, generated, report.GeneratedAt)
	assert.Equal(t, VideoEnabled, report.VideoStatus)
	assert.Empty(t, report.Notices)

	assert.Equal(t, 3, report.Stats.Total)
	assert.Equal(t, 2, report.NewsStats.Total)
	assert.Equal(t, 1, report.VideoStats.Total)

	var video aggregator.Record
	for _, r := range report.Records {
		if r.Kind == aggregator.KindVideo {
			video = r
		}
	}
	details, ok := video.AsVideo()
	require.True(t, ok)
	// 0.4*0.8 + 0.3*0.8 + 0.3*mean(0.8, -0.8, 0)
	assert.InDelta(t, 0.56, video.Sentiment.Score, 1e-9)
	assert.Equal(t, sentiment.Positive, video.Category())
	assert.InDelta(t, 0.0, details.Readings.CommentAggregate, 1e-9)
}

func TestAC801_Run_EndToEndFallbackScenario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "after:") {
			fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>empty</title></channel></rss>`)
			return
		}
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>results</title>
<item><title>Example Person wins award</title><link>https://example.com/1</link><source url="https://a.example">A</source></item>
<item><title>Example Person in scandal</title><link>https://example.com/2</link><source url="https://b.example">B</source></item>
<item><title>Example Person seen at cafe</title><link>https://example.com/3</link><source url="https://c.example">C</source></item>
</channel></rss>`)
	}))
	defer server.Close()

	p := New(news.NewClient(news.WithBaseURL(server.URL)))
	report, err := p.Run(context.Background(), Request{Subject: "Example Person", WindowMonths: 3})
	require.NoError(t, err)

	categories := map[string]sentiment.Category{}
	for _, r := range report.Records {
		categories[r.Title] = r.Category()
	}
	assert.Equal(t, sentiment.Positive, categories["Example Person wins award"])
	assert.Equal(t, sentiment.Negative, categories["Example Person in scandal"])
	assert.Equal(t, sentiment.Neutral, categories["Example Person seen at cafe"])

	stats := report.Stats
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.PositiveCount)
	assert.Equal(t, 1, stats.NegativeCount)
	assert.Equal(t, 1, stats.NeutralCount)
	assert.InDelta(t, 33.3, stats.PositivePct, 0.05)
	assert.InDelta(t, 33.3, stats.NegativePct, 0.05)
	assert.InDelta(t, 33.3, stats.NeutralPct, 0.05)

	require.NotEmpty(t, report.Notices)
	assert.Contains(t, report.Notices, Notice{
		Source: SourceNews, Level: LevelInfo, Message: "No articles in the last 3 months; showing broader results",
	})
	assert.True(t, report.NewsFallback)
	assert.Equal(t, VideoDisabled, report.VideoStatus)
}

func TestAC802_Run_NewsFailureDoesNotAbortVideos(t *testing.T) {
	newsSrc := &fakeNews{err: errors.New("news feed server error (status 502)")}
	videoSrc := &fakeVideos{result: youtube.Result{Videos: []youtube.Video{{ID: "vid1", Title: "good"}}}}

	report, err := New(newsSrc, WithVideoSource(videoSrc), WithScorer(keywordScorer())).
		Run(context.Background(), Request{Subject: "Example Person"})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.Total)
	assert.True(t, report.Failed())
	assert.False(t, report.NoData())
	require.Len(t, report.Notices, 1)
	assert.Equal(t, SourceNews, report.Notices[0].Source)
	assert.Equal(t, LevelError, report.Notices[0].Level)
}

func TestAC803_Run_VideoWarningsBecomeNotices(t *testing.T) {
	newsSrc := &fakeNews{result: news.Result{Articles: []news.Article{article("good")}}}
	videoSrc := &fakeVideos{result: youtube.Result{
		Videos:          []youtube.Video{{ID: "vid1", Title: "clip"}},
		Skipped:         []youtube.Skip{{ID: "broken", Reason: "missing snippet"}},
		CommentFailures: 1,
	}}

	report, err := New(newsSrc, WithVideoSource(videoSrc), WithScorer(keywordScorer())).
		Run(context.Background(), Request{Subject: "Example Person", MaxVideos: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, videoSrc.gotMax)
	assert.False(t, report.Failed())
	assert.Equal(t, []Skipped{{Source: SourceVideo, ID: "broken", Reason: "missing snippet"}}, report.Skipped)

	var messages []string
	for _, n := range report.Notices {
		assert.Equal(t, LevelWarn, n.Level)
		messages = append(messages, n.Message)
	}
	assert.Contains(t, messages, "Comments unavailable for 1 videos")
	assert.Contains(t, messages, "Skipped 1 malformed videos")
}

func TestAC803_Run_QuotaWarningIsNotAFailure(t *testing.T) {
	newsSrc := &fakeNews{}
	videoSrc := &fakeVideos{result: youtube.Result{Warning: "YouTube API quota exceeded"}}

	report, err := New(newsSrc, WithVideoSource(videoSrc), WithScorer(keywordScorer())).
		Run(context.Background(), Request{Subject: "Example Person"})
	require.NoError(t, err)

	assert.True(t, report.NoData())
	assert.False(t, report.Failed())
	assert.Equal(t, []Notice{{Source: SourceVideo, Level: LevelWarn, Message: "YouTube API quota exceeded"}}, report.Notices)
}

func TestAC804_Run_NoDataIsDistinctFromFailure(t *testing.T) {
	report, err := New(&fakeNews{result: news.Result{Fallback: true}}, WithScorer(keywordScorer())).
		Run(context.Background(), Request{Subject: "Nobody Known"})
	require.NoError(t, err)

	assert.True(t, report.NoData())
	assert.False(t, report.Failed())
	assert.Equal(t, aggregator.Stats{}, report.Stats)
	assert.NotNil(t, report.Records)
	assert.NotNil(t, report.Skipped)
}

func TestAC805_Run_VideoStageDisabledWithoutSource(t *testing.T) {
	report, err := New(&fakeNews{result: news.Result{Articles: []news.Article{article("good")}}},
		WithScorer(keywordScorer())).
		Run(context.Background(), Request{Subject: "Example Person"})
	require.NoError(t, err)

	assert.Equal(t, VideoDisabled, report.VideoStatus)
	assert.Equal(t, 0, report.VideoStats.Total)
	require.Len(t, report.Notices, 1)
	assert.Equal(t, LevelInfo, report.Notices[0].Level)
	assert.Contains(t, report.Notices[0].Message, "disabled")
}

func TestAC806_Run_CapsArticles(t *testing.T) {
	articles := make([]news.Article, 8)
	for i := range articles {
		articles[i] = article(fmt.Sprintf("story %d", i))
	}
	report, err := New(&fakeNews{result: news.Result{Articles: articles}}, WithScorer(keywordScorer())).
		Run(context.Background(), Request{Subject: "Example Person", MaxArticles: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, report.NewsStats.Total)
}

func TestAC807_Run_SourcesRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	newsSrc := &fakeNews{result: news.Result{Articles: []news.Article{article("good")}}}
	videoSrc := &fakeVideos{release: release}

	done := make(chan *Report)
	go func() {
		report, _ := New(newsSrc, WithVideoSource(videoSrc), WithScorer(keywordScorer())).
			Run(context.Background(), Request{Subject: "Example Person"})
		done <- report
	}()

	assert.Eventually(t, func() bool { return newsSrc.calls.Load() == 1 }, time.Second, 5*time.Millisecond,
		"news should be fetched while videos are still in flight")
	close(release)

	select {
	case report := <-done:
		assert.Equal(t, 1, report.Stats.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish")
	}
}

func TestAC808_Run_RejectsInvalidRequests(t *testing.T) {
	newsSrc := &fakeNews{}
	p := New(newsSrc)

	tests := []struct {
		name string
		req  Request
	}{
		{"blank subject", Request{Subject: "   "}},
		{"window too long", Request{Subject: "Example Person", WindowMonths: 13}},
		{"negative window", Request{Subject: "Example Person", WindowMonths: -1}},
		{"too many articles", Request{Subject: "Example Person", MaxArticles: 101}},
		{"too many videos", Request{Subject: "Example Person", MaxVideos: 51}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := p.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Nil(t, report)
		})
	}
	assert.Zero(t, newsSrc.calls.Load(), "invalid requests must not reach a source")
}

func TestAC809_Report_ViewFiltersBySentimentAndKind(t *testing.T) {
	newsSrc := &fakeNews{result: news.Result{Articles: []news.Article{article("good"), article("bad"), article("plain")}}}
	videoSrc := &fakeVideos{result: youtube.Result{Videos: []youtube.Video{{ID: "v", Title: "good", Description: "good"}}}}

	report, err := New(newsSrc, WithVideoSource(videoSrc), WithScorer(keywordScorer())).
		Run(context.Background(), Request{Subject: "Example Person"})
	require.NoError(t, err)

	positives, stats := report.View(aggregator.FeedOptions{Categories: []sentiment.Category{sentiment.Positive}})
	assert.Len(t, positives, 2)
	assert.Equal(t, 2, stats.PositiveCount)
	assert.InDelta(t, 100.0, stats.PositivePct, 1e-9)

	newsOnly, _ := report.View(aggregator.FeedOptions{Kinds: []aggregator.Kind{aggregator.KindNews}})
	assert.Len(t, newsOnly, 3)
}
