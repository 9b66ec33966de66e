// Package youtube tests document the expected behavior of the YouTube client.
//
// Test requirements (this file serves as documentation):
// - Client refuses to start without an API key (disabled source, not a crash)
// - Client searches subject + qualifier, type=video, ordered by relevance
// - Client enriches candidates with one batched videos call
// - Client attaches at most 10 top-level comments per video
// - Counters default to 0, durations render as H:MM:SS / M:SS, descriptions are cut at 500 runes
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

// fakeAPI serves the three read-only endpoints the client uses.
type fakeAPI struct {
	search   func(w http.ResponseWriter, r *http.Request)
	videos   func(w http.ResponseWriter, r *http.Request)
	comments func(w http.ResponseWriter, r *http.Request)

	mu            sync.Mutex
	searchCalls   int
	videosCalls   int
	commentsCalls int
	requestedIDs  []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	f.mu.Lock()
	switch r.URL.Path {
	case "/youtube/v3/search":
		f.searchCalls++
		f.mu.Unlock()
		f.search(w, r)
	case "/youtube/v3/videos":
		f.videosCalls++
		for _, v := range r.URL.Query()["id"] {
			f.requestedIDs = append(f.requestedIDs, strings.Split(v, ",")...)
		}
		f.mu.Unlock()
		f.videos(w, r)
	case "/youtube/v3/commentThreads":
		f.commentsCalls++
		f.mu.Unlock()
		f.comments(w, r)
	default:
		f.mu.Unlock()
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	_ = json.NewEncoder(w).Encode(v)
}

func searchItems(ids ...string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]interface{}{
			"kind": "youtube#searchResult",
			"id":   map[string]interface{}{"kind": "youtube#video", "videoId": id},
		})
	}
	return map[string]interface{}{"kind": "youtube#searchListResponse", "items": items}
}

func videoItem(id, title, description string) map[string]interface{} {
	return map[string]interface{}{
		"id": id,
		"snippet": map[string]interface{}{
			"title":        title,
			"description":  description,
			"channelTitle": "Channel " + id,
			"publishedAt":  "2024-05-01T10:00:00Z",
			"thumbnails": map[string]interface{}{
				"default": map[string]interface{}{"url": "https://i.ytimg.com/vi/" + id + "/default.jpg"},
				"high":    map[string]interface{}{"url": "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"},
			},
		},
		"statistics": map[string]interface{}{
			"viewCount":    "1200",
			"likeCount":    "85",
			"commentCount": "12",
		},
		"contentDetails": map[string]interface{}{"duration": "PT1H2M3S"},
	}
}

func commentThreads(texts ...string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(texts))
	for _, text := range texts {
		items = append(items, map[string]interface{}{
			"snippet": map[string]interface{}{
				"topLevelComment": map[string]interface{}{
					"snippet": map[string]interface{}{"textDisplay": text},
				},
			},
		})
	}
	return map[string]interface{}{"kind": "youtube#commentThreadListResponse", "items": items}
}

func apiError(w http.ResponseWriter, code int, reason string) {
	w.WriteHeader(code)
	writeJSON(w, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": reason,
			"errors":  []map[string]interface{}{{"reason": reason, "domain": "youtube", "message": reason}},
		},
	})
}

func newTestClient(t *testing.T, serverURL string, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithBaseURL(serverURL), WithRateLimit(1000, 100)}, opts...)
	client, err := NewClient(context.Background(), testKey, opts...)
	require.NoError(t, err)
	return client
}

func TestAC600_NewClient_RequiresAPIKey(t *testing.T) {
	client, err := NewClient(context.Background(), "  ")

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, client)
}

func TestAC601_FetchVideos_SearchesSubjectWithQualifier(t *testing.T) {
	var query map[string][]string
	api := &fakeAPI{
		search: func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			writeJSON(w, searchItems())
		},
	}
	server := httptest.NewServer(api)
	defer server.Close()

	_, err := newTestClient(t, server.URL).FetchVideos(context.Background(), "Example Person", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"Example Person interview news"}, query["q"])
	assert.Equal(t, []string{"video"}, query["type"])
	assert.Equal(t, []string{"relevance"}, query["order"])
	assert.Equal(t, []string{"5"}, query["maxResults"])
	assert.Equal(t, []string{testKey}, query["key"])
}

func TestAC602_FetchVideos_NormalizesVideosWithComments(t *testing.T) {
	api := &fakeAPI{
		search: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, searchItems("vid1", "vid2", "vid1"))
		},
		videos: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]interface{}{"items": []interface{}{
				videoItem("vid1", "Example Person talks new album", "A long chat."),
				videoItem("vid2", "Example Person live", "Concert."),
			}})
		},
		comments: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, commentThreads("Love this <b>so</b> much", "Great<br>interview"))
		},
	}
	server := httptest.NewServer(api)
	defer server.Close()

	result, err := newTestClient(t, server.URL).FetchVideos(context.Background(), "Example Person", 10)
	require.NoError(t, err)
	require.Len(t, result.Videos, 2)

	assert.Equal(t, 1, api.videosCalls, "details should be fetched in one batched call")
	assert.ElementsMatch(t, []string{"vid1", "vid2"}, api.requestedIDs, "duplicate ids should be requested once")
	assert.Equal(t, 2, api.commentsCalls)

	v := result.Videos[0]
	assert.Equal(t, "vid1", v.ID)
	assert.Equal(t, "Example Person talks new album", v.Title)
	assert.Equal(t, "A long chat.", v.Description)
	assert.Equal(t, "Channel vid1", v.ChannelTitle)
	assert.EqualValues(t, 1200, v.ViewCount)
	assert.EqualValues(t, 85, v.LikeCount)
	assert.EqualValues(t, 12, v.CommentCount)
	assert.Equal(t, "PT1H2M3S", v.DurationISO)
	assert.Equal(t, "1:02:03", v.Duration)
	assert.Equal(t, "https://i.ytimg.com/vi/vid1/hqdefault.jpg", v.ThumbnailURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", v.URL)
	assert.Equal(t, "2024-05-01T10:00:00Z", v.PublishedRaw)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), v.PublishedAt.UTC())
	assert.Equal(t, "Example Person", v.Subject)
	assert.Equal(t, []string{"Love this so much", "Great interview"}, v.Comments)
	assert.Zero(t, result.CommentFailures)
}

func TestAC603_FetchVideos_KeepsAtMostTenComments(t *testing.T) {
	texts := make([]string, 14)
	for i := range texts {
		texts[i] = fmt.Sprintf("comment %d", i+1)
	}
	api := &fakeAPI{
		search: func(w http.ResponseWriter, r *http.Request) { writeJSON(w, searchItems("vid1")) },
		videos: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]interface{}{"items": []interface{}{videoItem("vid1", "t", "d")}})
		},
		comments: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
			assert.Equal(t, "relevance", r.URL.Query().Get("order"))
			assert.Equal(t, "vid1", r.URL.Query().Get("videoId"))
			writeJSON(w, commentThreads(texts...))
		},
	}
	server := httptest.NewServer(api)
	defer server.Close()

	result, err := newTestClient(t, server.URL).FetchVideos(context.Background(), "Example Person", 10)
	require.NoError(t, err)
	require.Len(t, result.Videos, 1)

	assert.Len(t, result.Videos[0].Comments, MaxComments)
	assert.Equal(t, "comment 1", result.Videos[0].Comments[0])
}

func TestAC604_FetchVideos_TruncatesDescriptionAndDefaultsFields(t *testing.T) {
	longDesc := strings.Repeat("x", 600)
	bare := map[string]interface{}{
		"id":      "bare",
		"snippet": map[string]interface{}{"title": "", "description": longDesc},
	}
	api := &fakeAPI{
		search: func(w http.ResponseWriter, r *http.Request) { writeJSON(w, searchItems("bare")) },
		videos: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]interface{}{"items": []interface{}{bare}})
		},
		comments: func(w http.ResponseWriter, r *http.Request) { writeJSON(w, commentThreads()) },
	}
	server := httptest.NewServer(api)
	defer server.Close()

	result, err := newTestClient(t, server.URL).FetchVideos(context.Background(), "Example Person", 10)
	require.NoError(t, err)
	require.Len(t, result.Videos, 1)

	v := result.Videos[0]
	assert.Equal(t, NoTitle, v.Title)
	assert.Len(t, []rune(v.Description), 503)
	assert.True(t, strings.HasSuffix(v.Description, "..."))
	assert.Zero(t, v.ViewCount)
	assert.Zero(t, v.LikeCount)
	assert.Zero(t, v.CommentCount)
	assert.Equal(t, UnknownDuration, v.Duration)
	assert.True(t, v.PublishedAt.IsZero())
	assert.NotNil(t, v.Comments)
	assert.Empty(t, v.Comments)
}

func TestAC605_FetchVideos_BoundsCommentConcurrency(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	items := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		items = append(items, videoItem(id, "t "+id, "d"))
	}

	var inFlight, peak atomic.Int32
	api := &fakeAPI{
		search: func(w http.ResponseWriter, r *http.Request) { writeJSON(w, searchItems(ids...)) },
		videos: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]interface{}{"items": items})
		},
		comments: func(w http.ResponseWriter, r *http.Request) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			writeJSON(w, commentThreads("ok"))
		},
	}
	server := httptest.NewServer(api)
	defer server.Close()

	result, err := newTestClient(t, server.URL, WithCommentWorkers(2)).FetchVideos(context.Background(), "Example Person", 10)
	require.NoError(t, err)

	assert.Len(t, result.Videos, len(ids))
	assert.LessOrEqual(t, peak.Load(), int32(2))
	for _, v := range result.Videos {
		assert.Equal(t, []string{"ok"}, v.Comments)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[string]string{
		"PT1H2M3S":  "1:02:03",
		"PT4M13S":   "4:13",
		"PT45S":     "0:45",
		"PT2H":      "2:00:00",
		"P1DT1H":    "25:00:00",
		"P0D":       "0:00",
		"":          UnknownDuration,
		"not-a-dur": UnknownDuration,
	}
	for in, want := range cases {
		assert.Equal(t, want, formatDuration(in), "duration %q", in)
	}
}

func TestClampResults(t *testing.T) {
	assert.EqualValues(t, DefaultMaxResults, clampResults(0))
	assert.EqualValues(t, DefaultMaxResults, clampResults(-3))
	assert.EqualValues(t, 7, clampResults(7))
	assert.EqualValues(t, MaxSearchResults, clampResults(500))
}
