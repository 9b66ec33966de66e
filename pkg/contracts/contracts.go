// Package contracts holds recorded upstream responses in the wire format of
// the Google News RSS search feed and the YouTube Data API v3.
//
// Client tests and CLI fakes serve these payloads so every test exercises the
// same shapes the real services return.
package contracts

// Paths of the upstream endpoints, relative to their base URLs.
const (
	NewsSearchPath     = "/rss/search"
	YouTubeSearchPath  = "/youtube/v3/search"
	YouTubeVideosPath  = "/youtube/v3/videos"
	YouTubeCommentPath = "/youtube/v3/commentThreads"
)

// GoogleNewsFeedContract is a search feed with a complete entry, an entry
// whose source is missing and an entry with an accented title.
const GoogleNewsFeedContract = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<rss xmlns:media="http://search.yahoo.com/mrss/" version="2.0">
  <channel>
    <generator>NFE/5.0</generator>
    <title>"Example Person celebrity news" - Google News</title>
    <link>https://news.google.com/search?q=Example+Person+celebrity+news&amp;hl=en-US&amp;gl=US&amp;ceid=US:en</link>
    <language>en-US</language>
    <webMaster>news-webmaster@google.com</webMaster>
    <copyright>2024 Google LLC</copyright>
    <lastBuildDate>Sun, 30 Jun 2024 12:00:00 GMT</lastBuildDate>
    <description>Google News</description>
    <item>
      <title>Example Person wins award at festival - Daily News</title>
      <link>https://news.google.com/rss/articles/CBMiAAA?oc=5</link>
      <guid isPermaLink="false">CBMiAAA</guid>
      <pubDate>Mon, 03 Jun 2024 08:00:00 GMT</pubDate>
      <description>&lt;a href="https://news.google.com/rss/articles/CBMiAAA?oc=5"&gt;Example Person wins award at festival&lt;/a&gt;</description>
      <source url="https://dailynews.example">Daily News</source>
    </item>
    <item>
      <title>Example Person in scandal over tour cancellation</title>
      <link>https://news.google.com/rss/articles/CBMiBBB?oc=5</link>
      <guid isPermaLink="false">CBMiBBB</guid>
      <pubDate>Sat, 01 Jun 2024 17:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Café interview: Example Person on the next album</title>
      <link>https://news.google.com/rss/articles/CBMiCCC?oc=5</link>
      <guid isPermaLink="false">CBMiCCC</guid>
      <pubDate>Fri, 31 May 2024 09:15:00 GMT</pubDate>
      <source url="https://musicweekly.example">Music Weekly</source>
    </item>
  </channel>
</rss>`

// YouTubeSearchContract is a search.list response (part=snippet, type=video).
const YouTubeSearchContract = `{
  "kind": "youtube#searchListResponse",
  "etag": "etag-search",
  "nextPageToken": "CAoQAA",
  "regionCode": "US",
  "pageInfo": {"totalResults": 1000000, "resultsPerPage": 2},
  "items": [
    {
      "kind": "youtube#searchResult",
      "etag": "etag-a",
      "id": {"kind": "youtube#video", "videoId": "vidAAA"},
      "snippet": {
        "publishedAt": "2024-06-01T10:00:00Z",
        "channelId": "UCchannelA",
        "title": "Example Person full interview",
        "description": "Example Person talks about the new album.",
        "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/vidAAA/default.jpg", "width": 120, "height": 90}},
        "channelTitle": "Talk Channel",
        "liveBroadcastContent": "none"
      }
    },
    {
      "kind": "youtube#searchResult",
      "etag": "etag-b",
      "id": {"kind": "youtube#video", "videoId": "vidBBB"},
      "snippet": {
        "publishedAt": "2024-05-20T18:45:00Z",
        "channelId": "UCchannelB",
        "title": "Example Person responds to critics",
        "description": "Clip from the evening show.",
        "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/vidBBB/default.jpg", "width": 120, "height": 90}},
        "channelTitle": "Evening Show",
        "liveBroadcastContent": "none"
      }
    }
  ]
}`

// YouTubeVideosContract is a videos.list response (part=snippet,statistics,contentDetails).
// The second video hides its like count, as the API does when likes are private.
const YouTubeVideosContract = `{
  "kind": "youtube#videoListResponse",
  "etag": "etag-videos",
  "pageInfo": {"totalResults": 2, "resultsPerPage": 2},
  "items": [
    {
      "kind": "youtube#video",
      "etag": "etag-va",
      "id": "vidAAA",
      "snippet": {
        "publishedAt": "2024-06-01T10:00:00Z",
        "channelId": "UCchannelA",
        "title": "Example Person full interview",
        "description": "Example Person talks about the new album, the tour and what comes next.",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/vidAAA/default.jpg", "width": 120, "height": 90},
          "medium": {"url": "https://i.ytimg.com/vi/vidAAA/mqdefault.jpg", "width": 320, "height": 180},
          "high": {"url": "https://i.ytimg.com/vi/vidAAA/hqdefault.jpg", "width": 480, "height": 360}
        },
        "channelTitle": "Talk Channel",
        "tags": ["interview"],
        "categoryId": "24",
        "liveBroadcastContent": "none",
        "localized": {"title": "Example Person full interview", "description": "Example Person talks about the new album."}
      },
      "contentDetails": {
        "duration": "PT1H2M3S",
        "dimension": "2d",
        "definition": "hd",
        "caption": "false",
        "licensedContent": true,
        "contentRating": {},
        "projection": "rectangular"
      },
      "statistics": {"viewCount": "152340", "likeCount": "8731", "favoriteCount": "0", "commentCount": "642"}
    },
    {
      "kind": "youtube#video",
      "etag": "etag-vb",
      "id": "vidBBB",
      "snippet": {
        "publishedAt": "2024-05-20T18:45:00Z",
        "channelId": "UCchannelB",
        "title": "Example Person responds to critics",
        "description": "Clip from the evening show.",
        "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/vidBBB/default.jpg", "width": 120, "height": 90}},
        "channelTitle": "Evening Show",
        "categoryId": "24",
        "liveBroadcastContent": "none"
      },
      "contentDetails": {"duration": "PT4M13S", "dimension": "2d", "definition": "hd", "caption": "true", "licensedContent": false, "projection": "rectangular"},
      "statistics": {"viewCount": "9120", "favoriteCount": "0", "commentCount": "88"}
    }
  ]
}`

// YouTubeCommentThreadsContract is a commentThreads.list response (part=snippet).
const YouTubeCommentThreadsContract = `{
  "kind": "youtube#commentThreadListResponse",
  "etag": "etag-comments",
  "pageInfo": {"totalResults": 2, "resultsPerPage": 10},
  "items": [
    {
      "kind": "youtube#commentThread",
      "etag": "etag-ca",
      "id": "UgxA",
      "snippet": {
        "channelId": "UCchannelA",
        "videoId": "vidAAA",
        "topLevelComment": {
          "kind": "youtube#comment",
          "etag": "etag-ca-top",
          "id": "UgxA",
          "snippet": {
            "channelId": "UCchannelA",
            "videoId": "vidAAA",
            "textDisplay": "This was <b>amazing</b>, great interview!",
            "textOriginal": "This was amazing, great interview!",
            "authorDisplayName": "@viewer1",
            "canRate": true,
            "viewerRating": "none",
            "likeCount": 41,
            "publishedAt": "2024-06-01T12:00:00Z",
            "updatedAt": "2024-06-01T12:00:00Z"
          }
        },
        "canReply": true,
        "totalReplyCount": 2,
        "isPublic": true
      }
    },
    {
      "kind": "youtube#commentThread",
      "etag": "etag-cb",
      "id": "UgxB",
      "snippet": {
        "channelId": "UCchannelA",
        "videoId": "vidAAA",
        "topLevelComment": {
          "kind": "youtube#comment",
          "etag": "etag-cb-top",
          "id": "UgxB",
          "snippet": {
            "channelId": "UCchannelA",
            "videoId": "vidAAA",
            "textDisplay": "Not a fan of the new sound<br>honestly disappointing",
            "textOriginal": "Not a fan of the new sound\nhonestly disappointing",
            "authorDisplayName": "@viewer2",
            "canRate": true,
            "viewerRating": "none",
            "likeCount": 3,
            "publishedAt": "2024-06-02T08:30:00Z",
            "updatedAt": "2024-06-02T08:30:00Z"
          }
        },
        "canReply": true,
        "totalReplyCount": 0,
        "isPublic": true
      }
    }
  ]
}`

// YouTubeQuotaExceededContract is the error body returned with HTTP 403 when
// the daily quota is spent.
const YouTubeQuotaExceededContract = `{
  "error": {
    "code": 403,
    "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
    "errors": [
      {
        "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
        "domain": "youtube.quota",
        "reason": "quotaExceeded"
      }
    ]
  }
}`

// YouTubeCommentsDisabledContract is the error body returned with HTTP 403
// by commentThreads.list for a video with comments turned off.
const YouTubeCommentsDisabledContract = `{
  "error": {
    "code": 403,
    "message": "The video identified by the <code><a href=\"/youtube/v3/docs/commentThreads/list#videoId\">videoId</a></code> parameter has disabled comments.",
    "errors": [
      {
        "message": "The video identified by the <code><a href=\"/youtube/v3/docs/commentThreads/list#videoId\">videoId</a></code> parameter has disabled comments.",
        "domain": "youtube.commentThread",
        "reason": "commentsDisabled",
        "location": "videoId",
        "locationType": "parameter"
      }
    ]
  }
}`
