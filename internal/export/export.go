// Package export writes scored records and reports as CSV and JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gauthierbraillon/sentimix/internal/aggregator"
	"github.com/gauthierbraillon/sentimix/internal/pipeline"
)

const dateLayout = "2006-01-02"

// Header lists the CSV columns in order.
var Header = []string{
	"type", "title", "channel", "source", "date", "sentiment", "score", "link", "views", "likes", "comments",
}

// Row is the flat projection of one record. Video-only columns are empty for news.
type Row struct {
	Type      string
	Title     string
	Channel   string
	Source    string
	Date      string
	Sentiment string
	Score     string
	Link      string
	Views     string
	Likes     string
	Comments  string
}

// Values returns the row in Header order.
func (r Row) Values() []string {
	return []string{
		r.Type, r.Title, r.Channel, r.Source, r.Date, r.Sentiment, r.Score, r.Link, r.Views, r.Likes, r.Comments,
	}
}

// Rows projects records to one row each, preserving order.
func Rows(records []aggregator.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			Type:      string(rec.Kind),
			Title:     rec.Title,
			Source:    rec.SourceLabel,
			Date:      rec.PublishedRaw,
			Sentiment: string(rec.Sentiment.Category),
			Score:     strconv.FormatFloat(rec.Sentiment.Score, 'f', 3, 64),
			Link:      rec.Link,
		}
		if !rec.PublishedAt.IsZero() {
			row.Date = rec.PublishedAt.Format(dateLayout)
		}
		if video, ok := rec.AsVideo(); ok {
			row.Channel = video.ChannelLabel
			row.Views = strconv.FormatInt(video.ViewCount, 10)
			row.Likes = strconv.FormatInt(video.LikeCount, 10)
			row.Comments = strconv.FormatInt(video.CommentCount, 10)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes a header line and one line per record.
func WriteCSV(w io.Writer, records []aggregator.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range Rows(records) {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteJSON writes the whole report as indented JSON.
func WriteJSON(w io.Writer, report *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// FileName derives an export file name from the subject, e.g.
// "Example Person" -> "Example_Person_sentiment_analysis.csv".
func FileName(subject, ext string) string {
	base := strings.Join(strings.Fields(subject), "_")
	if base == "" {
		base = "subject"
	}
	return fmt.Sprintf("%s_sentiment_analysis.%s", base, strings.TrimPrefix(ext, "."))
}
