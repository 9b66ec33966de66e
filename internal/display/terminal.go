// Package display provides terminal output formatting for sentimix.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/gauthierbraillon/sentimix/internal/aggregator"
	"github.com/gauthierbraillon/sentimix/internal/pipeline"
	"github.com/gauthierbraillon/sentimix/internal/sentiment"
)

const (
	separator     = " • "
	maxTitleWidth = 120
)

// TerminalFormatter formats analysis reports for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{now: time.Now}
}

// FormatReport renders the notices, the statistics and the records of report
// that match opts.
func (f *TerminalFormatter) FormatReport(report *pipeline.Report, opts aggregator.FeedOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sentiment analysis for %q (%s)\n", report.Subject, windowLabel(report))
	for _, n := range report.Notices {
		fmt.Fprintf(&b, "[%s] %s: %s\n", strings.ToUpper(string(n.Level)), n.Source, n.Message)
	}
	b.WriteString("\n")

	records, stats := report.View(opts)
	if len(records) == 0 {
		b.WriteString(f.FormatRecords(nil))
		return b.String()
	}

	b.WriteString(f.FormatStats(stats))
	b.WriteString("\n")
	b.WriteString(f.FormatRecords(records))
	return b.String()
}

// windowLabel describes the period the news records cover.
func windowLabel(report *pipeline.Report) string {
	if report.NewsFallback {
		return "broader search, no date window"
	}
	if report.WindowMonths == 1 {
		return "last month"
	}
	return fmt.Sprintf("last %d months", report.WindowMonths)
}

// FormatStats renders a corpus statistics block.
func (f *TerminalFormatter) FormatStats(s aggregator.Stats) string {
	lines := []string{
		fmt.Sprintf("Total records: %d", s.Total),
		fmt.Sprintf("  %s Positive: %d (%.1f%%)", sentiment.Glyph(sentiment.Positive), s.PositiveCount, s.PositivePct),
		fmt.Sprintf("  %s Negative: %d (%.1f%%)", sentiment.Glyph(sentiment.Negative), s.NegativeCount, s.NegativePct),
		fmt.Sprintf("  %s Neutral:  %d (%.1f%%)", sentiment.Glyph(sentiment.Neutral), s.NeutralCount, s.NeutralPct),
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatRecord formats a single record for display.
func (f *TerminalFormatter) FormatRecord(r aggregator.Record) string {
	var lines []string

	// Header: [KIND] glyph Title
	lines = append(lines, fmt.Sprintf("[%s] %s %s", strings.ToUpper(string(r.Kind)), r.Sentiment.Glyph, f.TruncateText(r.Title, maxTitleWidth)))
	lines = append(lines, fmt.Sprintf("  %s (%.3f)", r.Sentiment.Category, r.Sentiment.Score))

	source := r.SourceLabel
	video, isVideo := r.AsVideo()
	if isVideo && video.ChannelLabel != "" {
		source = video.ChannelLabel
	}
	lines = append(lines, fmt.Sprintf("  %s%s%s", source, separator, f.formatDate(r)))

	if isVideo {
		if engagement := f.formatEngagement(video); engagement != "" {
			lines = append(lines, "  "+engagement)
		}
		readings := video.Readings
		lines = append(lines, fmt.Sprintf("  title %.3f%sdescription %.3f%scomments %.3f%scombined %.3f",
			readings.Title.Score, separator,
			readings.Description.Score, separator,
			readings.CommentAggregate, separator,
			readings.Combined.Score))
	}

	if r.Link != "" {
		lines = append(lines, "  "+r.Link)
	}

	return strings.Join(lines, "\n") + "\n"
}

// formatEngagement formats engagement stats into a single line.
func (f *TerminalFormatter) formatEngagement(v *aggregator.VideoDetails) string {
	var parts []string

	if v.ViewCount > 0 {
		parts = append(parts, fmt.Sprintf("%d views", v.ViewCount))
	}
	if v.LikeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d likes", v.LikeCount))
	}
	if v.CommentCount > 0 {
		parts = append(parts, fmt.Sprintf("%d comments", v.CommentCount))
	}
	if v.Duration != "" {
		parts = append(parts, v.Duration)
	}

	return strings.Join(parts, separator)
}

// FormatRecords formats multiple records for display.
func (f *TerminalFormatter) FormatRecords(records []aggregator.Record) string {
	if len(records) == 0 {
		return "No records found.\n"
	}

	var formatted []string
	for _, r := range records {
		formatted = append(formatted, f.FormatRecord(r))
	}

	return strings.Join(formatted, "\n---\n\n")
}

func (f *TerminalFormatter) formatDate(r aggregator.Record) string {
	if r.PublishedAt.IsZero() {
		return r.PublishedRaw
	}
	return f.FormatTimestamp(r.PublishedAt)
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := f.now().Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
