package aggregator

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/gauthierbraillon/sentimix/internal/sentiment"
)

// Aggregator collects scored records from both sources.
type Aggregator struct {
	records []Record
}

// New creates a new Aggregator instance.
func New() *Aggregator {
	return &Aggregator{
		records: make([]Record, 0),
	}
}

// AddRecords adds records to the aggregator.
func (a *Aggregator) AddRecords(records []Record) {
	a.records = append(a.records, records...)
}

// Records returns the records matching opts, newest first. Records without a
// parseable date sort last; ties keep insertion order.
func (a *Aggregator) Records(opts FeedOptions) []Record {
	result := make([]Record, 0, len(a.records))
	for _, r := range a.records {
		if !matchesKind(r, opts.Kinds) || !matchesCategory(r, opts.Categories) {
			continue
		}
		result = append(result, r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		ti, tj := result[i].PublishedAt, result[j].PublishedAt
		if ti.IsZero() != tj.IsZero() {
			return tj.IsZero()
		}
		return ti.After(tj)
	})

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// Stats aggregates the records matching opts.
func (a *Aggregator) Stats(opts FeedOptions) Stats {
	return Aggregate(a.Records(opts))
}

// Aggregate counts categories over records. Every percentage is 0 for an empty input.
func Aggregate(records []Record) Stats {
	stats := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Category() {
		case sentiment.Positive:
			stats.PositiveCount++
		case sentiment.Negative:
			stats.NegativeCount++
		default:
			stats.NeutralCount++
		}
	}
	if stats.Total == 0 {
		return stats
	}

	total := float64(stats.Total)
	stats.PositivePct = float64(stats.PositiveCount) / total * 100
	stats.NegativePct = float64(stats.NegativeCount) / total * 100
	stats.NeutralPct = float64(stats.NeutralCount) / total * 100
	return stats
}

// MarshalJSON includes the video fields inline for video records.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		Video *VideoDetails `json:"video,omitempty"`
	}{plain: plain(r), Video: r.video})
}

func matchesKind(r Record, kinds []Kind) bool {
	return len(kinds) == 0 || slices.Contains(kinds, r.Kind)
}

func matchesCategory(r Record, categories []sentiment.Category) bool {
	return len(categories) == 0 || slices.Contains(categories, r.Category())
}
