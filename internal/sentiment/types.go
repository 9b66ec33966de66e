// Package sentiment scores text polarity and fuses the per-field readings of a video.
//
// This package enables sentimix to:
// - Map any text to a polarity score in [-1, 1] and a three-way category
// - Combine title, description and comment sentiment into one video score
package sentiment

import (
	"math"
	"strings"
)

// Category is the three-way sentiment label.
type Category string

const (
	Positive Category = "Positive"
	Neutral  Category = "Neutral"
	Negative Category = "Negative"
)

// Classification thresholds. A score must be strictly beyond a threshold to leave Neutral.
const (
	PositiveThreshold = 0.10
	NegativeThreshold = -0.10
)

var glyphs = map[Category]string{
	Positive: "😊",
	Neutral:  "😐",
	Negative: "😞",
}

// Result is one sentiment reading.
type Result struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Glyph    string   `json:"glyph"`
}

// Glyph returns the display glyph of a category.
func Glyph(c Category) string {
	return glyphs[c]
}

// NeutralResult is the reading used when a text cannot be scored.
func NeutralResult() Result {
	return Result{Category: Neutral, Score: 0, Glyph: glyphs[Neutral]}
}

// Classify buckets a polarity score. Scores outside [-1, 1] are clamped and
// non-finite scores are treated as 0.
func Classify(score float64) Result {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return NeutralResult()
	}
	score = math.Max(-1, math.Min(1, score))

	category := Neutral
	switch {
	case score > PositiveThreshold:
		category = Positive
	case score < NegativeThreshold:
		category = Negative
	}
	return Result{Category: category, Score: score, Glyph: glyphs[category]}
}

// ParseCategory resolves a case-insensitive category name.
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{Positive, Neutral, Negative} {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}
