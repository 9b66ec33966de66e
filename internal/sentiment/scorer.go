package sentiment

import (
	"fmt"
	"log/slog"

	"github.com/jonreiter/govader"
	gocache "github.com/patrickmn/go-cache"
)

// Polarity estimates the polarity of a text in [-1, 1].
type Polarity interface {
	Polarity(text string) float64
}

// PolarityFunc adapts a plain function to Polarity.
type PolarityFunc func(text string) float64

// Polarity calls f(text).
func (f PolarityFunc) Polarity(text string) float64 { return f(text) }

// Vader scores text with the VADER lexicon. The compound score is already normalized to [-1, 1].
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader loads the VADER lexicon.
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the VADER compound score.
func (v *Vader) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

// ScorerOption configures the Scorer.
type ScorerOption func(*Scorer)

// WithPolarity replaces the default VADER estimator.
func WithPolarity(p Polarity) ScorerOption {
	return func(s *Scorer) {
		s.polarity = p
	}
}

// WithLogger sets the logger used to report scoring faults.
func WithLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) {
		s.logger = logger
	}
}

// Scorer maps text to a sentiment Result. Results are memoized per text for the
// lifetime of the Scorer, so one run always sees the same reading for the same text.
type Scorer struct {
	polarity Polarity
	memo     *gocache.Cache
	logger   *slog.Logger
}

// NewScorer creates a Scorer. Create one per pipeline run.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{
		memo:   gocache.New(gocache.NoExpiration, 0),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.polarity == nil {
		s.polarity = NewVader()
	}
	return s
}

// Score never fails: an estimator fault yields NeutralResult.
func (s *Scorer) Score(text string) Result {
	if text == "" {
		return NeutralResult()
	}
	if cached, ok := s.memo.Get(text); ok {
		return cached.(Result)
	}

	score, err := s.safePolarity(text)
	if err != nil {
		s.logger.Warn("sentiment scoring failed", "error", err)
		return NeutralResult()
	}

	result := Classify(score)
	s.memo.Set(text, result, gocache.NoExpiration)
	return result
}

func (s *Scorer) safePolarity(text string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("polarity estimator panicked: %v", r)
		}
	}()
	return s.polarity.Polarity(text), nil
}
