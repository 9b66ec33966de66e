package sentiment

// Fusion weights for the combined video score. The title carries editorial
// framing; description and audience reaction share the remainder.
const (
	TitleWeight       = 0.4
	DescriptionWeight = 0.3
	CommentWeight     = 0.3
)

// VideoSentiment holds the four readings attached to a video.
type VideoSentiment struct {
	Title       Result `json:"title"`
	Description Result `json:"description"`
	// CommentAggregate is the mean comment score, 0 when there are no comments.
	CommentAggregate float64 `json:"comment_aggregate"`
	Comments         Result  `json:"comments"`
	Combined         Result  `json:"combined"`
}

// Fuse scores a video's fields and combines them. The combined category comes
// from the weighted score, not from a vote among the three categories.
func (s *Scorer) Fuse(title, description string, comments []string) VideoSentiment {
	titleResult := s.Score(title)
	descResult := s.Score(description)

	var aggregate float64
	if len(comments) > 0 {
		var sum float64
		for _, c := range comments {
			sum += s.Score(c).Score
		}
		aggregate = sum / float64(len(comments))
	}

	return VideoSentiment{
		Title:            titleResult,
		Description:      descResult,
		CommentAggregate: aggregate,
		Comments:         Classify(aggregate),
		Combined:         Classify(Combine(titleResult.Score, descResult.Score, aggregate)),
	}
}

// Combine applies the fixed fusion weights.
func Combine(title, description, comments float64) float64 {
	return TitleWeight*title + DescriptionWeight*description + CommentWeight*comments
}
