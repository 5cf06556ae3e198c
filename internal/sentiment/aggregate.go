// Package sentiment condenses per-comment classifier output into one
// category for the whole comment section.
package sentiment

import (
	"context"

	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
)

// Categories map onto the classifier's original 1-5 star scale so the
// like-weighted average keeps its historical thresholds.
var categoryScores = map[domain.Sentiment]float64{
	domain.SentimentPositive: 5,
	domain.SentimentNeutral:  3,
	domain.SentimentNegative: 1,
}

// Aggregate classifies each comment and averages the scores weighted by
// like count (plus one, so zero-like comments still count). No comments,
// or a nil classifier, yields neutral.
func Aggregate(ctx context.Context, classifier ports.SentimentClassifier, comments []domain.Comment) domain.Sentiment {
	if classifier == nil || len(comments) == 0 {
		return domain.SentimentNeutral
	}

	var weightedScores, totalWeight float64
	for _, comment := range comments {
		category, err := classifier.Classify(ctx, comment.Content)
		if err != nil {
			continue
		}
		score, ok := categoryScores[category]
		if !ok {
			continue
		}

		weight := float64(comment.Likes + 1)
		weightedScores += score * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return domain.SentimentNeutral
	}

	average := weightedScores / totalWeight
	switch {
	case average >= 4:
		return domain.SentimentPositive
	case average >= 3:
		return domain.SentimentNeutral
	default:
		return domain.SentimentNegative
	}
}
