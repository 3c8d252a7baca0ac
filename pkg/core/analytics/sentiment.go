package analytics

import "github.com/jonreiter/govader"

var analyzer = govader.NewSentimentIntensityAnalyzer()

// LabelFromText classifies free text as positive, negative or neutral using
// the VADER compound score.
func LabelFromText(text string) string {
	score := analyzer.PolarityScores(text).Compound
	switch {
	case score >= 0.20:
		return "positive"
	case score <= -0.20:
		return "negative"
	default:
		return "neutral"
	}
}
