package analytics

import "strings"

// Fixed label sets. Chart consumers index these by position, so order matters
// and every label is always emitted.
var (
	Categories = []string{"support", "sales", "billing", "technical", "feedback", "general", "other"}
	Urgencies  = []string{"low", "medium", "high"}
	Topics     = []string{"pricing", "features", "integration", "onboarding", "bug_report", "account", "other"}
)

const (
	MinSentimentScore     = 1
	MaxSentimentScore     = 10
	NeutralSentimentScore = 5
)

var sentimentScores = map[string]int{
	"positive":   8,
	"negative":   3,
	"neutral":    5,
	"frustrated": 2,
	"confused":   4,
}

// SentimentScore maps a sentiment label onto the 1-10 scale. Unknown
// labels, numeric ones included, are neutral.
func SentimentScore(label string) int {
	l := normalize(label)
	if score, ok := sentimentScores[l]; ok {
		return score
	}
	return NeutralSentimentScore
}

func categoryIndex(label string) int {
	return indexOr(Categories, normalize(label), len(Categories)-1)
}

func topicIndex(label string) int {
	l := strings.ReplaceAll(normalize(label), " ", "_")
	if l == "bug" || l == "bugs" {
		l = "bug_report"
	}
	return indexOr(Topics, l, len(Topics)-1)
}

// urgencyIndex returns -1 for labels outside the set.
func urgencyIndex(label string) int {
	return indexOr(Urgencies, normalize(label), -1)
}

func indexOr(labels []string, label string, fallback int) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return fallback
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
