// Package search scores tool listings against a free-text query.
//
// It is a weighted substring matcher, not a search engine: no tokenisation
// beyond whitespace, no stemming, no index.
package search

import (
	"sort"
	"strings"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

type weight struct {
	phrase int
	word   int
}

var (
	nameWeight        = weight{phrase: 5, word: 3}
	taglineWeight     = weight{phrase: 3, word: 2}
	descriptionWeight = weight{phrase: 2, word: 1}
	categoryWeight    = weight{phrase: 3, word: 2}
	tagWeight         = weight{phrase: 2, word: 1}
)

type Result struct {
	Tool  domain.Tool `json:"tool"`
	Score int         `json:"score"`
}

// Score returns the relevance of a tool for the query.
// A phrase match means the field equals the whole query; each query word
// found inside the field adds the per-word weight.
func Score(query string, t domain.Tool) int {
	q := normalize(query)
	if q == "" {
		return 0
	}
	words := strings.Fields(q)

	score := scoreText(q, words, t.Name, nameWeight)
	score += scoreText(q, words, t.Tagline, taglineWeight)
	score += scoreText(q, words, t.Description, descriptionWeight)
	score += scoreList(q, words, t.Categories, categoryWeight)
	score += scoreList(q, words, t.Tags, tagWeight)
	return score
}

// Rank drops zero scores and orders by score, then featured, then featured price.
func Rank(query string, tools []domain.Tool) []Result {
	results := make([]Result, 0, len(tools))
	for _, t := range tools {
		if s := Score(query, t); s > 0 {
			results = append(results, Result{Tool: t, Score: s})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Tool.Featured != b.Tool.Featured {
			return a.Tool.Featured
		}
		return a.Tool.FeaturedPrice > b.Tool.FeaturedPrice
	})
	return results
}

func scoreText(query string, words []string, field string, w weight) int {
	f := normalize(field)
	if f == "" {
		return 0
	}
	score := 0
	if f == query {
		score += w.phrase
	}
	for _, word := range words {
		if strings.Contains(f, word) {
			score += w.word
		}
	}
	return score
}

func scoreList(query string, words []string, values []string, w weight) int {
	if len(values) == 0 {
		return 0
	}
	normalized := make([]string, len(values))
	for i, v := range values {
		normalized[i] = normalize(v)
	}

	score := 0
	for _, v := range normalized {
		if v == query {
			score += w.phrase
			break
		}
	}
	for _, word := range words {
		for _, v := range normalized {
			if strings.Contains(v, word) {
				score += w.word
				break
			}
		}
	}
	return score
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
