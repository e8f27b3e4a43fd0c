package search

import (
	"math"

	"github.com/kailas-cloud/studysearch/internal/domain/search/result"
	"github.com/kailas-cloud/studysearch/internal/domain/study"
	"github.com/kailas-cloud/studysearch/internal/semantic"
)

// rank joins matches back to their records, preserving match order.
func rank(table study.Table, matches []semantic.Match) []result.Result {
	out := make([]result.Result, 0, len(matches))
	for _, m := range matches {
		rec := table.At(m.Doc)
		out = append(out, result.New(
			relevance(m.Score),
			rec.Title,
			rec.Description,
			rec.Accession,
			rec.URL(),
		))
	}
	return out
}

// relevance scales a cosine score to a percentage with two decimals.
func relevance(score float64) float64 {
	return math.Round(score*10000) / 100
}
