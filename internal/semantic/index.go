package semantic

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDimensionMismatch signals a query vector from a different latent space.
var ErrDimensionMismatch = errors.New("latent dimension mismatch")

// Match is a ranked document position with its cosine similarity.
type Match struct {
	Doc   int
	Score float64
}

// Index stores unit-length document vectors for cosine ranking.
type Index struct {
	docs [][]float64
	dim  int
}

// NewIndex copies and normalizes docs. Zero vectors stay zero and score 0.
func NewIndex(docs []LatentVector) *Index {
	idx := &Index{docs: make([][]float64, len(docs))}
	if len(docs) > 0 {
		idx.dim = len(docs[0])
	}
	for i, d := range docs {
		idx.docs[i] = unit(d)
	}
	return idx
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return len(idx.docs) }

// Query returns up to topN documents by descending cosine similarity.
// Ties are broken by ascending document position.
func (idx *Index) Query(q LatentVector, topN int) ([]Match, error) {
	if topN <= 0 || len(idx.docs) == 0 {
		return nil, nil
	}
	if len(q) != idx.dim {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w", len(q), idx.dim, ErrDimensionMismatch)
	}

	qn := unit(q)
	matches := make([]Match, len(idx.docs))
	for i, d := range idx.docs {
		matches[i] = Match{Doc: i, Score: clamp(dot(qn, d))}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Doc < matches[j].Doc
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, nil
}

func unit(v []float64) []float64 {
	out := make([]float64, len(v))
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func clamp(s float64) float64 {
	return math.Max(-1, math.Min(1, s))
}
