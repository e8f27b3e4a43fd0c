package semantic

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/studysearch/internal/domain"
)

// DefaultNumTopics is the requested latent dimensionality.
const DefaultNumTopics = 300

// LatentVector is a dense document or query position in topic space.
type LatentVector []float64

// LSI projects TF-IDF vectors onto the leading left singular vectors
// of the term-document matrix.
type LSI struct {
	projection *mat.Dense // numTerms x k, nil when k == 0
	singular   []float64
	numTerms   int
	k          int
}

// FitLSI factorizes the numTerms x len(corpus) TF-IDF matrix and keeps
// min(numTopics, numTerms, len(corpus), numerical rank) components.
// Degenerate input yields a zero-dimensional model instead of an error.
func FitLSI(ctx context.Context, corpus []SparseVector, numTerms, numTopics int) (*LSI, error) {
	if numTopics <= 0 {
		return nil, fmt.Errorf("num topics must be positive, got %d", numTopics)
	}
	m := &LSI{numTerms: numTerms}
	numDocs := len(corpus)
	if numTerms == 0 || numDocs == 0 {
		return m, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := mat.NewDense(numTerms, numDocs, nil)
	for j, doc := range corpus {
		for _, tw := range doc {
			if tw.ID < numTerms {
				a.Set(tw.ID, j, tw.Weight)
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThinU); !ok {
		return nil, fmt.Errorf("svd of %dx%d matrix: %w", numTerms, numDocs, domain.ErrFactorization)
	}

	rcond := float64(max(numTerms, numDocs)) * epsilon
	k := min(numTopics, svd.Rank(rcond))
	if k == 0 {
		return m, nil
	}

	var u mat.Dense
	svd.UTo(&u)
	m.projection = mat.DenseCopyOf(u.Slice(0, numTerms, 0, k))
	m.singular = svd.Values(nil)[:k]
	m.k = k
	return m, nil
}

// epsilon is the float64 machine epsilon.
var epsilon = math.Nextafter(1, 2) - 1

// NumTopics returns the effective latent dimensionality.
func (m *LSI) NumTopics() int { return m.k }

// SingularValues returns the retained singular values in descending order.
func (m *LSI) SingularValues() []float64 {
	out := make([]float64, len(m.singular))
	copy(out, m.singular)
	return out
}

// Transform projects a TF-IDF vector into topic space without refitting.
// Ids outside the fitted vocabulary contribute nothing.
func (m *LSI) Transform(v SparseVector) LatentVector {
	out := make(LatentVector, m.k)
	if m.k == 0 {
		return out
	}
	for _, tw := range v {
		if tw.ID < 0 || tw.ID >= m.numTerms {
			continue
		}
		row := m.projection.RawRowView(tw.ID)
		for j := range out {
			out[j] += tw.Weight * row[j]
		}
	}
	return out
}

// TransformCorpus projects every document.
func (m *LSI) TransformCorpus(corpus []SparseVector) []LatentVector {
	out := make([]LatentVector, len(corpus))
	for i, v := range corpus {
		out[i] = m.Transform(v)
	}
	return out
}
