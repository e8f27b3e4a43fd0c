package semantic

import "math"

// TermCount is one non-zero bag-of-words entry.
type TermCount struct {
	ID    int
	Count int
}

// BOW is a sparse bag-of-words vector sorted by id.
type BOW []TermCount

// TermWeight is one non-zero weighted entry.
type TermWeight struct {
	ID     int
	Weight float64
}

// SparseVector is a sparse weighted vector sorted by id.
type SparseVector []TermWeight

// TFIDF holds inverse document frequencies fitted on a corpus.
type TFIDF struct {
	idf     map[int]float64
	numDocs int
}

// FitTFIDF computes idf = log2(N/df) for every id present in corpus.
// A term found in every document gets zero weight.
func FitTFIDF(corpus []BOW) *TFIDF {
	df := make(map[int]int)
	for _, doc := range corpus {
		for _, tc := range doc {
			df[tc.ID]++
		}
	}
	n := float64(len(corpus))
	idf := make(map[int]float64, len(df))
	for id, f := range df {
		idf[id] = math.Log2(n / float64(f))
	}
	return &TFIDF{idf: idf, numDocs: len(corpus)}
}

// NumDocs returns the size of the fitting corpus.
func (m *TFIDF) NumDocs() int { return m.numDocs }

// IDF returns the fitted weight of an id; unseen ids weigh zero.
func (m *TFIDF) IDF(id int) float64 { return m.idf[id] }

// Transform weights raw counts by idf and L2-normalizes the result.
// Ids unseen during fitting and zero weights are dropped.
func (m *TFIDF) Transform(bow BOW) SparseVector {
	out := make(SparseVector, 0, len(bow))
	var norm float64
	for _, tc := range bow {
		w := float64(tc.Count) * m.idf[tc.ID]
		if w == 0 {
			continue
		}
		out = append(out, TermWeight{ID: tc.ID, Weight: w})
		norm += w * w
	}
	if norm == 0 {
		return SparseVector{}
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i].Weight /= norm
	}
	return out
}

// TransformCorpus weights every document.
func (m *TFIDF) TransformCorpus(corpus []BOW) []SparseVector {
	out := make([]SparseVector, len(corpus))
	for i, doc := range corpus {
		out[i] = m.Transform(doc)
	}
	return out
}
