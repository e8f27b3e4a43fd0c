package semantic

import (
	"context"
	"errors"
	"math"
	"testing"
)

// testCorpus returns a small TF-IDF corpus over 5 terms and 4 documents.
func testCorpus() []SparseVector {
	bow := []BOW{
		{{ID: 0, Count: 1}, {ID: 1, Count: 1}, {ID: 2, Count: 1}},
		{{ID: 1, Count: 1}, {ID: 3, Count: 2}},
		{{ID: 2, Count: 1}, {ID: 4, Count: 1}},
		{{ID: 0, Count: 2}, {ID: 4, Count: 1}},
	}
	return FitTFIDF(bow).TransformCorpus(bow)
}

func sparseDot(a, b SparseVector) float64 {
	m := make(map[int]float64, len(a))
	for _, tw := range a {
		m[tw.ID] = tw.Weight
	}
	var s float64
	for _, tw := range b {
		s += m[tw.ID] * tw.Weight
	}
	return s
}

func TestFitLSI_CapsRank(t *testing.T) {
	corpus := testCorpus()
	m, err := FitLSI(context.Background(), corpus, 5, DefaultNumTopics)
	if err != nil {
		t.Fatalf("FitLSI: %v", err)
	}
	if m.NumTopics() < 1 || m.NumTopics() > 4 {
		t.Errorf("NumTopics() = %d, want within [1, 4]", m.NumTopics())
	}
	for _, v := range m.TransformCorpus(corpus) {
		if len(v) != m.NumTopics() {
			t.Errorf("latent length %d, want %d", len(v), m.NumTopics())
		}
	}
	sv := m.SingularValues()
	for i := 1; i < len(sv); i++ {
		if sv[i] > sv[i-1] {
			t.Errorf("singular values not descending: %v", sv)
		}
	}
}

func TestFitLSI_RespectsNumTopics(t *testing.T) {
	m, err := FitLSI(context.Background(), testCorpus(), 5, 2)
	if err != nil {
		t.Fatalf("FitLSI: %v", err)
	}
	if m.NumTopics() != 2 {
		t.Errorf("NumTopics() = %d, want 2", m.NumTopics())
	}
}

func TestFitLSI_FullRankPreservesInnerProducts(t *testing.T) {
	corpus := testCorpus()
	m, err := FitLSI(context.Background(), corpus, 5, DefaultNumTopics)
	if err != nil {
		t.Fatalf("FitLSI: %v", err)
	}
	latent := m.TransformCorpus(corpus)
	for i := range corpus {
		for j := range corpus {
			want := sparseDot(corpus[i], corpus[j])
			got := dot(latent[i], latent[j])
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("<d%d,d%d> latent=%f tfidf=%f", i, j, got, want)
			}
		}
	}
}

func TestFitLSI_Degenerate(t *testing.T) {
	tests := []struct {
		name     string
		corpus   []SparseVector
		numTerms int
	}{
		{"no documents", nil, 3},
		{"no terms", []SparseVector{{}, {}}, 0},
		{"all zero", []SparseVector{{}, {}}, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := FitLSI(context.Background(), tc.corpus, tc.numTerms, 10)
			if err != nil {
				t.Fatalf("FitLSI: %v", err)
			}
			if m.NumTopics() != 0 {
				t.Errorf("NumTopics() = %d, want 0", m.NumTopics())
			}
			if v := m.Transform(SparseVector{{ID: 0, Weight: 1}}); len(v) != 0 {
				t.Errorf("Transform = %v, want empty", v)
			}
		})
	}
}

func TestFitLSI_InvalidNumTopics(t *testing.T) {
	if _, err := FitLSI(context.Background(), testCorpus(), 5, 0); err == nil {
		t.Error("expected error for zero topics")
	}
}

func TestFitLSI_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FitLSI(ctx, testCorpus(), 5, 10)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLSI_TransformIgnoresOutOfRangeIDs(t *testing.T) {
	m, err := FitLSI(context.Background(), testCorpus(), 5, 10)
	if err != nil {
		t.Fatalf("FitLSI: %v", err)
	}
	v := m.Transform(SparseVector{{ID: 42, Weight: 1}, {ID: -1, Weight: 1}})
	for _, x := range v {
		if x != 0 {
			t.Fatalf("out-of-range ids should project to zero, got %v", v)
		}
	}
}
