package semantic

import (
	"context"
	"time"
)

// Pipeline stage names reported to StageObserver.
const (
	StageDictionary = "dictionary"
	StageTFIDF      = "tfidf"
	StageLSI        = "lsi"
	StageIndex      = "index"
	StageQuery      = "query"
)

// StageObserver receives the duration of each fitting stage.
type StageObserver func(stage string, d time.Duration)

// FitOptions configures Fit.
type FitOptions struct {
	NumTopics int
	Stoplist  []string
	Observe   StageObserver
}

// Model bundles everything fitted on one corpus field.
type Model struct {
	dict  *Dictionary
	tfidf *TFIDF
	lsi   *LSI
	index *Index
}

// Fit builds dictionary, TF-IDF, LSI and similarity index over docs.
// ctx is checked between stages.
func Fit(ctx context.Context, docs [][]string, opts FitOptions) (*Model, error) {
	if opts.NumTopics <= 0 {
		opts.NumTopics = DefaultNumTopics
	}
	observe := opts.Observe
	if observe == nil {
		observe = func(string, time.Duration) {}
	}

	start := time.Now()
	dict := NewDictionary(docs)
	dict.Filter(opts.Stoplist)
	bow := dict.CorpusToBOW(docs)
	observe(StageDictionary, time.Since(start))

	start = time.Now()
	tfidf := FitTFIDF(bow)
	weighted := tfidf.TransformCorpus(bow)
	observe(StageTFIDF, time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	lsi, err := FitLSI(ctx, weighted, dict.NumIDs(), opts.NumTopics)
	if err != nil {
		return nil, err
	}
	latent := lsi.TransformCorpus(weighted)
	observe(StageLSI, time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	index := NewIndex(latent)
	observe(StageIndex, time.Since(start))

	return &Model{dict: dict, tfidf: tfidf, lsi: lsi, index: index}, nil
}

// Project maps query tokens into the model's latent space.
func (m *Model) Project(tokens []string) LatentVector {
	return m.lsi.Transform(m.tfidf.Transform(m.dict.DocToBOW(tokens)))
}

// Query ranks the indexed documents against query tokens.
func (m *Model) Query(tokens []string, topN int) ([]Match, error) {
	return m.index.Query(m.Project(tokens), topN)
}

// Dictionary returns the fitted dictionary.
func (m *Model) Dictionary() *Dictionary { return m.dict }

// NumTopics returns the effective latent dimensionality.
func (m *Model) NumTopics() int { return m.lsi.NumTopics() }

// Len returns the number of indexed documents.
func (m *Model) Len() int { return m.index.Len() }
