package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studysearch/internal/domain"
	"github.com/kailas-cloud/studysearch/internal/domain/search/request"
	"github.com/kailas-cloud/studysearch/internal/domain/search/result"
	"github.com/kailas-cloud/studysearch/internal/logger"
	"github.com/kailas-cloud/studysearch/internal/semantic"
)

// Config tunes the per-query model.
type Config struct {
	NumTopics int
	TopN      int
	Stoplist  []string
}

// Service fetches candidate studies and ranks them by latent semantic similarity.
// A fresh model is fitted for every query; nothing is shared between calls.
type Service struct {
	fetcher Fetcher
	tok     Tokenizer
	cfg     Config
	observe semantic.StageObserver
}

// New creates a search service.
func New(fetcher Fetcher, tok Tokenizer, cfg Config) *Service {
	if cfg.NumTopics <= 0 {
		cfg.NumTopics = semantic.DefaultNumTopics
	}
	if cfg.TopN <= 0 {
		cfg.TopN = request.DefaultTopN
	}
	return &Service{fetcher: fetcher, tok: tok, cfg: cfg}
}

// WithStageObserver reports fitting and query stage durations to o.
func (s *Service) WithStageObserver(o semantic.StageObserver) *Service {
	s.observe = o
	return s
}

// Search returns up to topN studies ranked against the request query.
func (s *Service) Search(ctx context.Context, req request.Request) ([]result.Result, error) {
	if req.Query() == "" {
		return nil, domain.ErrInvalidQuery
	}
	ctx = logger.WithFields(ctx, zap.String("query", req.Query()))
	log := logger.FromContext(ctx)
	topN := req.TopNOr(s.cfg.TopN)

	table, err := s.fetcher.Fetch(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("fetch studies: %w", err)
	}
	if table.Len() == 0 {
		log.Debug("No candidate studies")
		return []result.Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	corpus := semantic.BuildTitleCorpus(s.tok, table)
	model, err := semantic.Fit(ctx, corpus.Titles, semantic.FitOptions{
		NumTopics: s.cfg.NumTopics,
		Stoplist:  s.cfg.Stoplist,
		Observe:   s.observe,
	})
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	start := time.Now()
	matches, err := model.Query(s.tok.Tokenize(req.Query()), topN)
	if err != nil {
		return nil, fmt.Errorf("query model: %w", err)
	}
	if s.observe != nil {
		s.observe(semantic.StageQuery, time.Since(start))
	}

	results := rank(table, matches)
	log.Debug("Search completed",
		zap.Int("candidates", table.Len()),
		zap.Int("vocabulary", model.Dictionary().Len()),
		zap.Int("topics", model.NumTopics()),
		zap.Int("results", len(results)),
	)
	return results, nil
}
