package search

import (
	"context"

	"github.com/kailas-cloud/studysearch/internal/domain/study"
)

// Fetcher retrieves the candidate study records for a query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (study.Table, error)
}

// Tokenizer splits text into normalized tokens.
type Tokenizer interface {
	Tokenize(s string) []string
}
