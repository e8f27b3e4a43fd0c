package studysearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/studysearch/internal/domain/search/request"
	"github.com/kailas-cloud/studysearch/internal/domain/search/result"
)

// Study is one ranked study.
type Study struct {
	Accession   string `json:"accession"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	// Relevance is the cosine similarity as a percentage rounded to two decimals.
	Relevance float64 `json:"relevance"`
}

// SearchOptions configures a single search.
type SearchOptions struct {
	// TopN overrides the client default when > 0.
	TopN int
}

// Search ranks the studies the upstream API returns for query by latent
// semantic similarity of their titles. An empty result is not an error.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (studies []Study, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("search", start, err, "query_len", len(query), "results", len(studies))
	}()

	if opts == nil {
		opts = &SearchOptions{}
	}
	req, err := request.New(query, opts.TopN)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results, err := c.searchSvc.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	c.obs.observeResults(len(results))
	return fromResults(results), nil
}

func fromResults(results []result.Result) []Study {
	out := make([]Study, len(results))
	for i := range results {
		r := &results[i]
		out[i] = Study{
			Accession:   r.Accession(),
			Title:       r.Title(),
			Description: r.Description(),
			URL:         r.URL(),
			Relevance:   r.Relevance(),
		}
	}
	return out
}
