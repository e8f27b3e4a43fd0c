package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/studysearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in runes.
	MaxQueryLength = 1024
	DefaultTopN    = 5
	MaxTopN        = 100
)

// Request is a validated search query.
type Request struct {
	query string
	topN  int
}

// New validates and normalizes search parameters.
// An empty query yields domain.ErrInvalidQuery. topN=0 leaves the choice to the service.
func New(query string, topN int) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, domain.ErrInvalidQuery
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if topN < 0 || topN > MaxTopN {
		return Request{}, fmt.Errorf("%w: top_n must be between 1 and %d", domain.ErrInvalidRequest, MaxTopN)
	}
	return Request{query: query, topN: topN}, nil
}

// Query returns the trimmed search query text.
func (r *Request) Query() string { return r.query }

// TopN returns the requested number of results, or 0 when unset.
func (r *Request) TopN() int { return r.topN }

// TopNOr returns TopN, falling back to def when unset.
func (r *Request) TopNOr(def int) int {
	if r.topN > 0 {
		return r.topN
	}
	if def > 0 {
		return def
	}
	return DefaultTopN
}
