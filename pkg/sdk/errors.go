package studysearch

import "github.com/kailas-cloud/studysearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery   = domain.ErrInvalidQuery
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrUpstream       = domain.ErrUpstream
	ErrFactorization  = domain.ErrFactorization
)

// UpstreamError carries the HTTP status returned by the study search API.
// Status is 0 for transport or decoding failures.
type UpstreamError = domain.UpstreamError
