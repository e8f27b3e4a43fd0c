package health

import "context"

// UpstreamChecker checks study search API availability.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks table cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
