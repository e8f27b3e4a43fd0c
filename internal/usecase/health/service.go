package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentUpstream = "upstream"
	ComponentCache    = "cache"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	upstream UpstreamChecker
	cache    CachePinger
	timeout  time.Duration
}

// New creates a Service. cache can be nil when caching is disabled.
func New(upstream UpstreamChecker, cache CachePinger) *Service {
	return &Service{upstream: upstream, cache: cache, timeout: DefaultCheckTimeout}
}

// WithTimeout overrides the per-component check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Check runs component checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	var mu sync.Mutex
	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		res := CheckOK
		if err := fn(cctx); err != nil {
			res = CheckError
		}
		mu.Lock()
		checks[name] = res
		mu.Unlock()
	}

	wg.Add(1)
	go run(ComponentUpstream, s.upstream.HealthCheck)
	if s.cache != nil {
		wg.Add(1)
		go run(ComponentCache, s.cache.Ping)
	}
	wg.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
