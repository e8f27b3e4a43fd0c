package studysearch

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/studysearch/internal/usecase/health"
)

// Health components.
const (
	ComponentUpstream = healthuc.ComponentUpstream
	ComponentCache    = healthuc.ComponentCache
)

// HealthStatus is the aggregated status of the upstream API and the optional cache.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// OK reports whether every component passed.
func (h HealthStatus) OK() bool { return h.Status == string(healthuc.Healthy) }

// Health checks the study search API and, when configured, the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	hs := HealthStatus{Status: string(report.Status), Checks: checks}

	var err error
	if !hs.OK() {
		err = errDegraded
	}
	c.obs.observe("health", start, err)
	return hs
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
