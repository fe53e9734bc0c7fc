// Package auxiliary implements the narrow-scope periodic checks that run
// alongside the regular health sweeps: job-queue depth, stuck jobs, TLS
// certificate expiry and database pool health. Each check reports problem
// observations against a configured target; the coordinator feeds them
// through the same tracker and remediation contracts as regular probes.
package auxiliary

import (
	"context"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// Observation attributes one check finding to a monitored target.
type Observation struct {
	Target domain.TargetID
	Result domain.ProbeResult
}

// Check is one narrowly scoped periodic inspection. Run returns only problem
// observations; clean findings stay silent because the regular sweeps already
// confirm target health on a faster cadence.
type Check interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) []Observation
}

func problem(target domain.TargetID, status domain.HealthStatus, detail, errMsg string) Observation {
	return Observation{
		Target: target,
		Result: domain.ProbeResult{
			Status:    status,
			Detail:    detail,
			Err:       errMsg,
			CheckedAt: time.Now(),
		},
	}
}
