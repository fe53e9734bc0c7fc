// Package probe executes single health checks against monitored targets.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/resilience/metrics"
)

// tcpTimeoutFloor is the minimum timeout for raw TCP infrastructure checks,
// where the 2x latency budget would otherwise be unrealistically tight.
const tcpTimeoutFloor = 5 * time.Second

// Prober performs one classified health check per call. It is stateless and
// never retries; retry policy belongs to the sweep coordinator across cycles.
type Prober struct {
	transports map[domain.ProbeKind]Transport
}

// New creates a prober with the default HTTP, TCP and gRPC transports.
func New() *Prober {
	return &Prober{
		transports: map[domain.ProbeKind]Transport{
			domain.ProbeHTTP: NewHTTPTransport(),
			domain.ProbeTCP:  NewTCPTransport(),
			domain.ProbeGRPC: NewGRPCTransport(),
		},
	}
}

// NewWithTransports creates a prober with caller-supplied transports.
func NewWithTransports(transports map[domain.ProbeKind]Transport) *Prober {
	return &Prober{transports: transports}
}

// Timeout returns the probe timeout for a target: twice the expected latency
// budget, floored for TCP-style infrastructure checks.
func Timeout(target *domain.Target) time.Duration {
	timeout := 2 * target.ExpectedLatency
	if target.ProbeKind == domain.ProbeTCP && timeout < tcpTimeoutFloor {
		timeout = tcpTimeoutFloor
	}
	return timeout
}

// Probe runs one health check and classifies the result:
// unreachable or timed out => unhealthy, reachable but over budget => degraded,
// reachable within budget => healthy.
func (p *Prober) Probe(ctx context.Context, target *domain.Target) domain.ProbeResult {
	transport, ok := p.transports[target.ProbeKind]
	if !ok {
		return domain.ProbeResult{
			Status:    domain.StatusUnhealthy,
			Err:       fmt.Sprintf("no transport for probe kind %s", target.ProbeKind),
			CheckedAt: time.Now(),
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, Timeout(target))
	defer cancel()

	start := time.Now()
	detail, err := transport.Check(checkCtx, target.Endpoint)
	elapsed := time.Since(start)

	result := domain.ProbeResult{
		ResponseTime: elapsed,
		Detail:       detail,
		CheckedAt:    time.Now(),
	}

	switch {
	case err != nil:
		result.Status = domain.StatusUnhealthy
		result.Err = err.Error()
	case elapsed > target.ExpectedLatency:
		result.Status = domain.StatusDegraded
		result.Detail = fmt.Sprintf("%s (over %v budget)", detail, target.ExpectedLatency)
	default:
		result.Status = domain.StatusHealthy
	}

	metrics.ProbesTotal.WithLabelValues(string(target.ID), string(result.Status)).Inc()
	metrics.ProbeLatency.WithLabelValues(string(target.ID)).Observe(elapsed.Seconds())

	return result
}
