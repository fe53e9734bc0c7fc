// Package sweep drives the periodic probe cycles and fans results into the
// tracker, remediation engine and incident manager.
package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/registry"
	"github.com/vietddude/sentinel/internal/resilience/auxiliary"
	"github.com/vietddude/sentinel/internal/resilience/metrics"
	"github.com/vietddude/sentinel/internal/resilience/remediation"
)

// Prober runs one health check.
type Prober interface {
	Probe(ctx context.Context, target *domain.Target) domain.ProbeResult
}

// Tracker records probe results and serves snapshots.
type Tracker interface {
	RecordResult(id domain.TargetID, res domain.ProbeResult) domain.HealthRecord
	Get(id domain.TargetID) (domain.HealthRecord, bool)
	Snapshot() map[domain.TargetID]domain.HealthRecord
}

// Remediator walks a target's corrective actions.
type Remediator interface {
	Remediate(ctx context.Context, target *domain.Target) remediation.Outcome
}

// Incidents is the incident manager surface the coordinator needs.
type Incidents interface {
	CreateOrUpdate(target *domain.Target, rec domain.HealthRecord) *domain.Incident
	ActiveFor(id domain.TargetID) *domain.Incident
	Active() []*domain.Incident
	ResolveForTarget(id domain.TargetID) bool
}

// SummaryEmitter receives the aggregate health summary after each full sweep.
type SummaryEmitter interface {
	EmitSummary(summary domain.SystemSummary)
}

// LogSummaryEmitter writes the summary to the structured log. The per-target
// gauges are already exported by the tracker; this adds the aggregate view.
type LogSummaryEmitter struct{}

// EmitSummary logs the aggregate counts.
func (LogSummaryEmitter) EmitSummary(s domain.SystemSummary) {
	slog.Info("Health summary",
		"overall", s.Overall,
		"healthy", s.Counts[domain.StatusHealthy],
		"degraded", s.Counts[domain.StatusDegraded],
		"unhealthy", s.Counts[domain.StatusUnhealthy],
		"unknown", s.Counts[domain.StatusUnknown],
	)
}

// Config holds the coordinator tunables.
type Config struct {
	FastInterval     time.Duration
	FullInterval     time.Duration
	FailureThreshold int
	ProbeConcurrency int
}

// Coordinator owns the periodic cycles: the fast service sweep, the full
// sweep including infrastructure, and the auxiliary checks. Each cycle type
// skips a tick when its previous run has not completed.
type Coordinator struct {
	cfg       Config
	registry  *registry.Registry
	prober    Prober
	tracker   Tracker
	engine    Remediator
	incidents Incidents
	checks    []auxiliary.Check
	emitter   SummaryEmitter
	log       *slog.Logger

	fastMu sync.Mutex
	fullMu sync.Mutex
}

// New creates a coordinator.
func New(
	cfg Config,
	reg *registry.Registry,
	prober Prober,
	tracker Tracker,
	engine Remediator,
	incidents Incidents,
	checks []auxiliary.Check,
	emitter SummaryEmitter,
) *Coordinator {
	if cfg.ProbeConcurrency <= 0 {
		cfg.ProbeConcurrency = 10
	}
	if emitter == nil {
		emitter = LogSummaryEmitter{}
	}
	return &Coordinator{
		cfg:       cfg,
		registry:  reg,
		prober:    prober,
		tracker:   tracker,
		engine:    engine,
		incidents: incidents,
		checks:    checks,
		emitter:   emitter,
		log:       slog.Default(),
	}
}

// Start launches the periodic cycles. It returns immediately; cycles stop
// when the context is cancelled.
func (c *Coordinator) Start(ctx context.Context) {
	go c.runTicker(ctx, "fast-sweep", c.cfg.FastInterval, c.RunFastSweep)
	go c.runTicker(ctx, "full-sweep", c.cfg.FullInterval, c.RunFullSweep)

	for _, check := range c.checks {
		chk := check
		go c.runTicker(ctx, chk.Name(), chk.Interval(), func(ctx context.Context) {
			c.runCheck(ctx, chk)
		})
	}

	c.log.Info("Schedule coordinator started",
		"fast_interval", c.cfg.FastInterval,
		"full_interval", c.cfg.FullInterval,
		"aux_checks", len(c.checks),
	)
}

func (c *Coordinator) runTicker(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Cycle stopped", "cycle", name)
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// RunFastSweep probes all service targets concurrently.
func (c *Coordinator) RunFastSweep(ctx context.Context) {
	if !c.fastMu.TryLock() {
		metrics.SweepsSkipped.WithLabelValues("fast").Inc()
		c.log.Warn("Fast sweep still running, skipping tick")
		return
	}
	defer c.fastMu.Unlock()

	start := time.Now()
	c.sweepTargets(ctx, c.registry.Services())
	metrics.SweepDuration.WithLabelValues("fast").Observe(time.Since(start).Seconds())
}

// RunFullSweep probes infrastructure first (services depend on it), then the
// services, resolves incidents whose targets recovered, and emits the
// aggregate summary.
func (c *Coordinator) RunFullSweep(ctx context.Context) {
	if !c.fullMu.TryLock() {
		metrics.SweepsSkipped.WithLabelValues("full").Inc()
		c.log.Warn("Full sweep still running, skipping tick")
		return
	}
	defer c.fullMu.Unlock()

	start := time.Now()
	c.sweepTargets(ctx, c.registry.Infrastructure())
	c.RunFastSweep(ctx)
	c.autoResolve()

	summary := domain.Summarize(c.tracker.Snapshot())
	c.emitter.EmitSummary(summary)
	metrics.SweepDuration.WithLabelValues("full").Observe(time.Since(start).Seconds())
}

// sweepTargets fans out one probe per target with bounded concurrency. A
// slow or failing target never blocks evaluation of the others beyond its
// own probe timeout.
func (c *Coordinator) sweepTargets(ctx context.Context, targets []*domain.Target) {
	g := new(errgroup.Group)
	g.SetLimit(c.cfg.ProbeConcurrency)

	for _, target := range targets {
		t := target
		g.Go(func() error {
			res := c.prober.Probe(ctx, t)
			rec := c.tracker.RecordResult(t.ID, res)
			c.evaluate(ctx, t, rec)
			return nil
		})
	}
	_ = g.Wait()
}

// runCheck executes one auxiliary check and routes its observations through
// the same tracker and remediation path as regular probes.
func (c *Coordinator) runCheck(ctx context.Context, check auxiliary.Check) {
	start := time.Now()
	observations := check.Run(ctx)
	metrics.SweepDuration.WithLabelValues(check.Name()).Observe(time.Since(start).Seconds())

	for _, obs := range observations {
		rec := c.tracker.RecordResult(obs.Target, obs.Result)
		target := c.registry.Get(obs.Target)
		if target == nil {
			c.log.Warn("Auxiliary check reported unknown target",
				"check", check.Name(),
				"target", obs.Target,
			)
			continue
		}
		c.evaluate(ctx, target, rec)
	}
}

// evaluate triggers remediation once a target crosses the failure threshold
// and hands exhausted targets to the incident manager.
func (c *Coordinator) evaluate(ctx context.Context, target *domain.Target, rec domain.HealthRecord) {
	if rec.ConsecutiveFailures < c.cfg.FailureThreshold {
		return
	}

	switch c.engine.Remediate(ctx, target) {
	case remediation.OutcomeRecovered:
		// Counter already reset by the verification probe.
	case remediation.OutcomeExhausted:
		latest, _ := c.tracker.Get(target.ID)
		c.incidents.CreateOrUpdate(target, latest)
	case remediation.OutcomeSkipped:
		// Inside cooldown: no new attempt and no new incident, but an
		// already-open incident still gets its updated-at advanced.
		if c.incidents.ActiveFor(target.ID) != nil {
			c.incidents.CreateOrUpdate(target, rec)
		}
	}
}

// autoResolve closes open incidents whose target and dependency chain are
// healthy again.
func (c *Coordinator) autoResolve() {
	for _, inc := range c.incidents.Active() {
		if !c.chainHealthy(inc.TargetID) {
			continue
		}
		if c.incidents.ResolveForTarget(inc.TargetID) {
			c.log.Info("Auto-resolved incident after sustained recovery",
				"incident", inc.ID,
				"target", inc.TargetID,
			)
		}
	}
}

func (c *Coordinator) chainHealthy(id domain.TargetID) bool {
	rec, ok := c.tracker.Get(id)
	if !ok || rec.Status != domain.StatusHealthy {
		return false
	}
	for _, dep := range c.registry.Dependencies(id) {
		depRec, ok := c.tracker.Get(dep.ID)
		if !ok || depRec.Status != domain.StatusHealthy {
			return false
		}
	}
	return true
}
