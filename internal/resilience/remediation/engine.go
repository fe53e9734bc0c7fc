// Package remediation walks a target's ordered corrective actions and
// verifies recovery after each attempt.
package remediation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/infra/actuator"
	"github.com/vietddude/sentinel/internal/resilience/metrics"
)

// Prober re-checks a target to verify whether an action restored it.
type Prober interface {
	Probe(ctx context.Context, target *domain.Target) domain.ProbeResult
}

// Recorder feeds verification probes back into the health tracker.
type Recorder interface {
	RecordResult(id domain.TargetID, res domain.ProbeResult) domain.HealthRecord
}

// Outcome is the result of one engine invocation.
type Outcome int

const (
	// OutcomeSkipped means the cooldown gate suppressed this cycle.
	OutcomeSkipped Outcome = iota
	// OutcomeRecovered means a re-probe came back healthy.
	OutcomeRecovered
	// OutcomeExhausted means every configured action ran without recovery.
	OutcomeExhausted
)

// Config holds the engine tunables.
type Config struct {
	Cooldown     time.Duration
	SettleDelay  time.Duration
	HistoryLimit int
}

// DefaultConfig returns the standard production settings.
func DefaultConfig() Config {
	return Config{
		Cooldown:     60 * time.Second,
		SettleDelay:  5 * time.Second,
		HistoryLimit: 200,
	}
}

// Engine applies a target's remediation actions in declared order, gated by a
// per-target cooldown to prevent remediation storms when a target flaps.
type Engine struct {
	cfg      Config
	prober   Prober
	tracker  Recorder
	actuator actuator.Actuator
	history  *History
	log      *slog.Logger

	mu          sync.Mutex
	lastAttempt map[domain.TargetID]time.Time
}

// NewEngine creates a remediation engine.
func NewEngine(cfg Config, prober Prober, tracker Recorder, act actuator.Actuator) *Engine {
	return &Engine{
		cfg:         cfg,
		prober:      prober,
		tracker:     tracker,
		actuator:    act,
		history:     NewHistory(cfg.HistoryLimit),
		log:         slog.Default(),
		lastAttempt: make(map[domain.TargetID]time.Time),
	}
}

// History exposes the bounded remediation event log.
func (e *Engine) History() *History {
	return e.history
}

// Remediate walks the target's action list. Actions run strictly in declared
// order; execution-call failures are recorded but never abort the walk. A
// healthy verification re-probe stops the walk.
func (e *Engine) Remediate(ctx context.Context, target *domain.Target) Outcome {
	if !e.claim(target.ID) {
		e.log.Debug("Remediation in cooldown, skipping",
			"target", target.ID,
			"cooldown", e.cfg.Cooldown,
		)
		return OutcomeSkipped
	}
	defer e.stamp(target.ID)

	e.log.Info("Starting remediation",
		"target", target.ID,
		"actions", len(target.Actions),
	)

	for _, action := range target.Actions {
		ev := domain.RemediationEvent{
			ID:          uuid.NewString(),
			TargetID:    target.ID,
			Action:      action,
			TriggeredAt: time.Now(),
		}

		err := e.actuator.Execute(ctx, target, action)
		ev.CompletedAt = time.Now()

		if err != nil {
			ev.Detail = err.Error()
			e.history.Append(ev)
			metrics.RemediationsTotal.WithLabelValues(string(target.ID), string(action), "error").Inc()
			e.log.Warn("Remediation action failed to execute",
				"target", target.ID,
				"action", action,
				"error", err,
			)
			continue
		}

		ev.Success = true
		ev.Detail = "executed"
		e.history.Append(ev)
		metrics.RemediationsTotal.WithLabelValues(string(target.ID), string(action), "ok").Inc()

		if !e.settle(ctx) {
			e.log.Info("Remediation interrupted", "target", target.ID)
			return OutcomeSkipped
		}

		res := e.prober.Probe(ctx, target)
		rec := e.tracker.RecordResult(target.ID, res)
		if rec.Status == domain.StatusHealthy {
			e.log.Info("Remediation succeeded",
				"target", target.ID,
				"action", action,
			)
			return OutcomeRecovered
		}

		e.log.Warn("Target still not healthy after action",
			"target", target.ID,
			"action", action,
			"status", rec.Status,
		)
	}

	e.log.Error("Remediation exhausted", "target", target.ID)
	return OutcomeExhausted
}

// claim atomically checks the cooldown and marks an attempt as started so two
// concurrent sweeps cannot remediate the same target at once.
func (e *Engine) claim(id domain.TargetID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if last, ok := e.lastAttempt[id]; ok && time.Since(last) < e.cfg.Cooldown {
		return false
	}
	e.lastAttempt[id] = time.Now()
	return true
}

// stamp records the completion time so the cooldown runs from when the
// attempt finished, not when it started.
func (e *Engine) stamp(id domain.TargetID) {
	e.mu.Lock()
	e.lastAttempt[id] = time.Now()
	e.mu.Unlock()
}

// settle waits the fixed delay between an action and its verification probe.
func (e *Engine) settle(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(e.cfg.SettleDelay):
		return true
	}
}
